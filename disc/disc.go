// Package disc models the items a trigger can play and decides which count as video content
package disc

import (
	"slices"

	"github.com/lixenwraith/holodisc/config"
)

// MaterialBlocks is the record material the video disc is built on
const MaterialBlocks = "music_disc_blocks"

// TagVideoDisc marks items created by New
const TagVideoDisc = "holodisc:music_disc"

// Item is the subset of an inventory item the predicate inspects
type Item struct {
	Material string   `json:"material"`
	Name     string   `json:"name,omitempty"`
	Lore     []string `json:"lore,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func (i *Item) HasTag(tag string) bool {
	return i != nil && slices.Contains(i.Tags, tag)
}

// New creates the tagged video disc described by cfg
func New(cfg config.DiscConfig) *Item {
	return &Item{
		Material: MaterialBlocks,
		Name:     cfg.Name,
		Lore:     slices.Clone(cfg.Lore),
		Tags:     []string{TagVideoDisc},
	}
}

// Regular returns an untagged record of the same material
func Regular() *Item {
	return &Item{Material: MaterialBlocks}
}

// Predicate decides whether an item counts as playable content
type Predicate struct {
	UseCustomDisc bool
	AcceptRegular bool
}

func PredicateFromConfig(cfg *config.Config) Predicate {
	return Predicate{
		UseCustomDisc: cfg.Disc.UseCustomDisc,
		AcceptRegular: cfg.Dropper.AcceptRegular,
	}
}

// Accepts reports whether item plays video
// Only the base material qualifies; with custom discs enabled an untagged record
// needs AcceptRegular
func (p Predicate) Accepts(item *Item) bool {
	if item == nil || item.Material != MaterialBlocks {
		return false
	}
	if !p.UseCustomDisc || p.AcceptRegular {
		return true
	}
	return item.HasTag(TagVideoDisc)
}
