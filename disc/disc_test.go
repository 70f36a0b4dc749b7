package disc

import (
	"testing"

	"github.com/lixenwraith/holodisc/config"
)

// TestPredicateAccepts covers every predicate mode against each item class
func TestPredicateAccepts(t *testing.T) {
	custom := New(config.Default().Disc)
	regular := Regular()
	other := &Item{Material: "music_disc_cat"}
	forged := &Item{Material: "stick", Tags: []string{TagVideoDisc}}

	tests := []struct {
		name    string
		pred    Predicate
		item    *Item
		accepts bool
	}{
		{"custom only: tagged", Predicate{UseCustomDisc: true}, custom, true},
		{"custom only: regular", Predicate{UseCustomDisc: true}, regular, false},
		{"custom+regular: regular", Predicate{UseCustomDisc: true, AcceptRegular: true}, regular, true},
		{"no custom: regular", Predicate{}, regular, true},
		{"no custom: tagged", Predicate{}, custom, true},
		{"other record", Predicate{AcceptRegular: true}, other, false},
		{"tag on wrong material", Predicate{UseCustomDisc: true}, forged, false},
		{"nil item", Predicate{AcceptRegular: true}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.Accepts(tt.item); got != tt.accepts {
				t.Errorf("Accepts = %v, expected %v", got, tt.accepts)
			}
		})
	}
}

// TestNewDisc verifies the custom disc carries config name, lore and tag
func TestNewDisc(t *testing.T) {
	cfg := config.Default()
	item := New(cfg.Disc)
	if item.Name != "Video Music Disc" || len(item.Lore) != 3 || !item.HasTag(TagVideoDisc) {
		t.Errorf("Unexpected disc %+v", item)
	}

	item.Lore[0] = "changed"
	if cfg.Disc.Lore[0] == "changed" {
		t.Error("Expected lore copied from config")
	}

	p := PredicateFromConfig(cfg)
	if !p.UseCustomDisc || !p.AcceptRegular {
		t.Errorf("Unexpected predicate from defaults %+v", p)
	}
}
