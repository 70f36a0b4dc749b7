// Package trigger turns host block events into delayed session begin and end checks
package trigger

import (
	"log"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/disc"
	"github.com/lixenwraith/holodisc/engine"
	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/session"
)

// Handlers react to host events; all calls happen on the tick goroutine
// The host applies the event to its own state; each handler re-checks that
// state SettleDelayTicks later
type Handlers struct {
	driver        *engine.Driver
	query         engine.TriggerQuery
	detectDropper bool
	logger        *log.Logger
}

func New(driver *engine.Driver, query engine.TriggerQuery, cfg *config.Config, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{
		driver:        driver,
		query:         query,
		detectDropper: cfg.Dropper.DetectInsertion,
		logger:        logger,
	}
}

// Apply picks up reloaded settings
func (h *Handlers) Apply(cfg *config.Config) {
	h.detectDropper = cfg.Dropper.DetectInsertion
}

// playing reports whether the trigger at loc currently plays accepted content
func (h *Handlers) playing(loc session.Location) bool {
	state, ok := h.query.Trigger(loc)
	return ok && state.Playing && h.driver.Predicate().Accepts(state.Record)
}

func (h *Handlers) begin(loc session.Location) {
	if err := h.driver.Begin(loc); err != nil {
		h.logger.Printf("Cannot start video: %v", err)
	}
}

// Interact handles a use of the trigger at loc with held in hand
// Holding playable content means an insertion: begin once it is playing
// Anything else means an ejection: end once it stopped playing
func (h *Handlers) Interact(loc session.Location, held *disc.Item) {
	if h.driver.Predicate().Accepts(held) {
		h.driver.After(parameter.SettleDelayTicks, func() {
			if h.playing(loc) {
				h.begin(loc)
			}
		})
		return
	}

	h.driver.After(parameter.SettleDelayTicks, func() {
		if !h.playing(loc) {
			h.driver.End(loc, engine.ReasonRemoved)
		}
	})
}

// Break handles destruction of the trigger at loc; ends immediately
func (h *Handlers) Break(loc session.Location) {
	h.driver.End(loc, engine.ReasonRemoved)
}

// InventoryMove handles item being moved into the trigger at loc by automation
func (h *Handlers) InventoryMove(loc session.Location, item *disc.Item, fromDropper bool) {
	if !h.detectDropper || !fromDropper || !h.driver.Predicate().Accepts(item) {
		return
	}
	h.driver.After(parameter.SettleDelayTicks, func() {
		if !h.playing(loc) {
			return
		}
		h.begin(loc)
		if h.driver.Active(loc) {
			h.logger.Printf("Dropper inserted video disc at %s", loc)
		}
	})
}
