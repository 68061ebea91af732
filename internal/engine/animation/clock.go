// Package animation advances per-entity frame state once per tick.
package animation

import (
	"log/slog"
	"time"

	"github.com/nightfore/nf/internal/engine/entity"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/template"
)

// EventFinished is published exactly once when a non-looping animation
// reaches the end of its final frame.
const EventFinished event.Kind = "animation.finished"

// FinishedPayload accompanies EventFinished.
type FinishedPayload struct {
	Entity   entity.ID
	Template template.ID
}

// maxAdvances bounds frame steps per entity per call, so a looping
// template made of zero-duration frames cannot spin forever.
const maxAdvances = 64

// Clock drives animation for every live entity.
type Clock struct {
	store     *entity.Store
	templates *template.Registry
	bus       *event.Bus
	log       *slog.Logger
}

// NewClock creates a clock over the store and registry.
func NewClock(store *entity.Store, templates *template.Registry, bus *event.Bus, log *slog.Logger) *Clock {
	if log == nil {
		log = slog.Default()
	}
	return &Clock{
		store:     store,
		templates: templates,
		bus:       bus,
		log:       log,
	}
}

// Advance accumulates dt into every live entity and steps frames whose
// duration has elapsed. Looping templates wrap to frame zero; finite
// ones clamp on the last frame, set Finished and publish EventFinished.
// Finished entities are left untouched.
func (c *Clock) Advance(dt time.Duration) {
	c.store.ForEachAlive(func(e *entity.Entity) {
		if e.Finished {
			return
		}
		tpl, err := c.templates.Get(e.Template)
		if err != nil {
			c.log.Warn("animating entity with unknown template", "entity", e.ID.String(), "err", err)
			return
		}
		e.Elapsed += dt
		c.step(e, tpl)
	})
}

func (c *Clock) step(e *entity.Entity, tpl *template.Template) {
	for n := 0; n < maxAdvances; n++ {
		if e.Frame >= len(tpl.Frames) {
			// Template shrank under a live entity (hot reload).
			e.Frame = len(tpl.Frames) - 1
		}
		d := tpl.Durations[e.Frame]
		if d > 0 {
			if e.Elapsed < d {
				return
			}
			e.Elapsed -= d
		}
		// A zero duration advances instantly.

		if e.Frame+1 < len(tpl.Frames) {
			e.Frame++
			continue
		}
		if tpl.Loop {
			e.Frame = 0
			continue
		}
		e.Finished = true
		e.Elapsed = 0
		c.bus.Publish(event.Event{
			Kind:    EventFinished,
			Payload: FinishedPayload{Entity: e.ID, Template: tpl.ID},
		})
		return
	}
	// Budget exhausted (all-zero durations on a loop). Drop the
	// remainder so the next tick starts fresh.
	e.Elapsed = 0
}
