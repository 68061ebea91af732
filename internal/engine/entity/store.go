// Package entity implements the live entity arena.
//
// Entities are spawned from templates and addressed by generational ids.
// Removal happens in two steps: Despawn marks, Flush (run by the loop
// once per tick) frees. The mark keeps an entity addressable for the
// rest of its tick, so event handlers never race slot reuse.
package entity

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/template"
)

// ErrNotFound reports an id that was never issued or has been flushed.
var ErrNotFound = errors.New("entity: not found")

// ID identifies an entity. An id combines an arena index with a
// generation, so the next occupant of a recycled slot never aliases an
// old id. The zero value is invalid.
type ID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the invalid zero id.
func (id ID) IsZero() bool { return id.gen == 0 }

// String formats the id for logs.
func (id ID) String() string { return fmt.Sprintf("entity(%d:%d)", id.index, id.gen) }

// Position is a world-space point.
type Position struct {
	X, Y float64
}

// Tags is a set of free-form labels attached to an entity.
type Tags map[string]struct{}

// Add inserts a tag.
func (t Tags) Add(tag string) { t[tag] = struct{}{} }

// Remove deletes a tag.
func (t Tags) Remove(tag string) { delete(t, tag) }

// Has reports whether tag is set.
func (t Tags) Has(tag string) bool {
	_, ok := t[tag]
	return ok
}

// Entity is one live game object. Scenes mutate Pos and Tags freely
// between ticks; the animation clock owns Frame, Elapsed and Finished.
type Entity struct {
	ID       ID
	Template template.ID
	Pos      Position
	// Frame indexes the current template frame.
	Frame int
	// Elapsed is the time accumulated in the current frame.
	Elapsed time.Duration
	// Finished marks a non-looping animation that reached its end.
	Finished bool
	Tags     Tags

	alive bool
}

// Alive reports whether the entity is live, i.e. not marked by Despawn.
func (e *Entity) Alive() bool { return e.alive }

// ResetAnimation rewinds animation state, typically after switching
// Template.
func (e *Entity) ResetAnimation() {
	e.Frame = 0
	e.Elapsed = 0
	e.Finished = false
}

type slot struct {
	e    Entity
	gen  uint32
	used bool
	subs []event.SubscriptionID
}

// Store owns every live entity.
//
// Not safe for concurrent use; all access happens inside the tick.
type Store struct {
	templates *template.Registry
	bus       *event.Bus
	log       *slog.Logger
	slots     []slot
	free      []uint32
	marked    []uint32
	scratch   []ID
}

// NewStore creates an empty store. Spawns are validated against the
// registry; entity subscriptions are released through the bus at flush.
func NewStore(templates *template.Registry, bus *event.Bus, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		templates: templates,
		bus:       bus,
		log:       log,
	}
}

// Spawn creates a live entity at pos from the given template.
func (s *Store) Spawn(tid template.ID, pos Position) (ID, error) {
	if _, err := s.templates.Get(tid); err != nil {
		return ID{}, fmt.Errorf("spawn: %w", err)
	}

	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{})
		idx = uint32(len(s.slots) - 1)
	}

	sl := &s.slots[idx]
	sl.gen++
	sl.used = true
	sl.e = Entity{
		ID:       ID{index: idx, gen: sl.gen},
		Template: tid,
		Pos:      pos,
		Tags:     make(Tags),
		alive:    true,
	}
	return sl.e.ID, nil
}

// Despawn marks the entity dead. It stays addressable through Get until
// the next Flush. Unknown ids are logged and ignored; marking twice is a
// no-op.
func (s *Store) Despawn(id ID) {
	sl := s.lookup(id)
	if sl == nil {
		s.log.Warn("despawn of invalid id", "id", id.String())
		return
	}
	if !sl.e.alive {
		return
	}
	sl.e.alive = false
	s.marked = append(s.marked, id.index)
}

// Get returns the entity for id. A despawned entity is still returned
// until Flush removes it; check Alive to tell the two apart.
func (s *Store) Get(id ID) (*Entity, error) {
	sl := s.lookup(id)
	if sl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &sl.e, nil
}

func (s *Store) lookup(id ID) *slot {
	if id.IsZero() || int(id.index) >= len(s.slots) {
		return nil
	}
	sl := &s.slots[id.index]
	if !sl.used || sl.gen != id.gen {
		return nil
	}
	return sl
}

// ForEachAlive visits every live entity. The visit set is snapshotted
// when the call starts: entities spawned during iteration are not
// visited, entities despawned during iteration are skipped from that
// point on.
func (s *Store) ForEachAlive(fn func(*Entity)) {
	s.scratch = s.scratch[:0]
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.used && sl.e.alive {
			s.scratch = append(s.scratch, sl.e.ID)
		}
	}
	for _, id := range s.scratch {
		if sl := s.lookup(id); sl != nil && sl.e.alive {
			fn(&sl.e)
		}
	}
}

// Subscribe attaches a bus subscription to the entity; it is released
// automatically when the entity is flushed.
func (s *Store) Subscribe(id ID, kind event.Kind, fn func(event.Event)) (event.SubscriptionID, error) {
	sl := s.lookup(id)
	if sl == nil {
		return 0, fmt.Errorf("%w: subscribe on %s", ErrNotFound, id)
	}
	sub := s.bus.Subscribe(kind, fn)
	sl.subs = append(sl.subs, sub)
	return sub, nil
}

// Flush frees every entity marked since the last call, releasing their
// subscriptions and recycling their slots, and returns the number freed.
// Only the loop calls this, once per tick, after all handlers have run;
// calling it from an event handler or a ForEachAlive visit would pull
// slots out from under the iteration.
func (s *Store) Flush() int {
	if len(s.marked) == 0 {
		return 0
	}
	freed := 0
	for _, idx := range s.marked {
		sl := &s.slots[idx]
		if !sl.used || sl.e.alive {
			continue
		}
		for _, sub := range sl.subs {
			s.bus.Unsubscribe(sub)
		}
		sl.subs = sl.subs[:0]
		sl.used = false
		sl.e = Entity{}
		s.free = append(s.free, idx)
		freed++
	}
	s.marked = s.marked[:0]
	if freed > 0 {
		s.log.Debug("flushed entities", "count", freed)
	}
	return freed
}

// Len reports the number of live entities, excluding marked ones.
func (s *Store) Len() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].used && s.slots[i].e.alive {
			n++
		}
	}
	return n
}
