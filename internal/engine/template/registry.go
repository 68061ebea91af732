// Package template implements the named sprite template registry.
//
// A template binds an image asset to frame geometry and timing. Once
// registered a template is immutable and shared by every entity spawned
// from it; the registry keeps the backing asset retained for as long as
// the template exists. Reload swaps a definition in place for hot
// reloading without breaking live entities.
package template

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/nightfore/nf/internal/engine/resource"
)

var (
	// ErrUnknown reports a name or id that was never registered.
	ErrUnknown = errors.New("template: unknown")
	// ErrInvalid reports a definition that failed validation.
	ErrInvalid = errors.New("template: invalid definition")
	// ErrDuplicate reports a second Register under an existing name.
	ErrDuplicate = errors.New("template: duplicate name")
)

// ID identifies a registered template. IDs are stable across Reload; the
// zero value is invalid.
type ID int32

// Definition describes a template to register.
type Definition struct {
	// Source is the image asset the frames are cut from.
	Source resource.Handle
	// Frames are sub-rectangles of Source, in playback order.
	Frames []image.Rectangle
	// Durations holds one entry per frame. A zero duration means the
	// frame advances instantly.
	Durations []time.Duration
	// Loop wraps playback to frame zero instead of finishing.
	Loop bool
}

// Template is an immutable registered definition.
type Template struct {
	ID        ID
	Name      string
	Source    resource.Handle
	Frames    []image.Rectangle
	Durations []time.Duration
	Loop      bool
}

// Registry maps template names to immutable templates.
//
// Not safe for concurrent use.
type Registry struct {
	cache  *resource.Cache
	log    *slog.Logger
	byName map[string]ID
	list   []*Template
}

// NewRegistry creates an empty registry backed by the asset cache.
func NewRegistry(cache *resource.Cache, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		cache:  cache,
		log:    log,
		byName: make(map[string]ID),
	}
}

// Register validates def and stores it under name. The source asset is
// retained until the template is replaced or the registry is cleared.
// Registering an existing name fails with ErrDuplicate; use Reload to
// replace a definition.
func (r *Registry) Register(name string, def Definition) (ID, error) {
	if _, ok := r.byName[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	return r.insert(name, 0, def)
}

// Reload behaves like Register for a new name. For an existing name the
// definition is replaced in place: the template keeps its ID, entities
// referencing it pick up the new frames on their next read, and the old
// source reference is released.
func (r *Registry) Reload(name string, def Definition) (ID, error) {
	return r.insert(name, r.byName[name], def)
}

func (r *Registry) insert(name string, id ID, def Definition) (ID, error) {
	tpl, err := r.build(name, def)
	if err != nil {
		return 0, err
	}
	if err := r.cache.Retain(def.Source); err != nil {
		return 0, fmt.Errorf("%w: %q: source: %v", ErrInvalid, name, err)
	}

	if id == 0 {
		r.list = append(r.list, tpl)
		id = ID(len(r.list))
		tpl.ID = id
		r.byName[name] = id
		r.log.Debug("template registered", "name", name, "id", int(id), "frames", len(tpl.Frames))
		return id, nil
	}

	old := r.list[id-1]
	tpl.ID = id
	r.list[id-1] = tpl
	r.cache.Release(old.Source)
	r.log.Info("template reloaded", "name", name, "id", int(id))
	return id, nil
}

func (r *Registry) build(name string, def Definition) (*Template, error) {
	asset, err := r.cache.Get(def.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: source: %v", ErrInvalid, name, err)
	}
	if asset.Kind != resource.KindImage {
		return nil, fmt.Errorf("%w: %q: source is a %s, want an image", ErrInvalid, name, asset.Kind)
	}
	if len(def.Frames) == 0 {
		return nil, fmt.Errorf("%w: %q: no frames", ErrInvalid, name)
	}
	if len(def.Durations) != len(def.Frames) {
		return nil, fmt.Errorf("%w: %q: %d durations for %d frames",
			ErrInvalid, name, len(def.Durations), len(def.Frames))
	}
	for i, d := range def.Durations {
		if d < 0 {
			return nil, fmt.Errorf("%w: %q: frame %d has negative duration", ErrInvalid, name, i)
		}
	}
	for i, fr := range def.Frames {
		if fr.Empty() || !fr.In(asset.Bounds) {
			return nil, fmt.Errorf("%w: %q: frame %d rect %v outside asset bounds %v",
				ErrInvalid, name, i, fr, asset.Bounds)
		}
	}
	return &Template{
		Name:      name,
		Source:    def.Source,
		Frames:    append([]image.Rectangle(nil), def.Frames...),
		Durations: append([]time.Duration(nil), def.Durations...),
		Loop:      def.Loop,
	}, nil
}

// Resolve returns the id registered under name.
func (r *Registry) Resolve(name string) (ID, error) {
	id, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return id, nil
}

// Get returns the template for id.
func (r *Registry) Get(id ID) (*Template, error) {
	if id <= 0 || int(id) > len(r.list) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknown, int(id))
	}
	return r.list[id-1], nil
}

// Len reports the number of registered templates.
func (r *Registry) Len() int { return len(r.list) }

// Clear drops every template and releases their source assets.
func (r *Registry) Clear() {
	for _, tpl := range r.list {
		r.cache.Release(tpl.Source)
	}
	r.list = nil
	r.byName = make(map[string]ID)
}
