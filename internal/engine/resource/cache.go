package resource

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
)

type entry struct {
	asset Asset
	refs  int
	gen   uint32
	live  bool
}

type cacheKey struct {
	kind Kind
	path string
}

// Cache loads, deduplicates and reference-counts assets.
//
// Release only drops a reference; the asset stays resident until Collect
// frees everything that reached zero. Not safe for concurrent use.
type Cache struct {
	loader  LoaderFunc
	log     *slog.Logger
	entries []entry
	free    []uint32
	byKey   map[cacheKey]Handle
}

// NewCache creates a cache around the given loader.
func NewCache(loader LoaderFunc, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		loader: loader,
		log:    log,
		byKey:  make(map[cacheKey]Handle),
	}
}

// Canonical returns the canonical form of an asset path used as the
// dedup key: slash separated and cleaned.
func Canonical(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

// Load returns a handle for the asset at p, loading it on first use.
// Loading the same canonical path with the same kind returns the same
// handle and adds a reference. Failed loads return a *LoadError and are
// not cached, so the next Load attempts again.
func (c *Cache) Load(p string, kind Kind) (Handle, error) {
	canon := Canonical(p)
	key := cacheKey{kind: kind, path: canon}
	if h, ok := c.byKey[key]; ok {
		c.entries[h.index].refs++
		return h, nil
	}

	asset, err := c.loader(canon, kind)
	if err != nil {
		return Handle{}, &LoadError{Path: canon, Kind: kind, Err: err}
	}
	asset.Path = canon
	asset.Kind = kind

	idx, gen := c.alloc()
	c.entries[idx] = entry{asset: asset, refs: 1, gen: gen, live: true}
	h := Handle{index: idx, gen: gen}
	c.byKey[key] = h
	c.log.Debug("asset loaded", "path", canon, "kind", kind.String())
	return h, nil
}

func (c *Cache) alloc() (uint32, uint32) {
	if n := len(c.free); n > 0 {
		idx := c.free[n-1]
		c.free = c.free[:n-1]
		return idx, c.entries[idx].gen
	}
	c.entries = append(c.entries, entry{gen: 1})
	return uint32(len(c.entries) - 1), 1
}

// Get returns the asset for h. Zero and stale handles fail with
// ErrNotFound.
func (c *Cache) Get(h Handle) (*Asset, error) {
	e := c.lookup(h)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, h)
	}
	return &e.asset, nil
}

func (c *Cache) lookup(h Handle) *entry {
	if h.IsZero() || int(h.index) >= len(c.entries) {
		return nil
	}
	e := &c.entries[h.index]
	if !e.live || e.gen != h.gen {
		return nil
	}
	return e
}

// Retain adds a reference to h, keeping the asset across Collect.
func (c *Cache) Retain(h Handle) error {
	e := c.lookup(h)
	if e == nil {
		return fmt.Errorf("%w: retain of %s", ErrNotFound, h)
	}
	e.refs++
	return nil
}

// Release drops a reference. The asset stays resident until Collect.
// Releasing a stale handle or an already unreferenced asset is logged
// and otherwise ignored.
func (c *Cache) Release(h Handle) {
	e := c.lookup(h)
	if e == nil {
		c.log.Warn("release of invalid handle", "handle", h.String())
		return
	}
	if e.refs == 0 {
		c.log.Warn("release of unreferenced asset", "path", e.asset.Path)
		return
	}
	e.refs--
}

// Collect frees every asset whose reference count reached zero and
// returns how many were freed. Handles to freed assets become stale.
func (c *Cache) Collect() int {
	freed := 0
	for i := range c.entries {
		e := &c.entries[i]
		if !e.live || e.refs > 0 {
			continue
		}
		c.evict(uint32(i), e)
		freed++
	}
	if freed > 0 {
		c.log.Debug("collected assets", "count", freed)
	}
	return freed
}

// Clear frees everything regardless of reference counts. Meant for
// shutdown; every outstanding handle becomes stale.
func (c *Cache) Clear() {
	for i := range c.entries {
		e := &c.entries[i]
		if !e.live {
			continue
		}
		if e.refs > 0 {
			c.log.Warn("clearing asset with live references",
				"path", e.asset.Path, "refs", e.refs)
		}
		c.evict(uint32(i), e)
	}
}

func (c *Cache) evict(idx uint32, e *entry) {
	delete(c.byKey, cacheKey{kind: e.asset.Kind, path: e.asset.Path})
	e.asset = Asset{}
	e.live = false
	e.gen++
	c.free = append(c.free, idx)
}

// Len reports the number of resident assets.
func (c *Cache) Len() int {
	n := 0
	for i := range c.entries {
		if c.entries[i].live {
			n++
		}
	}
	return n
}

// Refs reports the current reference count for h. Stale handles report
// zero.
func (c *Cache) Refs(h Handle) int {
	if e := c.lookup(h); e != nil {
		return e.refs
	}
	return 0
}
