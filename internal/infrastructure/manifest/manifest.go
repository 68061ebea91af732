// Package manifest loads the YAML asset manifest and applies it: assets
// into the resource cache, sprite templates into the registry. After
// Apply everything is addressable by name.
package manifest

import (
	"fmt"
	"image"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/template"
)

// Manifest mirrors the YAML document.
type Manifest struct {
	Version   string          `yaml:"version"`
	Images    []AssetEntry    `yaml:"images"`
	Sounds    []AssetEntry    `yaml:"sounds"`
	Fonts     []AssetEntry    `yaml:"fonts"`
	Templates []TemplateEntry `yaml:"templates"`
}

// AssetEntry names one loadable asset.
type AssetEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// TemplateEntry describes one sprite template. Frames come either from
// an explicit [x, y, w, h] list or from a sprite-sheet grid (frame size,
// count, row). DurationMs applies to every frame unless DurationsMs
// lists them individually.
type TemplateEntry struct {
	Name        string  `yaml:"name"`
	Image       string  `yaml:"image"`
	Frames      [][]int `yaml:"frames"`
	FrameWidth  int     `yaml:"frameWidth"`
	FrameHeight int     `yaml:"frameHeight"`
	Count       int     `yaml:"count"`
	Row         int     `yaml:"row"`
	DurationMs  int     `yaml:"durationMs"`
	DurationsMs []int   `yaml:"durationsMs"`
	Loop        bool    `yaml:"loop"`
}

// Index is the name directory produced by Apply.
type Index struct {
	Images    map[string]resource.Handle
	Sounds    map[string]resource.Handle
	Fonts     map[string]resource.Handle
	Templates map[string]template.ID
}

// NewIndex returns an empty index. Tests and tools that register assets
// by hand start from this.
func NewIndex() *Index {
	return &Index{
		Images:    make(map[string]resource.Handle),
		Sounds:    make(map[string]resource.Handle),
		Fonts:     make(map[string]resource.Handle),
		Templates: make(map[string]template.ID),
	}
}

// Load parses the manifest at name inside fsys.
func Load(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &m, nil
}

// Apply loads every asset and registers every template. The first error
// aborts: a broken manifest is a configuration bug, not a runtime
// condition to limp past.
func Apply(m *Manifest, cache *resource.Cache, reg *template.Registry) (*Index, error) {
	idx := NewIndex()
	if err := applyAssets(cache, m.Images, resource.KindImage, idx.Images); err != nil {
		return nil, err
	}
	if err := applyAssets(cache, m.Sounds, resource.KindSound, idx.Sounds); err != nil {
		return nil, err
	}
	if err := applyAssets(cache, m.Fonts, resource.KindFont, idx.Fonts); err != nil {
		return nil, err
	}
	for _, t := range m.Templates {
		id, err := applyTemplate(reg, idx, t)
		if err != nil {
			return nil, err
		}
		idx.Templates[t.Name] = id
	}
	return idx, nil
}

func applyAssets(cache *resource.Cache, entries []AssetEntry, kind resource.Kind, out map[string]resource.Handle) error {
	for _, e := range entries {
		if e.Name == "" || e.Path == "" {
			return fmt.Errorf("manifest: %s entry needs name and path, got %q %q", kind, e.Name, e.Path)
		}
		if _, dup := out[e.Name]; dup {
			return fmt.Errorf("manifest: duplicate %s name %q", kind, e.Name)
		}
		h, err := cache.Load(e.Path, kind)
		if err != nil {
			return fmt.Errorf("manifest: %s %q: %w", kind, e.Name, err)
		}
		out[e.Name] = h
	}
	return nil
}

func applyTemplate(reg *template.Registry, idx *Index, t TemplateEntry) (template.ID, error) {
	src, ok := idx.Images[t.Image]
	if !ok {
		return 0, fmt.Errorf("manifest: template %q references unknown image %q", t.Name, t.Image)
	}
	frames, err := expandFrames(t)
	if err != nil {
		return 0, err
	}
	durations, err := expandDurations(t, len(frames))
	if err != nil {
		return 0, err
	}
	id, err := reg.Register(t.Name, template.Definition{
		Source:    src,
		Frames:    frames,
		Durations: durations,
		Loop:      t.Loop,
	})
	if err != nil {
		return 0, fmt.Errorf("manifest: template %q: %w", t.Name, err)
	}
	return id, nil
}

func expandFrames(t TemplateEntry) ([]image.Rectangle, error) {
	if len(t.Frames) > 0 {
		frames := make([]image.Rectangle, len(t.Frames))
		for i, f := range t.Frames {
			if len(f) != 4 {
				return nil, fmt.Errorf("manifest: template %q frame %d needs [x, y, w, h]", t.Name, i)
			}
			frames[i] = image.Rect(f[0], f[1], f[0]+f[2], f[1]+f[3])
		}
		return frames, nil
	}
	if t.FrameWidth <= 0 || t.FrameHeight <= 0 || t.Count <= 0 {
		return nil, fmt.Errorf("manifest: template %q needs explicit frames or a grid (frameWidth, frameHeight, count)", t.Name)
	}
	frames := make([]image.Rectangle, t.Count)
	y := t.Row * t.FrameHeight
	for i := 0; i < t.Count; i++ {
		x := i * t.FrameWidth
		frames[i] = image.Rect(x, y, x+t.FrameWidth, y+t.FrameHeight)
	}
	return frames, nil
}

func expandDurations(t TemplateEntry, frames int) ([]time.Duration, error) {
	if len(t.DurationsMs) > 0 {
		if len(t.DurationsMs) != frames {
			return nil, fmt.Errorf("manifest: template %q lists %d durations for %d frames",
				t.Name, len(t.DurationsMs), frames)
		}
		ds := make([]time.Duration, frames)
		for i, msec := range t.DurationsMs {
			ds[i] = time.Duration(msec) * time.Millisecond
		}
		return ds, nil
	}
	ds := make([]time.Duration, frames)
	for i := range ds {
		ds[i] = time.Duration(t.DurationMs) * time.Millisecond
	}
	return ds, nil
}
