// Package resource implements the shared asset cache.
//
// Assets (images, sounds, fonts) are loaded once through a pluggable
// loader, deduplicated by canonical path, and handed out as stable
// handles. Templates and scenes share assets through those handles; the
// cache owns the reference counts and frees unreferenced assets only
// when Collect runs.
package resource

import (
	"errors"
	"fmt"
	"image"
)

// Kind tags the asset categories the cache manages.
type Kind uint8

const (
	KindImage Kind = iota
	KindSound
	KindFont
)

// String returns the kind name for logs and errors.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindSound:
		return "sound"
	case KindFont:
		return "font"
	default:
		return "unknown"
	}
}

// Asset is a decoded resource held by the cache.
//
// Data is whatever the loader decoded: image.Image for images,
// *beep.Buffer for sounds, *text.GoTextFaceSource for fonts. Bounds is
// set for images and used to validate template frame rects.
type Asset struct {
	Path   string
	Kind   Kind
	Bounds image.Rectangle
	Data   any
}

// LoaderFunc decodes the asset at path. The cache canonicalizes paths
// and deduplicates; implementations only read and decode.
type LoaderFunc func(path string, kind Kind) (Asset, error)

// Handle is an opaque reference to a cached asset, stable for the
// asset's lifetime. The zero value is invalid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the invalid zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// String formats the handle for logs.
func (h Handle) String() string { return fmt.Sprintf("asset(%d:%d)", h.index, h.gen) }

// ErrNotFound reports a handle that is zero, stale, or was never issued.
var ErrNotFound = errors.New("resource: not found")

// LoadError reports a failed asset load and wraps the loader's error.
type LoadError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the loader error.
func (e *LoadError) Unwrap() error { return e.Err }
