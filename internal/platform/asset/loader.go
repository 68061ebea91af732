// Package asset decodes files into engine assets: images, sounds and
// fonts. It is the production resource.LoaderFunc; the engine cache does
// not care where bytes come from, only this package does.
package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"path"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/nightfore/nf/internal/engine/resource"
)

// NewLoader returns a loader that reads assets from fsys. Supported
// formats: png and jpeg images, wav and mp3 sounds (decoded fully into
// memory), ttf and otf fonts.
func NewLoader(fsys fs.FS) resource.LoaderFunc {
	return func(p string, kind resource.Kind) (resource.Asset, error) {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return resource.Asset{}, err
		}
		switch kind {
		case resource.KindImage:
			return decodeImage(data)
		case resource.KindSound:
			return decodeSound(p, data)
		case resource.KindFont:
			return decodeFont(data)
		default:
			return resource.Asset{}, fmt.Errorf("unsupported asset kind %s", kind)
		}
	}
}

func decodeImage(data []byte) (resource.Asset, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return resource.Asset{}, fmt.Errorf("decode image: %w", err)
	}
	return resource.Asset{Bounds: img.Bounds(), Data: img}, nil
}

// decodeSound reads the whole stream into a beep buffer once, so
// playback never touches the filesystem.
func decodeSound(p string, data []byte) (resource.Asset, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch ext := path.Ext(p); ext {
	case ".wav":
		streamer, format, err = wav.Decode(bytes.NewReader(data))
	case ".mp3":
		streamer, format, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	default:
		return resource.Asset{}, fmt.Errorf("unsupported sound format %q", ext)
	}
	if err != nil {
		return resource.Asset{}, fmt.Errorf("decode sound: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return resource.Asset{Data: buf}, nil
}

func decodeFont(data []byte) (resource.Asset, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return resource.Asset{}, fmt.Errorf("decode font: %w", err)
	}
	return resource.Asset{Data: src}, nil
}
