package asset

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightfore/nf/internal/engine/resource"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

// wavBytes builds a minimal PCM wav: 16-bit mono, 44100 Hz.
func wavBytes(t *testing.T, samples int) []byte {
	t.Helper()
	dataLen := uint32(samples * 2)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(44100))
	binary.Write(&buf, binary.LittleEndian, uint32(44100*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	for i := 0; i < samples; i++ {
		binary.Write(&buf, binary.LittleEndian, int16(i*64))
	}
	return buf.Bytes()
}

func TestLoaderDecodesPNG(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"sprites/ball.png": &fstest.MapFile{Data: pngBytes(t, 32, 16)},
	})

	asset, err := loader("sprites/ball.png", resource.KindImage)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 32, 16), asset.Bounds)
	img, ok := asset.Data.(image.Image)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
}

func TestLoaderDecodesJPEG(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"photos/bg.jpg": &fstest.MapFile{Data: jpegBytes(t, 8, 8)},
	})

	asset, err := loader("photos/bg.jpg", resource.KindImage)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), asset.Bounds)
}

func TestLoaderDecodesWAV(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"sounds/pop.wav": &fstest.MapFile{Data: wavBytes(t, 128)},
	})

	asset, err := loader("sounds/pop.wav", resource.KindSound)
	require.NoError(t, err)

	buf, ok := asset.Data.(*beep.Buffer)
	require.True(t, ok)
	assert.Equal(t, 128, buf.Len())
	assert.Equal(t, beep.SampleRate(44100), buf.Format().SampleRate)
}

func TestLoaderRejectsUnknownSoundFormat(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"sounds/pop.ogg": &fstest.MapFile{Data: []byte("whatever")},
	})

	_, err := loader("sounds/pop.ogg", resource.KindSound)
	assert.ErrorContains(t, err, "unsupported sound format")
}

func TestLoaderRejectsGarbageImage(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"sprites/ball.png": &fstest.MapFile{Data: []byte("not an image")},
	})

	_, err := loader("sprites/ball.png", resource.KindImage)
	assert.ErrorContains(t, err, "decode image")
}

func TestLoaderRejectsGarbageFont(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"fonts/main.ttf": &fstest.MapFile{Data: []byte("not a font")},
	})

	_, err := loader("fonts/main.ttf", resource.KindFont)
	assert.ErrorContains(t, err, "decode font")
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(fstest.MapFS{})

	_, err := loader("sprites/ball.png", resource.KindImage)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoaderThroughCache(t *testing.T) {
	fsys := fstest.MapFS{
		"sprites/ball.png": &fstest.MapFile{Data: pngBytes(t, 16, 16)},
	}
	cache := resource.NewCache(NewLoader(fsys), nil)

	h, err := cache.Load("sprites/ball.png", resource.KindImage)
	require.NoError(t, err)

	asset, err := cache.Get(h)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), asset.Bounds)

	_, err = cache.Load("sprites/ghost.png", resource.KindImage)
	var loadErr *resource.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
