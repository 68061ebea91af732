// Package graphics replays the engine's draw commands onto an ebiten
// screen. It uploads image assets to the GPU on first use and keeps the
// textures until Invalidate.
package graphics

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
)

// Renderer consumes the loop's command queue and draws it each frame.
type Renderer struct {
	cache      *resource.Cache
	log        *slog.Logger
	background color.RGBA
	uploads    map[resource.Handle]*ebiten.Image
	fonts      map[resource.Handle]*text.GoTextFaceSource
	cmds       []render.Command
}

// NewRenderer creates a renderer over the given cache. The background
// color fills the screen before each frame.
func NewRenderer(cache *resource.Cache, background color.RGBA, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{
		cache:      cache,
		log:        log,
		background: background,
		uploads:    make(map[resource.Handle]*ebiten.Image),
		fonts:      make(map[resource.Handle]*text.GoTextFaceSource),
	}
}

// Render stores a copy of the commands for the next Draw. The loop owns
// and reuses the source slice.
func (r *Renderer) Render(cmds []render.Command) error {
	r.cmds = append(r.cmds[:0], cmds...)
	return nil
}

// Draw fills the background and replays the stored commands in order.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(r.background)
	for _, c := range r.cmds {
		switch c.Op {
		case render.OpRect:
			ebitenutil.DrawRect(screen, c.X, c.Y, c.W, c.H, c.Color)
		case render.OpSprite:
			r.drawSprite(screen, c)
		case render.OpText:
			r.drawText(screen, c)
		}
	}
}

// Invalidate drops every uploaded texture and cached font. Call it after
// assets are released or reloaded so stale pixels are not drawn.
func (r *Renderer) Invalidate() {
	for _, img := range r.uploads {
		if img != nil {
			img.Deallocate()
		}
	}
	clear(r.uploads)
	clear(r.fonts)
}

func (r *Renderer) drawSprite(screen *ebiten.Image, c render.Command) {
	img := r.upload(c.Image)
	if img == nil {
		return
	}
	frame := img
	if !c.Src.Empty() {
		frame = img.SubImage(c.Src).(*ebiten.Image)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(c.X, c.Y)
	screen.DrawImage(frame, op)
}

func (r *Renderer) drawText(screen *ebiten.Image, c render.Command) {
	src := r.fontSource(c.Font)
	if src == nil {
		ebitenutil.DebugPrintAt(screen, c.Text, int(c.X), int(c.Y))
		return
	}
	face := &text.GoTextFace{Source: src, Size: c.Size}
	op := &text.DrawOptions{}
	op.GeoM.Translate(c.X, c.Y)
	op.ColorScale.ScaleWithColor(c.Color)
	text.Draw(screen, c.Text, face, op)
}

// upload returns the texture for an image asset, creating it on first
// use. Stale handles draw nothing and warn once.
func (r *Renderer) upload(h resource.Handle) *ebiten.Image {
	if img, ok := r.uploads[h]; ok {
		return img
	}
	asset, err := r.cache.Get(h)
	if err != nil {
		r.log.Warn("draw of unknown image asset", "handle", h.String())
		r.uploads[h] = nil
		return nil
	}
	src, ok := asset.Data.(image.Image)
	if !ok {
		r.log.Warn("image asset carries no pixels", "path", asset.Path)
		r.uploads[h] = nil
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	r.uploads[h] = img
	return img
}

// fontSource resolves a font asset. A zero or stale handle selects the
// debug face.
func (r *Renderer) fontSource(h resource.Handle) *text.GoTextFaceSource {
	if h.IsZero() {
		return nil
	}
	if src, ok := r.fonts[h]; ok {
		return src
	}
	asset, err := r.cache.Get(h)
	if err != nil {
		r.log.Warn("draw with unknown font asset", "handle", h.String())
		r.fonts[h] = nil
		return nil
	}
	src, ok := asset.Data.(*text.GoTextFaceSource)
	if !ok {
		r.log.Warn("font asset carries no face source", "path", asset.Path)
		r.fonts[h] = nil
		return nil
	}
	r.fonts[h] = src
	return src
}
