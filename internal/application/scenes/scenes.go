// Package scenes implements the demo's screens: loading, menu,
// settings, gameplay and the pause overlay. Scenes reach the engine
// only through the context; sound and music are requested over the bus
// and fulfilled by whatever audio backend is attached.
package scenes

import (
	"image/color"

	"github.com/nightfore/nf/internal/engine/audio"
	"github.com/nightfore/nf/internal/engine/entity"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/input"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/infrastructure/config"
	"github.com/nightfore/nf/internal/infrastructure/manifest"
)

// Options carries the startup knobs into the scene graph.
type Options struct {
	// Audio seeds the settings screen with the configured levels.
	Audio config.AudioConfig
	// Seed drives gameplay randomness so recorded runs replay the same.
	Seed int64
}

// Colors for rendering
var (
	colorBG    = color.RGBA{26, 26, 46, 255}
	colorTitle = color.RGBA{220, 220, 230, 255}
	colorText  = color.RGBA{170, 170, 190, 255}
	colorBar   = color.RGBA{90, 200, 120, 255}
	colorBarBG = color.RGBA{60, 60, 60, 255}
	colorError = color.RGBA{200, 50, 50, 255}
	colorDim   = color.RGBA{0, 0, 0, 160}
)

// Stacked button layout shared by the menu screens. Tests derive click
// coordinates from buttonRect, so scenes must lay out through it.
const (
	buttonW   = 160.0
	buttonH   = 28.0
	buttonGap = 12.0
)

// buttonRect returns the rect of the i-th button in a stack centered on
// cx and starting at top.
func buttonRect(cx, top float64, i int) (x, y, w, h float64) {
	x = cx - buttonW/2
	y = top + float64(i)*(buttonH+buttonGap)
	return x, y, buttonW, buttonH
}

// menuTop returns the y coordinate the button stacks start at.
func menuTop(s scene.Screen) float64 {
	return float64(s.H)/2 - 20
}

// drawEntity queues the entity's current template frame at its
// position. The frame index is clamped so a hot-reloaded template with
// fewer frames still draws.
func drawEntity(ctx *scene.Context, q *render.Queue, e *entity.Entity) {
	tpl, err := ctx.Templates.Get(e.Template)
	if err != nil {
		return
	}
	frame := e.Frame
	if frame >= len(tpl.Frames) {
		frame = len(tpl.Frames) - 1
	}
	q.Sprite(tpl.Source, tpl.Frames[frame], e.Pos.X, e.Pos.Y)
}

// playClick requests the shared button click sound.
func playClick(ctx *scene.Context, idx *manifest.Index) {
	if h, ok := idx.Sounds["click"]; ok {
		ctx.Events.Publish(event.Event{Kind: audio.EventPlaySound, Payload: audio.PlaySoundPayload{Source: h}})
	}
}

// playMusic requests a looping music track by manifest name.
func playMusic(ctx *scene.Context, idx *manifest.Index, name string) {
	if h, ok := idx.Sounds[name]; ok {
		ctx.Events.Publish(event.Event{Kind: audio.EventPlayMusic, Payload: audio.PlayMusicPayload{Source: h, Loop: true}})
	}
}

// keyDown reports whether ev is a key press of the named key.
func keyDown(ev event.Event, key string) bool {
	if ev.Kind != input.EventKeyDown {
		return false
	}
	p, ok := ev.Payload.(input.KeyPayload)
	return ok && p.Key == key
}
