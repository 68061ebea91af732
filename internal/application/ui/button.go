// Package ui provides the small retained widgets the scenes share:
// clickable buttons and text labels. Widgets consume the engine's input
// events and render into the command queue; they never touch ebiten.
package ui

import (
	"image/color"

	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/input"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
)

// Palette holds the colors of one button.
type Palette struct {
	Border color.RGBA
	Fill   color.RGBA
	Hover  color.RGBA
	Press  color.RGBA
	Text   color.RGBA
}

// DefaultPalette returns the grey-blue scheme the scenes use.
func DefaultPalette() Palette {
	return Palette{
		Border: color.RGBA{90, 90, 120, 255},
		Fill:   color.RGBA{40, 40, 60, 255},
		Hover:  color.RGBA{60, 60, 90, 255},
		Press:  color.RGBA{30, 30, 45, 255},
		Text:   color.RGBA{220, 220, 230, 255},
	}
}

// Button is a clickable screen rectangle. OnPress fires when the left
// mouse button is pressed inside and released inside.
type Button struct {
	X, Y, W, H float64
	Text       string
	Colors     Palette
	OnPress    func()

	hovered bool
	pressed bool
}

// NewButton creates a button with the default palette.
func NewButton(x, y, w, h float64, text string, onPress func()) *Button {
	return &Button{X: x, Y: y, W: w, H: h, Text: text, Colors: DefaultPalette(), OnPress: onPress}
}

// Handle feeds one input event into the button's state machine.
func (b *Button) Handle(ev event.Event) {
	switch p := ev.Payload.(type) {
	case input.MouseMovePayload:
		b.hovered = b.contains(p.X, p.Y)
	case input.MouseButtonPayload:
		if p.Button != input.MouseLeft {
			return
		}
		if p.Pressed {
			b.pressed = b.contains(p.X, p.Y)
			return
		}
		fire := b.pressed && b.contains(p.X, p.Y)
		b.pressed = false
		if fire && b.OnPress != nil {
			b.OnPress()
		}
	}
}

// Hovered reports whether the cursor was inside at the last mouse move.
func (b *Button) Hovered() bool { return b.hovered }

// Render queues the button's border, fill and caption.
func (b *Button) Render(q *render.Queue) {
	q.Rect(b.X-1, b.Y-1, b.W+2, b.H+2, b.Colors.Border)

	fill := b.Colors.Fill
	switch {
	case b.pressed && b.hovered:
		fill = b.Colors.Press
	case b.hovered:
		fill = b.Colors.Hover
	}
	q.Rect(b.X, b.Y, b.W, b.H, fill)

	// Debug face glyphs are 6x16.
	tx := b.X + (b.W-float64(6*len(b.Text)))/2
	ty := b.Y + (b.H-16)/2
	q.Text(resource.Handle{}, b.Text, tx, ty, 0, b.Colors.Text)
}

func (b *Button) contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Buttons fans events and rendering out to a fixed set of buttons.
type Buttons []*Button

// Handle feeds the event to every button.
func (bs Buttons) Handle(ev event.Event) {
	for _, b := range bs {
		b.Handle(ev)
	}
}

// Render queues every button in order.
func (bs Buttons) Render(q *render.Queue) {
	for _, b := range bs {
		b.Render(q)
	}
}
