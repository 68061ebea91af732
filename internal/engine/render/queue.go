// Package render defines the draw-command queue scenes render into and
// the collaborator interface that consumes it.
//
// Scenes never touch the graphics backend. They append rect, sprite and
// text commands; the loop hands the finished queue to the platform
// renderer once per tick.
package render

import (
	"image"
	"image/color"

	"github.com/nightfore/nf/internal/engine/resource"
)

// Op selects the command variant.
type Op uint8

const (
	OpRect Op = iota
	OpSprite
	OpText
)

// Command is one draw instruction. X and Y are the destination in
// screen space; the other active fields depend on Op.
type Command struct {
	Op   Op
	X, Y float64
	// W and H size an OpRect.
	W, H float64
	// Image and Src select the sprite sheet and frame for OpSprite.
	Image resource.Handle
	Src   image.Rectangle
	// Font, Text and Size describe an OpText. A zero Font handle selects
	// the renderer's built-in debug face, which ignores Size and Color.
	Font resource.Handle
	Text string
	Size float64
	// Color fills an OpRect or tints an OpText.
	Color color.RGBA
}

// Queue accumulates one tick's draw commands in submission order. The
// zero value is ready to use.
type Queue struct {
	cmds []Command
}

// Rect queues a filled rectangle.
func (q *Queue) Rect(x, y, w, h float64, c color.RGBA) {
	q.cmds = append(q.cmds, Command{Op: OpRect, X: x, Y: y, W: w, H: h, Color: c})
}

// Sprite queues the src sub-rect of an image asset at x, y.
func (q *Queue) Sprite(img resource.Handle, src image.Rectangle, x, y float64) {
	q.cmds = append(q.cmds, Command{Op: OpSprite, Image: img, Src: src, X: x, Y: y})
}

// Text queues a string at x, y.
func (q *Queue) Text(font resource.Handle, s string, x, y, size float64, c color.RGBA) {
	q.cmds = append(q.cmds, Command{Op: OpText, Font: font, Text: s, X: x, Y: y, Size: size, Color: c})
}

// Reset empties the queue, keeping capacity for the next tick.
func (q *Queue) Reset() { q.cmds = q.cmds[:0] }

// Commands returns the queued commands in submission order. The slice is
// only valid until the next Reset.
func (q *Queue) Commands() []Command { return q.cmds }

// Len reports the number of queued commands.
func (q *Queue) Len() int { return len(q.cmds) }

// Renderer consumes a finished queue once per tick.
type Renderer interface {
	Render(cmds []Command) error
}
