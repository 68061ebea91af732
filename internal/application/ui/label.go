package ui

import (
	"image/color"

	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
)

// Label is a static line of text. A zero Font renders with the debug
// face.
type Label struct {
	X, Y  float64
	Text  string
	Font  resource.Handle
	Size  float64
	Color color.RGBA
}

// Render queues the label.
func (l Label) Render(q *render.Queue) {
	q.Text(l.Font, l.Text, l.X, l.Y, l.Size, l.Color)
}

// CenterX positions a debug-face string centered on cx.
func CenterX(cx float64, text string) float64 {
	return cx - float64(6*len(text))/2
}
