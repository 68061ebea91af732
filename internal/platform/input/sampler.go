// Package input reads keyboard and mouse state from ebiten and turns it
// into the engine's samples. It also records and replays sessions so a
// run can be reproduced from a file.
package input

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	einput "github.com/nightfore/nf/internal/engine/input"
)

// mouseButtons maps engine button indices to ebiten buttons. Order must
// match the einput.Mouse* constants.
var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Sampler reads input transitions from ebiten once per tick.
type Sampler struct {
	pressed  []ebiten.Key
	released []ebiten.Key
	out      []einput.Sample
	lastX    int
	lastY    int
	sampled  bool
}

// NewSampler creates a sampler backed by ebiten's input state.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Poll returns the transitions since the previous call. The first call
// also reports the initial cursor position. The returned slice is
// reused between calls.
func (s *Sampler) Poll() []einput.Sample {
	s.out = s.out[:0]

	s.pressed = inpututil.AppendJustPressedKeys(s.pressed[:0])
	for _, k := range s.pressed {
		s.out = append(s.out, einput.Sample{Type: einput.SampleKey, Key: KeyName(k), Pressed: true})
	}
	s.released = inpututil.AppendJustReleasedKeys(s.released[:0])
	for _, k := range s.released {
		s.out = append(s.out, einput.Sample{Type: einput.SampleKey, Key: KeyName(k)})
	}

	x, y := ebiten.CursorPosition()
	if !s.sampled || x != s.lastX || y != s.lastY {
		s.out = append(s.out, einput.Sample{Type: einput.SampleMouseMove, X: float64(x), Y: float64(y)})
		s.lastX, s.lastY = x, y
		s.sampled = true
	}

	for i, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			s.out = append(s.out, einput.Sample{
				Type:    einput.SampleMouseButton,
				Button:  i,
				Pressed: true,
				X:       float64(x),
				Y:       float64(y),
			})
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			s.out = append(s.out, einput.Sample{
				Type:   einput.SampleMouseButton,
				Button: i,
				X:      float64(x),
				Y:      float64(y),
			})
		}
	}

	return s.out
}

// KeyName returns the engine-facing name for an ebiten key, e.g.
// "escape" for ebiten.KeyEscape.
func KeyName(k ebiten.Key) string {
	return strings.ToLower(k.String())
}
