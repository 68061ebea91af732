// Package input defines the raw samples the platform sampler produces
// each tick and the events the loop publishes from them.
package input

import "github.com/nightfore/nf/internal/engine/event"

// Event kinds published by the loop, one per polled sample.
const (
	EventKeyDown     event.Kind = "input.key_down"
	EventKeyUp       event.Kind = "input.key_up"
	EventMouseMove   event.Kind = "input.mouse_move"
	EventMouseButton event.Kind = "input.mouse_button"
)

// Mouse button indices used in samples and payloads.
const (
	MouseLeft = iota
	MouseRight
	MouseMiddle
)

// SampleType tags a raw sample.
type SampleType uint8

const (
	SampleKey SampleType = iota
	SampleMouseMove
	SampleMouseButton
)

// Sample is one raw input transition captured during a tick.
type Sample struct {
	Type SampleType
	// Key holds the lower-case key name ("a", "escape", "space") for
	// SampleKey.
	Key string
	// Pressed distinguishes press from release for keys and buttons.
	Pressed bool
	// Button is the mouse button index for SampleMouseButton.
	Button int
	// X, Y carry the cursor position for mouse samples.
	X, Y float64
}

// Sampler produces the samples gathered since the previous poll.
// Implementations live in the platform layer; tests script their own.
type Sampler interface {
	Poll() []Sample
}

// KeyPayload accompanies EventKeyDown and EventKeyUp.
type KeyPayload struct {
	Key string
}

// MouseMovePayload accompanies EventMouseMove.
type MouseMovePayload struct {
	X, Y float64
}

// MouseButtonPayload accompanies EventMouseButton for both press and
// release transitions.
type MouseButtonPayload struct {
	Button  int
	Pressed bool
	X, Y    float64
}

// Event converts a raw sample into the event the loop publishes for it.
func Event(s Sample) event.Event {
	switch s.Type {
	case SampleKey:
		kind := EventKeyUp
		if s.Pressed {
			kind = EventKeyDown
		}
		return event.Event{Kind: kind, Payload: KeyPayload{Key: s.Key}}
	case SampleMouseMove:
		return event.Event{Kind: EventMouseMove, Payload: MouseMovePayload{X: s.X, Y: s.Y}}
	default:
		return event.Event{Kind: EventMouseButton, Payload: MouseButtonPayload{
			Button:  s.Button,
			Pressed: s.Pressed,
			X:       s.X,
			Y:       s.Y,
		}}
	}
}
