package ui

import (
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/input"
	"github.com/nightfore/nf/internal/engine/render"
)

// Menu adds keyboard navigation over a vertical column of buttons:
// arrow keys or w/s move the selection, enter or space activates it.
// Mouse events pass through to the buttons, and hovering a button pulls
// the selection along with the cursor.
type Menu struct {
	buttons Buttons
	sel     int
}

// NewMenu wraps the laid-out buttons; the first one starts selected.
func NewMenu(buttons Buttons) *Menu {
	return &Menu{buttons: buttons}
}

// Selected reports the index of the selected button.
func (m *Menu) Selected() int { return m.sel }

// Handle feeds one input event into the menu.
func (m *Menu) Handle(ev event.Event) {
	m.buttons.Handle(ev)
	if len(m.buttons) == 0 {
		return
	}

	switch p := ev.Payload.(type) {
	case input.MouseMovePayload:
		for i, b := range m.buttons {
			if b.hovered {
				m.sel = i
			}
		}
	case input.KeyPayload:
		if ev.Kind != input.EventKeyDown {
			return
		}
		switch p.Key {
		case "arrowup", "w":
			m.sel = (m.sel + len(m.buttons) - 1) % len(m.buttons)
		case "arrowdown", "s":
			m.sel = (m.sel + 1) % len(m.buttons)
		case "enter", "space":
			if b := m.buttons[m.sel]; b.OnPress != nil {
				b.OnPress()
			}
		}
	}
}

// Render queues the buttons. The selected button renders with the hover
// palette, so keyboard focus stays visible without a cursor.
func (m *Menu) Render(q *render.Queue) {
	for i, b := range m.buttons {
		if i == m.sel {
			b.hovered = true
		}
		b.Render(q)
	}
}
