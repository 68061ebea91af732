// Package scene defines the game-state interface and the stack state
// machine that drives transitions between states.
//
// Each game state (menu, gameplay, pause overlay, ...) implements Scene.
// Only the top of the stack is updated and receives input; every scene
// from the topmost opaque one upward renders, bottom to top, so overlays
// compose over what they cover.
package scene

import (
	"time"

	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/render"
)

// Scene is one game state.
//
// Enter and Exit bracket the scene's time on the stack. Resume runs when
// the scene directly above is popped. HandleEvent receives input events
// while the scene is on top. Update advances state; a returned error is
// logged without ending the tick. Render appends the scene's draw
// commands. Opaque scenes hide everything beneath them.
type Scene interface {
	Enter(ctx *Context)
	Exit(ctx *Context)
	Resume(ctx *Context)
	HandleEvent(ctx *Context, ev event.Event)
	Update(ctx *Context, dt time.Duration) error
	Render(ctx *Context, q *render.Queue)
	Opaque() bool
}

// Base provides no-op defaults for Scene, so concrete scenes override
// only what they need. Subscriptions made through Base.Subscribe are
// released by Base.Exit; a scene overriding Exit must call it.
type Base struct {
	group *event.Group
}

// Subscribe registers a handler whose lifetime ends at Exit.
func (b *Base) Subscribe(ctx *Context, kind event.Kind, fn func(event.Event)) event.SubscriptionID {
	if b.group == nil {
		b.group = ctx.Events.Group()
	}
	return b.group.Subscribe(kind, fn)
}

// Enter implements Scene.
func (b *Base) Enter(*Context) {}

// Exit implements Scene and releases subscriptions made via Subscribe.
func (b *Base) Exit(*Context) {
	if b.group != nil {
		b.group.Close()
	}
}

// Resume implements Scene.
func (b *Base) Resume(*Context) {}

// HandleEvent implements Scene.
func (b *Base) HandleEvent(*Context, event.Event) {}

// Update implements Scene.
func (b *Base) Update(*Context, time.Duration) error { return nil }

// Render implements Scene.
func (b *Base) Render(*Context, *render.Queue) {}

// Opaque implements Scene. Full-screen scenes override this to return
// true so the stack can skip whatever they cover.
func (b *Base) Opaque() bool { return false }
