package scenes

import (
	"github.com/nightfore/nf/internal/application/ui"
	"github.com/nightfore/nf/internal/engine/audio"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/infrastructure/manifest"
)

// Pause is the translucent overlay opened from gameplay. It holds the
// music while open; restart is only requested here and applied by the
// scene below once the overlay has popped.
type Pause struct {
	scene.Base
	idx       *manifest.Index
	onRestart func()
	menu      *ui.Menu
}

// NewPause creates the pause overlay. onRestart is invoked when the
// player picks Restart, before the overlay pops itself.
func NewPause(idx *manifest.Index, onRestart func()) *Pause {
	return &Pause{idx: idx, onRestart: onRestart}
}

// Enter pauses the music and lays out the buttons.
func (p *Pause) Enter(ctx *scene.Context) {
	ctx.Events.Publish(event.Event{Kind: audio.EventPauseMusic})

	cx := float64(ctx.Screen.W) / 2
	top := menuTop(ctx.Screen)
	var buttons ui.Buttons
	for i, it := range []struct {
		label string
		press func()
	}{
		{"Resume", func() { p.pop(ctx) }},
		{"Restart", func() {
			p.onRestart()
			p.pop(ctx)
		}},
		{"Quit", func() { ctx.Scenes.Clear() }},
	} {
		x, y, w, h := buttonRect(cx, top, i)
		buttons = append(buttons, p.button(ctx, x, y, w, h, it.label, it.press))
	}
	p.menu = ui.NewMenu(buttons)
}

// Exit releases the music hold.
func (p *Pause) Exit(ctx *scene.Context) {
	ctx.Events.Publish(event.Event{Kind: audio.EventResumeMusic})
	p.Base.Exit(ctx)
}

// HandleEvent feeds the menu and pops on escape.
func (p *Pause) HandleEvent(ctx *scene.Context, ev event.Event) {
	p.menu.Handle(ev)
	if keyDown(ev, "escape") {
		p.pop(ctx)
	}
}

// Render dims the gameplay underneath and draws the overlay.
func (p *Pause) Render(ctx *scene.Context, q *render.Queue) {
	w, h := float64(ctx.Screen.W), float64(ctx.Screen.H)
	q.Rect(0, 0, w, h, colorDim)

	title := "paused"
	q.Text(resource.Handle{}, title, ui.CenterX(w/2, title), float64(ctx.Screen.H)/4, 0, colorTitle)
	p.menu.Render(q)
}

// Opaque implements Scene; the gameplay stays visible underneath.
func (p *Pause) Opaque() bool { return false }

func (p *Pause) button(ctx *scene.Context, x, y, w, h float64, label string, press func()) *ui.Button {
	return ui.NewButton(x, y, w, h, label, func() {
		playClick(ctx, p.idx)
		press()
	})
}

func (p *Pause) pop(ctx *scene.Context) {
	if err := ctx.Scenes.Pop(); err != nil {
		ctx.Log.Warn("pause pop refused", "error", err)
	}
}
