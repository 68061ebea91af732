package scenes

import (
	"math/rand"
	"time"

	"github.com/nightfore/nf/internal/application/ui"
	"github.com/nightfore/nf/internal/engine/entity"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/infrastructure/manifest"
)

// Menu is the title screen. It owns a field of looping sparkle
// entities that live for as long as the menu is on the stack.
type Menu struct {
	scene.Base
	idx      *manifest.Index
	opts     Options
	settings *Settings
	menu     *ui.Menu
	sparkles []entity.ID
}

// NewMenu creates the menu over an applied manifest index. The settings
// screen is created once here so adjusted levels survive re-entry.
func NewMenu(idx *manifest.Index, opts Options) *Menu {
	return &Menu{idx: idx, opts: opts, settings: NewSettings(idx, opts)}
}

// Enter builds the buttons, spawns the sparkle field and starts the
// theme.
func (m *Menu) Enter(ctx *scene.Context) {
	cx := float64(ctx.Screen.W) / 2
	top := menuTop(ctx.Screen)
	m.menu = ui.NewMenu(ui.Buttons{
		m.button(ctx, cx, top, 0, "Play", func() {
			ctx.Scenes.Push(NewGameplay(m.idx, m.opts))
		}),
		m.button(ctx, cx, top, 1, "Settings", func() {
			ctx.Scenes.Push(m.settings)
		}),
		m.button(ctx, cx, top, 2, "Quit", func() {
			ctx.Scenes.Clear()
		}),
	})
	m.spawnSparkles(ctx)
	playMusic(ctx, m.idx, "theme")
}

// Resume restarts the theme after gameplay or settings returns.
func (m *Menu) Resume(ctx *scene.Context) {
	playMusic(ctx, m.idx, "theme")
}

// Exit despawns the sparkle field.
func (m *Menu) Exit(ctx *scene.Context) {
	for _, id := range m.sparkles {
		ctx.Entities.Despawn(id)
	}
	m.sparkles = m.sparkles[:0]
	m.Base.Exit(ctx)
}

// HandleEvent feeds the menu and quits on escape.
func (m *Menu) HandleEvent(ctx *scene.Context, ev event.Event) {
	m.menu.Handle(ev)
	if keyDown(ev, "escape") {
		ctx.Scenes.Clear()
	}
}

// Render draws the background, sparkles, title and buttons.
func (m *Menu) Render(ctx *scene.Context, q *render.Queue) {
	w, h := float64(ctx.Screen.W), float64(ctx.Screen.H)
	q.Rect(0, 0, w, h, colorBG)

	for _, id := range m.sparkles {
		if e, err := ctx.Entities.Get(id); err == nil && e.Alive() {
			drawEntity(ctx, q, e)
		}
	}

	title := "nightfore"
	q.Text(resource.Handle{}, title, ui.CenterX(w/2, title), h/4, 0, colorTitle)
	m.menu.Render(q)
}

// Opaque implements Scene.
func (m *Menu) Opaque() bool { return true }

func (m *Menu) button(ctx *scene.Context, cx, top float64, i int, label string, action func()) *ui.Button {
	x, y, w, h := buttonRect(cx, top, i)
	return ui.NewButton(x, y, w, h, label, func() {
		playClick(ctx, m.idx)
		action()
	})
}

func (m *Menu) spawnSparkles(ctx *scene.Context) {
	tid, ok := m.idx.Templates["sparkle"]
	if !ok {
		return
	}
	rng := rand.New(rand.NewSource(m.opts.Seed))
	for i := 0; i < 12; i++ {
		pos := entity.Position{
			X: rng.Float64() * float64(ctx.Screen.W),
			Y: rng.Float64() * float64(ctx.Screen.H),
		}
		id, err := ctx.Entities.Spawn(tid, pos)
		if err != nil {
			ctx.Log.Warn("sparkle spawn failed", "error", err)
			return
		}
		// Stagger the twinkle so the field does not blink in unison.
		if e, err := ctx.Entities.Get(id); err == nil {
			e.Elapsed = time.Duration(rng.Int63n(int64(400 * time.Millisecond)))
		}
		m.sparkles = append(m.sparkles, id)
	}
}
