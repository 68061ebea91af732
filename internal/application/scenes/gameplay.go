package scenes

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/nightfore/nf/internal/engine/animation"
	"github.com/nightfore/nf/internal/engine/audio"
	"github.com/nightfore/nf/internal/engine/entity"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/input"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/infrastructure/manifest"
)

// tagOwned marks entities spawned by the gameplay scene, so teardown
// and rendering can tell them apart from entities owned by the scenes
// below.
const tagOwned = "gameplay"

const (
	ballCount    = 6
	ballSpeedMin = 40.0
	ballSpeedMax = 120.0
)

type vec struct {
	X, Y float64
}

// Gameplay bounces a handful of balls and pops a burst wherever the
// player clicks. Escape opens the pause overlay on top; a restart
// requested from there is applied when this scene resumes.
type Gameplay struct {
	scene.Base
	idx  *manifest.Index
	opts Options

	rng   *rand.Rand
	balls []entity.ID
	vels  map[entity.ID]vec

	score   int
	restart bool
	debug   bool
}

// NewGameplay creates the gameplay scene. Randomness is seeded from the
// run options so a recorded session replays the same layout.
func NewGameplay(idx *manifest.Index, opts Options) *Gameplay {
	return &Gameplay{
		idx:  idx,
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
		vels: make(map[entity.ID]vec),
	}
}

// Enter spawns the balls, hooks burst cleanup and starts the field
// track.
func (g *Gameplay) Enter(ctx *scene.Context) {
	g.spawnBalls(ctx)
	g.Base.Subscribe(ctx, animation.EventFinished, func(ev event.Event) {
		p, ok := ev.Payload.(animation.FinishedPayload)
		if !ok {
			return
		}
		if tid, found := g.idx.Templates["burst"]; found && p.Template == tid {
			ctx.Entities.Despawn(p.Entity)
		}
	})
	playMusic(ctx, g.idx, "field")
}

// Resume applies a pending restart and takes the music back from the
// pause overlay.
func (g *Gameplay) Resume(ctx *scene.Context) {
	if g.restart {
		g.restart = false
		g.reset(ctx)
	}
	playMusic(ctx, g.idx, "field")
}

// Exit despawns everything this scene owns.
func (g *Gameplay) Exit(ctx *scene.Context) {
	g.despawnOwned(ctx)
	g.Base.Exit(ctx)
}

// HandleEvent pops bursts on left click, opens the pause overlay on
// escape and toggles the debug readout on f3.
func (g *Gameplay) HandleEvent(ctx *scene.Context, ev event.Event) {
	if p, ok := ev.Payload.(input.MouseButtonPayload); ok {
		if p.Button == input.MouseLeft && p.Pressed {
			g.pop(ctx, p.X, p.Y)
		}
		return
	}
	switch {
	case keyDown(ev, "escape"):
		ctx.Scenes.Push(NewPause(g.idx, g.requestRestart))
	case keyDown(ev, "f3"):
		g.debug = !g.debug
	}
}

// Update advances the balls and bounces them off the screen edges.
func (g *Gameplay) Update(ctx *scene.Context, dt time.Duration) error {
	fw, fh := g.frameSize(ctx, "ball")
	maxX := float64(ctx.Screen.W) - fw
	maxY := float64(ctx.Screen.H) - fh
	secs := dt.Seconds()

	for _, id := range g.balls {
		e, err := ctx.Entities.Get(id)
		if err != nil || !e.Alive() {
			continue
		}
		v := g.vels[id]
		e.Pos.X += v.X * secs
		e.Pos.Y += v.Y * secs
		if e.Pos.X < 0 {
			e.Pos.X = 0
			v.X = -v.X
		} else if e.Pos.X > maxX {
			e.Pos.X = maxX
			v.X = -v.X
		}
		if e.Pos.Y < 0 {
			e.Pos.Y = 0
			v.Y = -v.Y
		} else if e.Pos.Y > maxY {
			e.Pos.Y = maxY
			v.Y = -v.Y
		}
		g.vels[id] = v
	}
	return nil
}

// Render draws the owned entities and the HUD.
func (g *Gameplay) Render(ctx *scene.Context, q *render.Queue) {
	w, h := float64(ctx.Screen.W), float64(ctx.Screen.H)
	q.Rect(0, 0, w, h, colorBG)

	ctx.Entities.ForEachAlive(func(e *entity.Entity) {
		if e.Tags.Has(tagOwned) {
			drawEntity(ctx, q, e)
		}
	})

	q.Text(resource.Handle{}, fmt.Sprintf("pops: %d", g.score), 8, 8, 0, colorTitle)
	q.Text(resource.Handle{}, "click: pop  esc: pause", 8, h-24, 0, colorText)
	if g.debug {
		line := fmt.Sprintf("entities %d  scenes %d  tick %d  t %.1fs",
			ctx.Entities.Len(), ctx.Scenes.Len(), ctx.Ticks, ctx.Elapsed.Seconds())
		q.Text(resource.Handle{}, line, 8, 28, 0, colorText)
	}
}

// Opaque implements Scene.
func (g *Gameplay) Opaque() bool { return true }

// requestRestart is handed to the pause overlay; the restart itself
// runs in Resume, after the overlay has popped.
func (g *Gameplay) requestRestart() {
	g.restart = true
}

func (g *Gameplay) reset(ctx *scene.Context) {
	g.despawnOwned(ctx)
	g.rng = rand.New(rand.NewSource(g.opts.Seed))
	g.score = 0
	g.spawnBalls(ctx)
}

func (g *Gameplay) spawnBalls(ctx *scene.Context) {
	tid, ok := g.idx.Templates["ball"]
	if !ok {
		ctx.Log.Warn("ball template missing, nothing to spawn")
		return
	}
	fw, fh := g.frameSize(ctx, "ball")
	maxX := float64(ctx.Screen.W) - fw
	maxY := float64(ctx.Screen.H) - fh

	g.balls = g.balls[:0]
	for i := 0; i < ballCount; i++ {
		pos := entity.Position{
			X: g.rng.Float64() * maxX,
			Y: g.rng.Float64() * maxY,
		}
		id, err := ctx.Entities.Spawn(tid, pos)
		if err != nil {
			ctx.Log.Warn("ball spawn failed", "error", err)
			return
		}
		e, _ := ctx.Entities.Get(id)
		e.Tags.Add(tagOwned)
		// Desync the loop phases so the balls do not animate in step.
		e.Elapsed = time.Duration(g.rng.Intn(100)) * time.Millisecond

		speed := ballSpeedMin + g.rng.Float64()*(ballSpeedMax-ballSpeedMin)
		angle := g.rng.Float64() * 2 * math.Pi
		g.balls = append(g.balls, id)
		g.vels[id] = vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	}
}

// pop spawns a burst centered on the click and counts it.
func (g *Gameplay) pop(ctx *scene.Context, x, y float64) {
	tid, ok := g.idx.Templates["burst"]
	if !ok {
		return
	}
	fw, fh := g.frameSize(ctx, "burst")
	id, err := ctx.Entities.Spawn(tid, entity.Position{X: x - fw/2, Y: y - fh/2})
	if err != nil {
		ctx.Log.Warn("burst spawn failed", "error", err)
		return
	}
	e, _ := ctx.Entities.Get(id)
	e.Tags.Add(tagOwned)
	g.score++

	if h, ok := g.idx.Sounds["pop"]; ok {
		ctx.Events.Publish(event.Event{Kind: audio.EventPlaySound, Payload: audio.PlaySoundPayload{Source: h}})
	}
}

func (g *Gameplay) despawnOwned(ctx *scene.Context) {
	ctx.Entities.ForEachAlive(func(e *entity.Entity) {
		if e.Tags.Has(tagOwned) {
			ctx.Entities.Despawn(e.ID)
		}
	})
	g.balls = g.balls[:0]
	clear(g.vels)
}

func (g *Gameplay) frameSize(ctx *scene.Context, name string) (w, h float64) {
	tid, ok := g.idx.Templates[name]
	if !ok {
		return 0, 0
	}
	tpl, err := ctx.Templates.Get(tid)
	if err != nil || len(tpl.Frames) == 0 {
		return 0, 0
	}
	return float64(tpl.Frames[0].Dx()), float64(tpl.Frames[0].Dy())
}
