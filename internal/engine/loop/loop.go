// Package loop owns the tick. It wires the engine components into one
// context and runs the fixed order every frame: poll input, update the
// top scene, advance animation, flush despawns, apply the queued scene
// transition, render the visible stack.
package loop

import (
	"errors"
	"log/slog"
	"time"

	"github.com/nightfore/nf/internal/engine/animation"
	"github.com/nightfore/nf/internal/engine/entity"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/input"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/engine/template"
)

// ErrStopped signals a normal end of the run: the scene stack emptied.
var ErrStopped = errors.New("loop: stopped")

// DefaultMaxDelta bounds dt when the driver stalls (window drag,
// debugger pause), so scenes never see one huge step.
const DefaultMaxDelta = 250 * time.Millisecond

// Options configure a Loop.
type Options struct {
	// Loader decodes assets for the resource cache.
	Loader resource.LoaderFunc
	// Sampler provides raw input; nil means no input events.
	Sampler input.Sampler
	// Screen is the logical render size handed to scenes.
	Screen scene.Screen
	// MaxDelta caps dt per tick; zero selects DefaultMaxDelta.
	MaxDelta time.Duration
	// Log is the engine logger; nil selects slog.Default().
	Log *slog.Logger
}

// Loop drives the engine. Build one with New, push the bootstrap scene
// with Start, then call Tick once per frame until it returns ErrStopped.
type Loop struct {
	ctx      *scene.Context
	clock    *animation.Clock
	sampler  input.Sampler
	renderer render.Renderer
	queue    render.Queue
	maxDelta time.Duration
	log      *slog.Logger

	elapsed time.Duration
	ticks   uint64
}

// New wires every engine component into a fresh context.
func New(opts Options) *Loop {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	maxDelta := opts.MaxDelta
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}

	bus := event.NewBus()
	cache := resource.NewCache(opts.Loader, log)
	templates := template.NewRegistry(cache, log)
	entities := entity.NewStore(templates, bus, log)
	stack := scene.NewStack(log)

	return &Loop{
		ctx: &scene.Context{
			Resources: cache,
			Templates: templates,
			Events:    bus,
			Entities:  entities,
			Scenes:    stack,
			Screen:    opts.Screen,
			Log:       log,
		},
		clock:    animation.NewClock(entities, templates, bus, log),
		sampler:  opts.Sampler,
		maxDelta: maxDelta,
		log:      log,
	}
}

// Context exposes the engine components for wiring collaborators and for
// tests.
func (l *Loop) Context() *scene.Context { return l.ctx }

// SetRenderer attaches the renderer that consumes the draw queue. It is
// wired after New because platform renderers need the resource cache the
// loop creates. A nil renderer keeps the loop headless.
func (l *Loop) SetRenderer(r render.Renderer) { l.renderer = r }

// Start pushes the bootstrap scene and enters it immediately.
func (l *Loop) Start(bootstrap scene.Scene) {
	l.ctx.Scenes.Push(bootstrap)
	l.ctx.Scenes.Apply(l.ctx)
}

// Tick runs one iteration. dt is clamped to [0, MaxDelta]. It returns
// ErrStopped once the stack is empty; every other per-tick failure is
// logged and the run continues.
func (l *Loop) Tick(dt time.Duration) error {
	if dt < 0 {
		dt = 0
	}
	if dt > l.maxDelta {
		dt = l.maxDelta
	}

	top := l.ctx.Scenes.Top()
	if top == nil {
		return ErrStopped
	}

	l.pollInput(top)

	if err := top.Update(l.ctx, dt); err != nil {
		l.log.Warn("scene update failed", "err", err)
	}

	l.clock.Advance(dt)
	l.ctx.Entities.Flush()
	l.ctx.Scenes.Apply(l.ctx)

	if l.ctx.Scenes.Len() == 0 {
		l.log.Info("scene stack empty, stopping", "ticks", l.ticks)
		return ErrStopped
	}

	l.elapsed += dt
	l.ticks++
	l.ctx.Ticks = l.ticks
	l.ctx.Elapsed = l.elapsed

	l.render()
	return nil
}

// pollInput publishes every sample on the bus and forwards it to the top
// scene. Only the scene that was on top when the tick started sees
// input, even if a handler queues a transition.
func (l *Loop) pollInput(top scene.Scene) {
	if l.sampler == nil {
		return
	}
	for _, s := range l.sampler.Poll() {
		ev := input.Event(s)
		l.ctx.Events.Publish(ev)
		top.HandleEvent(l.ctx, ev)
	}
}

func (l *Loop) render() {
	if l.renderer == nil {
		return
	}
	l.queue.Reset()
	l.ctx.Scenes.Render(l.ctx, &l.queue)
	if err := l.renderer.Render(l.queue.Commands()); err != nil {
		l.log.Warn("render failed", "err", err)
	}
}

// Elapsed reports total simulated time across completed ticks.
func (l *Loop) Elapsed() time.Duration { return l.elapsed }

// Ticks reports the number of completed ticks.
func (l *Loop) Ticks() uint64 { return l.ticks }
