package scene

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/render"
)

// probeScene records its lifecycle hooks into a shared trace.
type probeScene struct {
	Base
	name   string
	trace  *[]string
	opaque bool
}

func (p *probeScene) record(hook string) { *p.trace = append(*p.trace, hook+":"+p.name) }

func (p *probeScene) Enter(ctx *Context)  { p.record("enter") }
func (p *probeScene) Exit(ctx *Context)   { p.record("exit"); p.Base.Exit(ctx) }
func (p *probeScene) Resume(ctx *Context) { p.record("resume") }
func (p *probeScene) Render(ctx *Context, q *render.Queue) {
	p.record("render")
}
func (p *probeScene) Opaque() bool { return p.opaque }

type stackFixture struct {
	stack *Stack
	ctx   *Context
	trace []string
}

func newStackFixture() *stackFixture {
	f := &stackFixture{stack: NewStack(nil)}
	f.ctx = &Context{Events: event.NewBus(), Scenes: f.stack}
	return f
}

func (f *stackFixture) scene(name string, opaque bool) *probeScene {
	return &probeScene{name: name, trace: &f.trace, opaque: opaque}
}

func (f *stackFixture) push(name string) *probeScene {
	s := f.scene(name, true)
	f.stack.Push(s)
	f.stack.Apply(f.ctx)
	return s
}

func TestStackPushEntersNewTop(t *testing.T) {
	f := newStackFixture()

	f.push("a")
	b := f.push("b")

	assert.Equal(t, []string{"enter:a", "enter:b"}, f.trace)
	assert.Equal(t, 2, f.stack.Len())
	assert.Same(t, Scene(b), f.stack.Top())
}

func TestStackPopExitsTopAndResumesBelow(t *testing.T) {
	f := newStackFixture()
	a := f.push("a")
	f.push("b")
	f.trace = nil

	require.NoError(t, f.stack.Pop())
	f.stack.Apply(f.ctx)

	assert.Equal(t, []string{"exit:b", "resume:a"}, f.trace,
		"pop runs exactly one exit and one resume, no re-enter")
	assert.Equal(t, 1, f.stack.Len())
	assert.Same(t, Scene(a), f.stack.Top())
}

func TestStackPopLastRefused(t *testing.T) {
	f := newStackFixture()
	a := f.push("a")
	f.trace = nil

	err := f.stack.Pop()
	assert.ErrorIs(t, err, ErrEmptyStack)

	// Nothing was queued: the next Apply is a no-op and the stack is
	// untouched.
	f.stack.Apply(f.ctx)
	assert.Empty(t, f.trace)
	assert.Equal(t, 1, f.stack.Len())
	assert.Same(t, Scene(a), f.stack.Top())
}

func TestStackPopOnEmptyRefused(t *testing.T) {
	f := newStackFixture()

	assert.ErrorIs(t, f.stack.Pop(), ErrEmptyStack)
}

func TestStackReplaceSwapsAtomically(t *testing.T) {
	f := newStackFixture()
	f.push("a")
	f.push("b")
	f.trace = nil

	c := f.scene("c", true)
	f.stack.Replace(c)
	f.stack.Apply(f.ctx)

	assert.Equal(t, []string{"exit:b", "enter:c"}, f.trace,
		"replace must not resume the scene below")
	assert.Equal(t, 2, f.stack.Len())
	assert.Same(t, Scene(c), f.stack.Top())
}

func TestStackReplaceOnEmptyActsAsPush(t *testing.T) {
	f := newStackFixture()

	c := f.scene("c", true)
	f.stack.Replace(c)
	f.stack.Apply(f.ctx)

	assert.Equal(t, []string{"enter:c"}, f.trace)
	assert.Equal(t, 1, f.stack.Len())
}

func TestStackClearExitsTopDown(t *testing.T) {
	f := newStackFixture()
	f.push("a")
	f.push("b")
	f.push("c")
	f.trace = nil

	f.stack.Clear()
	f.stack.Apply(f.ctx)

	assert.Equal(t, []string{"exit:c", "exit:b", "exit:a"}, f.trace)
	assert.Equal(t, 0, f.stack.Len())
	assert.Nil(t, f.stack.Top())
}

func TestStackLastTransitionWins(t *testing.T) {
	f := newStackFixture()
	f.push("a")
	f.trace = nil

	b := f.scene("b", true)
	c := f.scene("c", true)
	f.stack.Push(b)
	f.stack.Replace(c)
	f.stack.Apply(f.ctx)

	assert.Equal(t, []string{"exit:a", "enter:c"}, f.trace,
		"the superseded push must leave no trace")
	assert.Equal(t, 1, f.stack.Len())
	assert.Same(t, Scene(c), f.stack.Top())
}

func TestStackApplyConsumesOneTransition(t *testing.T) {
	f := newStackFixture()
	f.push("a")

	f.stack.Push(f.scene("b", true))
	f.stack.Apply(f.ctx)
	require.Equal(t, 2, f.stack.Len())

	// No transition pending anymore.
	f.stack.Apply(f.ctx)
	assert.Equal(t, 2, f.stack.Len())
}

// enterPusher queues another push from inside Enter; it must land in the
// next Apply, not recurse into the current one.
type enterPusher struct {
	probeScene
	next Scene
}

func (s *enterPusher) Enter(ctx *Context) {
	s.probeScene.Enter(ctx)
	ctx.Scenes.Push(s.next)
}

func TestStackTransitionFromHookAppliesNextTick(t *testing.T) {
	f := newStackFixture()

	b := f.scene("b", true)
	a := &enterPusher{probeScene: probeScene{name: "a", trace: &f.trace, opaque: true}, next: b}
	f.stack.Push(a)
	f.stack.Apply(f.ctx)

	assert.Equal(t, []string{"enter:a"}, f.trace)
	assert.Equal(t, 1, f.stack.Len())

	f.stack.Apply(f.ctx)
	assert.Equal(t, []string{"enter:a", "enter:b"}, f.trace)
	assert.Equal(t, 2, f.stack.Len())
}

func TestStackRenderBottomToTop(t *testing.T) {
	f := newStackFixture()
	f.stack.Push(f.scene("a", false))
	f.stack.Apply(f.ctx)
	f.stack.Push(f.scene("b", false))
	f.stack.Apply(f.ctx)
	f.trace = nil

	var q render.Queue
	f.stack.Render(f.ctx, &q)

	assert.Equal(t, []string{"render:a", "render:b"}, f.trace)
}

func TestStackRenderSkipsBelowOpaque(t *testing.T) {
	f := newStackFixture()
	f.stack.Push(f.scene("a", true))
	f.stack.Apply(f.ctx)
	f.stack.Push(f.scene("b", true))
	f.stack.Apply(f.ctx)
	f.stack.Push(f.scene("overlay", false))
	f.stack.Apply(f.ctx)
	f.trace = nil

	var q render.Queue
	f.stack.Render(f.ctx, &q)

	assert.Equal(t, []string{"render:b", "render:overlay"}, f.trace,
		"scenes below the topmost opaque scene stay hidden")
}

func TestStackRenderEmpty(t *testing.T) {
	f := newStackFixture()

	var q render.Queue
	assert.NotPanics(t, func() { f.stack.Render(f.ctx, &q) })
}

// subscriberScene exercises Base.Subscribe cleanup on exit.
type subscriberScene struct {
	Base
	calls int
}

func (s *subscriberScene) Enter(ctx *Context) {
	s.Subscribe(ctx, "test.ping", func(event.Event) { s.calls++ })
}

func TestBaseSubscriptionsReleasedOnExit(t *testing.T) {
	f := newStackFixture()
	f.push("root")

	s := &subscriberScene{}
	f.stack.Push(s)
	f.stack.Apply(f.ctx)

	f.ctx.Events.Publish(event.Event{Kind: "test.ping"})
	require.Equal(t, 1, s.calls)

	require.NoError(t, f.stack.Pop())
	f.stack.Apply(f.ctx)

	f.ctx.Events.Publish(event.Event{Kind: "test.ping"})
	assert.Equal(t, 1, s.calls, "exit must release scene subscriptions")
	assert.Equal(t, 0, f.ctx.Events.Subscribers("test.ping"))
}

func TestStackStress(t *testing.T) {
	f := newStackFixture()
	f.push("root")

	for i := 0; i < 50; i++ {
		f.stack.Push(f.scene(fmt.Sprintf("s%d", i), false))
		f.stack.Apply(f.ctx)
	}
	require.Equal(t, 51, f.stack.Len())

	for f.stack.Len() > 1 {
		require.NoError(t, f.stack.Pop())
		f.stack.Apply(f.ctx)
	}
	assert.Equal(t, 1, f.stack.Len())
	assert.ErrorIs(t, f.stack.Pop(), ErrEmptyStack)
}
