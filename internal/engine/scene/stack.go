package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nightfore/nf/internal/engine/render"
)

// ErrEmptyStack reports a pop that would leave the stack empty.
var ErrEmptyStack = errors.New("scene: pop would empty the stack")

type transitionKind int

const (
	transitionNone transitionKind = iota
	transitionPush
	transitionPop
	transitionReplace
	transitionClear
)

// String returns the transition name for logs.
func (k transitionKind) String() string {
	switch k {
	case transitionNone:
		return "none"
	case transitionPush:
		return "push"
	case transitionPop:
		return "pop"
	case transitionReplace:
		return "replace"
	case transitionClear:
		return "clear"
	default:
		return "unknown"
	}
}

type transition struct {
	kind  transitionKind
	scene Scene
}

// Stack is the scene state machine.
//
// Transition requests are queued and applied by the loop at a fixed
// point of the tick; when several arrive in one tick the last request
// wins. Not safe for concurrent use.
type Stack struct {
	scenes  []Scene
	pending transition
	log     *slog.Logger
}

// NewStack creates an empty stack.
func NewStack(log *slog.Logger) *Stack {
	if log == nil {
		log = slog.Default()
	}
	return &Stack{log: log}
}

// Push queues s to become the new top. The current top is suspended in
// place, not exited.
func (st *Stack) Push(s Scene) {
	st.queue(transition{kind: transitionPush, scene: s})
}

// Pop queues removal of the top scene; the scene below resumes. Popping
// the last scene is refused with ErrEmptyStack and queues nothing; use
// Clear to shut down.
func (st *Stack) Pop() error {
	if len(st.scenes) <= 1 {
		return fmt.Errorf("%w (depth %d)", ErrEmptyStack, len(st.scenes))
	}
	st.queue(transition{kind: transitionPop})
	return nil
}

// Replace queues an atomic swap of the top scene: one Exit, one Enter,
// and no Resume in between.
func (st *Stack) Replace(s Scene) {
	st.queue(transition{kind: transitionReplace, scene: s})
}

// Clear queues removal of every scene, top down. An empty stack ends
// the run.
func (st *Stack) Clear() {
	st.queue(transition{kind: transitionClear})
}

func (st *Stack) queue(t transition) {
	if st.pending.kind != transitionNone {
		st.log.Debug("scene transition superseded",
			"dropped", st.pending.kind.String(), "by", t.kind.String())
	}
	st.pending = t
}

// Apply executes the pending transition, if any. The loop calls this
// once per tick after update and flush; transitions queued by Enter,
// Exit or Resume hooks land in the next tick's Apply.
func (st *Stack) Apply(ctx *Context) {
	t := st.pending
	st.pending = transition{}

	switch t.kind {
	case transitionNone:

	case transitionPush:
		st.scenes = append(st.scenes, t.scene)
		st.log.Info("scene pushed", "depth", len(st.scenes))
		t.scene.Enter(ctx)

	case transitionPop:
		if len(st.scenes) <= 1 {
			st.log.Warn("pop dropped, would empty the stack")
			return
		}
		top := st.scenes[len(st.scenes)-1]
		top.Exit(ctx)
		st.scenes = st.scenes[:len(st.scenes)-1]
		st.log.Info("scene popped", "depth", len(st.scenes))
		st.scenes[len(st.scenes)-1].Resume(ctx)

	case transitionReplace:
		if n := len(st.scenes); n > 0 {
			old := st.scenes[n-1]
			old.Exit(ctx)
			st.scenes[n-1] = t.scene
		} else {
			st.scenes = append(st.scenes, t.scene)
		}
		st.log.Info("scene replaced", "depth", len(st.scenes))
		t.scene.Enter(ctx)

	case transitionClear:
		for i := len(st.scenes) - 1; i >= 0; i-- {
			st.scenes[i].Exit(ctx)
		}
		st.scenes = st.scenes[:0]
		st.log.Info("scene stack cleared")
	}
}

// Top returns the active scene, or nil for an empty stack.
func (st *Stack) Top() Scene {
	if len(st.scenes) == 0 {
		return nil
	}
	return st.scenes[len(st.scenes)-1]
}

// Len reports the stack depth.
func (st *Stack) Len() int { return len(st.scenes) }

// Render appends draw commands for every visible scene, bottom to top.
// Scenes beneath the topmost opaque scene are skipped.
func (st *Stack) Render(ctx *Context, q *render.Queue) {
	start := 0
	for i := len(st.scenes) - 1; i >= 0; i-- {
		if st.scenes[i].Opaque() {
			start = i
			break
		}
	}
	for i := start; i < len(st.scenes); i++ {
		st.scenes[i].Render(ctx, q)
	}
}
