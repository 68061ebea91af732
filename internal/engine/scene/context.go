package scene

import (
	"log/slog"
	"time"

	"github.com/nightfore/nf/internal/engine/entity"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/template"
)

// Screen is the logical render size scenes lay out against, independent
// of window scale.
type Screen struct {
	W, H int
}

// Context carries the engine components into every scene hook. The loop
// builds exactly one per run and passes it by pointer; there is no
// global state.
type Context struct {
	Resources *resource.Cache
	Templates *template.Registry
	Events    *event.Bus
	Entities  *entity.Store
	Scenes    *Stack
	Screen    Screen
	Log       *slog.Logger

	// Ticks and Elapsed mirror the loop's run counters; the loop
	// refreshes them at the start of every completed tick so debug
	// overlays can show them.
	Ticks   uint64
	Elapsed time.Duration
}
