package scenes

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/input"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/infrastructure/manifest"
)

type loadResult struct {
	manifest *manifest.Manifest
	err      error
}

// Loading reads the asset manifest in the background, then applies it
// and hands off to the menu. Only the file read runs off the game
// goroutine; Apply mutates the cache and registry, so it always runs
// inside Update.
type Loading struct {
	scene.Base
	fsys fs.FS
	name string
	opts Options

	done    chan loadResult
	loadErr error
	elapsed time.Duration
}

// NewLoading creates the bootstrap scene. name is the manifest path
// inside fsys.
func NewLoading(fsys fs.FS, name string, opts Options) *Loading {
	return &Loading{fsys: fsys, name: name, opts: opts}
}

// Enter starts the background read.
func (l *Loading) Enter(ctx *scene.Context) {
	l.done = make(chan loadResult, 1)
	ch := l.done
	go func() {
		m, err := manifest.Load(l.fsys, l.name)
		ch <- loadResult{manifest: m, err: err}
	}()
	ctx.Log.Info("loading manifest", "name", l.name)
}

// Update applies the manifest once the read delivers and replaces this
// scene with the menu.
func (l *Loading) Update(ctx *scene.Context, dt time.Duration) error {
	l.elapsed += dt
	if l.loadErr != nil {
		return nil
	}

	select {
	case res := <-l.done:
		if res.err != nil {
			l.loadErr = res.err
			return fmt.Errorf("load manifest: %w", res.err)
		}
		idx, err := manifest.Apply(res.manifest, ctx.Resources, ctx.Templates)
		if err != nil {
			l.loadErr = err
			return fmt.Errorf("apply manifest: %w", err)
		}
		ctx.Log.Info("manifest applied",
			"images", len(idx.Images), "sounds", len(idx.Sounds), "templates", len(idx.Templates))
		ctx.Scenes.Replace(NewMenu(idx, l.opts))
	default:
	}
	return nil
}

// HandleEvent quits on any key once loading has failed.
func (l *Loading) HandleEvent(ctx *scene.Context, ev event.Event) {
	if l.loadErr != nil && ev.Kind == input.EventKeyDown {
		ctx.Scenes.Clear()
	}
}

// Render draws the animated loading line, or the failure message.
func (l *Loading) Render(ctx *scene.Context, q *render.Queue) {
	w, h := float64(ctx.Screen.W), float64(ctx.Screen.H)
	q.Rect(0, 0, w, h, colorBG)

	if l.loadErr != nil {
		msg := fmt.Sprintf("load failed: %v", l.loadErr)
		q.Text(resource.Handle{}, msg, 20, h/2-8, 0, colorError)
		hint := "press any key to quit"
		q.Text(resource.Handle{}, hint, 20, h/2+12, 0, colorText)
		return
	}

	dots := strings.Repeat(".", 1+int(l.elapsed/(400*time.Millisecond))%3)
	q.Text(resource.Handle{}, "loading"+dots, w/2-30, h/2-8, 0, colorText)
}

// Opaque implements Scene.
func (l *Loading) Opaque() bool { return true }
