package main

import (
	"flag"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"

	"github.com/nightfore/nf/internal/application/scenes"
	einput "github.com/nightfore/nf/internal/engine/input"
	"github.com/nightfore/nf/internal/engine/loop"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/infrastructure/config"
	"github.com/nightfore/nf/internal/infrastructure/logging"
	"github.com/nightfore/nf/internal/platform/asset"
	"github.com/nightfore/nf/internal/platform/audio"
	"github.com/nightfore/nf/internal/platform/graphics"
	"github.com/nightfore/nf/internal/platform/input"
	"github.com/nightfore/nf/internal/platform/window"
)

// colorClear shows through wherever no scene drew. The scenes paint
// their own backgrounds over it every frame.
var colorClear = color.RGBA{26, 26, 46, 255}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configDir  = flag.String("config", "", "directory with config.json; empty uses the embedded one")
		assetsDir  = flag.String("assets", "", "asset directory; empty uses generated assets")
		record     = flag.Bool("record", false, "record input; saved next to the binary on exit")
		replayFile = flag.String("replay", "", "replay a recorded session file")
		prof       = flag.String("profile", "", "write a cpu or mem profile")
		mute       = flag.Bool("mute", false, "start with audio muted")
		fullscreen = flag.Bool("fullscreen", false, "start fullscreen")
		seedFlag   = flag.Int64("seed", 0, "gameplay seed; 0 picks one from the clock")
	)
	flag.Parse()

	switch *prof {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		return fmt.Errorf("unknown -profile %q (want cpu or mem)", *prof)
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}
	if *mute {
		cfg.Audio.Muted = true
	}
	if *fullscreen {
		cfg.Window.Fullscreen = true
	}

	log, closeLog, err := logging.Setup(cfg.Debug.LogDir, cfg.Debug.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var (
		sampler  einput.Sampler
		recorder *input.Recorder
	)
	switch {
	case *replayFile != "":
		session, err := input.LoadSession(*replayFile)
		if err != nil {
			return err
		}
		rp := input.NewReplayer(*session)
		seed = rp.Seed()
		sampler = rp
		log.Info("replaying session", "file", *replayFile, "seed", seed)
	case *record:
		recorder = input.NewRecorder(input.NewSampler())
		recorder.SetSeed(seed)
		sampler = recorder
		log.Info("recording enabled", "seed", seed)
	default:
		sampler = input.NewSampler()
	}

	manifestFS, loader, err := assetSource(*assetsDir, cfg.Audio.SampleRate)
	if err != nil {
		return err
	}

	l := loop.New(loop.Options{
		Loader:   loader,
		Sampler:  sampler,
		Screen:   scene.Screen{W: cfg.Window.Width, H: cfg.Window.Height},
		MaxDelta: cfg.Loop.MaxDelta(),
		Log:      log,
	})

	renderer := graphics.NewRenderer(l.Context().Resources, colorClear, log)
	l.SetRenderer(renderer)
	defer renderer.Invalidate()

	snd := audio.New(l.Context().Resources, cfg.Audio, log)
	snd.Attach(l.Context().Events)
	snd.Start()
	defer snd.Close()

	win := window.NewManager(cfg.Window)

	l.Start(scenes.NewLoading(manifestFS, "manifest.yaml", scenes.Options{
		Audio: cfg.Audio,
		Seed:  seed,
	}))

	log.Info("starting", "seed", seed,
		"screen", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height), "tps", cfg.Window.TPS)

	if err := ebiten.RunGame(NewGame(l, renderer, win, cfg.Window.TPS, cfg.Debug.Overlay)); err != nil {
		return err
	}

	if recorder != nil {
		name := input.SessionFilename()
		if err := recorder.Save(name); err != nil {
			log.Error("session save failed", "error", err)
		} else {
			log.Info("session saved", "file", name, "frames", recorder.FrameCount())
		}
	}
	log.Info("stopped", "ticks", l.Ticks(), "elapsed", l.Elapsed())
	return nil
}

func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.NewLoader(dir).Load("config.json")
	}
	sub, err := fs.Sub(content, "configs")
	if err != nil {
		return nil, fmt.Errorf("embedded configs: %w", err)
	}
	return config.NewFSLoader(sub).Load("config.json")
}

// assetSource picks where assets come from: a directory with real files,
// or the embedded manifest backed by generated sprites and sounds.
func assetSource(dir string, sampleRate int) (fs.FS, resource.LoaderFunc, error) {
	if dir != "" {
		fsys := os.DirFS(dir)
		return fsys, asset.NewLoader(fsys), nil
	}
	sub, err := fs.Sub(content, "assets")
	if err != nil {
		return nil, nil, fmt.Errorf("embedded assets: %w", err)
	}
	return sub, generatedAssets(sampleRate), nil
}
