package scenes

import (
	"fmt"
	"math"

	"github.com/nightfore/nf/internal/application/ui"
	"github.com/nightfore/nf/internal/engine/audio"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/render"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/scene"
	"github.com/nightfore/nf/internal/infrastructure/manifest"
)

// Settings layout. Tests derive click coordinates from these, so the
// screen must lay out through the rect helpers.
const (
	settingsTop  = 120.0
	settingsRowH = 40.0
	volumeStep   = 0.1
	barW         = 120.0
	barH         = 10.0
	stepBtn      = 24.0
)

// settingsChannels fixes the row order of the volume sliders.
var settingsChannels = []audio.Channel{
	audio.ChannelMaster,
	audio.ChannelMusic,
	audio.ChannelSound,
}

func settingsRowY(i int) float64 { return settingsTop + float64(i)*settingsRowH }

func minusRect(cx float64, i int) (x, y, w, h float64) {
	return cx - barW/2 - 16 - stepBtn, settingsRowY(i) - stepBtn/2, stepBtn, stepBtn
}

func plusRect(cx float64, i int) (x, y, w, h float64) {
	return cx + barW/2 + 16, settingsRowY(i) - stepBtn/2, stepBtn, stepBtn
}

// Settings adjusts the mixer levels over the bus. The scene instance is
// shared across pushes, so adjusted levels survive leaving the screen;
// the audio backend stays the single source of playback truth.
type Settings struct {
	scene.Base
	idx  *manifest.Index
	opts Options

	levels map[audio.Channel]float64
	muted  bool

	buttons ui.Buttons
	mute    *ui.Button
}

// NewSettings creates the settings screen seeded with the configured
// levels.
func NewSettings(idx *manifest.Index, opts Options) *Settings {
	return &Settings{
		idx: idx,
		levels: map[audio.Channel]float64{
			audio.ChannelMaster: opts.Audio.Master,
			audio.ChannelMusic:  opts.Audio.Music,
			audio.ChannelSound:  opts.Audio.Sound,
		},
		muted: opts.Audio.Muted,
		opts:  opts,
	}
}

// Enter builds the slider and action buttons.
func (s *Settings) Enter(ctx *scene.Context) {
	cx := float64(ctx.Screen.W) / 2

	s.buttons = s.buttons[:0]
	for i, ch := range settingsChannels {
		mx, my, mw, mh := minusRect(cx, i)
		px, py, pw, ph := plusRect(cx, i)
		s.buttons = append(s.buttons,
			ui.NewButton(mx, my, mw, mh, "-", func() { s.adjust(ctx, ch, -volumeStep) }),
			ui.NewButton(px, py, pw, ph, "+", func() { s.adjust(ctx, ch, volumeStep) }),
		)
	}

	actionTop := settingsRowY(len(settingsChannels)) - buttonH/2
	mx, my, mw, mh := buttonRect(cx, actionTop, 0)
	s.mute = ui.NewButton(mx, my, mw, mh, muteLabel(s.muted), func() { s.toggleMute(ctx) })
	bx, by, bw, bh := buttonRect(cx, actionTop, 1)
	back := ui.NewButton(bx, by, bw, bh, "Back", func() {
		playClick(ctx, s.idx)
		s.pop(ctx)
	})
	s.buttons = append(s.buttons, s.mute, back)
}

// HandleEvent feeds the buttons and pops on escape.
func (s *Settings) HandleEvent(ctx *scene.Context, ev event.Event) {
	s.buttons.Handle(ev)
	if keyDown(ev, "escape") {
		s.pop(ctx)
	}
}

// Render draws the sliders and buttons.
func (s *Settings) Render(ctx *scene.Context, q *render.Queue) {
	w, h := float64(ctx.Screen.W), float64(ctx.Screen.H)
	cx := w / 2
	q.Rect(0, 0, w, h, colorBG)

	title := "settings"
	q.Text(resource.Handle{}, title, ui.CenterX(cx, title), 60, 0, colorTitle)

	for i, ch := range settingsChannels {
		y := settingsRowY(i)
		label := fmt.Sprintf("%-6s %3.0f%%", ch.String(), s.levels[ch]*100)
		q.Text(resource.Handle{}, label, cx-barW/2-16-stepBtn-120, y-8, 0, colorText)

		q.Rect(cx-barW/2, y-barH/2, barW, barH, colorBarBG)
		if fill := barW * s.levels[ch]; fill > 0 {
			q.Rect(cx-barW/2, y-barH/2, fill, barH, colorBar)
		}
	}

	s.buttons.Render(q)
}

// Opaque implements Scene.
func (s *Settings) Opaque() bool { return true }

func (s *Settings) adjust(ctx *scene.Context, ch audio.Channel, delta float64) {
	level := math.Min(math.Max(s.levels[ch]+delta, 0), 1)
	s.levels[ch] = level
	ctx.Events.Publish(event.Event{
		Kind:    audio.EventSetVolume,
		Payload: audio.SetVolumePayload{Channel: ch, Level: level},
	})
	// Played after the volume change so the click previews the new level.
	playClick(ctx, s.idx)
}

func (s *Settings) toggleMute(ctx *scene.Context) {
	s.muted = !s.muted
	s.mute.Text = muteLabel(s.muted)
	ctx.Events.Publish(event.Event{
		Kind:    audio.EventSetMuted,
		Payload: audio.SetMutedPayload{Muted: s.muted},
	})
	playClick(ctx, s.idx)
}

func (s *Settings) pop(ctx *scene.Context) {
	if err := ctx.Scenes.Pop(); err != nil {
		ctx.Log.Warn("settings pop refused", "error", err)
	}
}

func muteLabel(muted bool) string {
	if muted {
		return "Unmute"
	}
	return "Mute"
}
