// Package audio fulfils the engine's audio command events with a beep
// mixer. The manager listens on the bus; when no audio device is
// available it stays attached and drops playback requests, so a headless
// run never fails on sound.
package audio

import (
	"log/slog"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	eaudio "github.com/nightfore/nf/internal/engine/audio"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/infrastructure/config"
)

// Manager owns the mixer tree:
//
//	masterGain -> masterMix -> musicGain -> musicCtrl -> current track
//	                        -> effectGain -> effectMix -> one-shots
//
// Event handlers run on the game loop goroutine; speaker.Lock guards the
// tree against the playback goroutine once the speaker is started.
type Manager struct {
	cache *resource.Cache
	log   *slog.Logger

	sampleRate beep.SampleRate
	started    bool

	masterGain *effects.Volume
	masterMix  *beep.Mixer
	musicGain  *effects.Volume
	musicCtrl  *beep.Ctrl
	effectGain *effects.Volume
	effectMix  *beep.Mixer

	levels map[eaudio.Channel]float64
	muted  bool

	group *event.Group
}

// New creates a manager seeded with the configured channel levels. The
// speaker stays closed until Start.
func New(cache *resource.Cache, cfg config.AudioConfig, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		cache:      cache,
		log:        log,
		sampleRate: beep.SampleRate(cfg.SampleRate),
		masterMix:  &beep.Mixer{},
		effectMix:  &beep.Mixer{},
		// Seeding the control with endless silence keeps the music chain
		// in the mixer even when no track is set.
		musicCtrl: &beep.Ctrl{Streamer: beep.Silence(-1)},
		levels: map[eaudio.Channel]float64{
			eaudio.ChannelMaster: cfg.Master,
			eaudio.ChannelMusic:  cfg.Music,
			eaudio.ChannelSound:  cfg.Sound,
		},
		muted: cfg.Muted,
	}
	m.musicGain = &effects.Volume{Streamer: m.musicCtrl, Base: 2}
	m.effectGain = &effects.Volume{Streamer: m.effectMix, Base: 2}
	m.masterMix.Add(m.musicGain, m.effectGain)
	m.masterGain = &effects.Volume{Streamer: m.masterMix, Base: 2}
	m.applyLevels()
	return m
}

// Start opens the audio device and begins streaming the mixer. On
// failure the manager logs and keeps running silently.
func (m *Manager) Start() {
	if m.started {
		return
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Millisecond*100)); err != nil {
		m.log.Warn("audio device unavailable, running silent", "error", err)
		return
	}
	speaker.Play(m.masterGain)
	m.started = true
	m.log.Info("audio started", "sampleRate", int(m.sampleRate))
}

// Attach subscribes the manager to the audio command events on the bus.
func (m *Manager) Attach(bus *event.Bus) {
	if m.group != nil {
		return
	}
	g := bus.Group()
	g.Subscribe(eaudio.EventPlaySound, m.onPlaySound)
	g.Subscribe(eaudio.EventPlayMusic, m.onPlayMusic)
	g.Subscribe(eaudio.EventStopMusic, func(event.Event) { m.StopMusic() })
	g.Subscribe(eaudio.EventPauseMusic, func(event.Event) { m.SetMusicPaused(true) })
	g.Subscribe(eaudio.EventResumeMusic, func(event.Event) { m.SetMusicPaused(false) })
	g.Subscribe(eaudio.EventSetVolume, m.onSetVolume)
	g.Subscribe(eaudio.EventSetMuted, m.onSetMuted)
	m.group = g
}

// Detach releases the bus subscriptions. Idempotent.
func (m *Manager) Detach() {
	if m.group == nil {
		return
	}
	m.group.Close()
	m.group = nil
}

// Close detaches from the bus and silences the mixer tree. beep has no
// speaker teardown, so the streamers are cleared instead.
func (m *Manager) Close() {
	m.Detach()
	m.lock()
	m.musicCtrl.Streamer = beep.Silence(-1)
	m.effectMix.Clear()
	m.unlock()
}

// StopMusic replaces the current track with silence.
func (m *Manager) StopMusic() {
	m.lock()
	m.musicCtrl.Streamer = beep.Silence(-1)
	m.musicCtrl.Paused = false
	m.unlock()
}

// SetMusicPaused pauses or resumes the current track in place.
func (m *Manager) SetMusicPaused(paused bool) {
	m.lock()
	m.musicCtrl.Paused = paused
	m.unlock()
}

// SetLevel clamps level into [0, 1] and applies it to the channel.
func (m *Manager) SetLevel(ch eaudio.Channel, level float64) {
	level = math.Min(math.Max(level, 0), 1)
	m.lock()
	m.levels[ch] = level
	m.applyLevels()
	m.unlock()
	m.log.Debug("volume changed", "channel", ch.String(), "level", level)
}

// SetMuted toggles the master mute without touching channel levels.
func (m *Manager) SetMuted(muted bool) {
	m.lock()
	m.muted = muted
	m.applyLevels()
	m.unlock()
}

// Level returns the current level of a channel.
func (m *Manager) Level(ch eaudio.Channel) float64 {
	return m.levels[ch]
}

// Muted reports whether the master channel is muted.
func (m *Manager) Muted() bool {
	return m.muted
}

// ActiveEffects reports how many one-shot streamers are still mixing.
func (m *Manager) ActiveEffects() int {
	m.lock()
	defer m.unlock()
	return m.effectMix.Len()
}

func (m *Manager) onPlaySound(e event.Event) {
	p, ok := e.Payload.(eaudio.PlaySoundPayload)
	if !ok {
		m.log.Warn("play_sound event with unexpected payload", "payload", e.Payload)
		return
	}
	buf, format, ok := m.bufferFor(p.Source)
	if !ok {
		return
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if format.SampleRate != m.sampleRate {
		s = beep.Resample(4, format.SampleRate, m.sampleRate, s)
	}
	if p.Volume > 0 && p.Volume != 1 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(p.Volume)}
	}

	m.lock()
	m.effectMix.Add(s)
	m.unlock()
}

func (m *Manager) onPlayMusic(e event.Event) {
	p, ok := e.Payload.(eaudio.PlayMusicPayload)
	if !ok {
		m.log.Warn("play_music event with unexpected payload", "payload", e.Payload)
		return
	}
	buf, format, ok := m.bufferFor(p.Source)
	if !ok {
		return
	}

	track := buf.Streamer(0, buf.Len())
	var s beep.Streamer
	if p.Loop {
		s = beep.Loop(-1, track)
	} else {
		// A finite track is chained into silence so the control keeps
		// streaming and the chain is never dropped from the mixer.
		s = beep.Seq(track, beep.Silence(-1))
	}
	if format.SampleRate != m.sampleRate {
		s = beep.Resample(4, format.SampleRate, m.sampleRate, s)
	}

	m.lock()
	m.musicCtrl.Streamer = s
	m.musicCtrl.Paused = false
	m.unlock()
}

func (m *Manager) onSetVolume(e event.Event) {
	p, ok := e.Payload.(eaudio.SetVolumePayload)
	if !ok {
		m.log.Warn("set_volume event with unexpected payload", "payload", e.Payload)
		return
	}
	m.SetLevel(p.Channel, p.Level)
}

func (m *Manager) onSetMuted(e event.Event) {
	p, ok := e.Payload.(eaudio.SetMutedPayload)
	if !ok {
		m.log.Warn("set_muted event with unexpected payload", "payload", e.Payload)
		return
	}
	m.SetMuted(p.Muted)
}

// bufferFor resolves a sound asset to its decoded sample buffer.
func (m *Manager) bufferFor(h resource.Handle) (*beep.Buffer, beep.Format, bool) {
	asset, err := m.cache.Get(h)
	if err != nil {
		m.log.Warn("playback of unknown sound asset", "handle", h.String())
		return nil, beep.Format{}, false
	}
	buf, ok := asset.Data.(*beep.Buffer)
	if !ok {
		m.log.Warn("sound asset carries no samples", "path", asset.Path)
		return nil, beep.Format{}, false
	}
	return buf, buf.Format(), true
}

// applyLevels pushes the channel levels into the volume effects. Callers
// hold the speaker lock when started.
func (m *Manager) applyLevels() {
	applyGain(m.masterGain, m.levels[eaudio.ChannelMaster], m.muted)
	applyGain(m.musicGain, m.levels[eaudio.ChannelMusic], false)
	applyGain(m.effectGain, m.levels[eaudio.ChannelSound], false)
}

// applyGain maps a linear level in [0, 1] onto a base-2 volume.
// math.Log2(0) is -Inf, so zero level mutes outright.
func applyGain(v *effects.Volume, level float64, muted bool) {
	if muted || level <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(level)
	v.Silent = false
}

// lock pairs with unlock around mixer tree mutations. Before Start there
// is no playback goroutine to race with.
func (m *Manager) lock() {
	if m.started {
		speaker.Lock()
	}
}

func (m *Manager) unlock() {
	if m.started {
		speaker.Unlock()
	}
}
