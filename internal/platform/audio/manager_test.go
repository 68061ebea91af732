package audio

import (
	"strings"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eaudio "github.com/nightfore/nf/internal/engine/audio"
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/infrastructure/config"
)

// The speaker is never started in tests, so the mixer tree can be
// inspected without an audio device.

func testConfig() config.AudioConfig {
	return config.AudioConfig{Master: 1, Music: 0.7, Sound: 0.9, SampleRate: 44100}
}

// soundLoader serves silent buffers; paths with a "22k/" prefix use a
// mismatched sample rate.
func soundLoader(path string, _ resource.Kind) (resource.Asset, error) {
	rate := beep.SampleRate(44100)
	if strings.HasPrefix(path, "22k/") {
		rate = 22050
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Silence(128))
	return resource.Asset{Data: buf}, nil
}

func testManager(t *testing.T) (*Manager, *event.Bus, *resource.Cache, resource.Handle) {
	t.Helper()
	cache := resource.NewCache(soundLoader, nil)
	h, err := cache.Load("pop.wav", resource.KindSound)
	require.NoError(t, err)

	bus := event.NewBus()
	m := New(cache, testConfig(), nil)
	m.Attach(bus)
	return m, bus, cache, h
}

func TestManagerPlaySoundAddsEffect(t *testing.T) {
	m, bus, _, h := testManager(t)

	bus.Publish(event.Event{Kind: eaudio.EventPlaySound, Payload: eaudio.PlaySoundPayload{Source: h}})
	assert.Equal(t, 1, m.ActiveEffects())

	bus.Publish(event.Event{Kind: eaudio.EventPlaySound, Payload: eaudio.PlaySoundPayload{Source: h, Volume: 0.5}})
	assert.Equal(t, 2, m.ActiveEffects())
}

func TestManagerPlaySoundResamplesMismatchedRate(t *testing.T) {
	m, bus, cache, _ := testManager(t)

	h, err := cache.Load("22k/pop.wav", resource.KindSound)
	require.NoError(t, err)

	bus.Publish(event.Event{Kind: eaudio.EventPlaySound, Payload: eaudio.PlaySoundPayload{Source: h}})
	assert.Equal(t, 1, m.ActiveEffects())
}

func TestManagerPlaySoundStaleHandle(t *testing.T) {
	m, bus, cache, h := testManager(t)

	cache.Release(h)
	require.Equal(t, 1, cache.Collect())

	bus.Publish(event.Event{Kind: eaudio.EventPlaySound, Payload: eaudio.PlaySoundPayload{Source: h}})
	assert.Equal(t, 0, m.ActiveEffects())
}

func TestManagerIgnoresWrongPayload(t *testing.T) {
	m, bus, _, _ := testManager(t)

	bus.Publish(event.Event{Kind: eaudio.EventPlaySound, Payload: "not a payload"})
	bus.Publish(event.Event{Kind: eaudio.EventSetVolume, Payload: 42})
	assert.Equal(t, 0, m.ActiveEffects())
}

func TestManagerGainMapping(t *testing.T) {
	cache := resource.NewCache(soundLoader, nil)
	cfg := testConfig()
	cfg.Master = 0.5
	m := New(cache, cfg, nil)

	// Log2(0.5) halves the amplitude in base-2 volume terms.
	assert.InDelta(t, -1.0, m.masterGain.Volume, 1e-9)
	assert.False(t, m.masterGain.Silent)

	m.SetLevel(eaudio.ChannelMaster, 0)
	assert.True(t, m.masterGain.Silent)
	assert.Equal(t, 0.0, m.Level(eaudio.ChannelMaster))
}

func TestManagerVolumeEventClamped(t *testing.T) {
	m, bus, _, _ := testManager(t)

	bus.Publish(event.Event{Kind: eaudio.EventSetVolume, Payload: eaudio.SetVolumePayload{Channel: eaudio.ChannelSound, Level: 1.5}})
	assert.Equal(t, 1.0, m.Level(eaudio.ChannelSound))

	bus.Publish(event.Event{Kind: eaudio.EventSetVolume, Payload: eaudio.SetVolumePayload{Channel: eaudio.ChannelSound, Level: -0.2}})
	assert.Equal(t, 0.0, m.Level(eaudio.ChannelSound))
	assert.True(t, m.effectGain.Silent)
}

func TestManagerMuteKeepsLevels(t *testing.T) {
	m, bus, _, _ := testManager(t)

	bus.Publish(event.Event{Kind: eaudio.EventSetMuted, Payload: eaudio.SetMutedPayload{Muted: true}})
	assert.True(t, m.Muted())
	assert.True(t, m.masterGain.Silent)
	assert.Equal(t, 1.0, m.Level(eaudio.ChannelMaster))

	bus.Publish(event.Event{Kind: eaudio.EventSetMuted, Payload: eaudio.SetMutedPayload{Muted: false}})
	assert.False(t, m.Muted())
	assert.False(t, m.masterGain.Silent)
}

// isIdle reports whether the control still streams the silence seeded at
// construction. Silence and Seq are StreamerFunc values; a looped track
// is not.
func isIdle(s beep.Streamer) bool {
	_, ok := s.(beep.StreamerFunc)
	return ok
}

func TestManagerMusicLifecycle(t *testing.T) {
	m, bus, _, h := testManager(t)
	require.True(t, isIdle(m.musicCtrl.Streamer))

	bus.Publish(event.Event{Kind: eaudio.EventPlayMusic, Payload: eaudio.PlayMusicPayload{Source: h, Loop: true}})
	assert.False(t, isIdle(m.musicCtrl.Streamer))
	assert.False(t, m.musicCtrl.Paused)

	bus.Publish(event.Event{Kind: eaudio.EventPauseMusic})
	assert.True(t, m.musicCtrl.Paused)

	bus.Publish(event.Event{Kind: eaudio.EventResumeMusic})
	assert.False(t, m.musicCtrl.Paused)

	bus.Publish(event.Event{Kind: eaudio.EventStopMusic})
	assert.True(t, isIdle(m.musicCtrl.Streamer))
	assert.False(t, m.musicCtrl.Paused)
}

func TestManagerDetachStopsHandling(t *testing.T) {
	m, bus, _, h := testManager(t)

	m.Detach()
	m.Detach() // idempotent
	bus.Publish(event.Event{Kind: eaudio.EventPlaySound, Payload: eaudio.PlaySoundPayload{Source: h}})
	assert.Equal(t, 0, m.ActiveEffects())
	assert.Equal(t, 0, bus.Subscribers(eaudio.EventPlaySound))
}

func TestManagerCloseSilencesTree(t *testing.T) {
	m, bus, _, h := testManager(t)

	bus.Publish(event.Event{Kind: eaudio.EventPlaySound, Payload: eaudio.PlaySoundPayload{Source: h}})
	bus.Publish(event.Event{Kind: eaudio.EventPlayMusic, Payload: eaudio.PlayMusicPayload{Source: h, Loop: true}})
	require.Equal(t, 1, m.ActiveEffects())

	m.Close()
	assert.Equal(t, 0, m.ActiveEffects())
	assert.Equal(t, 0, bus.Subscribers(eaudio.EventPlayMusic))
}
