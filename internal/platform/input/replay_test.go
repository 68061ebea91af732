package input

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	einput "github.com/nightfore/nf/internal/engine/input"
)

// scriptedSampler returns one scripted frame per poll.
type scriptedSampler struct {
	frames [][]einput.Sample
	next   int
}

func (s *scriptedSampler) Poll() []einput.Sample {
	if s.next >= len(s.frames) {
		return nil
	}
	f := s.frames[s.next]
	s.next++
	return f
}

func TestRecorderRoundTrip(t *testing.T) {
	frames := [][]einput.Sample{
		{{Type: einput.SampleKey, Key: "escape", Pressed: true}},
		nil,
		{
			{Type: einput.SampleMouseMove, X: 120, Y: 80},
			{Type: einput.SampleMouseButton, Button: einput.MouseLeft, Pressed: true, X: 120, Y: 80},
		},
		nil,
		{{Type: einput.SampleKey, Key: "escape"}},
	}

	rec := NewRecorder(&scriptedSampler{frames: frames})
	rec.SetSeed(99)
	for range frames {
		rec.Poll()
	}
	assert.Equal(t, 3, rec.FrameCount())

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, rec.Save(path))

	session, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", session.Version)
	assert.Equal(t, int64(99), session.Seed)

	rep := NewReplayer(*session)
	for i, want := range frames {
		got := rep.Poll()
		if len(want) == 0 {
			assert.Empty(t, got, "frame %d", i)
			continue
		}
		assert.Equal(t, want, got, "frame %d", i)
	}
	assert.True(t, rep.Done())
}

func TestRecorderPassesSamplesThrough(t *testing.T) {
	want := []einput.Sample{{Type: einput.SampleKey, Key: "a", Pressed: true}}
	rec := NewRecorder(&scriptedSampler{frames: [][]einput.Sample{want}})

	assert.Equal(t, want, rec.Poll())
}

func TestRecorderSaveEmpty(t *testing.T) {
	rec := NewRecorder(&scriptedSampler{})
	rec.Poll()

	err := rec.Save(filepath.Join(t.TempDir(), "session.json"))
	assert.ErrorContains(t, err, "no frames")
}

func TestReplayerSparseFrames(t *testing.T) {
	session := Session{
		Version: "1.0",
		Frames: []FrameSamples{
			{F: 2, S: []SampleRecord{{T: int(einput.SampleKey), K: "space", P: true}}},
		},
	}
	rep := NewReplayer(session)

	assert.Empty(t, rep.Poll())
	assert.Empty(t, rep.Poll())
	assert.False(t, rep.Done())

	got := rep.Poll()
	require.Len(t, got, 1)
	assert.Equal(t, "space", got[0].Key)
	assert.True(t, got[0].Pressed)
	assert.True(t, rep.Done())
	assert.Equal(t, 3, rep.CurrentFrame())
}

func TestLoadSessionMissingFile(t *testing.T) {
	_, err := LoadSession(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorContains(t, err, "failed to open")
}
