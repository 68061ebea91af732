package input

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	einput "github.com/nightfore/nf/internal/engine/input"
)

// SampleRecord is one recorded sample with compact field names.
type SampleRecord struct {
	T int     `json:"t"`           // SampleType
	K string  `json:"k,omitempty"` // Key name
	P bool    `json:"p,omitempty"` // Pressed
	B int     `json:"b,omitempty"` // Mouse button
	X float64 `json:"x,omitempty"` // Cursor X
	Y float64 `json:"y,omitempty"` // Cursor Y
}

// FrameSamples holds the samples of a single frame. Frames without
// samples are not stored.
type FrameSamples struct {
	F int            `json:"f"` // Frame number
	S []SampleRecord `json:"s,omitempty"`
}

// Session contains all data needed to replay a recorded run.
type Session struct {
	Version   string         `json:"version"`
	Seed      int64          `json:"seed"`
	StartTime string         `json:"startTime"`
	Frames    []FrameSamples `json:"frames"`
}

// Recorder wraps a live sampler and captures everything it returns.
type Recorder struct {
	inner   einput.Sampler
	session Session
	frame   int
}

// NewRecorder creates a recorder around the given sampler.
func NewRecorder(inner einput.Sampler) *Recorder {
	return &Recorder{
		inner: inner,
		session: Session{
			Version:   "1.0",
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameSamples, 0, 3600), // Pre-allocate for ~1 minute at 60 tps
		},
	}
}

// SetSeed stores the seed the run was started with.
func (r *Recorder) SetSeed(seed int64) {
	r.session.Seed = seed
}

// Poll forwards to the wrapped sampler and records the result.
func (r *Recorder) Poll() []einput.Sample {
	samples := r.inner.Poll()
	if len(samples) > 0 {
		fs := FrameSamples{F: r.frame, S: make([]SampleRecord, len(samples))}
		for i, s := range samples {
			fs.S[i] = SampleRecord{
				T: int(s.Type),
				K: s.Key,
				P: s.Pressed,
				B: s.Button,
				X: s.X,
				Y: s.Y,
			}
		}
		r.session.Frames = append(r.session.Frames, fs)
	}
	r.frame++
	return samples
}

// FrameCount returns the number of frames that carried samples.
func (r *Recorder) FrameCount() int {
	return len(r.session.Frames)
}

// Save writes the recorded session to a file.
func (r *Recorder) Save(filename string) error {
	if len(r.session.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.session); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return nil
}

// LoadSession loads a recorded session from a file.
func LoadSession(filename string) (*Session, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var session Session
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// Replayer feeds a recorded session back one frame per poll.
type Replayer struct {
	session Session
	frame   int
	next    int
}

// NewReplayer creates a replayer over the given session.
func NewReplayer(session Session) *Replayer {
	return &Replayer{session: session}
}

// Seed returns the seed the session was recorded with.
func (r *Replayer) Seed() int64 {
	return r.session.Seed
}

// Poll returns the samples recorded for the current frame and advances.
// Frames the recorder skipped come back empty.
func (r *Replayer) Poll() []einput.Sample {
	frame := r.frame
	r.frame++

	if r.next >= len(r.session.Frames) || r.session.Frames[r.next].F != frame {
		return nil
	}

	records := r.session.Frames[r.next].S
	r.next++

	samples := make([]einput.Sample, len(records))
	for i, rec := range records {
		samples[i] = einput.Sample{
			Type:    einput.SampleType(rec.T),
			Key:     rec.K,
			Pressed: rec.P,
			Button:  rec.B,
			X:       rec.X,
			Y:       rec.Y,
		}
	}
	return samples
}

// Done reports whether every recorded frame has been replayed.
func (r *Replayer) Done() bool {
	return r.next >= len(r.session.Frames)
}

// CurrentFrame returns the frame number the next poll will serve.
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// SessionFilename creates a filename based on the current time.
func SessionFilename() string {
	return fmt.Sprintf("session_%s.json", time.Now().Format("20060102_150405"))
}
