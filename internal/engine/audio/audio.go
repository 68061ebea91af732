// Package audio defines the command events scenes publish for the
// platform audio collaborator. The engine core never touches a mixer;
// playback is requested over the bus and fulfilled (or silently dropped)
// by whatever backend is attached.
package audio

import (
	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/resource"
)

// Command event kinds consumed by the platform mixer. EventStopMusic,
// EventPauseMusic and EventResumeMusic carry no payload.
const (
	EventPlaySound   event.Kind = "audio.play_sound"
	EventPlayMusic   event.Kind = "audio.play_music"
	EventStopMusic   event.Kind = "audio.stop_music"
	EventPauseMusic  event.Kind = "audio.pause_music"
	EventResumeMusic event.Kind = "audio.resume_music"
	EventSetVolume   event.Kind = "audio.set_volume"
	EventSetMuted    event.Kind = "audio.set_muted"
)

// Channel selects a volume group.
type Channel uint8

const (
	ChannelMaster Channel = iota
	ChannelMusic
	ChannelSound
)

// String returns the channel name for logs.
func (c Channel) String() string {
	switch c {
	case ChannelMaster:
		return "master"
	case ChannelMusic:
		return "music"
	case ChannelSound:
		return "sound"
	default:
		return "unknown"
	}
}

// PlaySoundPayload requests one-shot playback of a sound asset. Volume
// scales this playback only; zero means full volume.
type PlaySoundPayload struct {
	Source resource.Handle
	Volume float64
}

// PlayMusicPayload replaces the current music track.
type PlayMusicPayload struct {
	Source resource.Handle
	Loop   bool
}

// SetVolumePayload adjusts a channel level in [0, 1].
type SetVolumePayload struct {
	Channel Channel
	Level   float64
}

// SetMutedPayload toggles the master mute without losing channel levels.
type SetMutedPayload struct {
	Muted bool
}
