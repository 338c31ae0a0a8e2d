package voice

import (
	"context"
	"errors"
)

// ErrTrackEnded is returned by TrackHandle.SetGain once the track is done.
var ErrTrackEnded = errors.New("track has already ended")

type Source struct {
	URL string
}

type Engine interface {
	Connect(ctx context.Context, guildID, channelID string) (Connection, error)
}

// Connection is a live call in one guild. PlayOnly replaces whatever the call
// is currently playing; playback failures arrive through TrackEventHandler.
type Connection interface {
	PlayOnly(src Source, gain float64) TrackHandle
	Stop()
	Leave(ctx context.Context) error
	Connected() bool
	// ChannelID is the voice channel the call currently sits in.
	ChannelID() string
	AddTrackEventHandler(h TrackEventHandler)
}

type TrackHandle interface {
	ID() string
	SetGain(gain float64) error
	Stop()
}

type TrackEvent struct {
	TrackID string
	GuildID string
	Err     error
}

// TrackEventHandler is called on a goroutine owned by the engine.
type TrackEventHandler interface {
	HandleTrackEvent(event TrackEvent)
}
