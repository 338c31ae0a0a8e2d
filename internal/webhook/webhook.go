package webhook

import (
	"context"
	"time"
)

type PlaybackEventType string

const (
	PlaybackEventTrackStarted PlaybackEventType = "track_started"
	PlaybackEventTrackStopped PlaybackEventType = "track_stopped"
	PlaybackEventDisconnected PlaybackEventType = "disconnected"
)

type PlaybackEvent struct {
	Type       PlaybackEventType `json:"type"`
	GuildID    string            `json:"guild_id"`
	UserID     string            `json:"user_id"`
	TrackID    string            `json:"track_id,omitempty"`
	URL        string            `json:"url,omitempty"`
	Volume     *int              `json:"volume,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type Sender interface {
	SendPlaybackEvent(ctx context.Context, event PlaybackEvent) error
}
