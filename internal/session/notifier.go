package session

import (
	"log/slog"

	"github.com/foxseedlab/radiobot/internal/voice"
)

// TrackErrorNotifier logs playback failures reported by the voice engine.
// It never touches session state; a failed track stays registered until a
// user stops or replaces it.
type TrackErrorNotifier struct{}

func (TrackErrorNotifier) HandleTrackEvent(event voice.TrackEvent) {
	if event.Err == nil {
		return
	}
	slog.Error("track playback failed", "error", event.Err, "guild_id", event.GuildID, "track_id", event.TrackID)
}
