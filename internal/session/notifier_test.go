package session

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/foxseedlab/radiobot/internal/voice"
)

func TestTrackErrorNotifier_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	TrackErrorNotifier{}.HandleTrackEvent(voice.TrackEvent{
		TrackID: "42-1",
		GuildID: "42",
		Err:     errors.New("stream interrupted"),
	})
	TrackErrorNotifier{}.HandleTrackEvent(voice.TrackEvent{TrackID: "42-2", GuildID: "42"})

	out := buf.String()
	if strings.Count(out, "track playback failed") != 1 {
		t.Fatalf("expected exactly one error log, got %q", out)
	}
	for _, want := range []string{`"guild_id":"42"`, `"track_id":"42-1"`, "stream interrupted"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output %q", want, out)
		}
	}
}
