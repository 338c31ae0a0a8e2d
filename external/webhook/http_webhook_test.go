package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foxseedlab/radiobot/internal/webhook"
)

func TestSendPlaybackEvent_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendPlaybackEvent(context.Background(), webhook.PlaybackEvent{Type: webhook.PlaybackEventTrackStopped}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendPlaybackEvent_Success(t *testing.T) {
	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	volume := 40
	sender := NewHTTPSender(server.URL)
	err := sender.SendPlaybackEvent(context.Background(), webhook.PlaybackEvent{
		Type:       webhook.PlaybackEventTrackStarted,
		GuildID:    "guild-1",
		UserID:     "user-1",
		TrackID:    "guild-1-1",
		URL:        "http://radio.example/stream",
		Volume:     &volume,
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got["type"] != "track_started" || got["guild_id"] != "guild-1" || got["url"] != "http://radio.example/stream" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if got["volume"] != float64(40) {
		t.Fatalf("unexpected volume: %v", got["volume"])
	}
	if got["occurred_at"] != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected occurred_at: %v", got["occurred_at"])
	}
}

func TestSendPlaybackEvent_OmitsEmptyTrackFields(t *testing.T) {
	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendPlaybackEvent(context.Background(), webhook.PlaybackEvent{
		Type:    webhook.PlaybackEventDisconnected,
		GuildID: "guild-1",
	}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for _, key := range []string{"track_id", "url", "volume"} {
		if _, ok := got[key]; ok {
			t.Fatalf("expected %s to be omitted: %v", key, got)
		}
	}
}

func TestSendPlaybackEvent_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendPlaybackEvent(context.Background(), webhook.PlaybackEvent{Type: webhook.PlaybackEventTrackStopped}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
