package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/foxseedlab/radiobot/internal/voice"
)

// TrackController keeps at most one track handle per guild.
type TrackController struct {
	registry  *VoiceRegistry
	volumes   *VolumeStore
	maxVolume int

	mu     sync.Mutex
	tracks map[string]voice.TrackHandle
}

func NewTrackController(registry *VoiceRegistry, volumes *VolumeStore, maxVolume int) *TrackController {
	return &TrackController{
		registry:  registry,
		volumes:   volumes,
		maxVolume: maxVolume,
		tracks:    make(map[string]voice.TrackHandle),
	}
}

// Play supersedes whatever the guild is playing. The guild must already be
// joined.
func (c *TrackController) Play(guildID string, src voice.Source, volume int) (voice.TrackHandle, error) {
	conn, ok := c.registry.Get(guildID)
	if !ok {
		return nil, ErrNotConnected
	}

	// PlayOnly does not block; the handle of the last call installed wins.
	c.mu.Lock()
	handle := conn.PlayOnly(src, Gain(volume))
	c.tracks[guildID] = handle
	c.mu.Unlock()

	slog.Info("track registered", "guild_id", guildID, "track_id", handle.ID(), "volume", volume)
	return handle, nil
}

// Stop ends the guild's track and whatever its connection is playing.
// It reports whether a track was registered for the guild.
func (c *TrackController) Stop(guildID string) bool {
	c.mu.Lock()
	handle, ok := c.tracks[guildID]
	delete(c.tracks, guildID)
	c.mu.Unlock()
	if !ok {
		return false
	}
	handle.Stop()
	if conn, connected := c.registry.Get(guildID); connected {
		conn.Stop()
	}
	return true
}

// SetVolume persists volume and applies it to the playing track, if any.
// ErrNoActiveTrack is returned after the volume has been saved.
func (c *TrackController) SetVolume(ctx context.Context, guildID string, volume int) error {
	if volume < 0 || volume > c.maxVolume {
		return fmt.Errorf("%w: %d not in 0..%d", ErrVolumeOutOfRange, volume, c.maxVolume)
	}
	if err := c.volumes.Set(ctx, guildID, volume); err != nil {
		return err
	}

	handle, ok := c.Current(guildID)
	if !ok {
		return ErrNoActiveTrack
	}
	if err := handle.SetGain(Gain(volume)); err != nil {
		if errors.Is(err, voice.ErrTrackEnded) {
			return ErrNoActiveTrack
		}
		return fmt.Errorf("failed to apply gain: %w", err)
	}
	return nil
}

// Clear forgets the handle without stopping it; the connection teardown
// that follows ends the track.
func (c *TrackController) Clear(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tracks, guildID)
}

func (c *TrackController) Current(guildID string) (voice.TrackHandle, bool) {
	_, connected := c.registry.Get(guildID)

	c.mu.Lock()
	defer c.mu.Unlock()
	handle, ok := c.tracks[guildID]
	if !ok {
		return nil, false
	}
	if !connected {
		delete(c.tracks, guildID)
		return nil, false
	}
	return handle, true
}
