package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/foxseedlab/radiobot/internal/discord"
	"github.com/foxseedlab/radiobot/internal/voice"
	"golang.org/x/sync/singleflight"
)

// VoiceRegistry owns the live voice connection of each guild. The map lock
// is only held for single map operations, never while dialing or asking
// Discord for voice state.
type VoiceRegistry struct {
	engine   voice.Engine
	discord  discord.Client
	notifier voice.TrackEventHandler
	joins    singleflight.Group

	mu    sync.Mutex
	conns map[string]voice.Connection
}

func NewVoiceRegistry(engine voice.Engine, dc discord.Client, notifier voice.TrackEventHandler) *VoiceRegistry {
	return &VoiceRegistry{
		engine:   engine,
		discord:  dc,
		notifier: notifier,
		conns:    make(map[string]voice.Connection),
	}
}

// Join returns the existing connection of the guild or dials channelID.
// Concurrent joins for one guild share a single dial.
func (r *VoiceRegistry) Join(ctx context.Context, guildID, channelID string) (voice.Connection, error) {
	if conn, ok := r.Get(guildID); ok {
		return conn, nil
	}
	v, err, _ := r.joins.Do(guildID, func() (any, error) {
		if conn, ok := r.Get(guildID); ok {
			return conn, nil
		}
		conn, err := r.engine.Connect(ctx, guildID, channelID)
		if err != nil {
			return nil, &VoiceJoinError{GuildID: guildID, ChannelID: channelID, Err: err}
		}
		conn.AddTrackEventHandler(r.notifier)

		r.mu.Lock()
		r.conns[guildID] = conn
		r.mu.Unlock()
		slog.Info("voice connection registered", "guild_id", guildID, "channel_id", channelID)
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(voice.Connection), nil
}

// Get never dials. A connection the engine reports as severed is evicted.
func (r *VoiceRegistry) Get(guildID string) (voice.Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[guildID]
	if !ok {
		return nil, false
	}
	if !conn.Connected() {
		delete(r.conns, guildID)
		slog.Info("evicted severed voice connection", "guild_id", guildID)
		return nil, false
	}
	return conn, true
}

func (r *VoiceRegistry) Leave(ctx context.Context, guildID string) error {
	r.mu.Lock()
	conn, ok := r.conns[guildID]
	delete(r.conns, guildID)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	if err := conn.Leave(ctx); err != nil {
		return fmt.Errorf("failed to leave voice channel in guild %s: %w", guildID, err)
	}
	slog.Info("voice connection released", "guild_id", guildID)
	return nil
}

// LeaveAll releases every registered connection and returns the number left.
func (r *VoiceRegistry) LeaveAll(ctx context.Context) int {
	r.mu.Lock()
	guildIDs := make([]string, 0, len(r.conns))
	for guildID := range r.conns {
		guildIDs = append(guildIDs, guildID)
	}
	r.mu.Unlock()

	for _, guildID := range guildIDs {
		if err := r.Leave(ctx, guildID); err != nil {
			slog.Error("failed to leave voice channel on shutdown", "error", err, "guild_id", guildID)
		}
	}
	return len(guildIDs)
}

func (r *VoiceRegistry) ResolveUserChannel(guildID, userID string) (string, error) {
	channelID, err := r.discord.GetUserVoiceChannelID(guildID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to look up voice state of user %s: %w", userID, err)
	}
	if channelID == "" {
		return "", ErrUserNotInVoiceChannel
	}
	return channelID, nil
}
