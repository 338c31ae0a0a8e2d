package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/foxseedlab/radiobot/internal/config"
	"github.com/foxseedlab/radiobot/internal/discord"
	"github.com/foxseedlab/radiobot/internal/repository"
	"github.com/foxseedlab/radiobot/internal/voice"
	"github.com/foxseedlab/radiobot/internal/webhook"
)

const (
	commandTimeout = 30 * time.Second
	webhookTimeout = 10 * time.Second
)

// Manager turns slash commands into registry, track and volume operations.
type Manager struct {
	cfg      *config.Config
	registry *VoiceRegistry
	tracks   *TrackController
	volumes  *VolumeStore
	webhook  webhook.Sender
	limiter  *userLimiter
}

func NewManager(cfg *config.Config, dc discord.Client, engine voice.Engine, repo repository.Repository, wh webhook.Sender) *Manager {
	volumes := NewVolumeStore(repo)
	registry := NewVoiceRegistry(engine, dc, TrackErrorNotifier{})
	return &Manager{
		cfg:      cfg,
		registry: registry,
		tracks:   NewTrackController(registry, volumes, cfg.MaxVolume),
		volumes:  volumes,
		webhook:  wh,
		limiter:  newUserLimiter(cfg.CommandCooldown),
	}
}

func (m *Manager) HandleSlashCommand(event discord.SlashCommandEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while handling slash command", "panic", r, "command", event.CommandName, "guild_id", event.GuildID, "user_id", event.UserID)
			m.respond(event, messageGenericFailure)
		}
	}()

	if !m.limiter.Allow(event.UserID, event.CommandName) {
		slog.Info("slash command throttled", "command", event.CommandName, "guild_id", event.GuildID, "user_id", event.UserID)
		m.respond(event, messageCooldown)
		return
	}
	if event.Defer != nil {
		if err := event.Defer(); err != nil {
			slog.Warn("failed to defer slash command", "error", err, "command", event.CommandName, "guild_id", event.GuildID)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply, err := m.dispatch(ctx, event)
	if err != nil {
		reply = m.handleCommandError(event, err)
	}
	m.respond(event, reply)
}

// Shutdown leaves every voice channel the bot is in.
func (m *Manager) Shutdown(ctx context.Context) {
	n := m.registry.LeaveAll(ctx)
	slog.Info("voice connections released", "count", n)
}

func (m *Manager) dispatch(ctx context.Context, event discord.SlashCommandEvent) (string, error) {
	if event.CommandName == commandEcho {
		return m.echo(event), nil
	}
	if event.GuildID == "" {
		return messageGuildOnly, nil
	}
	switch event.CommandName {
	case commandJoin:
		return m.join(ctx, event)
	case commandPlay:
		return m.play(ctx, event)
	case commandStop:
		return m.stop(event), nil
	case commandDisconnect:
		return m.disconnect(ctx, event)
	case commandVolume:
		return m.volume(ctx, event)
	default:
		return messageUnknownCommand, nil
	}
}

func (m *Manager) join(ctx context.Context, event discord.SlashCommandEvent) (string, error) {
	channelID, err := m.targetChannel(event)
	if errors.Is(err, ErrUserNotInVoiceChannel) {
		return messageJoinVCFirst, nil
	}
	if err != nil {
		return "", err
	}
	_, alreadyJoined := m.registry.Get(event.GuildID)
	conn, err := m.registry.Join(ctx, event.GuildID, channelID)
	if err != nil {
		return "", err
	}
	if alreadyJoined {
		slog.Info("join reused existing voice connection", "guild_id", event.GuildID, "channel_id", conn.ChannelID(), "requested_channel_id", channelID)
	}
	return joinedMessage(conn.ChannelID(), alreadyJoined), nil
}

func (m *Manager) play(ctx context.Context, event discord.SlashCommandEvent) (string, error) {
	raw, _ := event.StringOption(optionURL)
	streamURL, err := parseStreamURL(raw)
	if err != nil {
		slog.Info("rejected stream url", "error", err, "guild_id", event.GuildID, "user_id", event.UserID)
		return messageInvalidURL, nil
	}

	if _, ok := m.registry.Get(event.GuildID); !ok {
		channelID, err := m.registry.ResolveUserChannel(event.GuildID, event.UserID)
		if errors.Is(err, ErrUserNotInVoiceChannel) {
			return messageJoinVCFirst, nil
		}
		if err != nil {
			return "", err
		}
		if _, err := m.registry.Join(ctx, event.GuildID, channelID); err != nil {
			return "", err
		}
	}

	volume, err := m.volumes.GetOrCreateDefault(ctx, event.GuildID, m.cfg.DefaultVolume)
	if err != nil {
		return "", err
	}
	handle, err := m.tracks.Play(event.GuildID, voice.Source{URL: streamURL}, volume)
	if err != nil {
		return "", err
	}

	m.notifyPlayback(webhook.PlaybackEvent{
		Type:    webhook.PlaybackEventTrackStarted,
		GuildID: event.GuildID,
		UserID:  event.UserID,
		TrackID: handle.ID(),
		URL:     streamURL,
		Volume:  &volume,
	})
	return nowPlayingMessage(streamURL, volume), nil
}

func (m *Manager) stop(event discord.SlashCommandEvent) string {
	if _, ok := m.registry.Get(event.GuildID); !ok {
		return messageNotConnected
	}
	if !m.tracks.Stop(event.GuildID) {
		return messageNothingPlaying
	}
	m.notifyPlayback(webhook.PlaybackEvent{
		Type:    webhook.PlaybackEventTrackStopped,
		GuildID: event.GuildID,
		UserID:  event.UserID,
	})
	return messageStopped
}

func (m *Manager) disconnect(ctx context.Context, event discord.SlashCommandEvent) (string, error) {
	if _, ok := m.registry.Get(event.GuildID); !ok {
		return messageNotConnected, nil
	}
	m.tracks.Clear(event.GuildID)
	if err := m.registry.Leave(ctx, event.GuildID); err != nil {
		return "", err
	}
	m.notifyPlayback(webhook.PlaybackEvent{
		Type:    webhook.PlaybackEventDisconnected,
		GuildID: event.GuildID,
		UserID:  event.UserID,
	})
	return messageDisconnected, nil
}

func (m *Manager) volume(ctx context.Context, event discord.SlashCommandEvent) (string, error) {
	requested, ok := event.IntOption(optionVolume)
	if !ok {
		current, err := m.volumes.GetOrCreateDefault(ctx, event.GuildID, m.cfg.DefaultVolume)
		if err != nil {
			return "", err
		}
		return volumeMessage(current), nil
	}
	if requested < 0 || requested > int64(m.cfg.MaxVolume) {
		return volumeRangeMessage(m.cfg.MaxVolume), nil
	}

	volume := int(requested)
	err := m.tracks.SetVolume(ctx, event.GuildID, volume)
	switch {
	case err == nil:
		return volumeSetMessage(volume, true), nil
	case errors.Is(err, ErrNoActiveTrack):
		return volumeSetMessage(volume, false), nil
	case errors.Is(err, ErrVolumeOutOfRange):
		return volumeRangeMessage(m.cfg.MaxVolume), nil
	default:
		return "", err
	}
}

func (m *Manager) echo(event discord.SlashCommandEvent) string {
	message, ok := event.StringOption(optionMessage)
	if !ok {
		return messageEmptyEcho
	}
	return message
}

func (m *Manager) targetChannel(event discord.SlashCommandEvent) (string, error) {
	if channelID, ok := event.StringOption(optionChannel); ok {
		return channelID, nil
	}
	return m.registry.ResolveUserChannel(event.GuildID, event.UserID)
}

func (m *Manager) handleCommandError(event discord.SlashCommandEvent, err error) string {
	attrs := []any{"error", err, "command", event.CommandName, "guild_id", event.GuildID, "user_id", event.UserID}
	var joinErr *VoiceJoinError
	if errors.As(err, &joinErr) {
		attrs = append(attrs, "channel_id", joinErr.ChannelID)
	}
	slog.Error("slash command failed", attrs...)
	return messageGenericFailure
}

func (m *Manager) respond(event discord.SlashCommandEvent, content string) {
	if event.Respond == nil {
		return
	}
	if err := event.Respond(content); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName, "guild_id", event.GuildID)
	}
}

func (m *Manager) notifyPlayback(event webhook.PlaybackEvent) {
	if m.webhook == nil {
		return
	}
	event.OccurredAt = time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()
		if err := m.webhook.SendPlaybackEvent(ctx, event); err != nil {
			slog.Warn("failed to send playback webhook", "error", err, "type", event.Type, "guild_id", event.GuildID)
		}
	}()
}

// parseStreamURL accepts absolute URLs with a scheme and host.
func parseStreamURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q has no scheme or host", ErrInvalidURL, raw)
	}
	return u.String(), nil
}
