package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/foxseedlab/radiobot/internal/audio"
	"github.com/foxseedlab/radiobot/internal/discord"
	"github.com/foxseedlab/radiobot/internal/voice"
)

// Engine owns one call per guild and streams tracks into it as opus frames.
type Engine struct {
	discord    discord.Client
	opener     audio.StreamOpener
	newEncoder audio.EncoderFactory

	trackSeq atomic.Uint64

	mu        sync.Mutex
	calls     map[string]*call
	botUserID string
}

func NewEngine(dc discord.Client, opener audio.StreamOpener, newEncoder audio.EncoderFactory) *Engine {
	return &Engine{
		discord:    dc,
		opener:     opener,
		newEncoder: newEncoder,
		calls:      make(map[string]*call),
	}
}

func (e *Engine) SetBotUserID(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.botUserID = userID
}

func (e *Engine) Connect(ctx context.Context, guildID, channelID string) (voice.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vc, err := e.discord.JoinVoiceChannel(guildID, channelID)
	if err != nil {
		return nil, err
	}
	c := &call{
		engine:    e,
		guildID:   guildID,
		channelID: channelID,
		conn:      vc,
	}
	c.connected.Store(true)

	e.mu.Lock()
	prev := e.calls[guildID]
	e.calls[guildID] = c
	e.mu.Unlock()
	if prev != nil {
		prev.sever()
	}
	slog.Info("voice call established", "guild_id", guildID, "channel_id", channelID)
	return c, nil
}

// HandleVoiceStateUpdate drops the call when the bot itself is removed from
// voice outside of Leave, e.g. kicked by a moderator.
func (e *Engine) HandleVoiceStateUpdate(event discord.VoiceStateEvent) {
	e.mu.Lock()
	if e.botUserID == "" || event.UserID != e.botUserID {
		e.mu.Unlock()
		return
	}
	c, ok := e.calls[event.GuildID]
	if !ok {
		e.mu.Unlock()
		return
	}
	if event.AfterChannelID != "" {
		e.mu.Unlock()
		c.setChannelID(event.AfterChannelID)
		slog.Info("voice call moved", "guild_id", event.GuildID, "channel_id", event.AfterChannelID)
		return
	}
	delete(e.calls, event.GuildID)
	e.mu.Unlock()

	c.sever()
	slog.Warn("voice call severed externally", "guild_id", event.GuildID, "channel_id", event.BeforeChannelID)
}

func (e *Engine) removeCall(c *call) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.calls[c.guildID] == c {
		delete(e.calls, c.guildID)
	}
}

func (e *Engine) nextTrackID(guildID string) string {
	return fmt.Sprintf("%s-%d", guildID, e.trackSeq.Add(1))
}

type call struct {
	engine  *Engine
	guildID string
	conn    discord.VoiceConnection

	connected atomic.Bool

	mu        sync.Mutex
	channelID string
	current   *track
	handlers  []voice.TrackEventHandler
}

func (c *call) PlayOnly(src voice.Source, gain float64) voice.TrackHandle {
	ctx, cancel := context.WithCancel(context.Background())
	t := &track{
		id:      c.engine.nextTrackID(c.guildID),
		guildID: c.guildID,
		src:     src,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	t.gain.Store(math.Float64bits(gain))

	c.mu.Lock()
	prev := c.current
	c.current = t
	c.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	go c.run(t, prev)
	return t
}

func (c *call) Stop() {
	c.mu.Lock()
	t := c.current
	c.current = nil
	c.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

func (c *call) Leave(ctx context.Context) error {
	if !c.connected.CompareAndSwap(true, false) {
		return nil
	}
	c.engine.removeCall(c)

	c.mu.Lock()
	t := c.current
	c.current = nil
	c.mu.Unlock()
	if t != nil {
		t.Stop()
		select {
		case <-t.done:
		case <-ctx.Done():
		}
	}

	if err := c.conn.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect voice connection: %w", err)
	}
	slog.Info("voice call torn down", "guild_id", c.guildID, "channel_id", c.ChannelID())
	return nil
}

func (c *call) Connected() bool {
	return c.connected.Load()
}

func (c *call) AddTrackEventHandler(h voice.TrackEventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

func (c *call) setChannelID(channelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelID = channelID
}

func (c *call) ChannelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

// sever marks the call as gone without talking to the gateway.
func (c *call) sever() {
	c.connected.Store(false)
	c.Stop()
}

func (c *call) run(t *track, prev *track) {
	defer close(t.done)
	if prev != nil {
		<-prev.done
	}
	if t.ctx.Err() != nil {
		return
	}
	slog.Info("track started", "track_id", t.id, "guild_id", t.guildID, "url", t.src.URL)
	err := c.stream(t)
	c.finish(t, err)
}

func (c *call) stream(t *track) error {
	rc, err := c.engine.opener.Open(t.ctx, t.src.URL)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	enc, err := c.engine.newEncoder()
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}

	if err := c.conn.Speaking(true); err != nil {
		slog.Warn("failed to set speaking state", "error", err, "guild_id", t.guildID)
	}
	defer func() {
		if err := c.conn.Speaking(false); err != nil {
			slog.Debug("failed to clear speaking state", "error", err, "guild_id", t.guildID)
		}
	}()

	buf := make([]byte, audio.FrameBytes)
	pcm := make([]int16, audio.FrameSamples)
	for {
		if _, err := io.ReadFull(rc, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("failed to read stream: %w", err)
		}
		audio.DecodePCM(buf, pcm)
		audio.ApplyGain(pcm, t.Gain())
		frame, err := enc.Encode(pcm)
		if err != nil {
			return fmt.Errorf("failed to encode frame: %w", err)
		}
		if err := c.conn.SendOpus(t.ctx, frame); err != nil {
			return fmt.Errorf("failed to send frame: %w", err)
		}
	}
}

func (c *call) finish(t *track, err error) {
	stopped := t.ctx.Err() != nil
	t.cancel()

	c.mu.Lock()
	if c.current == t {
		c.current = nil
	}
	handlers := append([]voice.TrackEventHandler(nil), c.handlers...)
	c.mu.Unlock()

	if stopped {
		slog.Info("track stopped", "track_id", t.id, "guild_id", t.guildID)
		return
	}
	if err == nil {
		slog.Info("track finished", "track_id", t.id, "guild_id", t.guildID)
		return
	}
	event := voice.TrackEvent{TrackID: t.id, GuildID: t.guildID, Err: err}
	for _, h := range handlers {
		go h.HandleTrackEvent(event)
	}
}

type track struct {
	id      string
	guildID string
	src     voice.Source
	gain    atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func (t *track) ID() string {
	return t.id
}

func (t *track) Gain() float64 {
	return math.Float64frombits(t.gain.Load())
}

func (t *track) SetGain(gain float64) error {
	select {
	case <-t.done:
		return voice.ErrTrackEnded
	default:
	}
	t.gain.Store(math.Float64bits(gain))
	return nil
}

func (t *track) Stop() {
	t.cancel()
}

func (t *track) Done() <-chan struct{} {
	return t.done
}
