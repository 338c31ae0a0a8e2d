package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/radiobot/internal/config"
	"github.com/foxseedlab/radiobot/internal/discord"
	"github.com/foxseedlab/radiobot/internal/repository"
	"github.com/foxseedlab/radiobot/internal/voice"
	"github.com/foxseedlab/radiobot/internal/webhook"
)

type mockRepository struct {
	mu          sync.Mutex
	guilds      map[string]repository.Guild
	getErr      error
	upsertErr   error
	upsertGates map[string]chan struct{}
	inserts     int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		guilds:      make(map[string]repository.Guild),
		upsertGates: make(map[string]chan struct{}),
	}
}

func (m *mockRepository) GetGuild(_ context.Context, guildID string) (*repository.Guild, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	g, ok := m.guilds[guildID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *mockRepository) InsertGuildIfAbsent(_ context.Context, input repository.InsertGuildInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guilds[input.GuildID]; ok {
		return nil
	}
	m.inserts++
	m.guilds[input.GuildID] = repository.Guild{
		ID:        input.GuildID,
		Volume:    input.Volume,
		CreatedAt: input.CreatedAt,
		UpdatedAt: input.CreatedAt,
	}
	return nil
}

func (m *mockRepository) UpsertGuildVolume(_ context.Context, input repository.UpsertGuildVolumeInput) error {
	m.mu.Lock()
	gate := m.upsertGates[input.GuildID]
	upsertErr := m.upsertErr
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if upsertErr != nil {
		return upsertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guilds[input.GuildID]
	if !ok {
		g = repository.Guild{ID: input.GuildID, CreatedAt: input.UpdatedAt}
	}
	g.Volume = input.Volume
	g.UpdatedAt = input.UpdatedAt
	m.guilds[input.GuildID] = g
	return nil
}

func (m *mockRepository) volume(guildID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guilds[guildID]
	return g.Volume, ok
}

type mockDiscordClient struct {
	mu                   sync.Mutex
	userVoiceChannelByID map[string]string
	lookupErr            error
}

func (m *mockDiscordClient) Connect(_ context.Context) error { return nil }
func (m *mockDiscordClient) Close() error                    { return nil }
func (m *mockDiscordClient) JoinVoiceChannel(_, _ string) (discord.VoiceConnection, error) {
	return nil, fmt.Errorf("voice joins go through the engine")
}
func (m *mockDiscordClient) RegisterVoiceStateUpdateHandler(_ func(discord.VoiceStateEvent)) {}
func (m *mockDiscordClient) RegisterSlashCommandHandler(_ func(discord.SlashCommandEvent))   {}
func (m *mockDiscordClient) UpsertSlashCommands(_ string, _ []discord.SlashCommandDefinition) error {
	return nil
}
func (m *mockDiscordClient) GetUserVoiceChannelID(_, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return "", m.lookupErr
	}
	return m.userVoiceChannelByID[userID], nil
}
func (m *mockDiscordClient) GetBotUserID() (string, error) { return "bot-self", nil }
func (m *mockDiscordClient) Run() error                    { return nil }

type mockEngine struct {
	mu         sync.Mutex
	connects   int
	channelIDs []string
	connectErr error
	gate       chan struct{}
	guildGates map[string]chan struct{}
	dialing    chan string
	panicOn    bool
}

func (m *mockEngine) Connect(_ context.Context, guildID, channelID string) (voice.Connection, error) {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	guildGate := m.guildGates[guildID]
	dialing := m.dialing
	m.mu.Unlock()
	if dialing != nil {
		dialing <- guildID
	}
	if guildGate != nil {
		<-guildGate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicOn {
		panic("engine exploded")
	}
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	m.connects++
	m.channelIDs = append(m.channelIDs, channelID)
	conn := &mockConnection{guildID: guildID, channelID: channelID}
	conn.connected = true
	return conn, nil
}

func (m *mockEngine) connectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connects
}

type mockConnection struct {
	guildID   string
	channelID string

	mu        sync.Mutex
	connected bool
	left      bool
	plays     []*mockTrack
	stops     int
	handlers  []voice.TrackEventHandler
}

func (c *mockConnection) PlayOnly(src voice.Source, gain float64) voice.TrackHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, prev := range c.plays {
		prev.Stop()
	}
	t := &mockTrack{
		id:   fmt.Sprintf("%s-%d", c.guildID, len(c.plays)+1),
		url:  src.URL,
		gain: gain,
		done: make(chan struct{}),
	}
	c.plays = append(c.plays, t)
	return t
}

func (c *mockConnection) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
}

func (c *mockConnection) Leave(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.left = true
	return nil
}

func (c *mockConnection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *mockConnection) ChannelID() string {
	return c.channelID
}

func (c *mockConnection) stopCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

func (c *mockConnection) AddTrackEventHandler(h voice.TrackEventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

func (c *mockConnection) sever() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

func (c *mockConnection) lastTrack() *mockTrack {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.plays) == 0 {
		return nil
	}
	return c.plays[len(c.plays)-1]
}

type mockTrack struct {
	id  string
	url string

	mu      sync.Mutex
	gain    float64
	stopped bool
	done    chan struct{}
}

func (t *mockTrack) ID() string { return t.id }

func (t *mockTrack) SetGain(gain float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return voice.ErrTrackEnded
	}
	t.gain = gain
	return nil
}

func (t *mockTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stopped {
		t.stopped = true
		close(t.done)
	}
}

func (t *mockTrack) state() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gain, t.stopped
}

type mockWebhookSender struct {
	mu     sync.Mutex
	events []webhook.PlaybackEvent
}

func (m *mockWebhookSender) SendPlaybackEvent(_ context.Context, event webhook.PlaybackEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockWebhookSender) eventTypes() []webhook.PlaybackEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]webhook.PlaybackEventType, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		MaxVolume:     100,
		DefaultVolume: 100,
	}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(message)
}
