package discord

import "context"

type SlashCommandOptionType int

const (
	OptionString SlashCommandOptionType = iota + 1
	OptionInteger
	OptionVoiceChannel
)

type SlashCommandOption struct {
	Name        string
	Description string
	Type        SlashCommandOptionType
	Required    bool
	MinValue    *int
	MaxValue    int
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

// SlashCommandEvent is one command invocation. Defer acknowledges it without
// content; Respond sends the reply, editing the deferred response if any.
type SlashCommandEvent struct {
	GuildID       string
	ChannelID     string
	CommandName   string
	UserID        string
	StringOptions map[string]string
	IntOptions    map[string]int64
	Defer         func() error
	Respond       func(content string) error
}

func (e SlashCommandEvent) StringOption(name string) (string, bool) {
	v, ok := e.StringOptions[name]
	return v, ok && v != ""
}

func (e SlashCommandEvent) IntOption(name string) (int64, bool) {
	v, ok := e.IntOptions[name]
	return v, ok
}

type VoiceStateEvent struct {
	GuildID         string
	UserID          string
	BeforeChannelID string
	AfterChannelID  string
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	JoinVoiceChannel(guildID, channelID string) (VoiceConnection, error)
	RegisterVoiceStateUpdateHandler(handler func(VoiceStateEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	// UpsertSlashCommands registers defs globally when guildID is empty.
	UpsertSlashCommands(guildID string, defs []SlashCommandDefinition) error
	// GetUserVoiceChannelID returns an empty id when the user is not in voice.
	GetUserVoiceChannelID(guildID, userID string) (string, error)
	GetBotUserID() (string, error)
	Run() error
}

type VoiceConnection interface {
	Disconnect() error
	Speaking(speaking bool) error
	SendOpus(ctx context.Context, frame []byte) error
}
