package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env                  string
	DatabaseURL          string
	DiscordToken         string
	DiscordDebugGuildID  string
	DiscordPublishGlobal bool
	DiscordSelfDeaf      bool
	MaxVolume            int
	DefaultVolume        int
	FFmpegPath           string
	CommandCooldown      time.Duration
	PlaybackWebhookURL   string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.IsDevelopment() && c.DiscordDebugGuildID == "" {
		return fmt.Errorf("DISCORD_DEBUG_GUILD_ID is required when ENV=development")
	}
	if c.MaxVolume <= 0 {
		return fmt.Errorf("MAX_VOLUME must be positive, got %d", c.MaxVolume)
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > c.MaxVolume {
		return fmt.Errorf("DEFAULT_VOLUME must be between 0 and MAX_VOLUME (%d), got %d", c.MaxVolume, c.DefaultVolume)
	}
	if c.CommandCooldown < 0 {
		return fmt.Errorf("COMMAND_COOLDOWN must not be negative, got %s", c.CommandCooldown)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "FFMPEG_PATH", value: c.FFmpegPath},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// CommandGuildID returns the guild slash commands are registered in.
// An empty id with ok=true means global registration; ok=false means commands
// are not registered at all.
func (c *Config) CommandGuildID() (guildID string, ok bool) {
	if c.IsDevelopment() {
		return c.DiscordDebugGuildID, true
	}
	if c.DiscordPublishGlobal {
		return "", true
	}
	return "", false
}
