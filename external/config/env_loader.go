package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/radiobot/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                  string        `env:"ENV" envDefault:"production"`
	DatabaseURL          string        `env:"DATABASE_URL,required"`
	DiscordToken         string        `env:"DISCORD_TOKEN,required"`
	DiscordDebugGuildID  string        `env:"DISCORD_DEBUG_GUILD_ID"`
	DiscordPublishGlobal bool          `env:"DISCORD_PUBLISH_GLOBAL" envDefault:"false"`
	DiscordSelfDeaf      bool          `env:"DISCORD_SELF_DEAF" envDefault:"true"`
	MaxVolume            int           `env:"MAX_VOLUME" envDefault:"100"`
	DefaultVolume        int           `env:"DEFAULT_VOLUME" envDefault:"100"`
	FFmpegPath           string        `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	CommandCooldown      time.Duration `env:"COMMAND_COOLDOWN" envDefault:"0s"`
	PlaybackWebhookURL   string        `env:"PLAYBACK_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                  raw.Env,
		DatabaseURL:          raw.DatabaseURL,
		DiscordToken:         raw.DiscordToken,
		DiscordDebugGuildID:  raw.DiscordDebugGuildID,
		DiscordPublishGlobal: raw.DiscordPublishGlobal,
		DiscordSelfDeaf:      raw.DiscordSelfDeaf,
		MaxVolume:            raw.MaxVolume,
		DefaultVolume:        raw.DefaultVolume,
		FFmpegPath:           raw.FFmpegPath,
		CommandCooldown:      raw.CommandCooldown,
		PlaybackWebhookURL:   raw.PlaybackWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
