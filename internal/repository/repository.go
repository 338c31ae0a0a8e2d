package repository

import (
	"context"
	"time"
)

type InsertGuildInput struct {
	GuildID   string
	Volume    int
	CreatedAt time.Time
}

type UpsertGuildVolumeInput struct {
	GuildID   string
	Volume    int
	UpdatedAt time.Time
}

type GuildRepository interface {
	// GetGuild returns nil without error when the guild has no record.
	GetGuild(ctx context.Context, guildID string) (*Guild, error)
	// InsertGuildIfAbsent leaves an existing record untouched.
	InsertGuildIfAbsent(ctx context.Context, input InsertGuildInput) error
	UpsertGuildVolume(ctx context.Context, input UpsertGuildVolumeInput) error
}

type Repository interface {
	GuildRepository
}
