package repository

import (
	"context"
	"errors"

	"github.com/foxseedlab/radiobot/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) GetGuild(ctx context.Context, guildID string) (*repository.Guild, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, volume, created_at, updated_at FROM guilds WHERE id = $1`,
		guildID)
	var g repository.Guild
	if err := row.Scan(&g.ID, &g.Volume, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *PostgresRepository) InsertGuildIfAbsent(ctx context.Context, input repository.InsertGuildInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO guilds (id, volume, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (id) DO NOTHING`,
		input.GuildID, input.Volume, input.CreatedAt)
	return err
}

func (r *PostgresRepository) UpsertGuildVolume(ctx context.Context, input repository.UpsertGuildVolumeInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO guilds (id, volume, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET volume = EXCLUDED.volume,
		     updated_at = GREATEST(guilds.created_at, EXCLUDED.updated_at)`,
		input.GuildID, input.Volume, input.UpdatedAt)
	return err
}
