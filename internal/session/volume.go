package session

import (
	"context"
	"fmt"
	"time"

	"github.com/foxseedlab/radiobot/internal/repository"
)

// VolumeStore persists the per-guild volume percentage.
type VolumeStore struct {
	repo repository.GuildRepository
	now  func() time.Time
}

func NewVolumeStore(repo repository.GuildRepository) *VolumeStore {
	return &VolumeStore{repo: repo, now: time.Now}
}

// GetOrCreateDefault returns the stored volume, creating the record with
// defaultVolume on first access. Concurrent first accesses converge on the
// single row that won the insert.
func (s *VolumeStore) GetOrCreateDefault(ctx context.Context, guildID string, defaultVolume int) (int, error) {
	g, err := s.repo.GetGuild(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to get guild volume: %w", err)
	}
	if g != nil {
		return g.Volume, nil
	}

	if err := s.repo.InsertGuildIfAbsent(ctx, repository.InsertGuildInput{
		GuildID:   guildID,
		Volume:    defaultVolume,
		CreatedAt: s.now(),
	}); err != nil {
		return 0, fmt.Errorf("failed to create guild volume: %w", err)
	}

	g, err = s.repo.GetGuild(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to get guild volume: %w", err)
	}
	if g == nil {
		return 0, fmt.Errorf("guild %s has no volume record after insert", guildID)
	}
	return g.Volume, nil
}

func (s *VolumeStore) Set(ctx context.Context, guildID string, volume int) error {
	if err := s.repo.UpsertGuildVolume(ctx, repository.UpsertGuildVolumeInput{
		GuildID:   guildID,
		Volume:    volume,
		UpdatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("failed to save guild volume: %w", err)
	}
	return nil
}

// Gain maps a volume percentage to a linear gain.
func Gain(volume int) float64 {
	return float64(volume) / 100.0
}
