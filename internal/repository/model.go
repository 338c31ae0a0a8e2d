package repository

import "time"

// Guild holds the persisted per-guild playback settings.
type Guild struct {
	ID        string
	Volume    int
	CreatedAt time.Time
	UpdatedAt time.Time
}
