package session

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotInVoiceChannel = errors.New("user is not in a voice channel")
	ErrNotConnected          = errors.New("not connected to a voice channel")
	ErrNoActiveTrack         = errors.New("no active track")
	ErrInvalidURL            = errors.New("invalid stream url")
	ErrVolumeOutOfRange      = errors.New("volume out of range")
)

// VoiceJoinError reports that the voice engine rejected a join. Err is kept
// for logging only.
type VoiceJoinError struct {
	GuildID   string
	ChannelID string
	Err       error
}

func (e *VoiceJoinError) Error() string {
	return fmt.Sprintf("failed to join voice channel %s in guild %s: %v", e.ChannelID, e.GuildID, e.Err)
}

func (e *VoiceJoinError) Unwrap() error {
	return e.Err
}
