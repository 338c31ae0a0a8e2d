//go:build opus

package audio

import (
	"github.com/foxseedlab/radiobot/internal/audio"
	"github.com/hraban/opus"
)

// Opus packets for a 20ms stereo frame stay well below this.
const maxOpusPacketBytes = 4000

type OpusEncoder struct {
	enc *opus.Encoder
	buf []byte
}

func NewOpusEncoder() (audio.Encoder, error) {
	enc, err := opus.NewEncoder(audio.SampleRate, audio.Channels, opus.AppAudio)
	if err != nil {
		return nil, err
	}
	return &OpusEncoder{
		enc: enc,
		buf: make([]byte, maxOpusPacketBytes),
	}, nil
}

func (e *OpusEncoder) Encode(pcm []int16) ([]byte, error) {
	n, err := e.enc.Encode(pcm, e.buf)
	if err != nil {
		return nil, err
	}
	packet := make([]byte, n)
	copy(packet, e.buf[:n])
	return packet, nil
}
