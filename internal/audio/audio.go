package audio

import (
	"context"
	"encoding/binary"
	"io"
	"math"
)

const (
	SampleRate   = 48000
	Channels     = 2
	FrameSize    = 960 // 20ms at 48kHz
	FrameSamples = FrameSize * Channels
	FrameBytes   = FrameSamples * 2
)

// Encoder turns one interleaved PCM frame into an opus packet.
type Encoder interface {
	Encode(pcm []int16) ([]byte, error)
}

type EncoderFactory func() (Encoder, error)

// StreamOpener opens url as raw s16le PCM at SampleRate/Channels.
// Read returns io.EOF only when the stream ended cleanly.
type StreamOpener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

func DecodePCM(src []byte, dst []int16) int {
	n := len(src) / 2
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = int16(binary.LittleEndian.Uint16(src[i*2:]))
	}
	return n
}

// ApplyGain scales samples in place, clamping to the int16 range.
func ApplyGain(samples []int16, gain float64) {
	if gain == 1 {
		return
	}
	if gain <= 0 {
		clear(samples)
		return
	}
	for i, s := range samples {
		samples[i] = clampPCM(math.Round(float64(s) * gain))
	}
}

func clampPCM(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
