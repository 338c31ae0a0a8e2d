package audio

import (
	"encoding/binary"
	"testing"
)

func TestDecodePCM_LittleEndian(t *testing.T) {
	src := make([]byte, 6)
	binary.LittleEndian.PutUint16(src[0:], uint16(1000))
	neg := int16(-2)
	binary.LittleEndian.PutUint16(src[2:], uint16(neg))
	binary.LittleEndian.PutUint16(src[4:], uint16(32767))

	dst := make([]int16, 3)
	if n := DecodePCM(src, dst); n != 3 {
		t.Fatalf("expected 3 samples, got %d", n)
	}
	if dst[0] != 1000 || dst[1] != -2 || dst[2] != 32767 {
		t.Fatalf("unexpected samples: %v", dst)
	}
}

func TestDecodePCM_StopsAtDestinationLength(t *testing.T) {
	dst := make([]int16, 1)
	if n := DecodePCM(make([]byte, 8), dst); n != 1 {
		t.Fatalf("expected 1 sample, got %d", n)
	}
}

func TestApplyGain_ScalesSamples(t *testing.T) {
	samples := []int16{1000, -1000, 0}
	ApplyGain(samples, 0.5)
	if samples[0] != 500 || samples[1] != -500 || samples[2] != 0 {
		t.Fatalf("unexpected samples: %v", samples)
	}
}

func TestApplyGain_UnityIsNoop(t *testing.T) {
	samples := []int16{123, -456}
	ApplyGain(samples, 1)
	if samples[0] != 123 || samples[1] != -456 {
		t.Fatalf("unexpected samples: %v", samples)
	}
}

func TestApplyGain_ZeroSilences(t *testing.T) {
	samples := []int16{123, -456}
	ApplyGain(samples, 0)
	if samples[0] != 0 || samples[1] != 0 {
		t.Fatalf("expected silence, got %v", samples)
	}
}

func TestApplyGain_Clamps(t *testing.T) {
	samples := []int16{30000, -30000}
	ApplyGain(samples, 2)
	if samples[0] != 32767 || samples[1] != -32768 {
		t.Fatalf("expected clamped samples, got %v", samples)
	}
}
