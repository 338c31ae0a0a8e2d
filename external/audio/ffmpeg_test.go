package audio

import (
	"io"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

func startTestStream(t *testing.T, script string) *ffmpegStream {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cmd := exec.Command("sh", "-c", script)
	stderr := &tailBuffer{limit: maxStderrBytes}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("failed to create stdout pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start command: %v", err)
	}
	return &ffmpegStream{cmd: cmd, stdout: stdout, stderr: stderr}
}

func TestFFmpegArgs_OutputsRawPCM(t *testing.T) {
	args := ffmpegArgs("http://radio.example/stream")

	i := slices.Index(args, "-i")
	if i < 0 || args[i+1] != "http://radio.example/stream" {
		t.Fatalf("input url missing: %v", args)
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{"-f s16le", "-ar 48000", "-ac 2", "pipe:1"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args: %s", want, joined)
		}
	}
}

func TestFFmpegStream_CleanExitReturnsEOF(t *testing.T) {
	s := startTestStream(t, "printf abcd")
	defer func() {
		_ = s.Close()
	}()

	body, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "abcd" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestFFmpegStream_FailedExitReturnsError(t *testing.T) {
	s := startTestStream(t, "echo 'connection refused' >&2; exit 3")
	defer func() {
		_ = s.Close()
	}()

	_, err := io.ReadAll(s)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestTailBuffer_KeepsTail(t *testing.T) {
	b := &tailBuffer{limit: 4}
	_, _ = b.Write([]byte("abc"))
	_, _ = b.Write([]byte("defg"))
	if got := b.String(); got != "defg" {
		t.Fatalf("unexpected tail: %q", got)
	}
}
