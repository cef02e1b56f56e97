package uploader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Compressor shrinks a video before upload. The returned cleanup removes any file it created.
type Compressor interface {
	Compress(ctx context.Context, path string) (out string, cleanup func(), err error)
}

// Passthrough leaves the file unchanged.
type Passthrough struct{}

// Compress implements Compressor.
func (Passthrough) Compress(_ context.Context, path string) (string, func(), error) {
	return path, func() {}, nil
}

// FFmpeg re-encodes videos to H.264/AAC MP4 with the ffmpeg binary.
type FFmpeg struct {
	Binary   string // default "ffmpeg"
	CRF      int    // default 28
	Preset   string // default "veryfast"
	MaxWidth int    // default 1920
	TempDir  string
}

// Compress implements Compressor.
func (f FFmpeg) Compress(ctx context.Context, path string) (string, func(), error) {
	bin := f.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	crf := f.CRF
	if crf <= 0 {
		crf = 28
	}
	preset := f.Preset
	if preset == "" {
		preset = "veryfast"
	}
	width := f.MaxWidth
	if width <= 0 {
		width = 1920
	}

	out, err := os.CreateTemp(f.TempDir, "compressed-*.mp4")
	if err != nil {
		return "", nil, fmt.Errorf("create compression output: %w", err)
	}
	outPath := out.Name()
	out.Close()
	cleanup := func() { _ = os.Remove(outPath) }

	cmd := exec.CommandContext(ctx, bin,
		"-y", "-i", path,
		"-vf", "scale='min("+strconv.Itoa(width)+",iw)':-2",
		"-c:v", "libx264", "-preset", preset, "-crf", strconv.Itoa(crf),
		"-c:a", "aac", "-b:a", "128k",
		"-movflags", "+faststart",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}
	return outPath, cleanup, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
