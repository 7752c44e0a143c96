package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytget/ytfetch/internal/model"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestRunUsage(t *testing.T) {
	isolate(t)
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"no args", nil, ExitUsage, "", "Usage: ytfetch"},
		{"too many args", []string{"a", "b"}, ExitUsage, "", "Usage: ytfetch"},
		{"help", []string{"--help"}, ExitOK, "", "--video-format"},
		{"version", []string{"--version"}, ExitOK, "ytfetch dev", ""},
		{"unknown flag", []string{"--bogus"}, ExitUsage, "", "unknown flag"},
		{"invalid type", []string{"--type", "subtitles", "https://example.com/v"}, ExitUsage, "", "download.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout.String(), tt.wantOut)
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}

func TestRunMissingConfigFile(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-c", filepath.Join(t.TempDir(), "missing.yaml"), "https://example.com/v"}, &stdout, &stderr)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr.String(), "config:")
}

func TestRunCancelledRequestFails(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	missing := filepath.Join(dir, "missing-tool")
	code := run(ctx, []string{"--dir", dir, "--yt-dlp", missing, "--ffmpeg", missing, "https://example.com/watch?v=abc"}, &stdout, &stderr)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr.String(), "Warning: ffmpeg not found")
	assert.Contains(t, stdout.String(), "Error (cancelled)")
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}

	p.print(model.Status{Text: "Fetching stream info..."})
	p.print(model.Progress{Percent: 10.2})
	p.print(model.Progress{Percent: 10.9})
	p.print(model.Progress{Percent: 55})
	p.print(model.ResolutionsFound{Title: "Clip", Labels: []string{"1080p", "720p"}})
	p.print(model.Error{Kind: model.ErrorMerge, Message: "ffmpeg exited with code 1"})
	p.print(model.Done{Path: "/tmp/Clip.mp4"})

	want := "Fetching stream info...\n" +
		"[ 10%]\n" +
		"[ 55%]\n" +
		"Clip\n  1080p\n  720p\n" +
		"Error (merge): ffmpeg exited with code 1\n" +
		"Saved: /tmp/Clip.mp4\n"
	assert.Equal(t, want, buf.String())
}
