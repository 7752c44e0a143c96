package provider

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	write := func(name string, mod time.Time) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
		require.NoError(t, os.Chtimes(path, mod, mod))
	}
	// Song.webm is left over from an earlier request and is newer than
	// the file this fetch wrote.
	write("Song.webm", now)
	write("Song.mp4", now.Add(-48*time.Hour))
	write("Other.mp4", now)

	tests := []struct {
		name      string
		announced string
		container string
		expected  string
	}{
		{"announced file", filepath.Join(dir, "Song.mp4"), "mp4", "Song.mp4"},
		{"announced relative name", "Song.mp4", "mp4", "Song.mp4"},
		{"announced partial name", filepath.Join(dir, "Song.mp4.part"), "mp4", "Song.mp4"},
		{"nothing announced prefers container", "", "mp4", "Song.mp4"},
		{"announced file of another base ignored", filepath.Join(dir, "Other.mp4"), "mp4", "Song.mp4"},
		{"announced file missing", filepath.Join(dir, "Song.mkv"), "mp4", "Song.mp4"},
		{"container missing falls back to newest", "", "m4a", "Song.webm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOutput(tt.announced, dir, "Song", tt.container)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.expected), got)
		})
	}

	_, err := resolveOutput("", dir, "Missing", "mp4")
	assert.Error(t, err)
}
