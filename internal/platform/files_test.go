package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestEnsureWritableDir(t *testing.T) {
	tempDir := t.TempDir()
	nested := filepath.Join(tempDir, "a", "b")

	if err := EnsureWritableDir(nested); err != nil {
		t.Fatalf("expected nested dir to be created, got %v", err)
	}
	entries, err := os.ReadDir(nested)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected probe file to be removed, found %d entries", len(entries))
	}

	file := filepath.Join(tempDir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureWritableDir(file); err == nil {
		t.Error("expected error when path is a file")
	}
	if err := EnsureWritableDir(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"plain", "My Video", "My Video"},
		{"allowed punctuation", "Song (Live) - v1.2_final", "Song (Live) - v1.2_final"},
		{"slashes and colons", "AC/DC: Thunder?", "AC_DC_ Thunder_"},
		{"unicode letters kept", "Рамштайн Sonne", "Рамштайн Sonne"},
		{"surrounding spaces trimmed", "  padded  ", "padded"},
		{"leading dots removed", "..hidden", "hidden"},
		{"empty", "", DefaultFileName},
		{"only spaces", "   ", DefaultFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.title); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	long := SanitizeFilename(strings.Repeat("a", 500))
	if len(long) > MaxFileNameBytes {
		t.Errorf("expected name to be truncated to %d bytes, got %d", MaxFileNameBytes, len(long))
	}
}

func TestPathWithExtension(t *testing.T) {
	if got := PathWithExtension("/tmp", "clip.video", "mp4"); got != filepath.Join("/tmp", "clip.video.mp4") {
		t.Errorf("unexpected path %s", got)
	}
	if got := PathWithExtension("/tmp", "clip", ".webm"); got != filepath.Join("/tmp", "clip.webm") {
		t.Errorf("unexpected path %s", got)
	}
	if got := PathWithExtension("/tmp", "clip", ""); got != filepath.Join("/tmp", "clip") {
		t.Errorf("unexpected path %s", got)
	}
}

func TestFindOutputFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, mod time.Time) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Now()
	write("clip.webm", now.Add(-time.Hour))
	write("clip.mp4", now)
	write("clip.mp4.part", now.Add(time.Minute))
	write("clip.video.mp4", now.Add(time.Minute))

	got, err := FindOutputFile(dir, "clip", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "clip.mp4") {
		t.Errorf("expected newest finished file, got %s", got)
	}

	got, err = FindOutputFile(dir, "clip.video", "mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "clip.video.mp4") {
		t.Errorf("expected role file, got %s", got)
	}

	if _, err := FindOutputFile(dir, "missing", "mp4"); err == nil {
		t.Error("expected error for missing output")
	}
}

func TestFindOutputFile_PrefersRequestedContainer(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for name, mod := range map[string]time.Time{
		"Song.webm": now,                      // left over from an earlier webm request
		"Song.mp4":  now.Add(-48 * time.Hour), // just downloaded, mtime from Last-Modified
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		preferred string
		expected  string
	}{
		{"requested container wins over newer sibling", "mp4", "Song.mp4"},
		{"leading dot accepted", ".mp4", "Song.mp4"},
		{"missing container falls back to newest", "m4a", "Song.webm"},
		{"no preference falls back to newest", "", "Song.webm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindOutputFile(dir, "Song", tt.preferred)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != filepath.Join(dir, tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.txt")

	err := OpenFileInManager(nonExistentFile)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}
