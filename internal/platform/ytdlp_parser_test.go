package platform

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ytget/ytfetch/internal/model"
)

func TestNewYTDLPParserService(t *testing.T) {
	service := NewYTDLPParserService()
	if service == nil {
		t.Fatal("service should not be nil")
	}
	if service.timeout != DefaultParseTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultParseTimeout, service.timeout)
	}

	service.SetTimeout(30 * time.Second)
	if service.timeout != 30*time.Second {
		t.Errorf("expected timeout %v, got %v", 30*time.Second, service.timeout)
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"watch URL with list", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID", true},
		{"playlist URL", "https://www.youtube.com/playlist?list=PLAYLIST_ID", true},
		{"single video", "https://www.youtube.com/watch?v=VIDEO_ID", false},
		{"empty URL", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsPlaylistURL(tt.url); result != tt.expected {
				t.Errorf("expected %v, got %v for URL: %s", tt.expected, result, tt.url)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID", "PLAYLIST_ID"},
		{"playlist URL", "https://www.youtube.com/playlist?list=PLAYLIST_ID", "PLAYLIST_ID"},
		{"additional parameters", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=1&t=30", "PLAYLIST_ID"},
		{"multiple list parameters", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&list=OTHER_ID", "PLAYLIST_ID"},
		{"no playlist parameter", "https://www.youtube.com/watch?v=VIDEO_ID", ""},
		{"empty playlist parameter", "https://www.youtube.com/watch?v=VIDEO_ID&list=", ""},
		{"empty URL", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ExtractPlaylistID(tt.url); result != tt.expected {
				t.Errorf("expected %q, got %q for URL: %s", tt.expected, result, tt.url)
			}
		})
	}
}

func TestFindCommonPrefix(t *testing.T) {
	tests := []struct {
		name     string
		s1       string
		s2       string
		expected string
	}{
		{"identical strings", "hello world", "hello world", "hello world"},
		{"common prefix", "hello world", "hello there", "hello "},
		{"no common prefix", "hello world", "goodbye world", ""},
		{"first is prefix", "hello", "hello world", "hello"},
		{"empty strings", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := findCommonPrefix(tt.s1, tt.s2); result != tt.expected {
				t.Errorf("expected %q, got %q for s1=%q, s2=%q", tt.expected, result, tt.s1, tt.s2)
			}
		})
	}
}

func TestExtractPlaylistTitle(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		expected string
	}{
		{"empty", nil, DefaultPlaylistName},
		{"single", []string{"Test Video"}, "Test Video" + PlaylistSuffix},
		{"long common prefix", []string{"Rammstein - Ohne Dich Official Video", "Rammstein - Sonne Official Video"}, "Rammstein -" + PlaylistSuffix},
		{"prefix just over minimum", []string{"Test Video 1", "Test Video 2"}, "Test Video" + PlaylistSuffix},
		{"no common prefix", []string{"First Video", "Second Video"}, "First Video" + PlaylistSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := extractPlaylistTitle(tt.titles); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestBuildPlaylist(t *testing.T) {
	url := "https://www.youtube.com/playlist?list=PL1"
	entries := []playlistEntry{
		{VideoID: "aaa", Title: "Artist - Song 1 Official Video"},
		{VideoID: "", Title: "deleted video"},
		{VideoID: "bbb", Title: "Artist - Song 2 Official Video"},
	}

	playlist := buildPlaylist(url, "PL1", entries)

	if playlist.ID != "PL1" {
		t.Errorf("expected ID PL1, got %s", playlist.ID)
	}
	if len(playlist.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(playlist.Items))
	}
	if playlist.Items[0].URL != "https://www.youtube.com/watch?v=aaa" {
		t.Errorf("unexpected item URL: %s", playlist.Items[0].URL)
	}
	for i, item := range playlist.Items {
		if item.Status != model.ItemStatusPending {
			t.Errorf("item %d has wrong status, expected %s, got %s", i, model.ItemStatusPending, item.Status)
		}
	}
	if playlist.Title != "Artist - Song"+PlaylistSuffix {
		t.Errorf("unexpected title %q", playlist.Title)
	}
}

func TestParsePlaylist_InvalidURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		errorMsg string
	}{
		{"no playlist parameter", "https://www.youtube.com/watch?v=VIDEO_ID", "invalid playlist URL"},
		{"empty playlist ID", "https://www.youtube.com/watch?v=VIDEO_ID&list=", "could not extract playlist ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYTDLPParserService().ParsePlaylist(context.Background(), tt.url)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error to contain %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}
