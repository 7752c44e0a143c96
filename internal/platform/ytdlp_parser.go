package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytfetch/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	MinPrefixLength = 10
	PlaylistSuffix  = " Playlist"
)

// playlistEntry is the subset of a library playlist item we keep
type playlistEntry struct {
	VideoID string
	Title   string
}

// YTDLPParserService expands YouTube playlists into items using the ytdlp library
type YTDLPParserService struct {
	timeout time.Duration
}

// NewYTDLPParserService creates a new parser service
func NewYTDLPParserService() *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultParseTimeout,
	}
}

// SetTimeout sets the timeout for parsing operations
func (y *YTDLPParserService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// ParsePlaylist parses a YouTube playlist and returns its items in order
func (y *YTDLPParserService) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	if !IsPlaylistURL(url) {
		return nil, fmt.Errorf("invalid playlist URL: %s", url)
	}

	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := make([]playlistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, playlistEntry{VideoID: it.VideoID, Title: it.Title})
	}

	return buildPlaylist(url, playlistID, entries), nil
}

// buildPlaylist converts library entries into a pending playlist
func buildPlaylist(url, playlistID string, entries []playlistEntry) *model.Playlist {
	playlist := model.NewPlaylist(url)
	playlist.ID = playlistID

	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.VideoID == "" {
			continue
		}
		playlist.AddItem(&model.PlaylistItem{
			ID:    e.VideoID,
			Title: e.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, e.VideoID),
		})
		titles = append(titles, e.Title)
	}
	playlist.Title = extractPlaylistTitle(titles)
	return playlist
}

// IsPlaylistURL checks if the URL carries a playlist parameter
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistParam)
}

// ExtractPlaylistID extracts the playlist ID from various URL formats:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(url string) string {
	parts := strings.SplitN(url, PlaylistParam, 2)
	if len(parts) < 2 {
		return ""
	}
	playlistPart := parts[1]
	if idx := strings.Index(playlistPart, ParamSeparator); idx >= 0 {
		playlistPart = playlistPart[:idx]
	}
	return playlistPart
}

// extractPlaylistTitle generates a title for the playlist based on item titles
func extractPlaylistTitle(titles []string) string {
	if len(titles) == 0 {
		return DefaultPlaylistName
	}
	if len(titles) > 1 {
		commonPrefix := findCommonPrefix(titles[0], titles[1])
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return titles[0] + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
