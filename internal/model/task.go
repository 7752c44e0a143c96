package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadType selects which tracks a request wants
type DownloadType string

const (
	// TypeVideo requests a single track carrying picture (progressive preferred)
	TypeVideo DownloadType = "video"

	// TypeAudio requests a single audio-only track
	TypeAudio DownloadType = "audio"

	// TypeBoth requests separate video and audio tracks merged into one file
	TypeBoth DownloadType = "both"
)

// RequestIDPrefix prefixes every generated request ID
const RequestIDPrefix = "req-"

// ErrEmptyItemRef is returned when a request has no item reference
var ErrEmptyItemRef = errors.New("item reference is empty")

// IsValid reports whether t is one of the known download types
func (t DownloadType) IsValid() bool {
	switch t {
	case TypeVideo, TypeAudio, TypeBoth:
		return true
	}
	return false
}

// DownloadRequest is the user-facing description of one download
type DownloadRequest struct {
	ID          string
	ItemRef     string       // URL or provider item ID
	Type        DownloadType // video, audio or both
	VideoFormat string       // requested video container, e.g. "mp4"
	AudioFormat string       // requested audio container, e.g. "m4a"
	Quality     string       // optional quality label, e.g. "1080p"
	Folder      string       // destination directory
}

// NewDownloadRequest creates a request with a fresh ID
func NewDownloadRequest(itemRef string, kind DownloadType, videoFormat, audioFormat, quality, folder string) DownloadRequest {
	return DownloadRequest{
		ID:          NewRequestID(),
		ItemRef:     strings.TrimSpace(itemRef),
		Type:        kind,
		VideoFormat: strings.ToLower(strings.TrimSpace(videoFormat)),
		AudioFormat: strings.ToLower(strings.TrimSpace(audioFormat)),
		Quality:     strings.TrimSpace(quality),
		Folder:      folder,
	}
}

// NewRequestID generates a request ID using UUID v7
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp-based ID if UUID generation fails
		return fmt.Sprintf("%s%d", RequestIDPrefix, time.Now().UnixNano())
	}
	return RequestIDPrefix + id.String()
}

// Validate checks that the request can be handed to the pipeline
func (r DownloadRequest) Validate() error {
	if strings.TrimSpace(r.ItemRef) == "" {
		return ErrEmptyItemRef
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("unknown download type %q", r.Type)
	}
	if r.Folder == "" {
		return errors.New("destination folder is empty")
	}
	return nil
}
