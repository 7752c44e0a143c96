package model

import "fmt"

// EncodingKind classifies what an encoding carries
type EncodingKind string

const (
	// KindVideo is a video-only encoding
	KindVideo EncodingKind = "video"

	// KindAudio is an audio-only encoding
	KindAudio EncodingKind = "audio"

	// KindProgressive carries both video and audio
	KindProgressive EncodingKind = "progressive"
)

// EncodingDescriptor describes one remote encoding of an item.
// IDs are unique within a single catalog snapshot.
type EncodingDescriptor struct {
	ID              string
	Kind            EncodingKind
	Container       string // lowercase container, e.g. "mp4"
	QualityLabel    string // "1080p", "128k", or empty when unknown
	ApproxSizeBytes int64  // 0 when unknown
	Codec           string // display only
}

// String returns a compact human readable form
func (d EncodingDescriptor) String() string {
	label := d.QualityLabel
	if label == "" {
		label = "?"
	}
	return fmt.Sprintf("%s %s/%s %s", d.ID, d.Kind, d.Container, label)
}

// SelectionRequest is the query the selector answers.
// An empty Container matches every container.
type SelectionRequest struct {
	Kind         EncodingKind
	Container    string
	QualityLabel string
}

// String returns the request in kind/container/quality form
func (r SelectionRequest) String() string {
	container := r.Container
	if container == "" {
		container = "*"
	}
	quality := r.QualityLabel
	if quality == "" {
		quality = "best"
	}
	return fmt.Sprintf("%s/%s/%s", r.Kind, container, quality)
}

// TransferState is the byte accounting of one encoding transfer
type TransferState struct {
	EncodingID      string
	TotalBytes      float64
	DownloadedBytes float64
}
