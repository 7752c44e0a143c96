package provider

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ytget/ytfetch/internal/model"
)

// codecNone is what yt-dlp reports for an absent stream
const codecNone = "none"

// itemInfo is the subset of the yt-dlp info JSON we read
type itemInfo struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Formats []formatInfo `json:"formats"`
}

type formatInfo struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Height         float64 `json:"height"`
	ABR            float64 `json:"abr"`
	FormatNote     string  `json:"format_note"`
	FileSize       float64 `json:"filesize"`
	FileSizeApprox float64 `json:"filesize_approx"`
}

// parseListing finds the info JSON object in yt-dlp stdout and converts it.
// Non-JSON lines such as warnings are ignored.
func parseListing(stdout string) (Listing, error) {
	info, err := findInfo(stdout)
	if err != nil {
		return Listing{}, err
	}

	encodings := make([]model.EncodingDescriptor, 0, len(info.Formats))
	seen := make(map[string]bool, len(info.Formats))
	for _, f := range info.Formats {
		desc, ok := toDescriptor(f)
		if !ok || seen[desc.ID] {
			continue
		}
		seen[desc.ID] = true
		encodings = append(encodings, desc)
	}

	title := info.Title
	if title == "" {
		title = info.ID
	}
	return Listing{Title: title, Encodings: encodings}, nil
}

func findInfo(stdout string) (itemInfo, error) {
	var lastErr error
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var info itemInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			lastErr = err
			continue
		}
		if len(info.Formats) > 0 || info.ID != "" {
			return info, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return itemInfo{}, err
	}
	if lastErr != nil {
		return itemInfo{}, fmt.Errorf("decode info json: %w", lastErr)
	}
	return itemInfo{}, fmt.Errorf("no info json in output")
}

// toDescriptor classifies a format by its codecs. Formats carrying neither
// audio nor video (storyboards) are dropped.
func toDescriptor(f formatInfo) (model.EncodingDescriptor, bool) {
	if f.FormatID == "" {
		return model.EncodingDescriptor{}, false
	}

	hasVideo := hasCodec(f.VCodec)
	hasAudio := hasCodec(f.ACodec)

	desc := model.EncodingDescriptor{
		ID:              f.FormatID,
		Container:       strings.ToLower(f.Ext),
		ApproxSizeBytes: sizeOf(f),
	}

	switch {
	case hasVideo && hasAudio:
		desc.Kind = model.KindProgressive
		desc.QualityLabel = videoLabel(f)
		desc.Codec = f.VCodec + "+" + f.ACodec
	case hasVideo:
		desc.Kind = model.KindVideo
		desc.QualityLabel = videoLabel(f)
		desc.Codec = f.VCodec
	case hasAudio:
		desc.Kind = model.KindAudio
		desc.QualityLabel = audioLabel(f)
		desc.Codec = f.ACodec
	default:
		return model.EncodingDescriptor{}, false
	}
	return desc, true
}

func hasCodec(codec string) bool {
	return codec != "" && codec != codecNone
}

func videoLabel(f formatInfo) string {
	if f.Height > 0 {
		return fmt.Sprintf("%dp", int(f.Height))
	}
	return f.FormatNote
}

func audioLabel(f formatInfo) string {
	if f.ABR > 0 {
		return fmt.Sprintf("%dk", int(math.Round(f.ABR)))
	}
	return f.FormatNote
}

func sizeOf(f formatInfo) int64 {
	size := f.FileSize
	if size <= 0 {
		size = f.FileSizeApprox
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return 0
	}
	return int64(size)
}
