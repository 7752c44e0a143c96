package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/selector"
)

// audioContainers maps a video container to the audio container that muxes
// into it without re-encoding. Unknown containers match any audio.
var audioContainers = map[string]string{
	"mp4":  "m4a",
	"webm": "webm",
}

// AudioContainerFor returns the preferred audio container for a video container
func AudioContainerFor(videoFormat string) string {
	return audioContainers[strings.ToLower(videoFormat)]
}

// videoRows lists the selection requests tried for a single-file video download
func videoRows(container, quality string) []model.SelectionRequest {
	return []model.SelectionRequest{
		{Kind: model.KindProgressive, Container: container, QualityLabel: quality},
		{Kind: model.KindVideo, Container: container, QualityLabel: quality},
		{Kind: model.KindProgressive, QualityLabel: quality},
	}
}

// videoOnlyRows lists the video track requests of a merge plan
func videoOnlyRows(container, quality string) []model.SelectionRequest {
	return []model.SelectionRequest{
		{Kind: model.KindVideo, Container: container, QualityLabel: quality},
		{Kind: model.KindVideo, QualityLabel: quality},
	}
}

// progressiveRows lists the requests used when a merge plan cannot be built
func progressiveRows(container, quality string) []model.SelectionRequest {
	return []model.SelectionRequest{
		{Kind: model.KindProgressive, Container: container, QualityLabel: quality},
		{Kind: model.KindProgressive, QualityLabel: quality},
	}
}

// audioRows lists the audio track requests, best bitrate first
func audioRows(container string) []model.SelectionRequest {
	rows := []model.SelectionRequest{{Kind: model.KindAudio}}
	if container != "" {
		rows = append([]model.SelectionRequest{{Kind: model.KindAudio, Container: container}}, rows...)
	}
	return rows
}

// selectFirst returns the result of the first row that matches and the
// index of that row.
func selectFirst(encodings []model.EncodingDescriptor, rows []model.SelectionRequest) (model.EncodingDescriptor, int, error) {
	for i, row := range rows {
		desc, err := selector.Select(encodings, row)
		if err == nil {
			return desc, i, nil
		}
		if !errors.Is(err, selector.ErrNotFound) {
			return model.EncodingDescriptor{}, i, err
		}
	}
	return model.EncodingDescriptor{}, -1, fmt.Errorf("%w: tried %s", selector.ErrNotFound, describeRows(rows))
}

// BuildPlan applies the fallback policy table to a catalog snapshot
func BuildPlan(encodings []model.EncodingDescriptor, req model.DownloadRequest) (model.DownloadPlan, error) {
	quality := req.Quality
	videoFormat := strings.ToLower(req.VideoFormat)

	switch req.Type {
	case model.TypeVideo:
		rows := videoRows(videoFormat, quality)
		desc, idx, err := selectFirst(encodings, rows)
		if err != nil {
			return model.DownloadPlan{}, err
		}
		var notes []string
		if idx > 0 {
			notes = append(notes, fallbackNote(rows[0], desc))
		}
		notes = appendQualityNote(notes, quality, desc)
		return model.DownloadPlan{Video: &desc, Fallback: strings.Join(notes, "; ")}, nil

	case model.TypeAudio:
		rows := audioRows(strings.ToLower(req.AudioFormat))
		desc, idx, err := selectFirst(encodings, rows)
		if err != nil {
			return model.DownloadPlan{}, err
		}
		plan := model.DownloadPlan{Audio: &desc}
		if idx > 0 {
			plan.Fallback = fallbackNote(rows[0], desc)
		}
		return plan, nil

	case model.TypeBoth:
		vRows := videoOnlyRows(videoFormat, quality)
		video, vIdx, vErr := selectFirst(encodings, vRows)
		aRows := audioRows(AudioContainerFor(videoFormat))
		audio, aIdx, aErr := selectFirst(encodings, aRows)

		if vErr == nil && aErr == nil {
			plan := model.DownloadPlan{Video: &video, Audio: &audio}
			var notes []string
			if vIdx > 0 {
				notes = append(notes, fallbackNote(vRows[0], video))
			}
			notes = appendQualityNote(notes, quality, video)
			if aIdx > 0 {
				notes = append(notes, fallbackNote(aRows[0], audio))
			}
			plan.Fallback = strings.Join(notes, "; ")
			return plan, nil
		}

		// No separate tracks: a single muxed file still satisfies the request.
		pRows := progressiveRows(videoFormat, quality)
		desc, _, err := selectFirst(encodings, pRows)
		if err != nil {
			if vErr != nil {
				return model.DownloadPlan{}, vErr
			}
			return model.DownloadPlan{}, aErr
		}
		missing := "video-only"
		if vErr == nil {
			missing = "audio-only"
		}
		notes := []string{fmt.Sprintf("No %s stream available; downloading combined stream %s", missing, label(desc))}
		notes = appendQualityNote(notes, quality, desc)
		return model.DownloadPlan{Video: &desc, Fallback: strings.Join(notes, "; ")}, nil
	}

	return model.DownloadPlan{}, fmt.Errorf("unknown download type %q", req.Type)
}

// NeedsConversion reports whether an audio-only download must be converted
// to the requested audio format.
func NeedsConversion(plan model.DownloadPlan, audioFormat string) bool {
	if plan.Video != nil || plan.Audio == nil || audioFormat == "" {
		return false
	}
	return !strings.EqualFold(plan.Audio.Container, audioFormat)
}

func fallbackNote(wanted model.SelectionRequest, got model.EncodingDescriptor) string {
	return fmt.Sprintf("No %s stream; using %s", wanted, label(got))
}

// appendQualityNote records that the requested quality label was not available
func appendQualityNote(notes []string, quality string, got model.EncodingDescriptor) []string {
	if quality == "" || got.QualityLabel == quality {
		return notes
	}
	return append(notes, fmt.Sprintf("Quality %s not available; using %s", quality, label(got)))
}

func label(d model.EncodingDescriptor) string {
	q := d.QualityLabel
	if q == "" {
		q = "unknown quality"
	}
	return fmt.Sprintf("%s %s %s", d.Kind, d.Container, q)
}

func describeRows(rows []model.SelectionRequest) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
