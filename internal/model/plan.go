package model

// DownloadPlan is the set of encodings chosen for one request.
// At least one of Video or Audio is set.
type DownloadPlan struct {
	Video    *EncodingDescriptor
	Audio    *EncodingDescriptor
	Fallback string // note describing the fallback row that produced the plan
}

// NeedsMerge returns true if both a video and an audio track were chosen
func (p DownloadPlan) NeedsMerge() bool {
	return p.Video != nil && p.Audio != nil
}

// IsEmpty returns true if no track was chosen
func (p DownloadPlan) IsEmpty() bool {
	return p.Video == nil && p.Audio == nil
}

// Tracks returns the chosen descriptors, video first
func (p DownloadPlan) Tracks() []EncodingDescriptor {
	tracks := make([]EncodingDescriptor, 0, 2)
	if p.Video != nil {
		tracks = append(tracks, *p.Video)
	}
	if p.Audio != nil {
		tracks = append(tracks, *p.Audio)
	}
	return tracks
}

// CodecMode names how the remux tool treats one stream
type CodecMode string

const (
	// CodecCopy copies the stream without re-encoding
	CodecCopy CodecMode = "copy"

	// CodecAAC re-encodes the stream to AAC
	CodecAAC CodecMode = "aac"
)

// MergeJob describes one remux of a video and an audio track
type MergeJob struct {
	ID             string
	VideoPath      string
	AudioPath      string
	OutputPath     string
	VideoCodecMode CodecMode
	AudioCodecMode CodecMode
}

// NewMergeJob creates a job with the default codec modes
func NewMergeJob(videoPath, audioPath, outputPath string) MergeJob {
	return MergeJob{
		VideoPath:      videoPath,
		AudioPath:      audioPath,
		OutputPath:     outputPath,
		VideoCodecMode: CodecCopy,
		AudioCodecMode: CodecAAC,
	}
}
