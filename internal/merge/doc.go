package merge

// Package merge drives the external remux tool (ffmpeg). It combines a
// video-only and an audio-only track into one file, converts single audio
// tracks between containers, classifies tool failures and removes the
// intermediate inputs once the output is in place.
