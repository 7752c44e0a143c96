package pipeline

// Package pipeline coordinates one download request end to end: it lists the
// item's encodings, picks a plan with the fallback policy table, fetches the
// tracks, merges or converts them and reports every step on an ordered event
// queue consumed by a single front-end.
