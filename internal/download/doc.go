package download

// Package download implements the transfer executor. It fetches the encodings
// of a plan through a provider, feeds byte counts into the transfer tracker,
// propagates combined progress to a callback and normalises output file
// extensions to the encoding container.
