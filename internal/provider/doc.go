package provider

// Package provider talks to the remote media source. It lists the encodings
// of an item and fetches one encoding into a local file, reporting bytes as
// they arrive. The default implementation drives yt-dlp through
// github.com/lrstanley/go-ytdlp.
