package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, output file naming, playlist expansion via the ytdlp
// library, and OS open/reveal.
