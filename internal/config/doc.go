package config

// Package config loads application settings with viper. Values come from
// command line flags, YTFETCH_* environment variables, an optional
// config.yaml and built-in defaults, in that order of precedence.
