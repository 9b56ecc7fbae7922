package domain

import "time"

// Config is the effective runtime configuration after merging persisted settings,
// environment and flags.
type Config struct {
	Quality     Quality
	DestDir     string
	FFmpegPath  string
	HTTPTimeout time.Duration
	Debug       bool
	Lang        string
}

// Settings is the part of the configuration persisted between TUI sessions.
type Settings struct {
	Quality Quality
	DestDir string
}

// DefaultConfig provides sane defaults when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Quality:     QualityHigh,
		FFmpegPath:  "ffmpeg",
		HTTPTimeout: 30 * time.Second,
	}
}
