package bot

import (
	"time"
)

// Config represents the configuration for the bot
type Config struct {
	// Number of due words offered by /review
	ReviewBatchSize int
	// Upper bound for handling one update
	UpdateTimeout time.Duration
	// Time zone used when showing review dates
	Location *time.Location
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		ReviewBatchSize: 5,
		UpdateTimeout:   30 * time.Second,
		Location:        time.UTC,
	}
}
