package assign

import (
	"fmt"
	"time"
)

// Config defines sweep scheduling settings.
type Config struct {
	SweepIntervalMinutes int `json:"sweep_interval_minutes"`
	RetryBackoffSeconds  int `json:"retry_backoff_seconds"`
}

// SetDefaults applies the standard two-hour interval and five-minute backoff.
func (c *Config) SetDefaults() {
	if c.SweepIntervalMinutes == 0 {
		c.SweepIntervalMinutes = 120
	}
	if c.RetryBackoffSeconds == 0 {
		c.RetryBackoffSeconds = 300
	}
}

// Validate checks that both delays are positive.
func (c Config) Validate() error {
	if c.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("sweep_interval_minutes must be positive")
	}
	if c.RetryBackoffSeconds <= 0 {
		return fmt.Errorf("retry_backoff_seconds must be positive")
	}
	return nil
}

// Interval returns the inter-sweep delay.
func (c Config) Interval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// Backoff returns the post-failure retry delay.
func (c Config) Backoff() time.Duration {
	return time.Duration(c.RetryBackoffSeconds) * time.Second
}
