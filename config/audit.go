package config

import "fmt"

// AuditConfig defines settings for assignment log storage and rotation.
type AuditConfig struct {
	// Backend selects the log store type: "jsonl", "rotating" or "sqlite".
	// Empty disables audit logging.
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *AuditConfig) SetDefaults() {
	if c.Backend != "" && c.Path == "" {
		c.Path = "assignments.log"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
}

// Validate checks the backend selection.
func (c AuditConfig) Validate() error {
	switch c.Backend {
	case "", "jsonl", "rotating", "sqlite":
		return nil
	default:
		return fmt.Errorf("unknown audit backend %s", c.Backend)
	}
}
