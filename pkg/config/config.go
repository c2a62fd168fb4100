package config

import (
	"runtime"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Scan        ScanConfig        `yaml:"scan"`
	Cache       CacheConfig       `yaml:"cache"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ScanConfig holds directory scanning settings
type ScanConfig struct {
	// MinFileSize is the minimum size in bytes for a file to be considered
	MinFileSize int64 `yaml:"min_file_size"`

	// Extensions is the set of video extensions to include (lowercase, with dot)
	Extensions []string `yaml:"extensions"`

	// ExcludeSubstring skips files whose name contains this substring
	// (case-insensitive)
	ExcludeSubstring string `yaml:"exclude_substring"`
}

// CacheConfig holds fingerprint cache settings
type CacheConfig struct {
	// Path is the SQLite cache file location
	Path string `yaml:"path"`

	// FlushThreshold is the number of buffered writes before a batch commit
	FlushThreshold int `yaml:"flush_threshold"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int   `yaml:"max_workers"`
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = disabled)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			MinFileSize: 350 * 1024 * 1024,
			Extensions: []string{
				".mkv", ".mp4", ".avi", ".mov",
				".wmv", ".flv", ".webm", ".m4v",
			},
			ExcludeSubstring: "sample",
		},
		Cache: CacheConfig{
			Path:           "media_cache.db",
			FlushThreshold: 100,
		},
		Performance: PerformanceConfig{
			MaxWorkers:     runtime.NumCPU(),
			BufferSize:     1024 * 1024,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scan.MinFileSize < 0 {
		return &models.ValidationError{
			Field:   "scan.min_file_size",
			Message: "cannot be negative",
		}
	}

	if len(c.Scan.Extensions) == 0 {
		return &models.ValidationError{
			Field:   "scan.extensions",
			Message: "at least one extension is required",
		}
	}

	if c.Cache.FlushThreshold < 1 {
		return &models.ValidationError{
			Field:   "cache.flush_threshold",
			Message: "must be at least 1",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
