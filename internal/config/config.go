// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/schedcheck/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Validation pipeline configuration
	Validation ValidationConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP port to listen on.
	Port string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// MaxUploadSize caps the request body of an upload, in bytes.
	MaxUploadSize int64
}

// ValidationConfig contains validation pipeline settings.
type ValidationConfig struct {
	// MaxDecodeSize is the largest content, in bytes, decoded to text.
	MaxDecodeSize int

	// PolicyFile is an optional YAML policy overlay.
	PolicyFile string

	// ParallelStages runs the pipeline stages concurrently.
	ParallelStages bool

	// SampleLines is the number of lines kept in content.sampleData.
	SampleLines int
}

const (
	mib                  = 1 << 20
	defaultMaxUploadSize = 101 * mib
	defaultMaxDecodeSize = 100 * mib
	maxSampleLines       = 50
)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnvOrDefault("PORT", "8080"),
			ReadTimeout:   getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:  getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			MaxUploadSize: getInt64OrDefault("MAX_UPLOAD_SIZE", defaultMaxUploadSize),
		},
		Validation: ValidationConfig{
			MaxDecodeSize:  getIntOrDefault("MAX_DECODE_SIZE", defaultMaxDecodeSize),
			PolicyFile:     os.Getenv("POLICY_FILE"),
			ParallelStages: getBoolOrDefault("PARALLEL_STAGES", true),
			SampleLines:    getIntOrDefault("SAMPLE_LINES", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("%w: PORT is required", domain.ErrInvalidConfig)
	}

	if c.Server.MaxUploadSize < mib {
		return fmt.Errorf("%w: MAX_UPLOAD_SIZE must be at least 1 MiB", domain.ErrInvalidConfig)
	}

	if c.Validation.MaxDecodeSize < mib {
		return fmt.Errorf("%w: MAX_DECODE_SIZE must be at least 1 MiB", domain.ErrInvalidConfig)
	}

	if c.Validation.SampleLines < 1 || c.Validation.SampleLines > maxSampleLines {
		return fmt.Errorf("%w: SAMPLE_LINES must be between 1 and %d", domain.ErrInvalidConfig, maxSampleLines)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getInt64OrDefault(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Plain integers are seconds
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
