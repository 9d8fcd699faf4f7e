// Package config handles loading and managing RoadPulse configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for RoadPulse.
type Config struct {
	Scoring  ScoringConfig  `yaml:"scoring"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Export   ExportConfig   `yaml:"export"`
}

// ScoringConfig controls health scoring behavior.
type ScoringConfig struct {
	ServiceURL  string `yaml:"service_url"` // remote scoring service; empty = formula only
	Timeout     int    `yaml:"timeout"`     // seconds, per request
	Concurrency int    `yaml:"concurrency"` // max in-flight remote requests
}

// ScheduleConfig controls schedule generation.
type ScheduleConfig struct {
	MonsoonMode bool   `yaml:"monsoon_mode"`
	AsOf        string `yaml:"as_of"` // pinned reference date YYYY-MM-DD; empty = wall clock
}

// ExportConfig controls where schedule export artifacts land.
type ExportConfig struct {
	Backend   string `yaml:"backend"` // local, s3, gcs
	Dir       string `yaml:"dir"`     // local backend base directory
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // for S3-compatible stores
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Timeout:     10,
			Concurrency: 10,
		},
		Export: ExportConfig{
			Backend: "local",
			Dir:     "exports",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .roadpulse/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".roadpulse", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// ResolveAsOf parses the pinned reference date, or returns now when the
// config leaves it empty.
func (c *Config) ResolveAsOf(now time.Time) (time.Time, error) {
	if c.Schedule.AsOf == "" {
		return now, nil
	}
	t, err := time.Parse("2006-01-02", c.Schedule.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing schedule.as_of: %w", err)
	}
	return t, nil
}
