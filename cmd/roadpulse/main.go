// Package main provides the roadpulse CLI entry point.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roadpulse/roadpulse/pkg/config"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "roadpulse",
		Short: "Road segment health scoring and maintenance scheduling",
		Long: `RoadPulse scores road segments from raw field-survey measurements and
converts the ranking into a prioritized maintenance and inspection schedule.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newScheduleCmd(),
		newSummaryCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig finds and loads the nearest .roadpulse/config.yaml, falling
// back to defaults when none exists.
func loadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		cfg, _ := config.Load("")
		return cfg
	}
	path := config.FindConfigFile(cwd)
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		cfg, _ = config.Load("")
	}
	return cfg
}

// resolveAsOf picks the reference date: the --as-of flag, then the config
// pin, then the wall clock.
func resolveAsOf(flag string, cfg *config.Config) (time.Time, error) {
	if flag != "" {
		t, err := time.Parse("2006-01-02", flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing --as-of: %w", err)
		}
		return t, nil
	}
	return cfg.ResolveAsOf(time.Now())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
