package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roadpulse/roadpulse/pkg/config"
	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

func newScoreCmd() *cobra.Command {
	var (
		segmentsPath string
		remoteURL    string
		asOfFlag     string
		outputFmt    string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score road segments from raw survey measurements",
		Long: `Computes a 0-100 health score per segment, preferring the remote scoring
service when configured and falling back to the local formula.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), scoreOpts{
				segmentsPath: segmentsPath,
				remoteURL:    remoteURL,
				asOfFlag:     asOfFlag,
				outputFmt:    outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&segmentsPath, "segments", "", "Path to segments JSON file (required)")
	cmd.Flags().StringVar(&remoteURL, "remote", "", "Remote scoring service URL (default: config)")
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Reference date YYYY-MM-DD (default: config or today)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("segments")

	return cmd
}

type scoreOpts struct {
	segmentsPath string
	remoteURL    string
	asOfFlag     string
	outputFmt    string
}

func runScore(ctx context.Context, opts scoreOpts) error {
	cfg := loadConfig()

	asOf, err := resolveAsOf(opts.asOfFlag, cfg)
	if err != nil {
		return err
	}

	segs, err := road.LoadSegments(opts.segmentsPath)
	if err != nil {
		return err
	}

	provider := newProvider(firstNonEmpty(opts.remoteURL, cfg.Scoring.ServiceURL), cfg)

	fmt.Fprintf(os.Stderr, "Scoring %d segments (as of %s)...\n", len(segs), asOf.Format("2006-01-02"))
	scores := provider.BulkScore(ctx, segs, asOf)

	if opts.outputFmt == "json" {
		type scored struct {
			SegmentID string              `json:"segment_id"`
			Name      string              `json:"name"`
			Score     scoring.HealthScore `json:"score"`
		}
		out := make([]scored, len(segs))
		for i := range segs {
			out[i] = scored{SegmentID: segs[i].ID, Name: segs[i].Name, Score: scores[i]}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for i := range segs {
		hs := scores[i]
		fmt.Printf("%-14s %-32s %6.1f  %-2s %-8s (formula %.1f / model %.1f, %s)\n",
			segs[i].ID, segs[i].Name, hs.FinalScore, hs.Band.Code, hs.Category,
			hs.FormulaScore, hs.ModelScore, hs.ModelVersion)
	}
	return nil
}

// newProvider builds the scoring provider for the CLI: remote-backed when
// a service URL is known, formula-only otherwise.
func newProvider(remoteURL string, cfg *config.Config) *scoring.Provider {
	var remote *scoring.RemoteClient
	if remoteURL != "" {
		remote = scoring.NewRemoteClient(remoteURL, time.Duration(cfg.Scoring.Timeout)*time.Second)
	}
	return scoring.NewProvider(remote, cfg.Scoring.Concurrency)
}
