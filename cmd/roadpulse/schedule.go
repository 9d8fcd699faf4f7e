package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/schedule"
	"github.com/roadpulse/roadpulse/pkg/surface"
)

func newScheduleCmd() *cobra.Command {
	var opts scheduleOpts

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate a prioritized maintenance schedule",
		Long: `Scores every segment, analyzes its inspection history, and produces a
work schedule sorted by priority: due dates, tiers, actions, agencies,
and cost estimates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := buildSchedule(cmd.Context(), opts)
			if err != nil {
				return err
			}

			var renderer surface.Renderer
			if opts.outputFmt == "json" {
				renderer = &surface.JSONRenderer{}
			} else {
				renderer = &surface.TerminalRenderer{MaxRows: opts.limit}
			}
			return renderer.Render(os.Stdout, entries, schedule.Summarize(entries))
		},
	}

	addScheduleFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().IntVar(&opts.limit, "limit", 25, "Max rows in text output (0 = all)")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	var opts scheduleOpts

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fleet-wide schedule statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := buildSchedule(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return (&surface.JSONRenderer{}).Render(os.Stdout, nil, schedule.Summarize(entries))
		},
	}

	addScheduleFlags(cmd, &opts)
	return cmd
}

type scheduleOpts struct {
	segmentsPath    string
	inspectionsPath string
	remoteURL       string
	asOfFlag        string
	monsoon         bool
	outputFmt       string
	limit           int
}

func addScheduleFlags(cmd *cobra.Command, opts *scheduleOpts) {
	cmd.Flags().StringVar(&opts.segmentsPath, "segments", "", "Path to segments JSON file (required)")
	cmd.Flags().StringVar(&opts.inspectionsPath, "inspections", "", "Path to inspections JSON file")
	cmd.Flags().StringVar(&opts.remoteURL, "remote", "", "Remote scoring service URL (default: config)")
	cmd.Flags().StringVar(&opts.asOfFlag, "as-of", "", "Reference date YYYY-MM-DD (default: config or today)")
	cmd.Flags().BoolVar(&opts.monsoon, "monsoon", false, "Apply monsoon-mode interval shortening")
	_ = cmd.MarkFlagRequired("segments")
}

// buildSchedule runs the full pipeline: load, score, generate.
func buildSchedule(ctx context.Context, opts scheduleOpts) ([]schedule.Entry, error) {
	cfg := loadConfig()

	asOf, err := resolveAsOf(opts.asOfFlag, cfg)
	if err != nil {
		return nil, err
	}

	segs, err := road.LoadSegments(opts.segmentsPath)
	if err != nil {
		return nil, err
	}

	histories := map[string]road.History{}
	if opts.inspectionsPath != "" {
		histories, err = road.LoadInspections(opts.inspectionsPath)
		if err != nil {
			return nil, err
		}
	}

	provider := newProvider(firstNonEmpty(opts.remoteURL, cfg.Scoring.ServiceURL), cfg)

	fmt.Fprintf(os.Stderr, "Scheduling %d segments (as of %s, monsoon=%t)...\n",
		len(segs), asOf.Format("2006-01-02"), opts.monsoon || cfg.Schedule.MonsoonMode)

	scores := provider.BulkScore(ctx, segs, asOf)

	gen := schedule.Generator{MonsoonMode: opts.monsoon || cfg.Schedule.MonsoonMode}
	return gen.Generate(segs, scores, histories, asOf), nil
}
