package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roadpulse/roadpulse/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		opts    scheduleOpts
		outPath string
		upload  bool
		name    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the maintenance schedule as CSV",
		Long: `Generates the schedule and writes it as a flat CSV: one row per segment
with due dates, priority, action, agency, and cost. Writes to a local file
by default, or to the configured storage backend with --upload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := buildSchedule(cmd.Context(), opts)
			if err != nil {
				return err
			}

			data, err := export.Marshal(entries)
			if err != nil {
				return fmt.Errorf("marshaling schedule: %w", err)
			}

			if upload {
				cfg := loadConfig()
				storage, err := export.NewStorage(cmd.Context(), cfg.Export)
				if err != nil {
					return fmt.Errorf("export storage: %w", err)
				}
				if name == "" {
					asOf, err := resolveAsOf(opts.asOfFlag, cfg)
					if err != nil {
						return err
					}
					name = fmt.Sprintf("schedule-%s.csv", asOf.Format("2006-01-02"))
				}
				if err := storage.PutExport(cmd.Context(), name, data); err != nil {
					return fmt.Errorf("uploading export: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Uploaded %s (%d entries)\n", name, len(entries))
				return nil
			}

			if outPath == "" || outPath == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s (%d entries)\n", outPath, len(entries))
			return nil
		},
	}

	addScheduleFlags(cmd, &opts)
	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload to the configured export backend instead of writing locally")
	cmd.Flags().StringVar(&name, "name", "", "Object name for --upload (default: schedule-<as-of>.csv)")

	return cmd
}
