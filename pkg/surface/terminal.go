package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

// TerminalRenderer renders a schedule as colored terminal output.
type TerminalRenderer struct {
	// MaxRows caps the number of schedule rows printed. Zero means all.
	MaxRows int
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func tierColor(tier schedule.Tier) string {
	if noColor() {
		return ""
	}
	switch tier {
	case schedule.TierCritical, schedule.TierHigh:
		return colorRed
	case schedule.TierMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, entries []schedule.Entry, summary schedule.Summary) error {
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf(
		"RoadPulse schedule: %d segments — %d overdue, %d due this week",
		summary.Total, summary.Overdue, summary.DueThisWeek)))

	fmt.Fprintf(w, "Tiers: %d critical / %d high / %d medium / %d low — avg score %.1f, est. cost %.0f\n\n",
		summary.ByTier[schedule.TierCritical], summary.ByTier[schedule.TierHigh],
		summary.ByTier[schedule.TierMedium], summary.ByTier[schedule.TierLow],
		summary.AvgScore, summary.TotalEstimatedCost)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No segments scheduled.")
		return nil
	}

	rows := entries
	if r.MaxRows > 0 && len(rows) > r.MaxRows {
		rows = rows[:r.MaxRows]
	}

	for _, e := range rows {
		due := fmt.Sprintf("due %s", e.NextDue.Format("2006-01-02"))
		if e.Overdue {
			due = colored(fmt.Sprintf("overdue %dd", e.OverdueDays), colorRed)
		}

		fmt.Fprintf(w, "  %s %s [%s] score %.1f (%s) — %s, %s, %s\n",
			colored("●", tierColor(e.Tier)),
			bold(e.Name),
			e.SegmentID,
			e.Score.FinalScore,
			e.Score.Band.Code,
			string(e.Tier),
			string(e.Action),
			due)

		if len(e.RiskFactors) > 0 {
			fmt.Fprintf(w, "      %s\n", dim(strings.Join(e.RiskFactors, "; ")))
		}
		if e.TrendAlert != "" {
			fmt.Fprintf(w, "      %s\n", dim(e.TrendAlert))
		}
	}

	if len(rows) < len(entries) {
		fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("... and %d more", len(entries)-len(rows))))
	}

	return nil
}
