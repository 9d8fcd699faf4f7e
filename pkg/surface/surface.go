// Package surface defines output rendering for RoadPulse schedules.
// Implementations handle different output targets: terminal and JSON.
package surface

import (
	"io"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

// Renderer produces formatted output from a generated schedule and its
// summary.
type Renderer interface {
	// Render writes the formatted schedule to the writer.
	Render(w io.Writer, entries []schedule.Entry, summary schedule.Summary) error
}
