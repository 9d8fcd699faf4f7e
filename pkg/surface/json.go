package surface

import (
	"encoding/json"
	"io"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

// JSONRenderer marshals the schedule and summary to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, entries []schedule.Entry, summary schedule.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Entries []schedule.Entry `json:"entries"`
		Summary schedule.Summary `json:"summary"`
	}{Entries: entries, Summary: summary})
}
