// Package export flattens generated schedules into tabular artifacts and
// ships them to blob storage for the reporting collaborators.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

// csvHeader is the stable column order of the flat schedule export.
var csvHeader = []string{
	"segment_id", "name", "district", "band", "health_score",
	"priority_tier", "priority_score", "last_inspection", "next_due",
	"days_until_due", "overdue", "action", "agency", "risk_factors",
	"estimated_cost", "quarter",
}

// Row flattens one schedule entry into the export record shape.
// Never-inspected segments carry "Never" in the last-inspection column.
func Row(e *schedule.Entry) []string {
	lastInspection := "Never"
	if e.LastInspection != nil {
		lastInspection = e.LastInspection.Date.Format("2006-01-02")
	}

	return []string{
		e.SegmentID,
		e.Name,
		e.District,
		e.Score.Band.Code,
		strconv.FormatFloat(e.Score.FinalScore, 'f', 1, 64),
		string(e.Tier),
		strconv.FormatFloat(e.PriorityScore, 'f', 1, 64),
		lastInspection,
		e.NextDue.Format("2006-01-02"),
		strconv.Itoa(e.DaysUntilDue),
		strconv.FormatBool(e.Overdue),
		string(e.Action),
		e.Agency,
		strings.Join(e.RiskFactors, "; "),
		strconv.FormatFloat(e.EstimatedCost, 'f', 0, 64),
		e.Quarter,
	}
}

// WriteCSV writes the full schedule as CSV, header first.
func WriteCSV(w io.Writer, entries []schedule.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range entries {
		if err := cw.Write(Row(&entries[i])); err != nil {
			return fmt.Errorf("write csv row %s: %w", entries[i].SegmentID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Marshal renders the schedule to an in-memory CSV artifact.
func Marshal(entries []schedule.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
