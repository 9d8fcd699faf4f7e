// Package recalc applies a single new field inspection to a scored
// segment and produces the updated health snapshot plus before/after
// deltas for audit and notification purposes.
package recalc

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// ModelVersionManual tags health scores that were reset by a manual field
// inspection. Manual inspections are authoritative: the model component is
// replaced with the surveyed score rather than re-querying the model.
const ModelVersionManual = "manual-inspection"

// Observation is one new raw field observation of a segment.
type Observation struct {
	Score            float64 `json:"score"` // raw surveyed 0-100 condition score
	SurfaceDamagePct float64 `json:"surface_damage_pct"`
	Waterlogging     bool    `json:"waterlogging"`
	DrainageStatus   string  `json:"drainage_status"`
	Remarks          string  `json:"remarks"`
	Agency           string  `json:"agency"`
}

// Result is the outcome of applying an observation: the appended record,
// the replacement health snapshot, and the audit delta.
type Result struct {
	Record road.Inspection     `json:"record"`
	Score  scoring.HealthScore `json:"score"`

	OldScore    float64 `json:"old_score"`
	NewScore    float64 `json:"new_score"`
	OldBand     string  `json:"old_band"`
	NewBand     string  `json:"new_band"`
	OldCategory string  `json:"old_category"`
	NewCategory string  `json:"new_category"`
}

// IDGenerator produces inspection record identifiers. Injectable so tests
// can pin record creation to fixed values.
type IDGenerator func() string

// NewUUID is the production ID generator.
func NewUUID() string { return uuid.New().String() }

// Apply builds the inspection record for the observation and recomputes
// the segment's health snapshot from the new raw score alone. Inputs are
// never mutated; the caller appends Record to the segment's history and
// replaces its health score with Score as a whole.
func Apply(segmentID string, prior scoring.HealthScore, obs Observation, asOf time.Time, newID IDGenerator) Result {
	if newID == nil {
		newID = NewUUID
	}

	raw := math.Max(0, math.Min(100, obs.Score))

	record := road.Inspection{
		ID:               newID(),
		SegmentID:        segmentID,
		Date:             asOf,
		Agency:           obs.Agency,
		ConditionScore:   raw,
		SurfaceDamagePct: obs.SurfaceDamagePct,
		Waterlogging:     obs.Waterlogging,
		DrainageStatus:   obs.DrainageStatus,
		Remarks:          obs.Remarks,
	}

	next := scoring.Compose(raw, raw, ModelVersionManual)

	return Result{
		Record: record,
		Score:  next,

		OldScore:    prior.FinalScore,
		NewScore:    next.FinalScore,
		OldBand:     prior.Band.Code,
		NewBand:     next.Band.Code,
		OldCategory: prior.Category,
		NewCategory: next.Category,
	}
}
