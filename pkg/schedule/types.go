// Package schedule implements the RoadPulse maintenance scheduling engine.
// It converts scored segments plus their inspection history into a
// prioritized, explainable work schedule with aggregate statistics.
package schedule

import (
	"time"

	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// Tier is the discrete priority classification of a scheduled inspection.
type Tier string

const (
	TierCritical Tier = "critical"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
)

// Action is a discrete maintenance action, ordered worst to best.
type Action string

const (
	ActionEmergencyReconstruction Action = "emergency_reconstruction"
	ActionEmergencyOverlay        Action = "emergency_overlay"
	ActionPriorityStructural      Action = "priority_structural_repair"
	ActionStructuralOverlay       Action = "structural_overlay"
	ActionMajorRepair             Action = "major_repair"
	ActionPreventiveRisk          Action = "preventive_risk_mitigation"
	ActionPreventive              Action = "preventive_maintenance"
	ActionRoutinePatching         Action = "routine_patching"
	ActionMonitoringOnly          Action = "monitoring_only"
)

// Trend classifies how a segment's decay rate is evolving.
type Trend string

const (
	TrendAccelerating Trend = "accelerating"
	TrendStable       Trend = "stable"
	TrendImproving    Trend = "improving"
)

// DecayStats is the output of the decay trend analysis over a segment's
// inspection history.
type DecayStats struct {
	RatePerDay float64 `json:"rate_per_day"` // score points lost per day, >= 0
	Trend      Trend   `json:"trend"`
}

// Entry is one scheduled inspection: the per-segment output of a
// scheduling run. Entries are ephemeral, recomputed fresh on every run.
type Entry struct {
	SegmentID string `json:"segment_id"`
	Name      string `json:"name"`
	District  string `json:"district"`

	Score scoring.HealthScore `json:"score"`

	LastInspection *road.Inspection `json:"last_inspection,omitempty"`

	BaseIntervalDays     int       `json:"base_interval_days"`
	AdjustedIntervalDays int       `json:"adjusted_interval_days"`
	NextDue              time.Time `json:"next_due"`
	DaysUntilDue         int       `json:"days_until_due"` // signed
	Overdue              bool      `json:"overdue"`
	OverdueDays          int       `json:"overdue_days"` // 0 when not overdue

	Tier          Tier    `json:"tier"`
	PriorityScore float64 `json:"priority_score"` // 0-100, one decimal

	Action Action `json:"action"`
	Agency string `json:"agency"`

	RiskFactors    []string `json:"risk_factors"`
	RiskMultiplier float64  `json:"risk_multiplier"`

	DecayRate        float64 `json:"decay_rate"`
	Trend            Trend   `json:"trend"`
	TrendAlert       string  `json:"trend_alert,omitempty"` // model-divergence note
	DistressSeverity float64 `json:"distress_severity"`

	EstimatedCost float64 `json:"estimated_cost"`
	Quarter       string  `json:"quarter"` // "Q3-2026"
}

// Summary aggregates a generated schedule into fleet-wide statistics.
// Always computed fresh from an Entry collection.
type Summary struct {
	Total       int `json:"total"`
	Overdue     int `json:"overdue"`
	DueThisWeek int `json:"due_this_week"` // due within 7 days, not overdue
	DueSoon     int `json:"due_soon"`      // due within 30 days, not overdue

	ByTier map[Tier]int `json:"by_tier"`

	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	AvgDecayRate       float64 `json:"avg_decay_rate"` // three decimals
	AvgScore           float64 `json:"avg_score"`      // one decimal

	ByAction   map[Action]int `json:"by_action"`
	ByCategory map[string]int `json:"by_category"`
	ByQuarter  map[string]int `json:"by_quarter"`
	ByAgency   map[string]int `json:"by_agency"`
}
