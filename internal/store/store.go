// Package store persists road segments, inspection history, and the
// latest health score per segment in Postgres. It is the boundary to the
// data-ingestion collaborator: the engines themselves only ever see
// in-memory collections loaded from here.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roadpulse/roadpulse/pkg/road"
	"github.com/roadpulse/roadpulse/pkg/scoring"
)

// Service provides segment, inspection, and score persistence.
type Service struct {
	db *sql.DB
}

// NewService creates a new store Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

const segmentColumns = `id, name, highway_ref, start_km, end_km, length_km, lanes,
	jurisdiction, district, status, surface_type, year_constructed, last_rehab_year,
	avg_daily_traffic, truck_pct, peak_hour_traffic,
	flood_prone, landslide_prone, ghat_section, tourism_route, coastal_area,
	terrain_type, slope_category, rainfall_class, region_type, elevation_m,
	potholes_per_km, pothole_depth_cm, alligator_pct, longitudinal_pct,
	transverse_per_km, rutting_mm, raveling_pct, edge_break_pct, patches_per_km,
	iri, pci`

// UpsertSegment creates or replaces a segment record.
func (s *Service) UpsertSegment(ctx context.Context, seg *road.Segment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO road_segments (`+segmentColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
		         $21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36,$37)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, highway_ref = EXCLUDED.highway_ref,
		   start_km = EXCLUDED.start_km, end_km = EXCLUDED.end_km,
		   length_km = EXCLUDED.length_km, lanes = EXCLUDED.lanes,
		   jurisdiction = EXCLUDED.jurisdiction, district = EXCLUDED.district,
		   status = EXCLUDED.status, surface_type = EXCLUDED.surface_type,
		   year_constructed = EXCLUDED.year_constructed,
		   last_rehab_year = EXCLUDED.last_rehab_year,
		   avg_daily_traffic = EXCLUDED.avg_daily_traffic,
		   truck_pct = EXCLUDED.truck_pct, peak_hour_traffic = EXCLUDED.peak_hour_traffic,
		   flood_prone = EXCLUDED.flood_prone, landslide_prone = EXCLUDED.landslide_prone,
		   ghat_section = EXCLUDED.ghat_section, tourism_route = EXCLUDED.tourism_route,
		   coastal_area = EXCLUDED.coastal_area, terrain_type = EXCLUDED.terrain_type,
		   slope_category = EXCLUDED.slope_category, rainfall_class = EXCLUDED.rainfall_class,
		   region_type = EXCLUDED.region_type, elevation_m = EXCLUDED.elevation_m,
		   potholes_per_km = EXCLUDED.potholes_per_km,
		   pothole_depth_cm = EXCLUDED.pothole_depth_cm,
		   alligator_pct = EXCLUDED.alligator_pct,
		   longitudinal_pct = EXCLUDED.longitudinal_pct,
		   transverse_per_km = EXCLUDED.transverse_per_km,
		   rutting_mm = EXCLUDED.rutting_mm, raveling_pct = EXCLUDED.raveling_pct,
		   edge_break_pct = EXCLUDED.edge_break_pct, patches_per_km = EXCLUDED.patches_per_km,
		   iri = EXCLUDED.iri, pci = EXCLUDED.pci, updated_at = now()`,
		seg.ID, seg.Name, seg.HighwayRef, seg.StartKm, seg.EndKm, seg.LengthKm, seg.Lanes,
		seg.Jurisdiction, seg.District, seg.Status, seg.SurfaceType,
		seg.YearConstructed, seg.LastRehabYear,
		seg.AvgDailyTraffic, seg.TruckPct, seg.PeakHourTraffic,
		seg.FloodProne, seg.LandslideProne, seg.GhatSection, seg.TourismRoute, seg.CoastalArea,
		seg.TerrainType, seg.SlopeCategory, seg.RainfallClass, seg.RegionType, seg.ElevationM,
		seg.Distress.PotholesPerKm, seg.Distress.PotholeDepthCm, seg.Distress.AlligatorPct,
		seg.Distress.LongitudinalPct, seg.Distress.TransversePerKm, seg.Distress.RuttingMm,
		seg.Distress.RavelingPct, seg.Distress.EdgeBreakPct, seg.Distress.PatchesPerKm,
		seg.IRI, seg.PCI,
	)
	if err != nil {
		return fmt.Errorf("upsert segment %s: %w", seg.ID, err)
	}
	return nil
}

func scanSegment(scan func(dest ...any) error) (road.Segment, error) {
	var seg road.Segment
	err := scan(
		&seg.ID, &seg.Name, &seg.HighwayRef, &seg.StartKm, &seg.EndKm, &seg.LengthKm, &seg.Lanes,
		&seg.Jurisdiction, &seg.District, &seg.Status, &seg.SurfaceType,
		&seg.YearConstructed, &seg.LastRehabYear,
		&seg.AvgDailyTraffic, &seg.TruckPct, &seg.PeakHourTraffic,
		&seg.FloodProne, &seg.LandslideProne, &seg.GhatSection, &seg.TourismRoute, &seg.CoastalArea,
		&seg.TerrainType, &seg.SlopeCategory, &seg.RainfallClass, &seg.RegionType, &seg.ElevationM,
		&seg.Distress.PotholesPerKm, &seg.Distress.PotholeDepthCm, &seg.Distress.AlligatorPct,
		&seg.Distress.LongitudinalPct, &seg.Distress.TransversePerKm, &seg.Distress.RuttingMm,
		&seg.Distress.RavelingPct, &seg.Distress.EdgeBreakPct, &seg.Distress.PatchesPerKm,
		&seg.IRI, &seg.PCI,
	)
	return seg, err
}

// GetSegment retrieves one segment by ID.
func (s *Service) GetSegment(ctx context.Context, id string) (*road.Segment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+segmentColumns+` FROM road_segments WHERE id = $1`, id)
	seg, err := scanSegment(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get segment %s: %w", id, err)
	}
	return &seg, nil
}

// ListSegments retrieves all segments ordered by ID.
func (s *Service) ListSegments(ctx context.Context) ([]road.Segment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+segmentColumns+` FROM road_segments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segs []road.Segment
	for rows.Next() {
		seg, err := scanSegment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segs = append(segs, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	return segs, nil
}

// AppendInspection stores a new inspection record. A missing ID is filled
// with a fresh UUID.
func (s *Service) AppendInspection(ctx context.Context, rec *road.Inspection) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inspections (id, segment_id, inspected_at, agency, condition_score,
		   surface_damage_pct, waterlogging, drainage_status, remarks)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.SegmentID, rec.Date, rec.Agency, rec.ConditionScore,
		rec.SurfaceDamagePct, rec.Waterlogging, rec.DrainageStatus, rec.Remarks,
	)
	if err != nil {
		return fmt.Errorf("append inspection for %s: %w", rec.SegmentID, err)
	}
	return nil
}

// ListHistories loads every inspection, grouped by segment and ordered by
// date ascending within each group.
func (s *Service) ListHistories(ctx context.Context) (map[string]road.History, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, segment_id, inspected_at, agency, condition_score,
		        surface_damage_pct, waterlogging, drainage_status, remarks
		 FROM inspections ORDER BY segment_id, inspected_at`)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	defer rows.Close()

	histories := make(map[string]road.History)
	for rows.Next() {
		var rec road.Inspection
		if err := rows.Scan(&rec.ID, &rec.SegmentID, &rec.Date, &rec.Agency,
			&rec.ConditionScore, &rec.SurfaceDamagePct, &rec.Waterlogging,
			&rec.DrainageStatus, &rec.Remarks); err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		histories[rec.SegmentID] = append(histories[rec.SegmentID], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inspections: %w", err)
	}
	return histories, nil
}

// SegmentHistory loads one segment's inspections ordered by date.
func (s *Service) SegmentHistory(ctx context.Context, segmentID string) (road.History, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, segment_id, inspected_at, agency, condition_score,
		        surface_damage_pct, waterlogging, drainage_status, remarks
		 FROM inspections WHERE segment_id = $1 ORDER BY inspected_at`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("segment history %s: %w", segmentID, err)
	}
	defer rows.Close()

	var history road.History
	for rows.Next() {
		var rec road.Inspection
		if err := rows.Scan(&rec.ID, &rec.SegmentID, &rec.Date, &rec.Agency,
			&rec.ConditionScore, &rec.SurfaceDamagePct, &rec.Waterlogging,
			&rec.DrainageStatus, &rec.Remarks); err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inspections: %w", err)
	}
	return history, nil
}

// SaveHealthScore replaces the latest health score snapshot for a segment.
func (s *Service) SaveHealthScore(ctx context.Context, segmentID string, hs scoring.HealthScore, scoredAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO health_scores (segment_id, final_score, category, distress_index,
		   formula_score, model_score, model_version, band_code, band_label, band_color, scored_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (segment_id) DO UPDATE SET
		   final_score = EXCLUDED.final_score, category = EXCLUDED.category,
		   distress_index = EXCLUDED.distress_index, formula_score = EXCLUDED.formula_score,
		   model_score = EXCLUDED.model_score, model_version = EXCLUDED.model_version,
		   band_code = EXCLUDED.band_code, band_label = EXCLUDED.band_label,
		   band_color = EXCLUDED.band_color, scored_at = EXCLUDED.scored_at`,
		segmentID, hs.FinalScore, hs.Category, hs.DistressIndex,
		hs.FormulaScore, hs.ModelScore, hs.ModelVersion,
		hs.Band.Code, hs.Band.Label, hs.Band.Color, scoredAt,
	)
	if err != nil {
		return fmt.Errorf("save health score %s: %w", segmentID, err)
	}
	return nil
}

// GetHealthScore retrieves the latest health score for a segment.
func (s *Service) GetHealthScore(ctx context.Context, segmentID string) (*scoring.HealthScore, error) {
	var hs scoring.HealthScore
	err := s.db.QueryRowContext(ctx,
		`SELECT final_score, category, distress_index, formula_score, model_score,
		        model_version, band_code, band_label, band_color
		 FROM health_scores WHERE segment_id = $1`, segmentID).
		Scan(&hs.FinalScore, &hs.Category, &hs.DistressIndex, &hs.FormulaScore,
			&hs.ModelScore, &hs.ModelVersion, &hs.Band.Code, &hs.Band.Label, &hs.Band.Color)
	if err != nil {
		return nil, fmt.Errorf("get health score %s: %w", segmentID, err)
	}
	return &hs, nil
}

// ListHealthScores loads the latest health score per segment.
func (s *Service) ListHealthScores(ctx context.Context) (map[string]scoring.HealthScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT segment_id, final_score, category, distress_index, formula_score,
		        model_score, model_version, band_code, band_label, band_color
		 FROM health_scores`)
	if err != nil {
		return nil, fmt.Errorf("list health scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]scoring.HealthScore)
	for rows.Next() {
		var id string
		var hs scoring.HealthScore
		if err := rows.Scan(&id, &hs.FinalScore, &hs.Category, &hs.DistressIndex,
			&hs.FormulaScore, &hs.ModelScore, &hs.ModelVersion,
			&hs.Band.Code, &hs.Band.Label, &hs.Band.Color); err != nil {
			return nil, fmt.Errorf("scan health score: %w", err)
		}
		scores[id] = hs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate health scores: %w", err)
	}
	return scores, nil
}
