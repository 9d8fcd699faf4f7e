package road

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveSegments writes a segment collection to disk as JSON.
func SaveSegments(path string, segs []Segment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for segments: %w", err)
	}

	data, err := json.MarshalIndent(segs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling segments: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing segments: %w", err)
	}

	return nil
}

// LoadSegments reads a segment collection from disk.
func LoadSegments(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading segments: %w", err)
	}

	var segs []Segment
	if err := json.Unmarshal(data, &segs); err != nil {
		return nil, fmt.Errorf("unmarshaling segments: %w", err)
	}

	return segs, nil
}

// LoadInspections reads an inspection collection from disk and groups it
// by segment ID, each group sorted by the order it appears in the file.
func LoadInspections(path string) (map[string]History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inspections: %w", err)
	}

	var records []Inspection
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling inspections: %w", err)
	}

	bySegment := make(map[string]History)
	for _, rec := range records {
		bySegment[rec.SegmentID] = append(bySegment[rec.SegmentID], rec)
	}
	return bySegment, nil
}

// SaveInspections writes a flat inspection collection to disk as JSON.
func SaveInspections(path string, records []Inspection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for inspections: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling inspections: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing inspections: %w", err)
	}

	return nil
}
