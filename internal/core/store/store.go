// Package store persists detection outcomes for audit and review.
//
// The store is a history of what the engine decided, not a cache: repeat
// requests for the same URI run detection again and append a new row.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spatialworks/geosniff/internal/types"
)

// ErrNotFound reports a lookup for a detection ID that was never recorded.
var ErrNotFound = errors.New("detection not found")

const defaultListLimit = 50

// Queries defines the database operations the store needs.
// Implemented by *db.Queries.
type Queries interface {
	Exec(name string, args ...interface{}) (sql.Result, error)
	Get(name string, dest interface{}, args ...interface{}) error
	Select(name string, dest interface{}, args ...interface{}) error
}

// Record is one persisted detection outcome.
type Record struct {
	DetectionID          types.DetectionID `db:"detection_id" json:"detection_id"`
	URI                  string            `db:"uri" json:"uri"`
	TypeID               types.TypeID      `db:"type_id" json:"type_id"`
	TypeLabel            string            `db:"type_label" json:"type_label"`
	ExtractedLabel       string            `db:"extracted_label" json:"extracted_label,omitempty"`
	ExtractedDescription string            `db:"extracted_description" json:"extracted_description,omitempty"`
	Priority             int               `db:"priority" json:"priority"`
	Fallback             bool              `db:"fallback" json:"fallback"`
	DurationMs           int64             `db:"duration_ms" json:"duration_ms"`
	CreatedAt            string            `db:"created_at" json:"created_at"`
}

// Store wraps the named queries for the detections table.
type Store struct {
	queries Queries
}

// New creates a store over the given query set.
func New(queries Queries) *Store {
	return &Store{queries: queries}
}

// Insert assigns the record a time-ordered detection ID and timestamp,
// persists it, and returns the stored form.
func (s *Store) Insert(rec Record) (Record, error) {
	rec.DetectionID = types.NewDetectionID()
	rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := s.queries.Exec("insert-detection",
		rec.DetectionID,
		rec.URI,
		rec.TypeID,
		rec.TypeLabel,
		rec.ExtractedLabel,
		rec.ExtractedDescription,
		rec.Priority,
		rec.Fallback,
		rec.DurationMs,
		rec.CreatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert detection: %w", err)
	}
	return rec, nil
}

// Get returns the detection with the given ID.
func (s *Store) Get(id types.DetectionID) (Record, error) {
	var rec Record
	err := s.queries.Get("get-detection", &rec, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get detection %s: %w", id, err)
	}
	return rec, nil
}

// Recent returns the newest detections, most recent first.
func (s *Store) Recent(limit int) ([]Record, error) {
	var recs []Record
	if err := s.queries.Select("list-recent-detections", &recs, clampLimit(limit)); err != nil {
		return nil, fmt.Errorf("list recent detections: %w", err)
	}
	return recs, nil
}

// ByURI returns detections recorded for a URI, most recent first.
func (s *Store) ByURI(uri string, limit int) ([]Record, error) {
	var recs []Record
	if err := s.queries.Select("list-detections-by-uri", &recs, uri, clampLimit(limit)); err != nil {
		return nil, fmt.Errorf("list detections for %s: %w", uri, err)
	}
	return recs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}
