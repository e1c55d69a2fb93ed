package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/core/db"
	"github.com/spatialworks/geosniff/internal/types"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open("sqlite://" + filepath.Join(t.TempDir(), "geosniff.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.MigrateUp(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		t.Fatalf("load queries: %v", err)
	}
	return New(queries)
}

// TestSQLiteRoundTrip runs the store against a real database so column types
// and query placeholders are checked, not just call shapes.
func TestSQLiteRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)

	wfs, err := s.Insert(Record{
		URI:                  "https://geo.example.com/cadastre/wfs",
		TypeID:               catalog.WFS20ID,
		TypeLabel:            "OGC Web Feature Service 2.0",
		ExtractedLabel:       "Cadastre WFS",
		ExtractedDescription: "Parcel boundaries and ownership records",
		Priority:             -3,
		DurationMs:           412,
	})
	if err != nil {
		t.Fatalf("insert wfs: %v", err)
	}
	wms, err := s.Insert(Record{
		URI:        "https://geo.example.com/imagery/wms",
		TypeID:     catalog.WMS13ID,
		TypeLabel:  "OGC Web Map Service 1.3",
		Priority:   -3,
		DurationMs: 208,
	})
	if err != nil {
		t.Fatalf("insert wms: %v", err)
	}
	fallback, err := s.Insert(Record{
		URI:        "https://geo.example.com/cadastre/wfs",
		TypeID:     catalog.XMLDocumentsID,
		TypeLabel:  "Set of XML documents",
		Priority:   0,
		Fallback:   true,
		DurationMs: 77,
	})
	if err != nil {
		t.Fatalf("insert fallback: %v", err)
	}

	t.Run("get returns the stored record", func(t *testing.T) {
		got, err := s.Get(wfs.DetectionID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != wfs {
			t.Errorf("Get = %+v, want %+v", got, wfs)
		}
	})

	t.Run("fallback flag survives the integer column", func(t *testing.T) {
		got, err := s.Get(fallback.DetectionID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !got.Fallback {
			t.Error("fallback flag lost on round trip")
		}
		if got.Priority != 0 {
			t.Errorf("priority = %d, want 0", got.Priority)
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := s.Get(types.DetectionID("01930000-0000-7000-8000-00000000dead"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("recent lists newest first", func(t *testing.T) {
		recs, err := s.Recent(10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("Recent returned %d records, want 3", len(recs))
		}
		// Same-second inserts fall back to the time-ordered detection ID.
		want := []Record{fallback, wms, wfs}
		for i := range want {
			if recs[i].DetectionID != want[i].DetectionID {
				t.Errorf("recs[%d] = %s, want %s", i, recs[i].DetectionID, want[i].DetectionID)
			}
		}
	})

	t.Run("recent honors the limit", func(t *testing.T) {
		recs, err := s.Recent(1)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(recs) != 1 || recs[0].DetectionID != fallback.DetectionID {
			t.Errorf("Recent(1) = %+v, want just %s", recs, fallback.DetectionID)
		}
	})

	t.Run("by uri filters and orders", func(t *testing.T) {
		recs, err := s.ByURI("https://geo.example.com/cadastre/wfs", 10)
		if err != nil {
			t.Fatalf("ByURI: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("ByURI returned %d records, want 2", len(recs))
		}
		if recs[0].DetectionID != fallback.DetectionID || recs[1].DetectionID != wfs.DetectionID {
			t.Errorf("ByURI order = [%s %s]", recs[0].DetectionID, recs[1].DetectionID)
		}
	})

	t.Run("by uri with no matches", func(t *testing.T) {
		recs, err := s.ByURI("https://nowhere.example.com/", 10)
		if err != nil {
			t.Fatalf("ByURI: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("ByURI = %+v, want empty", recs)
		}
	})
}
