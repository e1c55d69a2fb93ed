package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/spatialworks/geosniff/internal/types"
)

type call struct {
	name string
	args []interface{}
}

// fakeQueries records calls and serves canned rows.
type fakeQueries struct {
	calls   []call
	getErr  error
	getRow  *Record
	selects []Record
}

func (f *fakeQueries) Exec(name string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, call{name, args})
	return nil, nil
}

func (f *fakeQueries) Get(name string, dest interface{}, args ...interface{}) error {
	f.calls = append(f.calls, call{name, args})
	if f.getErr != nil {
		return f.getErr
	}
	*dest.(*Record) = *f.getRow
	return nil
}

func (f *fakeQueries) Select(name string, dest interface{}, args ...interface{}) error {
	f.calls = append(f.calls, call{name, args})
	*dest.(*[]Record) = f.selects
	return nil
}

func TestInsert(t *testing.T) {
	q := &fakeQueries{}
	s := New(q)

	stored, err := s.Insert(Record{
		URI:       "https://example.com/wfs",
		TypeID:    "9b6ef734-981e-4d60-aa81-d6730a1c6389",
		TypeLabel: "OGC Web Feature Service 2.0",
		Priority:  -3,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.DetectionID == "" {
		t.Error("Insert did not assign a detection ID")
	}
	if _, err := types.ParseDetectionID(string(stored.DetectionID)); err != nil {
		t.Errorf("assigned ID is not a UUID: %v", err)
	}
	if stored.CreatedAt == "" {
		t.Error("Insert did not assign created_at")
	}

	if len(q.calls) != 1 || q.calls[0].name != "insert-detection" {
		t.Fatalf("unexpected calls: %+v", q.calls)
	}
	if got := len(q.calls[0].args); got != 10 {
		t.Errorf("insert bound %d args, want 10", got)
	}
}

func TestGet(t *testing.T) {
	want := Record{DetectionID: "d1", URI: "https://example.com/wms", TypeLabel: "OGC Web Map Service 1.3"}
	q := &fakeQueries{getRow: &want}
	s := New(q)

	got, err := s.Get("d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := New(&fakeQueries{getErr: sql.ErrNoRows})
	_, err := s.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListLimits(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, defaultListLimit},
		{"negative falls back to default", -3, defaultListLimit},
		{"oversized falls back to default", 10000, defaultListLimit},
		{"in range passes through", 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQueries{}
			if _, err := New(q).Recent(tt.limit); err != nil {
				t.Fatalf("Recent: %v", err)
			}
			args := q.calls[0].args
			if len(args) != 1 || args[0].(int) != tt.want {
				t.Errorf("Recent bound %v, want [%d]", args, tt.want)
			}
		})
	}
}

func TestByURI(t *testing.T) {
	q := &fakeQueries{selects: []Record{{DetectionID: "d2"}, {DetectionID: "d1"}}}
	s := New(q)

	recs, err := s.ByURI("https://example.com/wfs", 10)
	if err != nil {
		t.Fatalf("ByURI: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if q.calls[0].name != "list-detections-by-uri" {
		t.Errorf("query = %s", q.calls[0].name)
	}
	if q.calls[0].args[0].(string) != "https://example.com/wfs" {
		t.Errorf("uri arg = %v", q.calls[0].args[0])
	}
}
