// internal/catalog/catalog_test.go
package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/spatialworks/geosniff/internal/types"
)

func TestBuild_LinksParentsAndSubtypes(t *testing.T) {
	defs := []Def{
		{ID: "a", Label: "Root A"},
		{ID: "b", Label: "Child B", Parent: "a"},
		{ID: "c", Label: "Child C", Parent: "a"},
		{ID: "d", Label: "Grandchild D", Parent: "b"},
	}

	cat, err := Build(defs)
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}
	if cat.Len() != 4 {
		t.Fatalf("Len() = %v, want 4", cat.Len())
	}

	b, ok := cat.Get("b")
	if !ok {
		t.Fatalf("Get(b) not found")
	}
	if b.Parent == nil || b.Parent.ID != "a" {
		t.Errorf("b.Parent = %v, want a", b.Parent)
	}
	a, _ := cat.Get("a")
	if len(a.Subtypes) != 2 {
		t.Fatalf("len(a.Subtypes) = %v, want 2", len(a.Subtypes))
	}
	if a.Subtypes[0].ID != "b" || a.Subtypes[1].ID != "c" {
		t.Errorf("a.Subtypes = [%v %v], want [b c]", a.Subtypes[0].ID, a.Subtypes[1].ID)
	}
	d, _ := cat.Get("d")
	if got := d.Depth(); got != 2 {
		t.Errorf("d.Depth() = %v, want 2", got)
	}
	if got := a.Depth(); got != 0 {
		t.Errorf("a.Depth() = %v, want 0", got)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		defs []Def
		want string
	}{
		{
			name: "duplicate id",
			defs: []Def{{ID: "a", Label: "A"}, {ID: "a", Label: "A again"}},
			want: "duplicate id",
		},
		{
			name: "unknown parent",
			defs: []Def{{ID: "a", Label: "A", Parent: "missing"}},
			want: "parent",
		},
		{
			name: "parent declared after child",
			defs: []Def{{ID: "a", Label: "A", Parent: "b"}, {ID: "b", Label: "B"}},
			want: "parent",
		},
		{
			name: "empty id",
			defs: []Def{{Label: "A"}},
			want: "empty id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.defs)
			if err == nil {
				t.Fatalf("Build() error = nil, want containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestBuild_RecordsPreserveInsertionOrder(t *testing.T) {
	defs := []Def{
		{ID: "z", Label: "Z"},
		{ID: "m", Label: "M"},
		{ID: "a", Label: "A"},
	}
	cat, err := Build(defs)
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}
	recs := cat.Records()
	for i, want := range []types.TypeID{"z", "m", "a"} {
		if recs[i].ID != want {
			t.Errorf("Records()[%d].ID = %v, want %v", i, recs[i].ID, want)
		}
	}
}

func TestFamily(t *testing.T) {
	defs := []Def{
		{ID: "svc", Label: "Service"},
		{ID: "wfs", Label: "WFS", Parent: "svc"},
		{ID: "wfs2", Label: "WFS 2.0", Parent: "wfs"},
		{ID: "wms", Label: "WMS", Parent: "svc"},
	}
	cat, err := Build(defs)
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}

	fam, err := cat.Family("wfs")
	if err != nil {
		t.Fatalf("Family(wfs) error = %v, want nil", err)
	}
	got := make([]types.TypeID, 0, len(fam))
	for _, rec := range fam {
		got = append(got, rec.ID)
	}
	want := []types.TypeID{"wfs", "wfs2"}
	if len(got) != len(want) {
		t.Fatalf("Family(wfs) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Family(wfs)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := cat.Family("nope"); !errors.Is(err, types.ErrTypeNotFound) {
		t.Errorf("Family(nope) error = %v, want ErrTypeNotFound", err)
	}
}

func TestParseDefs(t *testing.T) {
	const doc = `[
		{"id": "11111111-1111-1111-1111-111111111111", "label": "Custom", "detection": "boolean(/*)"},
		{"id": "22222222-2222-2222-2222-222222222222", "label": "Custom child",
		 "parent": "11111111-1111-1111-1111-111111111111",
		 "default_query": {"service": "XYZ"}}
	]`
	defs, err := ParseDefs(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDefs() error = %v, want nil", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %v, want 2", len(defs))
	}
	if defs[0].Detection != "boolean(/*)" {
		t.Errorf("defs[0].Detection = %q, want %q", defs[0].Detection, "boolean(/*)")
	}
	if defs[1].DefaultQuery["service"] != "XYZ" {
		t.Errorf("defs[1].DefaultQuery[service] = %q, want XYZ", defs[1].DefaultQuery["service"])
	}

	if _, err := ParseDefs(strings.NewReader(`[{"id": "x", "nope": true}]`)); err == nil {
		t.Errorf("ParseDefs() with unknown field error = nil, want error")
	}
}
