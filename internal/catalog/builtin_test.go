package catalog

import (
	"testing"

	"github.com/spatialworks/geosniff/internal/types"
)

func TestBuiltin_Builds(t *testing.T) {
	cat, err := Build(Builtin())
	if err != nil {
		t.Fatalf("Build(Builtin()) error = %v, want nil", err)
	}
	if cat.Len() != 31 {
		t.Errorf("Len() = %v, want 31", cat.Len())
	}

	detectable := 0
	for _, rec := range cat.Records() {
		if rec.Detectable() {
			detectable++
		}
	}
	if detectable != 22 {
		t.Errorf("detectable records = %v, want 22", detectable)
	}
}

func TestBuiltin_Hierarchy(t *testing.T) {
	cat, err := Build(Builtin())
	if err != nil {
		t.Fatalf("Build(Builtin()) error = %v, want nil", err)
	}

	tests := []struct {
		name   string
		id     types.TypeID
		parent types.TypeID
		depth  int
	}{
		{name: "web service is a root", id: WebServiceID, parent: "", depth: 0},
		{name: "wfs under web service", id: WFSID, parent: WebServiceID, depth: 1},
		{name: "wfs 1.0 under wfs", id: WFS10ID, parent: WFSID, depth: 2},
		{name: "gml fc under xml documents", id: GMLFeatureCollectionID, parent: XMLDocumentsID, depth: 2},
		{name: "gml 3.2 fc under gml fc", id: GML32FeatureCollectionID, parent: GMLFeatureCollectionID, depth: 3},
		{name: "metadata under xml documents", id: MetadataRecordsID, parent: XMLDocumentsID, depth: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := cat.Get(tt.id)
			if !ok {
				t.Fatalf("Get(%v) not found", tt.id)
			}
			switch {
			case tt.parent == "" && rec.Parent != nil:
				t.Errorf("Parent = %v, want nil", rec.Parent.ID)
			case tt.parent != "" && (rec.Parent == nil || rec.Parent.ID != tt.parent):
				t.Errorf("Parent = %v, want %v", rec.Parent, tt.parent)
			}
			if got := rec.Depth(); got != tt.depth {
				t.Errorf("Depth() = %v, want %v", got, tt.depth)
			}
		})
	}

	wfs, _ := cat.Get(WFSID)
	if len(wfs.Subtypes) != 3 {
		t.Errorf("len(wfs.Subtypes) = %v, want 3", len(wfs.Subtypes))
	}
}

func TestBuiltin_FallbacksAreNotDetectable(t *testing.T) {
	cat, err := Build(Builtin())
	if err != nil {
		t.Fatalf("Build(Builtin()) error = %v, want nil", err)
	}
	for _, id := range []types.TypeID{WebServiceID, XMLDocumentsID} {
		rec, ok := cat.Get(id)
		if !ok {
			t.Fatalf("Get(%v) not found", id)
		}
		if rec.Detectable() {
			t.Errorf("record %v detectable = true, want false", id)
		}
	}
}

func TestBuiltin_VersionedServicesCarryNormalizationData(t *testing.T) {
	cat, err := Build(Builtin())
	if err != nil {
		t.Fatalf("Build(Builtin()) error = %v, want nil", err)
	}

	wfs2, _ := cat.Get(WFS20ID)
	if wfs2.DefaultQuery["ACCEPTVERSIONS"] != "2.0.0" {
		t.Errorf("WFS 2.0 ACCEPTVERSIONS = %q, want 2.0.0", wfs2.DefaultQuery["ACCEPTVERSIONS"])
	}
	if wfs2.URIPattern == "" {
		t.Errorf("WFS 2.0 URIPattern empty, want set")
	}
	wfs11, _ := cat.Get(WFS11ID)
	if wfs11.DefaultQuery["VERSION"] != "1.1.0" {
		t.Errorf("WFS 1.1 VERSION = %q, want 1.1.0", wfs11.DefaultQuery["VERSION"])
	}
}
