package rules

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/probe"
)

func TestNewRegistry_CompilesAllBuiltinRules(t *testing.T) {
	cat := builtinCatalog(t)
	reg := NewRegistry(cat, probe.New(), zerolog.Nop())

	if reg.Len() != 22 {
		t.Errorf("Len() = %v, want 22", reg.Len())
	}
	if _, ok := reg.Lookup(catalog.WFS20ID); !ok {
		t.Errorf("Lookup(WFS 2.0) not found")
	}
	if _, ok := reg.Lookup(catalog.WebServiceID); ok {
		t.Errorf("Lookup(Web service) found, want absent: fallback types have no rule")
	}
}

func TestNewRegistry_OrderedForEvaluation(t *testing.T) {
	cat := builtinCatalog(t)
	reg := NewRegistry(cat, probe.New(), zerolog.Nop())

	rules := reg.Rules()
	for i := 1; i < len(rules); i++ {
		if rules[i].Less(rules[i-1]) {
			t.Errorf("rules[%d] (%v) sorts before rules[%d] (%v)",
				i, rules[i].Record().Label, i-1, rules[i-1].Record().Label)
		}
	}

	// The deepest leaves come first; within the deepest group the greater
	// label leads.
	if got := rules[0].Record().Label; got != "WFS 2.0 feature collections" {
		t.Errorf("rules[0].Label = %q, want %q", got, "WFS 2.0 feature collections")
	}
}

func TestNewRegistry_ExcludesBrokenRules(t *testing.T) {
	defs := []catalog.Def{
		{ID: "11111111-1111-1111-1111-111111111111", Label: "Good", Detection: "boolean(/*)"},
		{ID: "22222222-2222-2222-2222-222222222222", Label: "Broken syntax", Detection: "boolean((("},
		{ID: "33333333-3333-3333-3333-333333333333", Label: "Wrong kind", Detection: "count(/*)"},
	}
	cat, err := catalog.Build(defs)
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}

	reg := NewRegistry(cat, probe.New(), zerolog.Nop())
	if reg.Len() != 1 {
		t.Fatalf("Len() = %v, want 1", reg.Len())
	}
	if _, ok := reg.Lookup("11111111-1111-1111-1111-111111111111"); !ok {
		t.Errorf("Lookup(good rule) not found")
	}
}
