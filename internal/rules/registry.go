package rules

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/probe"
	"github.com/spatialworks/geosniff/internal/types"
)

// Registry holds one compiled rule per detectable catalog type, in
// evaluation order. Immutable once built, safe for concurrent use.
type Registry struct {
	ordered []*Rule
	byID    map[types.TypeID]*Rule
}

// NewRegistry compiles every detectable type in the catalog. A record whose
// expressions fail to compile is logged and excluded; one broken catalog
// entry must not take detection down. The registry is the single
// finalization point: the catalog's type graph must be complete before this
// call, and reordering never happens afterwards.
func NewRegistry(cat *catalog.Catalog, eng *probe.Engine, log zerolog.Logger) *Registry {
	reg := &Registry{byID: make(map[types.TypeID]*Rule)}
	for _, rec := range cat.Records() {
		if !rec.Detectable() {
			continue
		}
		rule, err := Compile(rec, eng)
		if err != nil {
			log.Error().
				Err(err).
				Str("type_id", string(rec.ID)).
				Str("label", rec.Label).
				Msg("excluding rule that failed to compile")
			continue
		}
		reg.ordered = append(reg.ordered, rule)
		reg.byID[rec.ID] = rule
	}
	sort.SliceStable(reg.ordered, func(i, j int) bool {
		return reg.ordered[i].Less(reg.ordered[j])
	})
	return reg
}

// Rules returns the compiled rules in evaluation order. Callers must not
// modify the returned slice.
func (reg *Registry) Rules() []*Rule {
	return reg.ordered
}

// Lookup returns the compiled rule for a type ID.
func (reg *Registry) Lookup(id types.TypeID) (*Rule, bool) {
	r, ok := reg.byID[id]
	return r, ok
}

// Len returns the number of compiled rules.
func (reg *Registry) Len() int {
	return len(reg.ordered)
}
