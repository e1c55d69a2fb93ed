// Package rules turns catalog records into executable detection rules and
// holds the compiled registry a detector iterates.
package rules

import (
	"fmt"
	"regexp"

	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/probe"
	"github.com/spatialworks/geosniff/internal/types"
)

// Rule is the compiled form of one detectable catalog record. Immutable
// after Compile, safe for concurrent use.
type Rule struct {
	record      *catalog.Record
	detection   *probe.Expr
	label       *probe.Expr
	description *probe.Expr
	uriPattern  *regexp.Regexp
	priority    int
}

// Compile builds the executable rule for a catalog record: the detection
// expression (which must be boolean), optional label/description extraction
// expressions, the optional URI shortcut pattern, and the rule's priority.
// Any compilation failure is fatal for the whole rule.
func Compile(rec *catalog.Record, eng *probe.Engine) (*Rule, error) {
	if !rec.Detectable() {
		return nil, fmt.Errorf("compile rule for %s: no detection expression", rec.ID)
	}

	detection, err := eng.Compile(rec.Detection)
	if err != nil {
		return nil, fmt.Errorf("compile rule for %s: %w", rec.ID, err)
	}
	if detection.Kind() != probe.KindBoolean {
		return nil, fmt.Errorf("compile rule for %s: %w (expression yields %s)",
			rec.ID, types.ErrExpressionNotBoolean, detection.Kind())
	}

	r := &Rule{record: rec, detection: detection}

	if rec.LabelQuery != "" {
		if r.label, err = eng.Compile(rec.LabelQuery); err != nil {
			return nil, fmt.Errorf("compile label query for %s: %w", rec.ID, err)
		}
	}
	if rec.DescQuery != "" {
		if r.description, err = eng.Compile(rec.DescQuery); err != nil {
			return nil, fmt.Errorf("compile description query for %s: %w", rec.ID, err)
		}
	}
	if rec.URIPattern != "" {
		r.uriPattern, err = regexp.Compile(`(?i)\A(?:` + rec.URIPattern + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("compile uri pattern for %s: %w", rec.ID, err)
		}
	}

	// Deeply nested types outrank their ancestors, and leaf types outrank
	// types that still have subtypes at the same depth.
	r.priority = -rec.Depth()
	if len(rec.Subtypes) == 0 {
		r.priority--
	}
	return r, nil
}

// Record returns the catalog record the rule detects.
func (r *Rule) Record() *catalog.Record { return r.record }

// Priority returns the rule's evaluation priority. Lower values are tried
// first.
func (r *Rule) Priority() int { return r.priority }

// Less orders rules for evaluation: priority ascending, ties broken by the
// lexicographically greater label. The comparison is plain string order, so
// "Service 2.0" is tried before "Service 1.1".
func (r *Rule) Less(other *Rule) bool {
	if r.priority != other.priority {
		return r.priority < other.priority
	}
	return r.record.Label > other.record.Label
}

// MatchesURI reports whether the rule declares a URI pattern and the full
// URI string matches it case-insensitively.
func (r *Rule) MatchesURI(uri string) bool {
	return r.uriPattern != nil && r.uriPattern.MatchString(uri)
}
