package rules

import (
	"fmt"

	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/probe"
	"github.com/spatialworks/geosniff/internal/resource"
	"github.com/spatialworks/geosniff/internal/types"
)

// ResultSet is the per-document view a rule reads its expressions from.
// *probe.Results satisfies it.
type ResultSet interface {
	Bool(*probe.Expr) (bool, error)
	Strings(*probe.Expr) ([]string, error)
}

// Detection is the outcome of one successful rule match. Owned by the
// caller; the engine retains nothing.
type Detection struct {
	// Record is the catalog type that matched.
	Record *catalog.Record

	// Resource is the (possibly normalized) resource the match was read
	// from.
	Resource resource.Resource

	// ExtractedLabel and ExtractedDescription hold the first string value
	// the type's extraction queries produced, when declared and non-empty.
	ExtractedLabel       string
	ExtractedDescription string

	// Priority is the matching rule's priority; fallback detections carry 0.
	Priority int
}

// Before ranks detections: priority ascending, then the lexicographically
// greater label. The minimum of a set of detections is the one reported.
func (d *Detection) Before(other *Detection) bool {
	if d.Priority != other.Priority {
		return d.Priority < other.Priority
	}
	return d.Record.Label > other.Record.Label
}

// Is reports whether the detection matched the given type.
func (d *Detection) Is(id types.TypeID) bool {
	return d.Record.ID == id
}

// Evaluate reads the rule's detection result from a probed document. A nil
// Detection with nil error means the document did not match. Errors are
// evaluation failures the caller is expected to log and treat as no match.
func (r *Rule) Evaluate(rs ResultSet, normalized resource.Resource) (*Detection, error) {
	matched, err := rs.Bool(r.detection)
	if err != nil {
		return nil, fmt.Errorf("evaluate detection for %s: %w", r.record.ID, err)
	}
	if !matched {
		return nil, nil
	}

	det := &Detection{Record: r.record, Resource: normalized, Priority: r.priority}
	if r.label != nil {
		vals, err := rs.Strings(r.label)
		if err != nil {
			return nil, fmt.Errorf("extract label for %s: %w", r.record.ID, err)
		}
		if len(vals) > 0 {
			det.ExtractedLabel = vals[0]
		}
	}
	if r.description != nil {
		vals, err := rs.Strings(r.description)
		if err != nil {
			return nil, fmt.Errorf("extract description for %s: %w", r.record.ID, err)
		}
		if len(vals) > 0 {
			det.ExtractedDescription = vals[0]
		}
	}
	return det, nil
}

// Normalize merges the type's default query parameters into a remote
// resource's URI, parameters the caller already supplied winning. Local
// resources and types without defaults pass through unchanged. The input
// resource is never mutated.
func (r *Rule) Normalize(res resource.Resource) resource.Resource {
	if len(r.record.DefaultQuery) == 0 {
		return res
	}
	switch v := res.(type) {
	case *resource.Remote:
		return v.WithQueryParameters(r.record.DefaultQuery)
	case *resource.Cached:
		return v.WithQueryParameters(r.record.DefaultQuery)
	default:
		return res
	}
}
