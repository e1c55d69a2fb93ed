// Package catalog defines the resource type catalog: immutable records
// describing service and document types, linked parent to child.
//
// A catalog is built once from a declarative table of Defs and never
// mutated afterwards. Subtype lists are derived from parent links at build
// time; the build is the single point where the type graph is finalized.
// Expression strings are not validated here, only at rule compile time.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spatialworks/geosniff/internal/types"
)

// Def declares one catalog type in the literal data table.
// A Def referencing a parent must appear after that parent in the table.
type Def struct {
	ID          types.TypeID `json:"id"`
	Label       string       `json:"label"`
	Description string       `json:"description"`

	// Parent is empty for root types. Multiple roots are allowed; the
	// catalog is a forest, not a tree.
	Parent types.TypeID `json:"parent,omitempty"`

	// Extensions and MimeTypes are informational hints, not used for
	// classification decisions.
	Extensions []string `json:"filename_extensions,omitempty"`
	MimeTypes  []string `json:"mime_types,omitempty"`

	// Detection is a boolean query run against document content. A type
	// without one is a purely organizational or fallback node.
	Detection  string `json:"detection,omitempty"`
	LabelQuery string `json:"label_query,omitempty"`
	DescQuery  string `json:"description_query,omitempty"`

	// URIPattern is a regular expression matched case-insensitively
	// against the full resource URI as a content-probe shortcut.
	URIPattern string `json:"uri_pattern,omitempty"`

	// DefaultQuery holds query parameters merged into a remote resource's
	// URI during normalization. Parameters already present win.
	DefaultQuery map[string]string `json:"default_query,omitempty"`
}

// Record is one immutable catalog entry. Fields are read-only after Build.
type Record struct {
	ID           types.TypeID
	Label        string
	Description  string
	Parent       *Record
	Subtypes     []*Record
	Extensions   []string
	MimeTypes    []string
	Detection    string
	LabelQuery   string
	DescQuery    string
	URIPattern   string
	DefaultQuery map[string]string
}

// Detectable reports whether the record declares a detection expression.
func (r *Record) Detectable() bool {
	return r.Detection != ""
}

// Depth returns the length of the record's parent chain. Roots have depth 0.
func (r *Record) Depth() int {
	d := 0
	for p := r.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// IsDescendantOf reports whether r is id itself or a transitive subtype of it.
func (r *Record) IsDescendantOf(id types.TypeID) bool {
	for cur := r; cur != nil; cur = cur.Parent {
		if cur.ID == id {
			return true
		}
	}
	return false
}

// Catalog is an insertion-ordered, immutable mapping from type ID to Record.
// Safe for concurrent use once built.
type Catalog struct {
	ordered []*Record
	index   map[types.TypeID]*Record
}

// Build compiles a Def table into a Catalog. It fails on duplicate IDs and
// on parent references that are missing or declared after the child; it
// never inspects expression strings.
func Build(defs []Def) (*Catalog, error) {
	c := &Catalog{
		ordered: make([]*Record, 0, len(defs)),
		index:   make(map[types.TypeID]*Record, len(defs)),
	}
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("catalog def %q: empty id", def.Label)
		}
		if _, dup := c.index[def.ID]; dup {
			return nil, fmt.Errorf("catalog def %q: duplicate id %s", def.Label, def.ID)
		}
		rec := &Record{
			ID:           def.ID,
			Label:        def.Label,
			Description:  def.Description,
			Extensions:   def.Extensions,
			MimeTypes:    def.MimeTypes,
			Detection:    def.Detection,
			LabelQuery:   def.LabelQuery,
			DescQuery:    def.DescQuery,
			URIPattern:   def.URIPattern,
			DefaultQuery: def.DefaultQuery,
		}
		if def.Parent != "" {
			parent, ok := c.index[def.Parent]
			if !ok {
				return nil, fmt.Errorf("catalog def %q: parent %s not declared before it", def.Label, def.Parent)
			}
			rec.Parent = parent
			parent.Subtypes = append(parent.Subtypes, rec)
		}
		c.ordered = append(c.ordered, rec)
		c.index[def.ID] = rec
	}
	return c, nil
}

// Get looks up a record by ID.
func (c *Catalog) Get(id types.TypeID) (*Record, bool) {
	rec, ok := c.index[id]
	return rec, ok
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// Records returns the records in insertion order.
func (c *Catalog) Records() []*Record {
	out := make([]*Record, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Family returns the record for id followed by all of its transitive
// subtypes, in catalog order. Returns types.ErrTypeNotFound for unknown IDs.
// Callers use this to expand an expected-type restriction to a whole branch.
func (c *Catalog) Family(id types.TypeID) ([]*Record, error) {
	if _, ok := c.index[id]; !ok {
		return nil, fmt.Errorf("family of %s: %w", id, types.ErrTypeNotFound)
	}
	var out []*Record
	for _, rec := range c.ordered {
		if rec.IsDescendantOf(id) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ParseDefs reads a JSON array of Defs, the format of a caller-supplied
// types file merged into the built-in table before Build.
func ParseDefs(r io.Reader) ([]Def, error) {
	var defs []Def
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parse type defs: %w", err)
	}
	return defs, nil
}
