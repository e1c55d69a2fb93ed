package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/types"
)

// typeView is the wire shape of a catalog record. Parent and subtype
// links are flattened to IDs so the response stays acyclic.
type typeView struct {
	ID          types.TypeID   `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Parent      types.TypeID   `json:"parent,omitempty"`
	Subtypes    []types.TypeID `json:"subtypes,omitempty"`
	Detectable  bool           `json:"detectable"`
	Extensions  []string       `json:"filename_extensions,omitempty"`
	MimeTypes   []string       `json:"mime_types,omitempty"`
}

func viewOf(rec *catalog.Record) typeView {
	v := typeView{
		ID:          rec.ID,
		Label:       rec.Label,
		Description: rec.Description,
		Detectable:  rec.Detectable(),
		Extensions:  rec.Extensions,
		MimeTypes:   rec.MimeTypes,
	}
	if rec.Parent != nil {
		v.Parent = rec.Parent.ID
	}
	for _, sub := range rec.Subtypes {
		v.Subtypes = append(v.Subtypes, sub.ID)
	}
	return v
}

func (s *DetectionService) handleListTypes(w http.ResponseWriter, r *http.Request) {
	views := make([]typeView, 0, s.cat.Len())
	for _, rec := range s.cat.Records() {
		views = append(views, viewOf(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": views})
}

func (s *DetectionService) handleGetType(w http.ResponseWriter, r *http.Request) {
	id := types.TypeID(chi.URLParam(r, "id"))
	rec, ok := s.cat.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown type "+string(id))
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec))
}
