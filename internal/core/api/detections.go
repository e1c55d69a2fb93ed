package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spatialworks/geosniff/internal/core/auth"
	"github.com/spatialworks/geosniff/internal/core/store"
	"github.com/spatialworks/geosniff/internal/detect"
	"github.com/spatialworks/geosniff/internal/metrics"
	"github.com/spatialworks/geosniff/internal/resource"
	"github.com/spatialworks/geosniff/internal/rules"
	"github.com/spatialworks/geosniff/internal/types"
)

// createDetectionRequest is the POST /v1/detections body. ExpectedTypes
// restricts the outcome to exactly those type IDs; ExpandSubtypes widens
// each listed ID to the whole branch below it first.
type createDetectionRequest struct {
	URI            string   `json:"uri"`
	ExpectedTypes  []string `json:"expected_types,omitempty"`
	ExpandSubtypes bool     `json:"expand_subtypes,omitempty"`

	// Optional basic-auth credentials for the target endpoint. Never
	// persisted; the stored record holds the bare URI only.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type incompatibleTypeDetail struct {
	Expected []types.TypeID `json:"expected"`
	Detected detectedType   `json:"detected"`
}

type detectedType struct {
	ID    types.TypeID `json:"id"`
	Label string       `json:"label"`
}

func (s *DetectionService) handleCreateDetection(w http.ResponseWriter, r *http.Request) {
	var req createDetectionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	u, err := parseDetectionURI(req.URI)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_uri", err.Error())
		return
	}

	expected, err := s.expectedTypes(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown_type", err.Error())
		return
	}

	opts := []resource.RemoteOption{
		resource.WithClient(s.client),
		resource.WithRetries(uint64(s.cfg.Detection.FetchRetries)),
	}
	if req.Username != "" {
		opts = append(opts, resource.WithCredentials(req.Username, req.Password))
	}
	// Cached so the restricted path can re-read the same bytes when it
	// diagnoses an incompatible type.
	res := resource.NewCached(resource.NewRemote(u, opts...))

	start := time.Now()
	var det *rules.Detection
	if len(expected) > 0 {
		det, err = s.engine.DetectAmong(r.Context(), res, expected)
	} else {
		det, err = s.engine.Detect(r.Context(), res)
	}
	elapsed := time.Since(start)

	if err != nil {
		outcome := s.writeDetectError(w, err)
		s.metrics.RecordDetection(outcome, elapsed)
		s.log.Warn().
			Err(err).
			Str("uri", u.String()).
			Str("outcome", outcome).
			Str("api_key", auth.KeyNameFromContext(r.Context())).
			Msg("detection failed")
		return
	}

	outcome := metrics.OutcomeDetected
	if !det.Record.Detectable() {
		outcome = metrics.OutcomeFallback
	}
	s.metrics.RecordDetection(outcome, elapsed)

	rec, err := s.recorder.Insert(store.Record{
		URI:                  u.String(),
		TypeID:               det.Record.ID,
		TypeLabel:            det.Record.Label,
		ExtractedLabel:       det.ExtractedLabel,
		ExtractedDescription: det.ExtractedDescription,
		Priority:             det.Priority,
		Fallback:             !det.Record.Detectable(),
		DurationMs:           elapsed.Milliseconds(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("uri", u.String()).Msg("recording detection failed")
		writeError(w, http.StatusServiceUnavailable, "unavailable", "recording detection failed")
		return
	}

	s.log.Info().
		Str("detection_id", string(rec.DetectionID)).
		Str("uri", u.String()).
		Str("type_id", string(rec.TypeID)).
		Str("type_label", rec.TypeLabel).
		Int("priority", rec.Priority).
		Bool("fallback", rec.Fallback).
		Dur("duration", elapsed).
		Str("api_key", auth.KeyNameFromContext(r.Context())).
		Msg("detection completed")

	writeJSON(w, http.StatusCreated, rec)
}

func (s *DetectionService) handleListDetections(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid_limit", "limit must be an integer")
			return
		}
		limit = n
	}

	var (
		recs []store.Record
		err  error
	)
	if uri := r.URL.Query().Get("uri"); uri != "" {
		recs, err = s.recorder.ByURI(uri, limit)
	} else {
		recs, err = s.recorder.Recent(limit)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("listing detections failed")
		writeError(w, http.StatusServiceUnavailable, "unavailable", "listing detections failed")
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"detections": recs})
}

func (s *DetectionService) handleGetDetection(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseDetectionID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_id", err.Error())
		return
	}

	rec, err := s.recorder.Get(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case err != nil:
		s.log.Error().Err(err).Str("detection_id", string(id)).Msg("loading detection failed")
		writeError(w, http.StatusServiceUnavailable, "unavailable", "loading detection failed")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

// parseDetectionURI validates the target of a detection request. The HTTP
// surface only reaches out to remote endpoints; filesystem scans stay in
// the CLI where the operator owns the machine.
func parseDetectionURI(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("uri is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("only http and https URIs are supported")
	}
	if u.Host == "" {
		return nil, errors.New("uri has no host")
	}
	return u, nil
}

// expectedTypes resolves the request's restriction set. Without expansion
// the IDs pass through verbatim; unknown IDs are then simply never matched,
// mirroring how the engine treats them.
func (s *DetectionService) expectedTypes(req createDetectionRequest) ([]types.TypeID, error) {
	if len(req.ExpectedTypes) == 0 {
		return nil, nil
	}
	if !req.ExpandSubtypes {
		out := make([]types.TypeID, 0, len(req.ExpectedTypes))
		for _, raw := range req.ExpectedTypes {
			out = append(out, types.TypeID(raw))
		}
		return out, nil
	}

	seen := make(map[types.TypeID]struct{})
	var out []types.TypeID
	for _, raw := range req.ExpectedTypes {
		family, err := s.cat.Family(types.TypeID(raw))
		if err != nil {
			return nil, err
		}
		for _, rec := range family {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			out = append(out, rec.ID)
		}
	}
	return out, nil
}

// writeDetectError maps engine failures onto the HTTP error taxonomy and
// returns the metrics outcome label for the attempt.
func (s *DetectionService) writeDetectError(w http.ResponseWriter, err error) string {
	var incompatible *detect.IncompatibleTypeError
	switch {
	case errors.As(err, &incompatible):
		writeErrorDetail(w, http.StatusConflict, "incompatible_type", incompatible.Error(), incompatibleTypeDetail{
			Expected: incompatible.Expected,
			Detected: detectedType{
				ID:    incompatible.Detected.Record.ID,
				Label: incompatible.Detected.Record.Label,
			},
		})
		return metrics.OutcomeIncompatible
	case errors.Is(err, types.ErrNotDetected):
		writeError(w, http.StatusNotFound, "not_detected", "no expected type matched the resource")
		return metrics.OutcomeNotDetected
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "deadline_exceeded", err.Error())
		return metrics.OutcomeError
	case errors.Is(err, context.Canceled):
		// Client went away; status is moot but keep the taxonomy coherent.
		writeError(w, http.StatusBadGateway, "canceled", err.Error())
		return metrics.OutcomeError
	default:
		writeError(w, http.StatusBadGateway, "resource_unreachable", err.Error())
		return metrics.OutcomeError
	}
}
