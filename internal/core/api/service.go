// Package api provides the HTTP service implementation for the geosniff
// detection API.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/core/config"
	"github.com/spatialworks/geosniff/internal/core/store"
	"github.com/spatialworks/geosniff/internal/metrics"
	"github.com/spatialworks/geosniff/internal/resource"
	"github.com/spatialworks/geosniff/internal/rules"
	"github.com/spatialworks/geosniff/internal/types"
)

// Engine runs detections against the type catalog. Implemented by
// *detect.Detector; narrowed to an interface so handlers are testable
// with a canned engine.
type Engine interface {
	Detect(ctx context.Context, res resource.Resource) (*rules.Detection, error)
	DetectAmong(ctx context.Context, res resource.Resource, expected []types.TypeID) (*rules.Detection, error)
}

// Recorder persists detection outcomes. Implemented by *store.Store.
type Recorder interface {
	Insert(rec store.Record) (store.Record, error)
	Get(id types.DetectionID) (store.Record, error)
	Recent(limit int) ([]store.Record, error)
	ByURI(uri string, limit int) ([]store.Record, error)
}

// Authenticator guards the versioned API routes. Implemented by
// *auth.Authenticator.
type Authenticator interface {
	Middleware(next http.Handler) http.Handler
}

// DetectionService implements the HTTP handlers.
// Thin orchestration layer delegating to the detect engine, catalog,
// and store packages.
type DetectionService struct {
	engine   Engine
	cat      *catalog.Catalog
	recorder Recorder
	cfg      *config.ServiceConfig
	metrics  *metrics.Metrics
	client   *http.Client
	log      zerolog.Logger
}

// NewDetectionService creates the service instance with dependencies.
func NewDetectionService(engine Engine, cat *catalog.Catalog, recorder Recorder, cfg *config.ServiceConfig, m *metrics.Metrics, log zerolog.Logger) (*DetectionService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if cat == nil {
		return nil, fmt.Errorf("cat cannot be nil")
	}
	if recorder == nil {
		return nil, fmt.Errorf("recorder cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics cannot be nil")
	}

	return &DetectionService{
		engine:   engine,
		cat:      cat,
		recorder: recorder,
		cfg:      cfg,
		metrics:  m,
		client:   &http.Client{Timeout: cfg.Detection.FetchTimeout},
		log:      log,
	}, nil
}
