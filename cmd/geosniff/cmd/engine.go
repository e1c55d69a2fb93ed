package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/core/config"
	"github.com/spatialworks/geosniff/internal/detect"
	"github.com/spatialworks/geosniff/internal/probe"
)

// buildCatalog assembles the type catalog: built-in definitions plus any
// types file named in the configuration, appended after the built-ins so
// extensions may reference built-in parents.
func buildCatalog(cfg *config.ServiceConfig) (*catalog.Catalog, error) {
	defs := catalog.Builtin()

	if cfg.Detection.TypesFile != "" {
		f, err := os.Open(cfg.Detection.TypesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open types file: %w", err)
		}
		extra, err := catalog.ParseDefs(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse types file %s: %w", cfg.Detection.TypesFile, err)
		}
		defs = append(defs, extra...)
	}

	cat, err := catalog.Build(defs)
	if err != nil {
		return nil, fmt.Errorf("failed to build type catalog: %w", err)
	}
	return cat, nil
}

func buildDetector(cat *catalog.Catalog, cfg *config.ServiceConfig, logger zerolog.Logger) (*detect.Detector, error) {
	detector, err := detect.New(cat, probe.New(), detect.Options{
		MaxDepth:    cfg.Detection.MaxDepth,
		Extensions:  cfg.Detection.Extensions,
		SampleFloor: cfg.Detection.SampleFloor,
		SampleSeed:  cfg.Detection.SampleSeed,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build detector: %w", err)
	}
	return detector, nil
}
