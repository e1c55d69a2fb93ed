// Package detect drives resource type detection: rule selection by URI
// shortcut, content probing, directory sampling, fallback classification
// and expected-type enforcement.
package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/probe"
	"github.com/spatialworks/geosniff/internal/resource"
	"github.com/spatialworks/geosniff/internal/rules"
	"github.com/spatialworks/geosniff/internal/sample"
	"github.com/spatialworks/geosniff/internal/types"
)

// IncompatibleTypeError reports that detection under an expected-type
// restriction matched a type outside the expected set. The actual detection
// rides along so the caller can decide whether to accept it anyway.
type IncompatibleTypeError struct {
	Expected []types.TypeID
	Detected *rules.Detection
}

func (e *IncompatibleTypeError) Error() string {
	return fmt.Sprintf("detected type %q (%s) is not among the %d expected type(s)",
		e.Detected.Record.Label, e.Detected.Record.ID, len(e.Expected))
}

const (
	defaultMaxDepth    = 6
	defaultSampleFloor = 5
)

// Options tune a Detector. The zero value gets sensible defaults.
type Options struct {
	// MaxDepth bounds directory recursion when enumerating candidates.
	MaxDepth int

	// Extensions are the candidate document extensions, without dots.
	Extensions []string

	// SampleFloor is the minimum directory sample size. The effective size
	// is raised to the number of rules tried so every rule gets a chance.
	SampleFloor int

	// SampleSeed fixes the sampler's draw for reproducible runs. Zero
	// seeds from the clock once at construction; repeat calls on one
	// Detector still sample identically.
	SampleSeed int64
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{"xml", "gml"}
	}
	if o.SampleFloor <= 0 {
		o.SampleFloor = defaultSampleFloor
	}
	if o.SampleSeed == 0 {
		o.SampleSeed = time.Now().UnixNano()
	}
	return o
}

// Detector classifies resources against a compiled rule registry. Immutable
// after New, safe for concurrent use.
type Detector struct {
	cat  *catalog.Catalog
	reg  *rules.Registry
	eng  *probe.Engine
	opts Options
	log  zerolog.Logger

	webService   *catalog.Record
	xmlDocuments *catalog.Record
}

// New compiles the catalog's rules and builds a Detector. The catalog must
// already contain its full type graph, including the generic web service
// and XML document set fallback types.
func New(cat *catalog.Catalog, eng *probe.Engine, opts Options, log zerolog.Logger) (*Detector, error) {
	webService, ok := cat.Get(catalog.WebServiceID)
	if !ok {
		return nil, fmt.Errorf("catalog misses fallback type %s: %w", catalog.WebServiceID, types.ErrTypeNotFound)
	}
	xmlDocuments, ok := cat.Get(catalog.XMLDocumentsID)
	if !ok {
		return nil, fmt.Errorf("catalog misses fallback type %s: %w", catalog.XMLDocumentsID, types.ErrTypeNotFound)
	}
	return &Detector{
		cat:          cat,
		reg:          rules.NewRegistry(cat, eng, log),
		eng:          eng,
		opts:         opts.withDefaults(),
		log:          log,
		webService:   webService,
		xmlDocuments: xmlDocuments,
	}, nil
}

// Catalog returns the catalog the detector classifies against.
func (d *Detector) Catalog() *catalog.Catalog { return d.cat }

// Detect classifies a resource with no expected-type restriction. When no
// rule matches, parseable content falls back to the generic web service
// type for HTTP-family URIs and to the XML document set type otherwise.
func (d *Detector) Detect(ctx context.Context, res resource.Resource) (*rules.Detection, error) {
	return d.detect(ctx, res, nil)
}

// DetectAmong classifies a resource restricted to the expected types.
// Unknown IDs in expected are ignored. When content matches a type outside
// the set, the call fails with *IncompatibleTypeError carrying the actual
// detection; when nothing matches at all it fails with types.ErrNotDetected.
// An empty expected set means no restriction.
func (d *Detector) DetectAmong(ctx context.Context, res resource.Resource, expected []types.TypeID) (*rules.Detection, error) {
	if len(expected) == 0 {
		return d.detect(ctx, res, nil)
	}
	restriction := make(map[types.TypeID]struct{}, len(expected))
	for _, id := range expected {
		restriction[id] = struct{}{}
	}
	return d.detect(ctx, res, restriction)
}

// detect runs the bucket state machine for one request. A nil restriction
// means unrestricted top-level detection with fallback.
func (d *Detector) detect(ctx context.Context, res resource.Resource, restriction map[types.TypeID]struct{}) (*rules.Detection, error) {
	uriBucket, contentBucket := d.partition(res, restriction)

	if local, ok := res.(*resource.Local); ok && local.IsDir() {
		return d.detectDir(ctx, local, uriBucket, contentBucket, restriction)
	}
	return d.detectStream(ctx, res, uriBucket, contentBucket, restriction)
}

// partition splits the applicable rules into URI-shortcut candidates and
// content candidates. Registry order is evaluation order, so both buckets
// come out sorted.
func (d *Detector) partition(res resource.Resource, restriction map[types.TypeID]struct{}) (uriBucket, contentBucket []*rules.Rule) {
	uri := res.URI().String()
	for _, rule := range d.reg.Rules() {
		if restriction != nil {
			if _, ok := restriction[rule.Record().ID]; !ok {
				continue
			}
		}
		if rule.MatchesURI(uri) {
			uriBucket = append(uriBucket, rule)
		} else {
			contentBucket = append(contentBucket, rule)
		}
	}
	return uriBucket, contentBucket
}

// detectStream classifies a streamable resource. Each candidate rule
// normalizes the resource before fetching, so version-defaulting query
// parameters reach the server; distinct rules sharing a normalized URI
// share one fetch and parse within the call.
func (d *Detector) detectStream(ctx context.Context, res resource.Resource, uriBucket, contentBucket []*rules.Rule, restriction map[types.TypeID]struct{}) (*rules.Detection, error) {
	probed := make(map[string]*probe.Results)
	var firstAccessErr error
	parsedAny := false

	for _, bucket := range [][]*rules.Rule{uriBucket, contentBucket} {
		for _, rule := range bucket {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			normalized := rule.Normalize(res)
			key := normalized.URI().String()
			rs, seen := probed[key]
			if !seen {
				var err error
				rs, err = d.probeResource(ctx, normalized)
				if err != nil {
					if firstAccessErr == nil {
						firstAccessErr = err
					}
					d.log.Warn().Err(err).
						Str("uri", key).
						Str("type_id", string(rule.Record().ID)).
						Msg("skipping candidate that could not be probed")
				}
				probed[key] = rs
			}
			if rs == nil {
				continue
			}
			parsedAny = true
			det, err := rule.Evaluate(rs, normalized)
			if err != nil {
				d.log.Warn().Err(err).
					Str("type_id", string(rule.Record().ID)).
					Msg("treating failed evaluation as no match")
				continue
			}
			if det != nil {
				return det, nil
			}
		}
	}

	if restriction != nil {
		return nil, d.incompatibleOrNotDetected(ctx, res, restrictionIDs(restriction))
	}
	if !parsedAny {
		if firstAccessErr != nil {
			return nil, firstAccessErr
		}
		// No candidate rules probed anything; the fallback still requires
		// content that parses.
		if _, err := d.probeResource(ctx, res); err != nil {
			return nil, err
		}
	}
	return d.fallback(res), nil
}

// detectDir classifies a local directory by probing a sample of its
// candidate documents, bucket by bucket.
func (d *Detector) detectDir(ctx context.Context, dir *resource.Local, uriBucket, contentBucket []*rules.Rule, restriction map[types.TypeID]struct{}) (*rules.Detection, error) {
	files, err := resource.Documents(dir.Path(), d.opts.Extensions, d.opts.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", dir.Path(), err)
	}
	if len(files) == 0 {
		if restriction != nil {
			return nil, types.ErrNotDetected
		}
		return nil, fmt.Errorf("%s: %w", dir.Path(), types.ErrNoDocuments)
	}

	parsedAny := false
	for _, bucket := range [][]*rules.Rule{uriBucket, contentBucket} {
		det, parsed := d.detectFromSamples(ctx, dir, bucket, files)
		parsedAny = parsedAny || parsed
		if det != nil {
			return det, nil
		}
	}

	if restriction != nil {
		return nil, d.incompatibleOrNotDetected(ctx, dir, restrictionIDs(restriction))
	}
	if !parsedAny {
		return nil, fmt.Errorf("%s: no readable candidate documents: %w", dir.Path(), types.ErrNoDocuments)
	}
	return d.fallback(dir), nil
}

// detectFromSamples evaluates one rule bucket against a bounded sample of
// the directory's files. All positive matches are ranked and the minimum
// returned; the scan stops early once every rule has matched at least once.
// Unreadable or unparseable files are logged and skipped, never fatal.
func (d *Detector) detectFromSamples(ctx context.Context, dir *resource.Local, bucket []*rules.Rule, files []string) (*rules.Detection, bool) {
	if len(bucket) == 0 {
		return nil, false
	}
	n := d.opts.SampleFloor
	if len(bucket) > n {
		n = len(bucket)
	}

	parsedAny := false
	matched := make(map[*rules.Rule]bool, len(bucket))
	var best *rules.Detection
	for _, path := range sample.Normal(files, n, d.opts.SampleSeed) {
		if ctx.Err() != nil {
			break
		}
		rs, err := d.probeFile(ctx, path)
		if err != nil {
			d.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable sample")
			continue
		}
		parsedAny = true
		for _, rule := range bucket {
			if matched[rule] {
				continue
			}
			det, err := rule.Evaluate(rs, dir)
			if err != nil {
				d.log.Warn().Err(err).
					Str("type_id", string(rule.Record().ID)).
					Str("path", path).
					Msg("treating failed evaluation as no match")
				continue
			}
			if det == nil {
				continue
			}
			matched[rule] = true
			if best == nil || det.Before(best) {
				best = det
			}
		}
		if len(matched) == len(bucket) {
			break
		}
	}
	return best, parsedAny
}

// incompatibleOrNotDetected diagnoses a restricted call that found nothing:
// an unrestricted pass distinguishes "content matches a type the caller did
// not expect" from "content matches nothing".
func (d *Detector) incompatibleOrNotDetected(ctx context.Context, res resource.Resource, expected []types.TypeID) error {
	diag, err := d.detect(ctx, res, nil)
	if err != nil || diag == nil {
		return types.ErrNotDetected
	}
	if !diag.Record.Detectable() {
		// Only the generic fallback applied, which never satisfies or
		// contradicts an expectation.
		return types.ErrNotDetected
	}
	return &IncompatibleTypeError{Expected: expected, Detected: diag}
}

// fallback classifies parseable content no rule claimed.
func (d *Detector) fallback(res resource.Resource) *rules.Detection {
	rec := d.xmlDocuments
	if strings.HasPrefix(res.URI().Scheme, "http") {
		rec = d.webService
	}
	return &rules.Detection{Record: rec, Resource: res, Priority: 0}
}

func (d *Detector) probeResource(ctx context.Context, res resource.Resource) (*probe.Results, error) {
	stream, err := res.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	rs, err := d.eng.Probe(stream)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", res.URI().Redacted(), err)
	}
	return rs, nil
}

func (d *Detector) probeFile(ctx context.Context, path string) (*probe.Results, error) {
	stream, err := resource.NewLocal(path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	rs, err := d.eng.Probe(stream)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	return rs, nil
}

func restrictionIDs(restriction map[types.TypeID]struct{}) []types.TypeID {
	out := make([]types.TypeID, 0, len(restriction))
	for id := range restriction {
		out = append(out, id)
	}
	return out
}
