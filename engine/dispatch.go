package engine

import (
	"log/slog"
	"strings"

	"github.com/chartly-org/chartly/backend"
	"github.com/chartly-org/chartly/logging"
)

// ============================================================================
// DISPATCH — Kind routing
// ============================================================================
// Three routes, probed in order:
//   1. bespoke strategy  — kinds needing reshaping before drawing
//   2. alias             — renamed capability call plus a style tweak
//   3. generic           — capability called directly under its own name
// Unroutable kinds fail with the capability list attached.
// ============================================================================

// strategy builds a figure for one bespoke chart kind from a cleaned dataset.
type strategy func(ds *Dataset, mapping RoleMapping, log *slog.Logger) (*backend.Figure, error)

func bespokeStrategies() map[string]strategy {
	return map[string]strategy{
		"indicator":            buildIndicator,
		"surface":              buildSurface,
		"scatter_matrix":       buildScatterMatrix,
		"parallel_coordinates": buildParallelCoordinates,
		"parallel_categories":  buildParallelCategories,
		"treemap":              buildTreemap,
		"sunburst":             buildSunburst,
		"candlestick":          buildCandlestick,
		"waterfall":            buildWaterfall,
		"sankey":               buildSankey,
	}
}

// aliasKinds rewrite a kind to a capability name and carry the style tweak
// that distinguishes the alias from its target.
var aliasKinds = map[string]struct {
	target string
	option backend.CallOption
}{
	"doughnut": {"pie", backend.WithDonutHole()},
	"bubble":   {"scatter", backend.WithSizedMarkers()},
}

// Renderer turns (kind, dataset, mapping) triples into figures. Construct with
// New; the zero value is not usable.
type Renderer struct {
	backend    *backend.Registry
	log        *slog.Logger
	strategies map[string]strategy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger overrides the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithBackend overrides the default capability registry.
func WithBackend(reg *backend.Registry) Option {
	return func(r *Renderer) { r.backend = reg }
}

// New creates a Renderer with the built-in capability registry.
func New(options ...Option) *Renderer {
	r := &Renderer{
		backend:    backend.NewRegistry(),
		log:        logging.Default(),
		strategies: bespokeStrategies(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// build clones, cleans, and routes. Errors carry enough context to render a
// useful error figure without further lookup.
func (r *Renderer) build(kind string, ds *Dataset, mapping RoleMapping) (*backend.Figure, error) {
	if ds.Rows() == 0 || len(ds.ColumnNames()) == 0 {
		return nil, dataErrf("dataset is empty")
	}

	work := ds.Clone()
	applyRoleCleaning(work, kind, mapping, r.log)

	for role, name := range mapping {
		if name != "" && !work.Has(name) {
			return nil, dataErrf("column %q mapped to role %q not found; available columns: %s",
				name, role, strings.Join(work.ColumnNames(), ", "))
		}
	}

	if build, ok := r.strategies[kind]; ok {
		r.log.Debug("building chart via bespoke strategy", "kind", kind)
		return build(work, mapping, r.log)
	}

	name := kind
	var options []backend.CallOption
	if alias, ok := aliasKinds[kind]; ok {
		name = alias.target
		options = append(options, alias.option)
	}

	if !r.backend.Has(name) {
		return nil, &UnknownKindError{Kind: kind, Capabilities: r.AvailableCharts()}
	}

	r.log.Debug("building chart via capability", "kind", kind, "capability", name)
	fig, err := r.backend.Call(name, work, backend.Args(mapping), options...)
	if err != nil {
		return nil, &BackendError{Kind: kind, Err: err}
	}
	return fig, nil
}
