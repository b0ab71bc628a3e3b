package backend

import (
	"fmt"
	"sort"
)

// ============================================================================
// PLOT BACKEND — Named Chart Capabilities over go-echarts
// ============================================================================
// The engine never draws. It asks this registry for a capability by name and
// hands over cleaned data plus a role mapping; the capability interprets the
// roles it cares about and ignores the rest. Bespoke reshapes (pivot grids,
// label-indexed edges, hierarchies) enter through the typed constructors in
// reshaped.go instead.
//
// The registry is populated once and read-only afterwards — safe for
// concurrent callers without locking.
// ============================================================================

// Table provides indexed access to a cleaned dataset. The capabilities call
// Number/Label in tight loops — keep implementations fast.
type Table interface {
	ColumnNames() []string
	Rows() int
	Number(column string, row int) (float64, bool)
	Label(column string, row int) string
}

// Args binds semantic roles to column names for one capability call.
type Args map[string]string

// Style carries post-construction visual tweaks requested by alias kinds.
type Style struct {
	DonutHole    bool // pie with a punched hole
	SizedMarkers bool // scatter markers scaled by the "size" role
}

// CallOption adjusts the Style of a single capability call.
type CallOption func(*Style)

// WithDonutHole punches a hole in a pie capability call.
func WithDonutHole() CallOption {
	return func(s *Style) { s.DonutHole = true }
}

// WithSizedMarkers scales scatter markers by the "size" role.
func WithSizedMarkers() CallOption {
	return func(s *Style) { s.SizedMarkers = true }
}

type capability func(t Table, args Args, style Style) (*Figure, error)

// Registry maps capability names to chart constructors.
type Registry struct {
	caps  map[string]capability
	names []string
}

// NewRegistry builds the registry with every built-in capability installed.
func NewRegistry() *Registry {
	r := &Registry{caps: map[string]capability{
		"bar":       capBar,
		"line":      capLine,
		"area":      capArea,
		"scatter":   capScatter,
		"pie":       capPie,
		"funnel":    capFunnel,
		"heatmap":   capHeatmap,
		"histogram": capHistogram,
	}}
	for name := range r.caps {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Capabilities enumerates the callable capability names, sorted.
func (r *Registry) Capabilities() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether a capability exists under the given name.
func (r *Registry) Has(name string) bool {
	_, ok := r.caps[name]
	return ok
}

// Call runs the named capability against a table and role arguments.
func (r *Registry) Call(name string, t Table, args Args, options ...CallOption) (*Figure, error) {
	fn, ok := r.caps[name]
	if !ok {
		return nil, fmt.Errorf("no capability %q", name)
	}
	var style Style
	for _, opt := range options {
		opt(&style)
	}
	return fn(t, args, style)
}
