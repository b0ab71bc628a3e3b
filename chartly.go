// Package chartly turns tabular data plus declarative role mappings into
// renderable chart descriptions.
//
// Usage:
//
//	import "github.com/chartly-org/chartly/engine"
//
//	r := engine.New()
//	figJSON, err := r.RenderChart("scatter", datasetJSON, engine.RoleMapping{
//	    "x": "age", "y": "income", "color": "region",
//	})
//
// The engine cleans messy columns (string-encoded numbers, missing-value
// sentinels), validates that the requested mappings are satisfiable, and
// dispatches to a construction strategy. On any failure the caller still
// receives a well-formed figure — a visually distinct error chart carrying
// the diagnostic — so rendering never propagates an exception upstream.
//
// Chart drawing itself is delegated to the backend package, which wraps
// go-echarts. The engine decides what to call and with what cleaned
// arguments; the backend decides how pixels happen.
package chartly
