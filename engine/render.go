package engine

import (
	"fmt"
	"sort"

	"github.com/chartly-org/chartly/backend"
)

// ============================================================================
// RENDER SURFACE — Public operations
// ============================================================================
// The contract callers rely on: chart construction degrades, it does not
// fail. Every construction error is converted into an error figure carrying
// the diagnostic, so RenderChart and SaveChartAsFile return errors only for
// serialization and filesystem problems.
// ============================================================================

// RenderChart builds a chart and returns its option tree as a JSON string.
// Construction failures come back as a rendered error figure, not an error.
func (r *Renderer) RenderChart(kind, datasetJSON string, mapping RoleMapping) (string, error) {
	fig := r.figure(kind, datasetJSON, mapping, interactiveWidth, interactiveHeight)
	raw, err := fig.JSON()
	if err != nil {
		return "", fmt.Errorf("serialize figure: %w", err)
	}
	return string(raw), nil
}

// SaveChartAsFile builds a chart at export size and writes it to a standalone
// HTML file, returning the path written.
func (r *Renderer) SaveChartAsFile(kind, datasetJSON string, mapping RoleMapping, outputPath string) (string, error) {
	fig := r.figure(kind, datasetJSON, mapping, exportWidth, exportHeight)

	title := "Chart"
	if t := kindTitle(kind); t != "" {
		title = t + " Chart"
	}
	err := fig.WriteHTML(outputPath, backend.WriteOptions{
		PageTitle:       title,
		Toolbox:         true,
		DisableDataView: true,
		DisableRestore:  true,
	})
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

// ValidateChartMappings checks feasibility without building anything. An
// undecodable dataset is itself a validation error.
func (r *Renderer) ValidateChartMappings(kind, datasetJSON string, mapping RoleMapping) ValidationResult {
	ds, err := ParseDatasetJSON([]byte(datasetJSON))
	if err != nil {
		return ValidationResult{Valid: false, Errors: []string{err.Error()}}
	}
	return Validate(kind, mapping, ds)
}

// AvailableCharts returns every requestable kind, sorted: bespoke strategies,
// backend capabilities, and aliases.
func (r *Renderer) AvailableCharts() []string {
	set := make(map[string]bool)
	for kind := range r.strategies {
		set[kind] = true
	}
	for _, name := range r.backend.Capabilities() {
		set[name] = true
	}
	for kind := range aliasKinds {
		set[kind] = true
	}

	out := make([]string, 0, len(set))
	for kind := range set {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// figure runs the full pipeline and guarantees a laid-out figure back.
func (r *Renderer) figure(kind, datasetJSON string, mapping RoleMapping, width, height int) *backend.Figure {
	fig, err := r.construct(kind, datasetJSON, mapping)
	if err != nil {
		r.log.Warn("chart construction failed, rendering error figure",
			"kind", kind, "error", err)
		fig = errorFigure(err.Error())
	}
	applyBaseLayout(fig, kind, width, height)
	return fig
}

func (r *Renderer) construct(kind, datasetJSON string, mapping RoleMapping) (*backend.Figure, error) {
	ds, err := ParseDatasetJSON([]byte(datasetJSON))
	if err != nil {
		return nil, err
	}
	return r.build(kind, ds, mapping)
}
