package helpers

import (
	"fmt"
	"os"

	"github.com/pkg/browser"

	"github.com/chartly-org/chartly/engine"
)

// ============================================================================
// HTML HELPER — Temp-file export + browser launch
// ============================================================================

// CreateTempHTMLChart renders a chart into a fresh temp HTML file and returns
// its path. The caller owns the file.
func CreateTempHTMLChart(r *engine.Renderer, kind, datasetJSON string, mapping engine.RoleMapping) (string, error) {
	f, err := os.CreateTemp("", fmt.Sprintf("chartly_%s_*.html", kind))
	if err != nil {
		return "", fmt.Errorf("create temp chart file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp chart file: %w", err)
	}

	return r.SaveChartAsFile(kind, datasetJSON, mapping, path)
}

// OpenChartInBrowser renders a chart to a temp HTML file and opens it in the
// default browser, returning the file path.
func OpenChartInBrowser(r *engine.Renderer, kind, datasetJSON string, mapping engine.RoleMapping) (string, error) {
	path, err := CreateTempHTMLChart(r, kind, datasetJSON, mapping)
	if err != nil {
		return "", err
	}
	if err := browser.OpenFile(path); err != nil {
		return "", fmt.Errorf("open chart in browser: %w", err)
	}
	return path, nil
}
