package engine

import (
	"strings"

	"github.com/chartly-org/chartly/backend"
)

// Interactive figures and exported files use different canvas sizes; the rest
// of the frame is identical.
const (
	interactiveWidth  = 1000
	interactiveHeight = 600
	exportWidth       = 1200
	exportHeight      = 700
)

// applyBaseLayout stamps the uniform frame onto a figure: derived title, fixed
// margins, legend, and closest-point hover. Applied to every figure that
// leaves the engine, error figures included.
func applyBaseLayout(fig *backend.Figure, kind string, width, height int) {
	title := "Chart"
	if t := kindTitle(kind); t != "" {
		title = t + " Chart"
	}
	fig.ApplyLayout(backend.Layout{
		Title:        title,
		Width:        width,
		Height:       height,
		ShowLegend:   true,
		Margin:       backend.Margin{Left: 50, Right: 50, Top: 80, Bottom: 50},
		HoverClosest: true,
	})
}

// kindTitle turns a chart kind into display casing: "scatter_matrix" becomes
// "Scatter Matrix".
func kindTitle(kind string) string {
	words := strings.Fields(strings.ReplaceAll(kind, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
