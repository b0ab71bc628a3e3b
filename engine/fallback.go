package engine

import (
	"strings"

	"github.com/chartly-org/chartly/backend"
)

// errorWrapWidth is the character width diagnostic text wraps at.
const errorWrapWidth = 80

// errorFigure converts a construction failure into a renderable diagnostic
// figure. It must never fail itself.
func errorFigure(message string) *backend.Figure {
	return backend.NewMessageFigure("Chart Rendering Error", wrapText(message, errorWrapWidth))
}

// wrapText greedily wraps text into lines at most width characters long.
// Words longer than a full line are hard-split.
func wrapText(text string, width int) []string {
	var lines []string
	var line strings.Builder

	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for len(word) > width {
			flush()
			lines = append(lines, word[:width])
			word = word[width:]
		}
		need := len(word)
		if line.Len() > 0 {
			need++ // joining space
		}
		if line.Len()+need > width {
			flush()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	flush()

	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
