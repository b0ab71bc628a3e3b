package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ============================================================================
// FIGURE — Opaque renderable chart handle
// ============================================================================
// Wraps one go-echarts chart. Callers never reach the underlying chart; they
// apply a Layout, serialize to option JSON, or write an HTML file. The
// closures keep the concrete chart type out of the handle so every capability
// can produce the same Figure shape.
// ============================================================================

// echart is the slice of the go-echarts chart surface every chart satisfies
// through its embedded base configuration.
type echart interface {
	Render(w io.Writer) error
	JSON() map[string]interface{}
}

// Figure is an opaque handle to a renderable chart.
type Figure struct {
	applyGlobal func(options ...charts.GlobalOpts)
	chart       echart

	width, height int
	background    string
	pageTitle     string

	subtitle      string
	subtitleStyle *opts.TextStyle
}

// newFigure wraps a concrete chart. global must forward to the chart's
// SetGlobalOptions.
func newFigure(ch echart, global func(options ...charts.GlobalOpts)) *Figure {
	return &Figure{chart: ch, applyGlobal: global}
}

// Margin is the fixed frame around the plot area, in pixels.
type Margin struct {
	Left, Right, Top, Bottom int
}

// Layout is the uniform visual frame the engine applies to every figure,
// success or failure.
type Layout struct {
	Title        string
	Width        int
	Height       int
	ShowLegend   bool
	Margin       Margin
	HoverClosest bool
}

// ApplyLayout sets title, sizing, legend, margins, and hover behavior.
// A message figure keeps its diagnostic subtitle through re-layout.
func (f *Figure) ApplyLayout(l Layout) {
	f.width, f.height = l.Width, l.Height

	title := opts.Title{
		Title:      l.Title,
		Left:       "center",
		TitleStyle: &opts.TextStyle{FontSize: 20},
	}
	if f.subtitle != "" {
		title.Subtitle = f.subtitle
		title.SubtitleStyle = f.subtitleStyle
	}

	trigger := "axis"
	if l.HoverClosest {
		trigger = "item"
	}

	f.applyGlobal(
		charts.WithTitleOpts(title),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(l.ShowLegend), Top: "30"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
		charts.WithGridOpts(opts.Grid{
			Left:   strconv.Itoa(l.Margin.Left),
			Right:  strconv.Itoa(l.Margin.Right),
			Top:    strconv.Itoa(l.Margin.Top),
			Bottom: strconv.Itoa(l.Margin.Bottom),
		}),
		charts.WithInitializationOpts(f.initialization()),
	)
}

func (f *Figure) initialization() opts.Initialization {
	ini := opts.Initialization{
		Theme:           "white",
		BackgroundColor: f.background,
		PageTitle:       f.pageTitle,
	}
	if f.width > 0 && f.height > 0 {
		ini.Width = fmt.Sprintf("%dpx", f.width)
		ini.Height = fmt.Sprintf("%dpx", f.height)
	}
	return ini
}

// JSON serializes the figure's full option tree.
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f.chart.JSON())
}

// WriteOptions controls the HTML writer's interactive toolbox.
type WriteOptions struct {
	PageTitle       string
	Toolbox         bool
	DisableDataView bool // raw data editor
	DisableRestore  bool // state reset
}

// WriteHTML renders the figure to a standalone HTML file.
func (f *Figure) WriteHTML(path string, o WriteOptions) error {
	if o.PageTitle != "" {
		f.pageTitle = o.PageTitle
	}
	globals := []charts.GlobalOpts{
		charts.WithInitializationOpts(f.initialization()),
	}
	if o.Toolbox {
		globals = append(globals, charts.WithToolboxOpts(f.toolbox(o)))
	}
	f.applyGlobal(globals...)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer file.Close()

	if err := f.chart.Render(file); err != nil {
		return fmt.Errorf("render chart html: %w", err)
	}
	return nil
}

func (f *Figure) toolbox(o WriteOptions) opts.Toolbox {
	feature := &opts.ToolBoxFeature{
		SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true), Title: "save"},
		DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true)},
	}
	if !o.DisableDataView {
		feature.DataView = &opts.ToolBoxFeatureDataView{Show: opts.Bool(true)}
	}
	if !o.DisableRestore {
		feature.Restore = &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)}
	}
	return opts.Toolbox{Show: opts.Bool(true), Feature: feature}
}

// ============================================================================
// MESSAGE FIGURE — diagnostic rendered as a chart
// ============================================================================

// NewMessageFigure builds a valid figure whose content is a centered
// diagnostic message: red text on a contrasting background, axes disabled.
// It never fails, so it is safe as the last line of defense.
func NewMessageFigure(header string, lines []string) *Figure {
	line := charts.NewLine()
	f := newFigure(line, func(o ...charts.GlobalOpts) { line.SetGlobalOptions(o...) })

	f.subtitle = joinLines(lines)
	f.subtitleStyle = &opts.TextStyle{Color: "#c0392b", FontSize: 14}
	f.background = "#fdf2f0"

	f.applyGlobal(
		charts.WithTitleOpts(opts.Title{
			Title:         header,
			Subtitle:      f.subtitle,
			Left:          "center",
			Top:           "middle",
			TitleStyle:    &opts.TextStyle{Color: "#c0392b", FontSize: 16},
			SubtitleStyle: f.subtitleStyle,
		}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(f.initialization()),
	)
	return f
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
