package backend

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ============================================================================
// RESHAPED CONSTRUCTORS
// ============================================================================
// Entry points for chart shapes the generic capability call cannot express.
// The engine's bespoke strategies do the reshaping (pivoting, aggregation,
// label indexing); these constructors only translate the reshaped data into
// chart series.
// ============================================================================

// waterfall bar colors (rise / fall), matching the default series palette.
const (
	riseColor        = "#10B981"
	fallColor        = "#EF4444"
	transparentColor = "rgba(0,0,0,0)"
)

// NewGaugeIndicator renders a single headline value, optionally annotated
// with its delta against a reference.
func NewGaugeIndicator(name string, value float64, delta *float64) *Figure {
	label := name
	if delta != nil {
		label = fmt.Sprintf("%s (Δ %+.2f)", name, value-*delta)
	}

	g := charts.NewGauge()
	g.AddSeries(label, []opts.GaugeData{{Name: label, Value: value}})
	return newFigure(g, func(o ...charts.GlobalOpts) { g.SetGlobalOptions(o...) })
}

// NewSurface renders a pivoted height-field: grid[yi][xi] is the (averaged) z
// at (xs[xi], ys[yi]); nil cells are holes.
func NewSurface(xName, yName, zName string, xs, ys []float64, grid [][]*float64) *Figure {
	var data []opts.Chart3DData
	for yi, row := range grid {
		for xi, z := range row {
			if z == nil {
				continue
			}
			data = append(data, opts.Chart3DData{Value: []interface{}{xs[xi], ys[yi], *z}})
		}
	}

	s := charts.NewSurface3D()
	s.AddSeries("surface", data)
	s.SetGlobalOptions(
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: xName, Type: "value"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: yName, Type: "value"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: zName, Type: "value"}),
	)
	return newFigure(s, func(o ...charts.GlobalOpts) { s.SetGlobalOptions(o...) })
}

// NewScatterMatrix overlays one scatter series per dimension pair. cols holds
// one value slice per dimension; NaN marks a missing value.
func NewScatterMatrix(dims []string, cols [][]float64) *Figure {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
	)

	for i := range dims {
		for j := i + 1; j < len(dims); j++ {
			var data []opts.ScatterData
			for row := range cols[i] {
				x, y := cols[i][row], cols[j][row]
				if math.IsNaN(x) || math.IsNaN(y) {
					continue
				}
				data = append(data, opts.ScatterData{Value: []interface{}{x, y}})
			}
			sc.AddSeries(fmt.Sprintf("%s × %s", dims[i], dims[j]), data)
		}
	}
	return newFigure(sc, func(o ...charts.GlobalOpts) { sc.SetGlobalOptions(o...) })
}

// ParallelAxis describes one parallel-coordinates dimension.
type ParallelAxis struct {
	Name   string
	Kind   string   // "value" or "category"
	Values []string // category values, in axis order, when Kind == "category"
}

// NewParallel renders parallel coordinates/categories. Each row holds one
// value per axis; nil marks a missing value.
func NewParallel(axes []ParallelAxis, rows [][]interface{}) *Figure {
	list := make([]opts.ParallelAxis, len(axes))
	for i, a := range axes {
		pa := opts.ParallelAxis{Dim: i, Name: a.Name}
		if a.Kind == "category" {
			pa.Type = "category"
			pa.Data = a.Values
		}
		list[i] = pa
	}

	data := make([]opts.ParallelData, len(rows))
	for i, r := range rows {
		data[i] = opts.ParallelData{Value: r}
	}

	p := charts.NewParallel()
	p.SetGlobalOptions(charts.WithParallelAxisList(list))
	p.AddSeries("parallel", data)
	return newFigure(p, func(o ...charts.GlobalOpts) { p.SetGlobalOptions(o...) })
}

// NewHierarchy renders a single-level treemap or sunburst from aggregated
// (name, value) pairs.
func NewHierarchy(kind string, names []string, values []float64) (*Figure, error) {
	switch kind {
	case "treemap":
		nodes := make([]opts.TreeMapNode, len(names))
		for i := range names {
			nodes[i] = opts.TreeMapNode{Name: names[i], Value: int(math.Round(values[i]))}
		}
		tm := charts.NewTreeMap()
		tm.AddSeries("treemap", nodes)
		return newFigure(tm, func(o ...charts.GlobalOpts) { tm.SetGlobalOptions(o...) }), nil

	case "sunburst":
		data := make([]opts.SunBurstData, len(names))
		for i := range names {
			data[i] = opts.SunBurstData{Name: names[i], Value: values[i]}
		}
		sb := charts.NewSunburst()
		sb.AddSeries("sunburst", data)
		return newFigure(sb, func(o ...charts.GlobalOpts) { sb.SetGlobalOptions(o...) }), nil

	default:
		return nil, fmt.Errorf("no hierarchical capability %q", kind)
	}
}

// OHLC is one candlestick row.
type OHLC struct {
	Open, High, Low, Close float64
}

// NewCandlestick renders OHLC rows against x labels.
func NewCandlestick(x []string, rows []OHLC) *Figure {
	data := make([]opts.KlineData, len(rows))
	for i, r := range rows {
		// echarts value order: open, close, lowest, highest
		data[i] = opts.KlineData{Value: [4]float64{r.Open, r.Close, r.Low, r.High}}
	}

	k := charts.NewKLine()
	k.SetXAxis(x).AddSeries("candlestick", data)
	return newFigure(k, func(o ...charts.GlobalOpts) { k.SetGlobalOptions(o...) })
}

// NewWaterfall renders a waterfall as stacked bars: an invisible base series
// carrying the running total plus a visible change series. measure follows
// the usual vocabulary: "relative" (default), "total", "absolute".
func NewWaterfall(x []string, y []float64, measures []string) *Figure {
	base := make([]opts.BarData, len(y))
	change := make([]opts.BarData, len(y))

	running := 0.0
	for i, v := range y {
		measure := "relative"
		if i < len(measures) && measures[i] != "" {
			measure = measures[i]
		}

		var lo, visible float64
		color := riseColor
		switch measure {
		case "total":
			lo, visible = 0, running
		case "absolute":
			lo, visible = 0, v
			running = v
		default: // relative
			hi := running + v
			lo = math.Min(running, hi)
			visible = math.Abs(v)
			if v < 0 {
				color = fallColor
			}
			running = hi
		}

		base[i] = opts.BarData{Value: lo, ItemStyle: &opts.ItemStyle{Color: transparentColor}}
		change[i] = opts.BarData{Value: visible, ItemStyle: &opts.ItemStyle{Color: color}}
	}

	bar := charts.NewBar()
	bar.SetXAxis(x)
	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "waterfall"})
	bar.AddSeries("base", base, stack)
	bar.AddSeries("change", change, stack)
	return newFigure(bar, func(o ...charts.GlobalOpts) { bar.SetGlobalOptions(o...) })
}

// SankeyLink is one edge between indexed labels.
type SankeyLink struct {
	Source, Target int
	Value          float64
}

// NewSankey renders labeled flows. links reference labels positionally.
func NewSankey(labels []string, links []SankeyLink) *Figure {
	nodes := make([]opts.SankeyNode, len(labels))
	for i, l := range labels {
		nodes[i] = opts.SankeyNode{Name: l}
	}
	edges := make([]opts.SankeyLink, len(links))
	for i, l := range links {
		edges[i] = opts.SankeyLink{
			Source: labels[l.Source],
			Target: labels[l.Target],
			Value:  float32(l.Value),
		}
	}

	sk := charts.NewSankey()
	sk.AddSeries("sankey", nodes, edges)
	return newFigure(sk, func(o ...charts.GlobalOpts) { sk.SetGlobalOptions(o...) })
}
