package backend

import (
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ============================================================================
// GENERIC CAPABILITIES
// ============================================================================
// Each capability reads the roles it understands from Args and ignores the
// rest. Data arrives pre-cleaned: numeric roles hold numbers-or-missing,
// categorical roles hold strings.
// ============================================================================

// pick returns the first role in the list bound to a column.
func pick(args Args, roles ...string) string {
	for _, r := range roles {
		if args[r] != "" {
			return args[r]
		}
	}
	return ""
}

// rowName labels a row from a column, falling back to its 1-based position.
func rowName(t Table, column string, row int) string {
	if column != "" {
		if l := t.Label(column, row); l != "" {
			return l
		}
	}
	return strconv.Itoa(row + 1)
}

// ── categorical axis series ───────────────────────────────────────────────

type namedSeries struct {
	name   string
	values []interface{} // aligned to categories, nil where absent
}

// categorySeries reshapes rows into x-axis categories and one value series
// per color group (a single series when no color role is mapped). Duplicate
// (category, group) rows sum.
func categorySeries(t Table, xcol, ycol, colorcol string) ([]string, []namedSeries) {
	var cats []string
	catIdx := make(map[string]int)

	var groups []string
	groupIdx := make(map[string]int)
	addGroup := func(name string) int {
		if i, ok := groupIdx[name]; ok {
			return i
		}
		groupIdx[name] = len(groups)
		groups = append(groups, name)
		return len(groups) - 1
	}
	if colorcol == "" {
		addGroup(ycol)
	}

	type cellKey struct{ g, c int }
	sums := make(map[cellKey]float64)
	present := make(map[cellKey]bool)

	for row := 0; row < t.Rows(); row++ {
		cat := rowName(t, xcol, row)
		ci, ok := catIdx[cat]
		if !ok {
			ci = len(cats)
			catIdx[cat] = ci
			cats = append(cats, cat)
		}

		gi := 0
		if colorcol != "" {
			gi = addGroup(rowName(t, colorcol, row))
		}

		if v, ok := t.Number(ycol, row); ok {
			k := cellKey{gi, ci}
			sums[k] += v
			present[k] = true
		}
	}

	series := make([]namedSeries, len(groups))
	for gi, name := range groups {
		vals := make([]interface{}, len(cats))
		for ci := range cats {
			if present[cellKey{gi, ci}] {
				vals[ci] = sums[cellKey{gi, ci}]
			}
		}
		series[gi] = namedSeries{name: name, values: vals}
	}
	return cats, series
}

// ── bar / line / area ─────────────────────────────────────────────────────

func capBar(t Table, args Args, _ Style) (*Figure, error) {
	ycol := pick(args, "y", "values", "value")
	if ycol == "" {
		return nil, fmt.Errorf(`bar capability needs a "y" mapping`)
	}
	cats, series := categorySeries(t, args["x"], ycol, args["color"])

	bar := charts.NewBar()
	bar.SetXAxis(cats)
	for _, s := range series {
		data := make([]opts.BarData, len(s.values))
		for i, v := range s.values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.name, data)
	}
	return newFigure(bar, func(o ...charts.GlobalOpts) { bar.SetGlobalOptions(o...) }), nil
}

func capLine(t Table, args Args, style Style) (*Figure, error) {
	return lineFigure(t, args, false)
}

func capArea(t Table, args Args, style Style) (*Figure, error) {
	return lineFigure(t, args, true)
}

func lineFigure(t Table, args Args, filled bool) (*Figure, error) {
	ycol := pick(args, "y", "values", "value")
	if ycol == "" {
		return nil, fmt.Errorf(`line capability needs a "y" mapping`)
	}
	cats, series := categorySeries(t, args["x"], ycol, args["color"])

	line := charts.NewLine()
	line.SetXAxis(cats)
	for _, s := range series {
		data := make([]opts.LineData, len(s.values))
		for i, v := range s.values {
			data[i] = opts.LineData{Value: v}
		}
		var seriesOpts []charts.SeriesOpts
		if filled {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.25}))
		}
		line.AddSeries(s.name, data, seriesOpts...)
	}
	return newFigure(line, func(o ...charts.GlobalOpts) { line.SetGlobalOptions(o...) }), nil
}

// ── scatter ───────────────────────────────────────────────────────────────

func capScatter(t Table, args Args, style Style) (*Figure, error) {
	xcol, ycol := args["x"], args["y"]
	if xcol == "" || ycol == "" {
		return nil, fmt.Errorf(`scatter capability needs "x" and "y" mappings`)
	}

	sizecol := ""
	if style.SizedMarkers {
		sizecol = args["size"]
	}
	sizeMin, sizeMax := sizeRange(t, sizecol)

	type group struct {
		name string
		data []opts.ScatterData
	}
	var groups []group
	groupIdx := make(map[string]int)
	colorcol := args["color"]

	for row := 0; row < t.Rows(); row++ {
		x, okx := t.Number(xcol, row)
		y, oky := t.Number(ycol, row)
		if !okx || !oky {
			continue
		}

		name := ycol
		if colorcol != "" {
			name = rowName(t, colorcol, row)
		}
		gi, ok := groupIdx[name]
		if !ok {
			gi = len(groups)
			groupIdx[name] = gi
			groups = append(groups, group{name: name})
		}

		point := opts.ScatterData{Value: []interface{}{x, y}}
		if sizecol != "" {
			if s, ok := t.Number(sizecol, row); ok {
				point.SymbolSize = scaleMarker(s, sizeMin, sizeMax)
			}
		}
		groups[gi].data = append(groups[gi].data, point)
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xcol}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: ycol}),
	)
	for _, g := range groups {
		sc.AddSeries(g.name, g.data)
	}
	return newFigure(sc, func(o ...charts.GlobalOpts) { sc.SetGlobalOptions(o...) }), nil
}

func sizeRange(t Table, sizecol string) (float64, float64) {
	if sizecol == "" {
		return 0, 0
	}
	min, max := 0.0, 0.0
	first := true
	for row := 0; row < t.Rows(); row++ {
		v, ok := t.Number(sizecol, row)
		if !ok {
			continue
		}
		if first || v < min {
			min = v
		}
		if first || v > max {
			max = v
		}
		first = false
	}
	return min, max
}

// scaleMarker maps a size value into the 8–40px marker range.
func scaleMarker(v, min, max float64) int {
	if max <= min {
		return 16
	}
	return 8 + int((v-min)/(max-min)*32)
}

// ── pie / funnel ──────────────────────────────────────────────────────────

func capPie(t Table, args Args, style Style) (*Figure, error) {
	namescol := pick(args, "names", "x")
	valuescol := pick(args, "values", "y", "value")
	if valuescol == "" {
		return nil, fmt.Errorf(`pie capability needs a "values" mapping`)
	}

	var data []opts.PieData
	for row := 0; row < t.Rows(); row++ {
		v, ok := t.Number(valuescol, row)
		if !ok {
			continue
		}
		data = append(data, opts.PieData{Name: rowName(t, namescol, row), Value: v})
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no usable values for pie capability")
	}

	var seriesOpts []charts.SeriesOpts
	if style.DonutHole {
		seriesOpts = append(seriesOpts,
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}))
	}

	pie := charts.NewPie()
	pie.AddSeries("pie", data, seriesOpts...)
	return newFigure(pie, func(o ...charts.GlobalOpts) { pie.SetGlobalOptions(o...) }), nil
}

func capFunnel(t Table, args Args, _ Style) (*Figure, error) {
	namescol := pick(args, "names", "x")
	valuescol := pick(args, "values", "y", "value")
	if valuescol == "" {
		return nil, fmt.Errorf(`funnel capability needs a "values" mapping`)
	}

	var data []opts.FunnelData
	for row := 0; row < t.Rows(); row++ {
		v, ok := t.Number(valuescol, row)
		if !ok {
			continue
		}
		data = append(data, opts.FunnelData{Name: rowName(t, namescol, row), Value: v})
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no usable values for funnel capability")
	}

	funnel := charts.NewFunnel()
	funnel.AddSeries("funnel", data)
	return newFigure(funnel, func(o ...charts.GlobalOpts) { funnel.SetGlobalOptions(o...) }), nil
}

// ── heatmap ───────────────────────────────────────────────────────────────

func capHeatmap(t Table, args Args, _ Style) (*Figure, error) {
	xcol, ycol := args["x"], args["y"]
	valuecol := pick(args, "z", "value", "values")
	if xcol == "" || ycol == "" || valuecol == "" {
		return nil, fmt.Errorf(`heatmap capability needs "x", "y", and "z" mappings`)
	}

	var xcats, ycats []string
	xi := make(map[string]int)
	yi := make(map[string]int)
	index := func(cats *[]string, idx map[string]int, label string) int {
		if i, ok := idx[label]; ok {
			return i
		}
		idx[label] = len(*cats)
		*cats = append(*cats, label)
		return len(*cats) - 1
	}

	var data []opts.HeatMapData
	min, max := 0.0, 0.0
	first := true
	for row := 0; row < t.Rows(); row++ {
		v, ok := t.Number(valuecol, row)
		if !ok {
			continue
		}
		x := index(&xcats, xi, rowName(t, xcol, row))
		y := index(&ycats, yi, rowName(t, ycol, row))
		data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, v}})
		if first || v < min {
			min = v
		}
		if first || v > max {
			max = v
		}
		first = false
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no usable values for heatmap capability")
	}

	hm := charts.NewHeatMap()
	hm.SetXAxis(xcats)
	hm.AddSeries("heatmap", data)
	hm.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: xcol}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: ycol, Data: ycats}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(min),
			Max:        float32(max),
		}),
	)
	return newFigure(hm, func(o ...charts.GlobalOpts) { hm.SetGlobalOptions(o...) }), nil
}

// ── histogram ─────────────────────────────────────────────────────────────

const histogramBins = 10

func capHistogram(t Table, args Args, _ Style) (*Figure, error) {
	xcol := args["x"]
	if xcol == "" {
		return nil, fmt.Errorf(`histogram capability needs an "x" mapping`)
	}

	var vals []float64
	for row := 0; row < t.Rows(); row++ {
		if v, ok := t.Number(xcol, row); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("no numeric values for histogram capability")
	}

	min, max := vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	bins := histogramBins
	if min == max {
		bins = 1
	}
	width := (max - min) / float64(bins)
	counts := make([]int, bins)
	for _, v := range vals {
		i := bins - 1
		if width > 0 {
			i = int((v - min) / width)
			if i >= bins {
				i = bins - 1
			}
		}
		counts[i]++
	}

	cats := make([]string, bins)
	data := make([]opts.BarData, bins)
	for i := 0; i < bins; i++ {
		lo := min + float64(i)*width
		hi := lo + width
		cats[i] = fmt.Sprintf("%g–%g", lo, hi)
		data[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetXAxis(cats)
	bar.AddSeries(xcol, data)
	return newFigure(bar, func(o ...charts.GlobalOpts) { bar.SetGlobalOptions(o...) }), nil
}
