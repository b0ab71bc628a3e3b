package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/chartly-org/chartly/backend"
)

// ============================================================================
// BESPOKE STRATEGIES
// ============================================================================
// Chart kinds whose data shape cannot be expressed as a direct forward to a
// backend capability: they pivot, aggregate, auto-detect dimensions, or
// index labels before anything is drawn. Every strategy receives the cleaned
// working dataset and returns a figure or a construction error — no strategy
// draws on its own.
// ============================================================================

// ── indicator ─────────────────────────────────────────────────────────────

func buildIndicator(ds *Dataset, mapping RoleMapping, _ *slog.Logger) (*backend.Figure, error) {
	valueCol := mapping["value"]
	if valueCol == "" {
		return nil, dataErrf("indicator chart requires %q mapping", "value")
	}
	col, ok := ds.Column(valueCol)
	if !ok {
		return nil, dataErrf("column %q not found in data", valueCol)
	}

	value, ok := firstNumber(CleanNumeric(col))
	if !ok {
		return nil, dataErrf("no valid numeric data found for indicator value")
	}

	var delta *float64
	if deltaCol, ok := ds.Column(mapping["delta_reference"]); ok {
		if ref, ok := firstNumber(CleanNumeric(deltaCol)); ok {
			delta = &ref
		}
	}

	title := mapping["title_text"]
	if title == "" {
		title = valueCol
	}
	return backend.NewGaugeIndicator(title, value, delta), nil
}

// firstNumber returns the first non-missing number in a cleaned column.
func firstNumber(col Column) (float64, bool) {
	for _, cell := range col.Cells {
		if cell.Kind == KindNumber {
			return cell.Num, true
		}
	}
	return 0, false
}

// ── surface ───────────────────────────────────────────────────────────────

func buildSurface(ds *Dataset, mapping RoleMapping, _ *slog.Logger) (*backend.Figure, error) {
	var missing []string
	for _, role := range []string{"x", "y", "z"} {
		if mapping[role] == "" {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return nil, dataErrf("surface chart requires 'x', 'y', and 'z' mappings; missing: %v", missing)
	}

	cx, err := cleanedNumericColumn(ds, mapping["x"])
	if err != nil {
		return nil, err
	}
	cy, err := cleanedNumericColumn(ds, mapping["y"])
	if err != nil {
		return nil, err
	}
	cz, err := cleanedNumericColumn(ds, mapping["z"])
	if err != nil {
		return nil, err
	}

	var rows []xyz
	for i := 0; i < ds.Rows(); i++ {
		if cx.Cells[i].IsMissing() || cy.Cells[i].IsMissing() || cz.Cells[i].IsMissing() {
			continue
		}
		rows = append(rows, xyz{cx.Cells[i].Num, cy.Cells[i].Num, cz.Cells[i].Num})
	}
	if len(rows) == 0 {
		return nil, dataErrf("no valid data after removing missing values")
	}

	xs, ys, grid := surfacePivot(rows)
	return backend.NewSurface(mapping["x"], mapping["y"], mapping["z"], xs, ys, grid), nil
}

// xyz is one complete surface observation.
type xyz struct{ x, y, z float64 }

// surfacePivot reshapes observations into a dense height grid: distinct x
// values become columns and distinct y values rows, both ascending; each cell
// is the mean z of its observations, nil where none landed.
func surfacePivot(rows []xyz) (xs, ys []float64, grid [][]*float64) {
	xs = distinctSorted(func(yield func(float64)) {
		for _, r := range rows {
			yield(r.x)
		}
	})
	ys = distinctSorted(func(yield func(float64)) {
		for _, r := range rows {
			yield(r.y)
		}
	})

	xi := make(map[float64]int, len(xs))
	for i, v := range xs {
		xi[v] = i
	}
	yi := make(map[float64]int, len(ys))
	for i, v := range ys {
		yi[v] = i
	}

	sums := make([][]float64, len(ys))
	counts := make([][]int, len(ys))
	for i := range sums {
		sums[i] = make([]float64, len(xs))
		counts[i] = make([]int, len(xs))
	}
	for _, r := range rows {
		sums[yi[r.y]][xi[r.x]] += r.z
		counts[yi[r.y]][xi[r.x]]++
	}

	grid = make([][]*float64, len(ys))
	for i := range grid {
		grid[i] = make([]*float64, len(xs))
		for j := range grid[i] {
			if counts[i][j] > 0 {
				mean := sums[i][j] / float64(counts[i][j])
				grid[i][j] = &mean
			}
		}
	}
	return xs, ys, grid
}

// cleanedNumericColumn fetches and numerically cleans a column.
func cleanedNumericColumn(ds *Dataset, name string) (Column, error) {
	col, ok := ds.Column(name)
	if !ok {
		return Column{}, dataErrf("column %q not found in data", name)
	}
	return CleanNumeric(col), nil
}

// distinctSorted collects distinct values from a generator, ascending.
func distinctSorted(each func(yield func(float64))) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	each(func(v float64) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	})
	sort.Float64s(out)
	return out
}

// ── scatter_matrix / parallel_coordinates ─────────────────────────────────

// numericDimensions auto-detects every numeric-convertible column and returns
// its cleaned values, NaN marking missing. The supplied mapping is ignored on
// purpose — these kinds plot the full numeric dimension set.
func numericDimensions(ds *Dataset) ([]string, [][]float64) {
	var dims []string
	var cols [][]float64
	for _, name := range ds.ColumnNames() {
		col, _ := ds.Column(name)
		if !IsNumericConvertible(col, ConvertThreshold) {
			continue
		}
		clean := CleanNumeric(col)
		vals := make([]float64, clean.Len())
		for i, cell := range clean.Cells {
			if cell.Kind == KindNumber {
				vals[i] = cell.Num
			} else {
				vals[i] = math.NaN()
			}
		}
		dims = append(dims, name)
		cols = append(cols, vals)
	}
	return dims, cols
}

func buildScatterMatrix(ds *Dataset, _ RoleMapping, _ *slog.Logger) (*backend.Figure, error) {
	dims, cols := numericDimensions(ds)
	if len(dims) == 0 {
		return nil, dataErrf("scatter matrix requires at least one numeric column in the data")
	}
	return backend.NewScatterMatrix(dims, cols), nil
}

func buildParallelCoordinates(ds *Dataset, _ RoleMapping, _ *slog.Logger) (*backend.Figure, error) {
	dims, cols := numericDimensions(ds)
	if len(dims) == 0 {
		return nil, dataErrf("parallel coordinates requires at least one numeric column")
	}

	axes := make([]backend.ParallelAxis, len(dims))
	for i, d := range dims {
		axes[i] = backend.ParallelAxis{Name: d, Kind: "value"}
	}
	rows := make([][]interface{}, ds.Rows())
	for i := range rows {
		row := make([]interface{}, len(dims))
		for j := range dims {
			if v := cols[j][i]; !math.IsNaN(v) {
				row[j] = v
			}
		}
		rows[i] = row
	}
	return backend.NewParallel(axes, rows), nil
}

// ── parallel_categories ───────────────────────────────────────────────────

func buildParallelCategories(ds *Dataset, mapping RoleMapping, log *slog.Logger) (*backend.Figure, error) {
	var catNames []string
	var catCols []*Column
	for _, name := range ds.ColumnNames() {
		col, _ := ds.Column(name)
		if col.Categorical() {
			catNames = append(catNames, name)
			catCols = append(catCols, col)
		}
	}
	if len(catNames) == 0 {
		return nil, dataErrf("parallel categories chart requires at least one categorical (string) column")
	}

	axes := make([]backend.ParallelAxis, len(catNames))
	for i, col := range catCols {
		axes[i] = backend.ParallelAxis{
			Name:   catNames[i],
			Kind:   "category",
			Values: distinctCategories(col),
		}
	}

	// color rides along as a numeric axis; dropped silently when conversion
	// yields nothing usable
	var colorClean *Column
	colorName := mapping["color"]
	if col, ok := ds.Column(colorName); ok {
		clean := col.Clone()
		if !col.Numeric() {
			clean = CleanNumeric(col)
		}
		if clean.Numeric() {
			colorClean = &clean
		} else {
			log.Warn("dropping color role: no numeric values after conversion",
				"column", colorName)
		}
	}
	if colorClean != nil {
		axes = append(axes, backend.ParallelAxis{Name: colorName, Kind: "value"})
	}

	rows := make([][]interface{}, ds.Rows())
	for i := range rows {
		row := make([]interface{}, 0, len(axes))
		for _, col := range catCols {
			if cell := col.Cells[i]; !cell.IsMissing() {
				row = append(row, cell.Label())
			} else {
				row = append(row, nil)
			}
		}
		if colorClean != nil {
			if cell := colorClean.Cells[i]; cell.Kind == KindNumber {
				row = append(row, cell.Num)
			} else {
				row = append(row, nil)
			}
		}
		rows[i] = row
	}
	return backend.NewParallel(axes, rows), nil
}

// distinctCategories returns distinct non-missing labels in first-seen order.
func distinctCategories(col *Column) []string {
	seen := make(map[string]bool)
	var out []string
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		l := cell.Label()
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// ── treemap / sunburst ────────────────────────────────────────────────────

func buildTreemap(ds *Dataset, mapping RoleMapping, log *slog.Logger) (*backend.Figure, error) {
	return buildHierarchy("treemap", ds, mapping)
}

func buildSunburst(ds *Dataset, mapping RoleMapping, log *slog.Logger) (*backend.Figure, error) {
	return buildHierarchy("sunburst", ds, mapping)
}

func buildHierarchy(kind string, ds *Dataset, mapping RoleMapping) (*backend.Figure, error) {
	valuesCol := mapping["values"]
	if valuesCol == "" {
		return nil, dataErrf("%s chart requires %q mapping", kind, "values")
	}
	clean, err := cleanedNumericColumn(ds, valuesCol)
	if err != nil {
		return nil, err
	}

	namesCol, haveNames := ds.Column(mapping["names"])

	// keep positive values only; synthesize labels when names are absent
	var entries []nameValue
	kept := 0
	for i, cell := range clean.Cells {
		if cell.Kind != KindNumber || cell.Num <= 0 {
			continue
		}
		kept++
		name := fmt.Sprintf("Item %d", kept)
		if haveNames {
			label := namesCol.Cells[i].Label()
			if label == "" {
				continue // unnamed rows drop when a names column is bound
			}
			name = label
		}
		entries = append(entries, nameValue{name, cell.Num})
	}
	if len(entries) == 0 {
		return nil, dataErrf("no valid positive numeric data found for %s chart", kind)
	}

	names, values := sumByName(entries)
	return backend.NewHierarchy(kind, names, values)
}

// nameValue is one labeled observation awaiting aggregation.
type nameValue struct {
	name  string
	value float64
}

// sumByName sums values grouped by name, name-ordered for determinism.
func sumByName(entries []nameValue) ([]string, []float64) {
	sums := make(map[string]float64, len(entries))
	for _, e := range entries {
		sums[e.name] += e.value
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = sums[name]
	}
	return names, values
}

// ── candlestick ───────────────────────────────────────────────────────────

func buildCandlestick(ds *Dataset, mapping RoleMapping, _ *slog.Logger) (*backend.Figure, error) {
	for _, role := range []string{"x", "open", "high", "low", "close"} {
		if mapping[role] == "" {
			return nil, dataErrf("candlestick chart requires %q mapping", role)
		}
	}

	xCol, ok := ds.Column(mapping["x"])
	if !ok {
		return nil, dataErrf("column %q not found in data", mapping["x"])
	}
	ohlc := make(map[string]Column, 4)
	for _, role := range []string{"open", "high", "low", "close"} {
		clean, err := cleanedNumericColumn(ds, mapping[role])
		if err != nil {
			return nil, err
		}
		ohlc[role] = clean
	}

	var labels []string
	var rows []backend.OHLC
	for i := 0; i < ds.Rows(); i++ {
		if xCol.Cells[i].IsMissing() {
			continue
		}
		o, h := ohlc["open"].Cells[i], ohlc["high"].Cells[i]
		l, c := ohlc["low"].Cells[i], ohlc["close"].Cells[i]
		if o.IsMissing() || h.IsMissing() || l.IsMissing() || c.IsMissing() {
			continue
		}
		labels = append(labels, xCol.Cells[i].Label())
		rows = append(rows, backend.OHLC{Open: o.Num, High: h.Num, Low: l.Num, Close: c.Num})
	}
	if len(rows) == 0 {
		return nil, dataErrf("no valid data for candlestick chart")
	}
	return backend.NewCandlestick(labels, rows), nil
}

// ── waterfall ─────────────────────────────────────────────────────────────

func buildWaterfall(ds *Dataset, mapping RoleMapping, _ *slog.Logger) (*backend.Figure, error) {
	if mapping["x"] == "" || mapping["y"] == "" {
		return nil, dataErrf("waterfall chart requires 'x' and 'y' mappings")
	}
	xCol, ok := ds.Column(mapping["x"])
	if !ok {
		return nil, dataErrf("column %q not found in data", mapping["x"])
	}
	yClean, err := cleanedNumericColumn(ds, mapping["y"])
	if err != nil {
		return nil, err
	}
	measureCol, haveMeasure := ds.Column(mapping["measure"])

	var labels []string
	var values []float64
	var measures []string
	for i := 0; i < ds.Rows(); i++ {
		if yClean.Cells[i].IsMissing() {
			continue
		}
		labels = append(labels, xCol.Cells[i].Label())
		values = append(values, yClean.Cells[i].Num)
		if haveMeasure {
			measures = append(measures, measureCol.Cells[i].Label())
		} else {
			measures = append(measures, "relative")
		}
	}
	if len(values) == 0 {
		return nil, dataErrf("no valid data for waterfall chart")
	}
	return backend.NewWaterfall(labels, values, measures), nil
}

// ── sankey ────────────────────────────────────────────────────────────────

func buildSankey(ds *Dataset, mapping RoleMapping, _ *slog.Logger) (*backend.Figure, error) {
	for _, role := range []string{"source", "target", "value"} {
		if mapping[role] == "" {
			return nil, dataErrf("sankey chart requires 'source', 'target', and 'value' mappings")
		}
	}

	srcCol, ok := ds.Column(mapping["source"])
	if !ok {
		return nil, dataErrf("column %q not found in data", mapping["source"])
	}
	dstCol, ok := ds.Column(mapping["target"])
	if !ok {
		return nil, dataErrf("column %q not found in data", mapping["target"])
	}
	valClean, err := cleanedNumericColumn(ds, mapping["value"])
	if err != nil {
		return nil, err
	}

	// surviving rows: all three present, value positive
	var keep []int
	for i := 0; i < ds.Rows(); i++ {
		if srcCol.Cells[i].IsMissing() || dstCol.Cells[i].IsMissing() {
			continue
		}
		if v := valClean.Cells[i]; v.IsMissing() || v.Num <= 0 {
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == 0 {
		return nil, dataErrf("no valid data for sankey chart")
	}

	// label set: union of sources then targets, first-seen order,
	// contiguous zero-based indices
	index := make(map[string]int)
	var labels []string
	assign := func(label string) int {
		if i, ok := index[label]; ok {
			return i
		}
		index[label] = len(labels)
		labels = append(labels, label)
		return len(labels) - 1
	}
	for _, i := range keep {
		assign(srcCol.Cells[i].Label())
	}
	for _, i := range keep {
		assign(dstCol.Cells[i].Label())
	}

	links := make([]backend.SankeyLink, len(keep))
	for n, i := range keep {
		links[n] = backend.SankeyLink{
			Source: index[srcCol.Cells[i].Label()],
			Target: index[dstCol.Cells[i].Label()],
			Value:  valClean.Cells[i].Num,
		}
	}
	return backend.NewSankey(labels, links), nil
}
