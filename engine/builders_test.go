package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartly-org/chartly/logging"
)

// ============================================================================
// BESPOKE STRATEGY TESTS
// ============================================================================
// Tests cover the reshaping rules:
//   1. Indicator — first value wins, optional delta, title fallback
//   2. Surface — pivot with sorted axes and mean over duplicates
//   3. Hierarchies — positive filter, sum by name, synthesized labels
//   4. Candlestick — complete-row filter
//   5. Sankey — first-seen label indexing, sources before targets
//   6. Auto-detected dimensions — numeric and categorical column scans
// ============================================================================

func strategyDataset(t *testing.T, raw string) *Dataset {
	t.Helper()
	ds, err := ParseDatasetJSON([]byte(raw))
	require.NoError(t, err)
	return ds
}

func TestBuildIndicator(t *testing.T) {
	log := logging.Discard()

	t.Run("first non-missing value wins", func(t *testing.T) {
		ds := strategyDataset(t, `{"metric":[null,"na",85,90]}`)
		fig, err := buildIndicator(ds, RoleMapping{"value": "metric"}, log)
		require.NoError(t, err)
		assert.NotNil(t, fig)
	})

	t.Run("missing mapping errors", func(t *testing.T) {
		ds := strategyDataset(t, `{"metric":[85]}`)
		_, err := buildIndicator(ds, RoleMapping{}, log)
		var derr *DataError
		require.ErrorAs(t, err, &derr)
		assert.Contains(t, derr.Error(), `"value"`)
	})

	t.Run("no usable values errors", func(t *testing.T) {
		ds := strategyDataset(t, `{"metric":["na","oops",null]}`)
		_, err := buildIndicator(ds, RoleMapping{"value": "metric"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid numeric data")
	})

	t.Run("delta reference is optional and tolerant", func(t *testing.T) {
		ds := strategyDataset(t, `{"metric":[85],"target":["junk"]}`)
		fig, err := buildIndicator(ds, RoleMapping{"value": "metric", "delta_reference": "target"}, log)
		require.NoError(t, err)
		assert.NotNil(t, fig)
	})
}

func TestBuildSurface(t *testing.T) {
	log := logging.Discard()

	t.Run("reports every missing axis role", func(t *testing.T) {
		ds := strategyDataset(t, `{"x":[1]}`)
		_, err := buildSurface(ds, RoleMapping{"x": "x"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "y")
		assert.Contains(t, err.Error(), "z")
	})

	t.Run("duplicate cells average", func(t *testing.T) {
		// (x=1,y=1) appears twice with z 10 and 20
		ds := strategyDataset(t, `{"x":[1,1,2],"y":[1,1,1],"z":[10,20,30]}`)
		fig, err := buildSurface(ds, RoleMapping{"x": "x", "y": "y", "z": "z"}, log)
		require.NoError(t, err)

		raw, err := fig.JSON()
		require.NoError(t, err)
		assert.Contains(t, string(raw), "[1,1,15]", "duplicates at (1,1) should average to 15")
		assert.Contains(t, string(raw), "[2,1,30]")
	})

	t.Run("all rows incomplete errors", func(t *testing.T) {
		ds := strategyDataset(t, `{"x":[1,null],"y":[null,2],"z":[3,4]}`)
		_, err := buildSurface(ds, RoleMapping{"x": "x", "y": "y", "z": "z"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid data after removing missing values")
	})
}

func TestSurfacePivot(t *testing.T) {
	xs, ys, grid := surfacePivot([]xyz{
		{2, 1, 30}, {1, 1, 10}, {1, 1, 20}, {1, 2, 5},
	})

	assert.Equal(t, []float64{1, 2}, xs, "x axis sorted ascending")
	assert.Equal(t, []float64{1, 2}, ys, "y axis sorted ascending")
	require.Len(t, grid, 2)

	require.NotNil(t, grid[0][0])
	assert.Equal(t, 15.0, *grid[0][0], "duplicates mean, not sum")
	require.NotNil(t, grid[0][1])
	assert.Equal(t, 30.0, *grid[0][1])
	require.NotNil(t, grid[1][0])
	assert.Equal(t, 5.0, *grid[1][0])
	assert.Nil(t, grid[1][1], "unobserved cell stays a hole")
}

func TestDistinctSorted(t *testing.T) {
	vals := []float64{3, 1, 3, 2, 1}
	got := distinctSorted(func(yield func(float64)) {
		for _, v := range vals {
			yield(v)
		}
	})
	assert.Equal(t, []float64{1, 2, 3}, got)
}

func TestBuildHierarchy(t *testing.T) {
	t.Run("sums duplicates by name", func(t *testing.T) {
		ds := strategyDataset(t, `{"names":["A","B","A"],"values":[10,5,7]}`)
		fig, err := buildHierarchy("treemap", ds, RoleMapping{"values": "values", "names": "names"})
		require.NoError(t, err)

		raw, err := fig.JSON()
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"value":17`, "A should sum to 17")
		assert.Contains(t, string(raw), `"value":5`)
	})

	t.Run("drops zero and negative values", func(t *testing.T) {
		ds := strategyDataset(t, `{"values":[0,-5,"na"]}`)
		_, err := buildHierarchy("sunburst", ds, RoleMapping{"values": "values"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid positive numeric data found for sunburst chart")
	})

	t.Run("synthesizes labels without names column", func(t *testing.T) {
		ds := strategyDataset(t, `{"values":[3,1,2]}`)
		fig, err := buildHierarchy("treemap", ds, RoleMapping{"values": "values"})
		require.NoError(t, err)
		assert.NotNil(t, fig)
	})

	t.Run("requires values mapping", func(t *testing.T) {
		ds := strategyDataset(t, `{"values":[1]}`)
		_, err := buildHierarchy("treemap", ds, RoleMapping{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"values"`)
	})
}

func TestSumByName(t *testing.T) {
	names, values := sumByName([]nameValue{{"B", 5}, {"A", 10}, {"A", 7}})
	assert.Equal(t, []string{"A", "B"}, names)
	assert.Equal(t, []float64{17, 5}, values)
}

func TestBuildCandlestick(t *testing.T) {
	log := logging.Discard()
	mapping := RoleMapping{"x": "date", "open": "o", "high": "h", "low": "l", "close": "c"}

	t.Run("drops incomplete rows", func(t *testing.T) {
		ds := strategyDataset(t, `{
			"date":["d1","d2","d3"],
			"o":[100,null,102],
			"h":[105,106,107],
			"l":[99,100,101],
			"c":[102,103,"na"]}`)
		fig, err := buildCandlestick(ds, mapping, log)
		require.NoError(t, err)
		assert.NotNil(t, fig) // only d1 survives
	})

	t.Run("all rows incomplete errors", func(t *testing.T) {
		ds := strategyDataset(t, `{"date":["d1"],"o":[null],"h":[1],"l":[1],"c":[1]}`)
		_, err := buildCandlestick(ds, mapping, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid data for candlestick chart")
	})

	t.Run("reports first missing role", func(t *testing.T) {
		ds := strategyDataset(t, `{"date":["d1"]}`)
		_, err := buildCandlestick(ds, RoleMapping{"x": "date"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"open"`)
	})
}

func TestBuildWaterfall(t *testing.T) {
	log := logging.Discard()

	t.Run("defaults measures to relative", func(t *testing.T) {
		ds := strategyDataset(t, `{"step":["a","b"],"delta":[10,-4]}`)
		fig, err := buildWaterfall(ds, RoleMapping{"x": "step", "y": "delta"}, log)
		require.NoError(t, err)
		assert.NotNil(t, fig)
	})

	t.Run("no numeric rows errors", func(t *testing.T) {
		ds := strategyDataset(t, `{"step":["a"],"delta":["na"]}`)
		_, err := buildWaterfall(ds, RoleMapping{"x": "step", "y": "delta"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid data for waterfall chart")
	})
}

func TestBuildSankey(t *testing.T) {
	log := logging.Discard()
	mapping := RoleMapping{"source": "src", "target": "dst", "value": "v"}

	t.Run("builds with positive flows only", func(t *testing.T) {
		ds := strategyDataset(t, `{
			"src":["A","A","B"],
			"dst":["B","C","C"],
			"v":[10,0,5]}`)
		fig, err := buildSankey(ds, mapping, log)
		require.NoError(t, err)

		raw, err := fig.JSON()
		require.NoError(t, err)
		s := string(raw)

		// the zero-valued A→C row is dropped
		assert.Contains(t, s, `"source":"A","target":"B","value":10`)
		assert.Contains(t, s, `"source":"B","target":"C","value":5`)
		assert.NotContains(t, s, `"target":"C","value":0`)

		// labels index in first-seen order, sources before targets
		iA := strings.Index(s, `"name":"A"`)
		iB := strings.Index(s, `"name":"B"`)
		iC := strings.Index(s, `"name":"C"`)
		require.True(t, iA >= 0 && iB >= 0 && iC >= 0)
		assert.Less(t, iA, iB)
		assert.Less(t, iB, iC)
	})

	t.Run("no positive flows errors", func(t *testing.T) {
		ds := strategyDataset(t, `{"src":["A"],"dst":["B"],"v":[-1]}`)
		_, err := buildSankey(ds, mapping, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid data for sankey chart")
	})

	t.Run("requires all three roles", func(t *testing.T) {
		ds := strategyDataset(t, `{"src":["A"]}`)
		_, err := buildSankey(ds, RoleMapping{"source": "src"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'source', 'target', and 'value'")
	})
}

func TestNumericDimensions(t *testing.T) {
	ds := strategyDataset(t, `{
		"age":[30,"40","na"],
		"name":["ann","bob","cal"],
		"score":[0.5,0.7,0.9]}`)

	dims, cols := numericDimensions(ds)

	assert.Equal(t, []string{"age", "score"}, dims)
	require.Len(t, cols, 2)
	assert.Equal(t, 30.0, cols[0][0])
	assert.Equal(t, 40.0, cols[0][1])
	assert.True(t, cols[0][2] != cols[0][2], "sentinel should surface as NaN")
}

func TestBuildScatterMatrixNeedsNumerics(t *testing.T) {
	ds := strategyDataset(t, `{"name":["a","b"]}`)
	_, err := buildScatterMatrix(ds, RoleMapping{}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one numeric column")
}

func TestBuildParallelCategories(t *testing.T) {
	log := logging.Discard()

	t.Run("requires a categorical column", func(t *testing.T) {
		ds := strategyDataset(t, `{"v":[1,2]}`)
		_, err := buildParallelCategories(ds, RoleMapping{}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "categorical")
	})

	t.Run("keeps numeric color axis", func(t *testing.T) {
		ds := strategyDataset(t, `{"grade":["a","b"],"score":[1,2]}`)
		fig, err := buildParallelCategories(ds, RoleMapping{"color": "score"}, log)
		require.NoError(t, err)
		assert.NotNil(t, fig)
	})

	t.Run("drops non-numeric color silently", func(t *testing.T) {
		ds := strategyDataset(t, `{"grade":["a","b"],"note":["x","y"]}`)
		fig, err := buildParallelCategories(ds, RoleMapping{"color": "note"}, log)
		require.NoError(t, err)
		assert.NotNil(t, fig)
	})
}

func TestDistinctCategories(t *testing.T) {
	c := col("g", StringCell("b"), StringCell("a"), MissingCell(), StringCell("b"))
	assert.Equal(t, []string{"b", "a"}, distinctCategories(&c))
}
