package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// RENDER SURFACE TESTS
// ============================================================================
// The load-bearing contract: RenderChart degrades to an error figure instead
// of failing, and every figure — error figures included — carries the uniform
// layout frame.
// ============================================================================

func TestRenderChartSuccess(t *testing.T) {
	r := testRenderer()

	out, err := r.RenderChart("bar", `{"region":["e","w"],"sales":[10,20]}`,
		RoleMapping{"x": "region", "y": "sales"})
	require.NoError(t, err)

	var opts map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &opts))
	assert.Contains(t, out, "Bar Chart")
	assert.Contains(t, opts, "series")
}

func TestRenderChartDegradesToErrorFigure(t *testing.T) {
	r := testRenderer()

	cases := map[string]struct {
		kind    string
		dataset string
		mapping RoleMapping
		detail  string
	}{
		"unknown kind": {
			kind: "hologram", dataset: `{"a":[1]}`, mapping: RoleMapping{},
			detail: "unknown or unsupported chart kind",
		},
		"undecodable dataset": {
			kind: "bar", dataset: `not json`, mapping: RoleMapping{},
			detail: "invalid dataset JSON",
		},
		"empty dataset": {
			kind: "bar", dataset: `{}`, mapping: RoleMapping{},
			detail: "dataset is empty",
		},
		"missing column": {
			kind: "bar", dataset: `{"a":[1]}`, mapping: RoleMapping{"y": "nope"},
			detail: "not found",
		},
		"no usable data": {
			kind: "sankey", dataset: `{"s":["A"],"t":["B"],"v":[-1]}`,
			mapping: RoleMapping{"source": "s", "target": "t", "value": "v"},
			detail:  "no valid data for sankey chart",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := r.RenderChart(tc.kind, tc.dataset, tc.mapping)
			require.NoError(t, err, "degradation must not return an error")

			var opts map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &opts))
			assert.Contains(t, out, "Chart Rendering Error")
			assert.Contains(t, out, tc.detail)
		})
	}
}

func TestRenderChartToleratesNonFiniteStrings(t *testing.T) {
	r := testRenderer()

	t.Run("indicator over NaN strings degrades cleanly", func(t *testing.T) {
		out, err := r.RenderChart("indicator", `{"metric":["NaN"]}`,
			RoleMapping{"value": "metric"})
		require.NoError(t, err, "non-finite input must still yield a figure")

		var opts map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &opts))
		assert.Contains(t, out, "no valid numeric data")
	})

	t.Run("scatter drops Inf rows and renders", func(t *testing.T) {
		out, err := r.RenderChart("scatter",
			`{"x":["Inf","2","3","4","5"],"y":[1,2,3,4,5]}`,
			RoleMapping{"x": "x", "y": "y"})
		require.NoError(t, err)

		var opts map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &opts))
		assert.NotContains(t, out, "Chart Rendering Error")
	})
}

func TestSaveChartAsFile(t *testing.T) {
	r := testRenderer()
	path := filepath.Join(t.TempDir(), "chart.html")

	got, err := r.SaveChartAsFile("line", `{"x":[1,2,3],"y":[4,5,6]}`,
		RoleMapping{"x": "x", "y": "y"}, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "echarts")
}

func TestSaveChartAsFileBadPath(t *testing.T) {
	r := testRenderer()

	_, err := r.SaveChartAsFile("line", `{"x":[1],"y":[2]}`,
		RoleMapping{"x": "x", "y": "y"},
		filepath.Join(t.TempDir(), "no_such_dir", "chart.html"))
	assert.Error(t, err, "filesystem failures are real errors")
}

func TestValidateChartMappingsBadJSON(t *testing.T) {
	r := testRenderer()

	res := r.ValidateChartMappings("bar", `not json`, RoleMapping{})

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
}

func TestAvailableCharts(t *testing.T) {
	kinds := testRenderer().AvailableCharts()

	for _, want := range []string{
		"area", "bar", "bubble", "candlestick", "doughnut", "funnel",
		"heatmap", "histogram", "indicator", "line", "parallel_categories",
		"parallel_coordinates", "pie", "sankey", "scatter", "scatter_matrix",
		"sunburst", "surface", "treemap", "waterfall",
	} {
		assert.Contains(t, kinds, want)
	}
	assert.True(t, sortedStrings(kinds), "kinds should be sorted")
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestSampleDataRendersForEveryKind(t *testing.T) {
	r := testRenderer()

	mappings := map[string]RoleMapping{
		"surface":     {"x": "x", "y": "y", "z": "z"},
		"candlestick": {"x": "date", "open": "open", "high": "high", "low": "low", "close": "close"},
		"sankey":      {"source": "source", "target": "target", "value": "value"},
		"treemap":     {"names": "names", "values": "values"},
		"sunburst":    {"names": "names", "values": "values"},
		"indicator":   {"value": "metric", "delta_reference": "target"},
		"waterfall":   {"x": "category", "y": "y"},
	}

	for _, kind := range r.AvailableCharts() {
		mapping, ok := mappings[kind]
		if !ok {
			mapping = RoleMapping{"x": "x", "y": "y", "values": "y", "names": "category"}
		}

		out, err := r.RenderChart(kind, SampleData(kind), mapping)
		require.NoError(t, err, "kind %s", kind)
		assert.NotContains(t, out, "Chart Rendering Error", "kind %s should render its sample", kind)
	}
}

func TestKindTitle(t *testing.T) {
	assert.Equal(t, "Bar", kindTitle("bar"))
	assert.Equal(t, "Scatter Matrix", kindTitle("scatter_matrix"))
	assert.Equal(t, "Parallel Coordinates", kindTitle("parallel_coordinates"))
	assert.Equal(t, "", kindTitle(""))
}

func TestWrapText(t *testing.T) {
	t.Run("respects width", func(t *testing.T) {
		lines := wrapText(strings.Repeat("word ", 40), 20)
		require.NotEmpty(t, lines)
		for _, l := range lines {
			assert.LessOrEqual(t, len(l), 20)
		}
	})

	t.Run("hard-splits oversized words", func(t *testing.T) {
		lines := wrapText(strings.Repeat("x", 25), 10)
		assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, lines)
	})

	t.Run("empty input yields one empty line", func(t *testing.T) {
		assert.Equal(t, []string{""}, wrapText("", 10))
	})
}
