package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// MAPPING VALIDATOR TESTS
// ============================================================================

func validationDataset(t *testing.T, raw string) *Dataset {
	t.Helper()
	ds, err := ParseDatasetJSON([]byte(raw))
	require.NoError(t, err)
	return ds
}

func TestValidateUnknownColumn(t *testing.T) {
	ds := validationDataset(t, `{"a":[1,2]}`)

	res := Validate("scatter", RoleMapping{"x": "a", "y": "nope"}, ds)

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], `"nope"`)
	assert.Contains(t, res.Errors[0], "not found")
}

func TestValidateRequiredRoles(t *testing.T) {
	ds := validationDataset(t, `{"a":[1],"b":[2]}`)

	cases := map[string][]string{
		"surface":     {"x", "y", "z"},
		"candlestick": {"x", "open", "high", "low", "close"},
		"sankey":      {"source", "target", "value"},
		"indicator":   {"value"},
		"waterfall":   {"x", "y"},
		"treemap":     {"values"},
		"sunburst":    {"values"},
	}
	for kind, roles := range cases {
		res := Validate(kind, RoleMapping{}, ds)
		assert.False(t, res.Valid, "kind %s", kind)
		assert.Len(t, res.Errors, len(roles), "kind %s", kind)
	}
}

func TestValidateWarnings(t *testing.T) {
	t.Run("majority-missing column warns", func(t *testing.T) {
		ds := validationDataset(t, `{"v":[1,null,null]}`)
		res := Validate("line", RoleMapping{"y": "v"}, ds)

		assert.True(t, res.Valid, "warnings must not invalidate")
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "66.7% missing")
	})

	t.Run("half missing does not warn", func(t *testing.T) {
		ds := validationDataset(t, `{"v":[1,null]}`)
		res := Validate("line", RoleMapping{"y": "v"}, ds)
		assert.Empty(t, res.Warnings)
	})

	t.Run("sentinels in mapped column warn with a count", func(t *testing.T) {
		ds := validationDataset(t, `{"v":["1","na","N/A","4"]}`)
		res := Validate("line", RoleMapping{"y": "v"}, ds)

		assert.True(t, res.Valid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "2 sentinel values")
	})

	t.Run("hierarchy without names warns", func(t *testing.T) {
		ds := validationDataset(t, `{"values":[1,2]}`)
		res := Validate("treemap", RoleMapping{"values": "values"}, ds)

		assert.True(t, res.Valid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "names")
	})
}

func TestValidateColumnTypeRequirements(t *testing.T) {
	numericOnly := validationDataset(t, `{"a":[1,2],"b":[3,4]}`)
	stringsOnly := validationDataset(t, `{"s":["x","y"]}`)

	res := Validate("scatter_matrix", RoleMapping{}, stringsOnly)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "numeric column")

	res = Validate("parallel_coordinates", RoleMapping{}, numericOnly)
	assert.True(t, res.Valid)

	res = Validate("parallel_categories", RoleMapping{}, numericOnly)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "categorical column")

	res = Validate("parallel_categories", RoleMapping{}, stringsOnly)
	assert.True(t, res.Valid)
}

func TestValidateDeterministicOrder(t *testing.T) {
	ds := validationDataset(t, `{"a":[1]}`)
	mapping := RoleMapping{"y": "m2", "x": "m1", "color": "m3"}

	first := Validate("scatter", mapping, ds)
	want := []string{
		`column "m3" not found in data`,
		`column "m1" not found in data`,
		`column "m2" not found in data`,
	}
	assert.Equal(t, want, first.Errors, "errors follow role order: color, x, y")

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Validate("scatter", mapping, ds))
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	ds := validationDataset(t, `{"a":[1]}`)

	res := Validate("candlestick", RoleMapping{"x": "missing_col"}, ds)

	assert.False(t, res.Valid)
	// one unknown-column error plus four unmapped required roles
	assert.Len(t, res.Errors, 5)
}
