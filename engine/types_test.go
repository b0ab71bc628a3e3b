package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// DATASET MODEL TESTS
// ============================================================================

func TestParseDatasetJSON(t *testing.T) {
	t.Run("preserves column order and cell kinds", func(t *testing.T) {
		ds, err := ParseDatasetJSON([]byte(`{"b":[1,"two",true,null],"a":[0.5,2,3,4]}`))
		require.NoError(t, err)

		assert.Equal(t, []string{"b", "a"}, ds.ColumnNames())
		assert.Equal(t, 4, ds.Rows())

		b, _ := ds.Column("b")
		assert.Equal(t, NumberCell(1), b.Cells[0])
		assert.Equal(t, StringCell("two"), b.Cells[1])
		assert.Equal(t, BoolCell(true), b.Cells[2])
		assert.True(t, b.Cells[3].IsMissing())
	})

	t.Run("rejects ragged columns", func(t *testing.T) {
		_, err := ParseDatasetJSON([]byte(`{"a":[1,2,3],"b":[1]}`))
		assert.Error(t, err)
	})

	t.Run("rejects non-object payloads", func(t *testing.T) {
		for _, raw := range []string{`[1,2]`, `"x"`, `42`, `not json`} {
			_, err := ParseDatasetJSON([]byte(raw))
			assert.Error(t, err, "payload %s", raw)
		}
	})

	t.Run("rejects scalar column values", func(t *testing.T) {
		_, err := ParseDatasetJSON([]byte(`{"a":5}`))
		assert.Error(t, err)
	})

	t.Run("round-trips through MarshalJSON", func(t *testing.T) {
		in := `{"x":[1,2.5],"label":["a",null],"flag":[true,false]}`
		ds, err := ParseDatasetJSON([]byte(in))
		require.NoError(t, err)

		out, err := ds.MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
	})
}

func TestDatasetCloneIsolation(t *testing.T) {
	ds, err := ParseDatasetJSON([]byte(`{"v":["1","2"]}`))
	require.NoError(t, err)

	work := ds.Clone()
	c, _ := work.Column("v")
	work.SetColumn(CleanNumeric(c))

	orig, _ := ds.Column("v")
	assert.Equal(t, KindString, orig.Cells[0].Kind, "clone mutation leaked into source")
}

func TestColumnPredicates(t *testing.T) {
	numeric := col("n", NumberCell(1), MissingCell())
	assert.True(t, numeric.Numeric())
	assert.False(t, numeric.Categorical())

	mixed := col("m", NumberCell(1), StringCell("x"))
	assert.False(t, mixed.Numeric())
	assert.True(t, mixed.Categorical())

	empty := col("e", MissingCell(), MissingCell())
	assert.False(t, empty.Numeric())
	assert.False(t, empty.Categorical())
}

func TestCellLabel(t *testing.T) {
	assert.Equal(t, "1.5", NumberCell(1.5).Label())
	assert.Equal(t, "3", NumberCell(3).Label())
	assert.Equal(t, "hi", StringCell("hi").Label())
	assert.Equal(t, "false", BoolCell(false).Label())
	assert.Equal(t, "", MissingCell().Label())
}
