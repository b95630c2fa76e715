package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_LeftPreservesEveryRow(t *testing.T) {
	left := buildTable(t, "sat_results",
		stringCol("DBN", "A", "B", "C"),
		floatCol("sat_score", FloatValue(1100), FloatValue(1200), FloatValue(1300)),
	)
	right := buildTable(t, "demographics",
		stringCol("DBN", "B", "C", "D"),
		floatCol("total_enrollment", FloatValue(400), FloatValue(500), FloatValue(600)),
	)

	got, err := Join(left, right, "DBN", LeftJoin)
	require.NoError(t, err)

	require.Equal(t, 3, got.NumRows())
	assert.Equal(t, []string{"DBN", "sat_score", "total_enrollment"}, got.ColumnNames())

	// unmatched left row keeps its own cells, right cells are missing
	v, _ := got.Cell("total_enrollment", 0)
	assert.True(t, v.IsMissing())
	v, _ = got.Cell("sat_score", 0)
	assert.Equal(t, FloatValue(1100), v)

	v, _ = got.Cell("total_enrollment", 1)
	assert.Equal(t, FloatValue(400), v)
	v, _ = got.Cell("total_enrollment", 2)
	assert.Equal(t, FloatValue(500), v)
}

func TestJoin_Inner(t *testing.T) {
	left := buildTable(t, "sat_results",
		stringCol("DBN", "A", "B", "C"),
		floatCol("sat_score", FloatValue(1100), FloatValue(1200), FloatValue(1300)),
	)
	right := buildTable(t, "demographics",
		stringCol("DBN", "B", "C", "D"),
		floatCol("total_enrollment", FloatValue(400), FloatValue(500), FloatValue(600)),
	)

	got, err := Join(left, right, "DBN", InnerJoin)
	require.NoError(t, err)

	require.Equal(t, 2, got.NumRows())
	v, _ := got.Cell("DBN", 0)
	assert.Equal(t, "B", v.String())
	v, _ = got.Cell("total_enrollment", 1)
	assert.Equal(t, FloatValue(500), v)
}

func TestJoin_RowCountNeverExceedsLeft(t *testing.T) {
	left := buildTable(t, "sat_results",
		stringCol("DBN", "A", "B", "C"),
	)
	rights := []*Table{
		buildTable(t, "ap_2010", stringCol("DBN", "A", "B", "C"), stringCol("x", "1", "2", "3")),
		buildTable(t, "graduation", stringCol("DBN", "C"), stringCol("y", "9")),
		buildTable(t, "hs_directory", stringCol("DBN", "Q", "R"), stringCol("z", "0", "0")),
	}

	for _, kind := range []JoinKind{LeftJoin, InnerJoin} {
		combined := left
		for _, right := range rights {
			var err error
			combined, err = Join(combined, right, "DBN", kind)
			require.NoError(t, err)
			assert.LessOrEqual(t, combined.NumRows(), left.NumRows(), "join kind %s", kind)
		}
	}
}

func TestJoin_FoldAfterCondense(t *testing.T) {
	sat := buildTable(t, "sat_results",
		stringCol("DBN", "A", "B", "C"),
		floatCol("sat_score", FloatValue(1100), FloatValue(1200), FloatValue(1300)),
	)
	classSize := buildTable(t, "class_size",
		stringCol("DBN", "A", "A", "B"),
		floatCol("size", FloatValue(20), FloatValue(30), FloatValue(25)),
	)
	demographics := buildTable(t, "demographics",
		stringCol("DBN", "B", "C", "D"),
		floatCol("total_enrollment", FloatValue(400), FloatValue(500), FloatValue(600)),
	)

	condensed, err := classSize.GroupMeanBy("DBN")
	require.NoError(t, err)
	require.Equal(t, 2, condensed.NumRows())

	combined, err := Join(sat, condensed, "DBN", LeftJoin)
	require.NoError(t, err)
	combined, err = Join(combined, demographics, "DBN", LeftJoin)
	require.NoError(t, err)

	require.Equal(t, 3, combined.NumRows())
	for i, key := range []string{"A", "B", "C"} {
		v, ok := combined.Cell("DBN", i)
		require.True(t, ok)
		assert.Equal(t, key, v.String())
	}

	v, _ := combined.Cell("size", 0)
	assert.Equal(t, FloatValue(25), v)
	v, _ = combined.Cell("size", 1)
	assert.Equal(t, FloatValue(25), v)
	v, _ = combined.Cell("size", 2)
	assert.True(t, v.IsMissing())

	v, _ = combined.Cell("total_enrollment", 0)
	assert.True(t, v.IsMissing())
	v, _ = combined.Cell("total_enrollment", 1)
	assert.Equal(t, FloatValue(400), v)
	v, _ = combined.Cell("total_enrollment", 2)
	assert.Equal(t, FloatValue(500), v)
}

func TestJoin_CollidingColumnTakesSourceSuffix(t *testing.T) {
	left := buildTable(t, "sat_results",
		stringCol("DBN", "A"),
		stringCol("SCHOOL NAME", "HENRY STREET SCHOOL"),
	)
	right := buildTable(t, "graduation",
		stringCol("DBN", "A"),
		stringCol("SCHOOL NAME", "Henry Street School"),
	)

	got, err := Join(left, right, "DBN", LeftJoin)
	require.NoError(t, err)

	assert.Equal(t, []string{"DBN", "SCHOOL NAME", "SCHOOL NAME_graduation"}, got.ColumnNames())

	v, _ := got.Cell("SCHOOL NAME", 0)
	assert.Equal(t, "HENRY STREET SCHOOL", v.String())
	v, _ = got.Cell("SCHOOL NAME_graduation", 0)
	assert.Equal(t, "Henry Street School", v.String())
}

func TestJoin_MissingKeysNeverMatch(t *testing.T) {
	left := buildTable(t, "sat_results",
		stringCol("DBN", "A", ""),
	)
	right := buildTable(t, "demographics",
		stringCol("DBN", "A", ""),
		floatCol("total_enrollment", FloatValue(400), FloatValue(999)),
	)

	got, err := Join(left, right, "DBN", LeftJoin)
	require.NoError(t, err)

	require.Equal(t, 2, got.NumRows())
	v, _ := got.Cell("total_enrollment", 1)
	assert.True(t, v.IsMissing())
}

func TestJoin_Errors(t *testing.T) {
	left := buildTable(t, "sat_results", stringCol("DBN", "A"))

	t.Run("duplicate right key", func(t *testing.T) {
		right := buildTable(t, "class_size",
			stringCol("DBN", "A", "A"),
			floatCol("SIZE", FloatValue(1), FloatValue(2)),
		)
		_, err := Join(left, right, "DBN", LeftJoin)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate join key "A" in table class_size`)
	})

	t.Run("key missing on either side", func(t *testing.T) {
		right := buildTable(t, "survey", stringCol("dbn", "A"))
		_, err := Join(left, right, "DBN", LeftJoin)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `join key "DBN" not found in table survey`)

		_, err = Join(right, left, "DBN", LeftJoin)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `not found in table survey`)
	})
}
