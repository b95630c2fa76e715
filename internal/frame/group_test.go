package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMeanBy(t *testing.T) {
	tbl := buildTable(t, "class_size",
		stringCol("DBN", "01M292", "01M292", "02M294"),
		NewColumn("AVERAGE CLASS SIZE", TypeFloat, []Value{
			FloatValue(20), FloatValue(30), FloatValue(18.5),
		}),
		NewColumn("NUMBER OF STUDENTS", TypeInt, []Value{
			IntValue(100), IntValue(200), IntValue(55),
		}),
		stringCol("PROGRAM TYPE", "GEN ED", "GEN ED", "GEN ED"),
	)

	got, err := tbl.GroupMeanBy("DBN")
	require.NoError(t, err)

	// one row per key, text columns gone, key first
	assert.Equal(t, 2, got.NumRows())
	assert.Equal(t, []string{"DBN", "AVERAGE CLASS SIZE", "NUMBER OF STUDENTS"}, got.ColumnNames())

	// duplicate keys collapse to the numeric mean
	v, _ := got.Cell("AVERAGE CLASS SIZE", 0)
	assert.Equal(t, FloatValue(25), v)
	v, _ = got.Cell("NUMBER OF STUDENTS", 0)
	assert.Equal(t, FloatValue(150), v)

	// singleton groups keep their value
	v, _ = got.Cell("AVERAGE CLASS SIZE", 1)
	assert.Equal(t, FloatValue(18.5), v)

	// int columns come back as float means
	c, _ := got.Column("NUMBER OF STUDENTS")
	assert.Equal(t, TypeFloat, c.Type)
}

func TestGroupMeanBy_MissingHandling(t *testing.T) {
	tbl := buildTable(t, "class_size",
		stringCol("DBN", "01M292", "01M292", "", "03M299"),
		NewColumn("SIZE", TypeFloat, []Value{
			FloatValue(10), MissingValue(), FloatValue(99), MissingValue(),
		}),
	)

	got, err := tbl.GroupMeanBy("DBN")
	require.NoError(t, err)

	// the missing-key row is dropped entirely
	require.Equal(t, 2, got.NumRows())

	// missing cells are excluded from the mean
	v, _ := got.Cell("SIZE", 0)
	assert.Equal(t, FloatValue(10), v)

	// a group with no present cells is missing
	v, _ = got.Cell("SIZE", 1)
	assert.True(t, v.IsMissing())
}

func TestGroupMeanBy_SortsKeys(t *testing.T) {
	tbl := buildTable(t, "combined",
		stringCol("school_dist", "27", "01", "13", "01"),
		NewColumn("sat_score", TypeFloat, []Value{
			FloatValue(1100), FloatValue(1200), FloatValue(1300), FloatValue(1000),
		}),
	)

	got, err := tbl.GroupMeanBy("school_dist")
	require.NoError(t, err)

	keys, _ := got.Column("school_dist")
	assert.Equal(t, []Value{StringValue("01"), StringValue("13"), StringValue("27")}, keys.Values)

	v, _ := got.Cell("sat_score", 0)
	assert.Equal(t, FloatValue(1100), v)
}

func TestGroupMeanBy_UnknownKey(t *testing.T) {
	tbl := buildTable(t, "class_size", stringCol("DBN", "01M292"))

	_, err := tbl.GroupMeanBy("CSD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `group key "CSD" not found in table class_size`)
}
