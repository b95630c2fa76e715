package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		name     string
		input    *Column
		wantType Type
		want     []Value
	}{
		{
			name:     "clean integers stay integers",
			input:    stringCol("SAT Math Avg. Score", "404", "423", "736"),
			wantType: TypeInt,
			want:     []Value{IntValue(404), IntValue(423), IntValue(736)},
		},
		{
			name:     "suppressed marker becomes missing",
			input:    stringCol("SAT Math Avg. Score", "404", "s", "423"),
			wantType: TypeInt,
			want:     []Value{IntValue(404), MissingValue(), IntValue(423)},
		},
		{
			name:     "one decimal widens the column",
			input:    stringCol("Total Grads - % of cohort", "64.2", "78", "s"),
			wantType: TypeFloat,
			want:     []Value{FloatValue(64.2), FloatValue(78), MissingValue()},
		},
		{
			name:     "surrounding whitespace is tolerated",
			input:    stringCol("Total Exams Taken", " 120 ", "88", "n/a"),
			wantType: TypeInt,
			want:     []Value{IntValue(120), IntValue(88), MissingValue()},
		},
		{
			name: "already numeric columns pass through",
			input: NewColumn("AP Test Takers ", TypeInt, []Value{
				IntValue(39), MissingValue(), IntValue(19),
			}),
			wantType: TypeInt,
			want:     []Value{IntValue(39), MissingValue(), IntValue(19)},
		},
		{
			name:     "textual NaN is missing rather than numeric",
			input:    stringCol("rr_s", "88", "NaN", "91"),
			wantType: TypeInt,
			want:     []Value{IntValue(88), MissingValue(), IntValue(91)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := buildTable(t, "src", tt.input)
			require.NoError(t, tbl.CoerceNumeric(tt.input.Name))

			c, ok := tbl.Column(tt.input.Name)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, c.Type)
			assert.Equal(t, tt.want, c.Values)
		})
	}
}

func TestCoerceNumeric_UnknownColumn(t *testing.T) {
	tbl := buildTable(t, "sat_results", stringCol("DBN", "01M292"))
	err := tbl.CoerceNumeric("SAT Math Avg. Score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sat_results")
}
