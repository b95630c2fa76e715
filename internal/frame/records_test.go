package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords_TypeInference(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		cells    []string
		wantType Type
		want     []Value
	}{
		{
			name:     "all integers",
			header:   "schoolyear",
			cells:    []string{"20112012", "20112012"},
			wantType: TypeInt,
			want:     []Value{IntValue(20112012), IntValue(20112012)},
		},
		{
			name:     "integers with blanks stay int",
			header:   "NUMBER OF STUDENTS",
			cells:    []string{"12", "", "40"},
			wantType: TypeInt,
			want:     []Value{IntValue(12), MissingValue(), IntValue(40)},
		},
		{
			name:     "mixed int and decimal becomes float",
			header:   "AVERAGE CLASS SIZE",
			cells:    []string{"21", "22.6"},
			wantType: TypeFloat,
			want:     []Value{FloatValue(21), FloatValue(22.6)},
		},
		{
			name:     "suppression marker forces string",
			header:   "SAT Math Avg. Score",
			cells:    []string{"404", "s"},
			wantType: TypeString,
			want:     []Value{StringValue("404"), StringValue("s")},
		},
		{
			name:     "blank only column is string of missing",
			header:   "notes",
			cells:    []string{"", "  "},
			wantType: TypeString,
			want:     []Value{MissingValue(), MissingValue()},
		},
		{
			name:     "numeric parsing ignores padding",
			header:   "rr_s",
			cells:    []string{" 89 ", "77"},
			wantType: TypeInt,
			want:     []Value{IntValue(89), IntValue(77)},
		},
		{
			name:     "literal nan text stays string",
			header:   "score",
			cells:    []string{"1.5", "NaN"},
			wantType: TypeString,
			want:     []Value{StringValue("1.5"), StringValue("NaN")},
		},
		{
			name:     "leading zeros parse as int",
			header:   "CSD",
			cells:    []string{"01", "27"},
			wantType: TypeInt,
			want:     []Value{IntValue(1), IntValue(27)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := [][]string{{tt.header}}
			for _, c := range tt.cells {
				records = append(records, []string{c})
			}

			tbl, err := FromRecords("test", records)
			require.NoError(t, err)

			col, ok := tbl.Column(tt.header)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, col.Type)
			assert.Equal(t, tt.want, col.Values)
		})
	}
}

func TestFromRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		wantErr string
	}{
		{
			name:    "no records",
			records: nil,
			wantErr: "no header record",
		},
		{
			name:    "empty header name",
			records: [][]string{{"DBN", ""}},
			wantErr: "empty header name at position 1",
		},
		{
			name:    "duplicate header",
			records: [][]string{{"DBN", "DBN"}, {"01M292", "01M292"}},
			wantErr: `duplicate column "DBN"`,
		},
		{
			name:    "short record",
			records: [][]string{{"DBN", "rr_s"}, {"01M292"}},
			wantErr: "record 1 has 1 fields, header has 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecords("test", tt.records)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromRecords_KeepsRawStrings(t *testing.T) {
	records := [][]string{
		{"Location 1"},
		{"883 Classon Avenue\nBrooklyn, NY 11225\n(40.67, -73.96)"},
	}

	tbl, err := FromRecords("hs_directory", records)
	require.NoError(t, err)

	v, _ := tbl.Cell("Location 1", 0)
	assert.Contains(t, v.String(), "\n(40.67, -73.96)")
}

func TestTable_Records(t *testing.T) {
	tbl := buildTable(t, "combined",
		stringCol("DBN", "01M292", "02M294"),
		floatCol("sat_score", FloatValue(1122), MissingValue()),
	)

	assert.Equal(t, []string{"DBN", "sat_score"}, tbl.Headers())
	assert.Equal(t, [][]string{
		{"01M292", "1122"},
		{"02M294", ""},
	}, tbl.Records())
}

func TestFromRecords_HeaderOnly(t *testing.T) {
	tbl, err := FromRecords("empty", [][]string{{"DBN", "rr_s"}})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
}
