package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Kinds(t *testing.T) {
	tests := []struct {
		name        string
		value       Value
		wantKind    Kind
		wantMissing bool
	}{
		{"missing", MissingValue(), KindMissing, true},
		{"zero value is missing", Value{}, KindMissing, true},
		{"string", StringValue("01M292"), KindString, false},
		{"empty string is not missing", StringValue(""), KindString, false},
		{"int", IntValue(404), KindInt, false},
		{"float", FloatValue(40.5), KindFloat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.value.Kind())
			assert.Equal(t, tt.wantMissing, tt.value.IsMissing())
		})
	}
}

func TestValue_Float64(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOK bool
	}{
		{"int widens", IntValue(25), 25, true},
		{"float passes through", FloatValue(-73.9), -73.9, true},
		{"string refuses", StringValue("25"), 0, false},
		{"missing refuses", MissingValue(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float64()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"missing renders empty", MissingValue(), ""},
		{"string keeps raw text", StringValue(" GEN ED "), " GEN ED "},
		{"int", IntValue(20112012), "20112012"},
		{"float minimal digits", FloatValue(40.5), "40.5"},
		{"float integral", FloatValue(25), "25"},
		{"negative float", FloatValue(-73.9), "-73.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}
