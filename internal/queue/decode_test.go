package queue

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Row
	}{
		{"envelope", `{"rows":[{"title":"A"}]}`, []Row{{"title": "A"}}},
		{"bare array", ` [{"title":"A"},{"doi":true}] `, []Row{{"title": "A"}, {"doi": true}}},
		{"no rows key", `{}`, nil},
		{"empty array", `[]`, []Row{}},
		{"number precision", `[{"proposal_number":12345678901234567}]`, []Row{{"proposal_number": json.Number("12345678901234567")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not json", `{"rows":"x"}`, `"rows"`, `[1,2]`} {
		_, err := Decode(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrInvalidBatch, "input %q", in)
	}
}
