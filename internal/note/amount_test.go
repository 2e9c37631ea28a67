package note_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/viaconta/nfsync/internal/note"
	"github.com/viaconta/nfsync/internal/plugnotas"
)

func TestExtractTotal(t *testing.T) {
	want := decimal.RequireFromString("150.75")

	type testCase struct {
		name string
		raw  plugnotas.RawNote
		want decimal.Decimal
	}

	tests := []testCase{
		{
			name: "TopLevelValorServico",
			raw:  plugnotas.RawNote{FlatValue: json.RawMessage(`150.75`)},
			want: want,
		},
		{
			name: "TopLevelNumericValor",
			raw:  plugnotas.RawNote{Value: json.RawMessage(`150.75`)},
			want: want,
		},
		{
			name: "NestedValueService",
			raw:  plugnotas.RawNote{Value: json.RawMessage(`{"servico":150.75}`)},
			want: want,
		},
		{
			name: "NestedTotalService",
			raw:  plugnotas.RawNote{Total: json.RawMessage(`{"servico":150.75}`)},
			want: want,
		},
		{
			name: "FirstServiceLine",
			raw: plugnotas.RawNote{
				Services: []plugnotas.RawServiceLine{
					{Value: json.RawMessage(`{"servico":150.75}`)},
					{Value: json.RawMessage(`{"servico":999}`)},
				},
			},
			want: want,
		},
		{
			name: "ZeroFlatFallsThroughToNested",
			raw: plugnotas.RawNote{
				FlatValue: json.RawMessage(`0`),
				Total:     json.RawMessage(`{"servico":150.75}`),
			},
			want: want,
		},
		{
			name: "NoShapeMatches",
			raw:  plugnotas.RawNote{Issuer: json.RawMessage(`"11222333000181"`)},
			want: decimal.Zero,
		},
		{
			name: "MalformedValueObject",
			raw:  plugnotas.RawNote{Value: json.RawMessage(`"not-a-number"`)},
			want: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := note.ExtractTotal(&tt.raw)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestExtractTotal_PrecedenceOrder(t *testing.T) {
	// When several shapes are present the top-level field wins.
	raw := plugnotas.RawNote{
		FlatValue: json.RawMessage(`100`),
		Value:     json.RawMessage(`{"servico":200}`),
		Total:     json.RawMessage(`{"servico":300}`),
		Services: []plugnotas.RawServiceLine{
			{Value: json.RawMessage(`{"servico":400}`)},
		},
	}

	got := note.ExtractTotal(&raw)
	assert.True(t, decimal.NewFromInt(100).Equal(got), "got %s", got)
}
