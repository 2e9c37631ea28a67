package note

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/viaconta/nfsync/internal/plugnotas"
)

// amountStrategy extracts the service total from one of the payload shapes
// the source is known to emit. It reports false when the shape is absent or
// holds a zero value, letting the next strategy try.
type amountStrategy func(*plugnotas.RawNote) (decimal.Decimal, bool)

// amountStrategies is the fixed extraction precedence for valor_total. The
// source payload drifts between these shapes without notice; the order here
// is load-bearing and covered by tests.
var amountStrategies = []amountStrategy{
	flatServiceValue,
	nestedValueService,
	nestedTotalService,
	firstServiceLineValue,
}

// ExtractTotal resolves the note's financial total, applying the strategies
// in order. A payload matching none of the shapes resolves to zero.
func ExtractTotal(raw *plugnotas.RawNote) decimal.Decimal {
	for _, strategy := range amountStrategies {
		if v, ok := strategy(raw); ok {
			return v
		}
	}

	return decimal.Zero
}

// flatServiceValue reads the top-level valorServico field, or a bare
// numeric valor.
func flatServiceValue(raw *plugnotas.RawNote) (decimal.Decimal, bool) {
	if v, ok := rawDecimal(raw.FlatValue); ok {
		return v, true
	}

	return rawDecimal(raw.Value)
}

// nestedValueService reads valor.servico.
func nestedValueService(raw *plugnotas.RawNote) (decimal.Decimal, bool) {
	return serviceMember(raw.Value)
}

// nestedTotalService reads total.servico.
func nestedTotalService(raw *plugnotas.RawNote) (decimal.Decimal, bool) {
	return serviceMember(raw.Total)
}

// firstServiceLineValue reads servico[0].valor.servico.
func firstServiceLineValue(raw *plugnotas.RawNote) (decimal.Decimal, bool) {
	if len(raw.Services) == 0 {
		return decimal.Zero, false
	}

	return serviceMember(raw.Services[0].Value)
}

func serviceMember(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 {
		return decimal.Zero, false
	}

	var obj struct {
		Servico json.Number `json:"servico"`
	}

	if err := json.Unmarshal(raw, &obj); err != nil {
		return decimal.Zero, false
	}

	return parseDecimal(string(obj.Servico))
}

func rawDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 {
		return decimal.Zero, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return decimal.Zero, false
	}

	return parseDecimal(string(n))
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}
