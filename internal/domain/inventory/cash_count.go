package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// maxDenominationCount mayor cantidad de billetes aceptada por denominación.
const maxDenominationCount = 1_000_000

// CountCash suma el conteo de billetes y lo compara con el importe esperado del IPV.
// Denominaciones repetidas se acumulan; las líneas quedan de mayor a menor valor.
func CountCash(denominations []entity.Denomination, expected decimal.Decimal) (entity.CashCount, error) {
	counts := make(map[string]*entity.CashLine)
	for _, d := range denominations {
		if err := CheckQuantity(d.Value); err != nil {
			return entity.CashCount{}, err
		}
		if !d.Value.IsPositive() || d.Count < 0 || d.Count > maxDenominationCount {
			return entity.CashCount{}, domain.ErrInvalidQuantity
		}
		key := d.Value.String()
		line, ok := counts[key]
		if !ok {
			line = &entity.CashLine{Value: d.Value}
			counts[key] = line
		}
		line.Count += d.Count
	}

	out := entity.CashCount{Declared: decimal.Zero, Expected: expected}
	for _, line := range counts {
		line.Subtotal = line.Value.Mul(decimal.NewFromInt(line.Count))
		out.Declared = out.Declared.Add(line.Subtotal)
		out.Lines = append(out.Lines, *line)
	}
	sort.Slice(out.Lines, func(i, j int) bool {
		return out.Lines[i].Value.GreaterThan(out.Lines[j].Value)
	})
	out.Difference = out.Declared.Sub(expected)
	return out, nil
}
