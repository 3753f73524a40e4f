package releve

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lbrossard/indivis/internal/money"
)

// parseFrenchAmount parses a French-formatted amount into cents.
// Examples: "1 234,56" -> 123456, "-588,74" -> -58874, "10,00" -> 1000.
// Thousands may be separated by spaces, non-breaking spaces or dots.
func parseFrenchAmount(s string) (money.Amount, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ', '.':
			return -1
		case ',':
			return '.'
		default:
			return r
		}
	}, strings.TrimSpace(s))

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return money.Amount(d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()), nil
}
