// Package allocate implements the proportional split of a monetary
// amount among the owners holding fractional title to a lot. It is a
// pure computation: callers fetch the active fractions and persist the
// resulting shares themselves.
package allocate

import (
	"bytes"
	"errors"
	"math/big"
	"slices"

	"github.com/lbrossard/indivis/internal/fraction"
	"github.com/lbrossard/indivis/internal/money"

	"github.com/google/uuid"
)

// ErrNoActiveFractions means a lot has no fraction record covering the
// requested date. Direct callers must surface it; only bulk resync is
// allowed to skip it.
var ErrNoActiveFractions = errors.New("no active fractions for lot at date")

// Share is one owner's portion of a distributed amount.
type Share struct {
	OwnerID uuid.UUID
	Amount  money.Amount
}

// Distribute splits amount among the given active fractions.
//
// Fractions are ordered by owner ID ascending (byte order on UUIDs,
// which is total) so the result is deterministic. Every share except
// the last is amount*numerator/denominator rounded half-even to the
// cent; the last share is the amount minus everything already handed
// out. The whole rounding remainder therefore lands on the highest-ID
// owner, and the shares always sum to the amount exactly, even when
// the fractions themselves do not sum to 1. Both behaviors are
// deliberate and must be kept bit-exact.
func Distribute(amount money.Amount, fractions []*fraction.Fraction) ([]Share, error) {
	if len(fractions) == 0 {
		return nil, ErrNoActiveFractions
	}

	ordered := slices.Clone(fractions)
	slices.SortStableFunc(ordered, func(a, b *fraction.Fraction) int {
		return bytes.Compare(a.OwnerID[:], b.OwnerID[:])
	})

	shares := make([]Share, 0, len(ordered))

	var distributed money.Amount

	for i, f := range ordered {
		var cents money.Amount
		if i == len(ordered)-1 {
			cents = amount - distributed
		} else {
			cents = money.Amount(roundHalfEvenDiv(amount.Cents(), f.Numerator, f.Denominator))
		}

		shares = append(shares, Share{OwnerID: f.OwnerID, Amount: cents})
		distributed += cents
	}

	return shares, nil
}

// roundHalfEvenDiv computes round(cents*num/den) with banker's rounding,
// in exact integer arithmetic. big.Int keeps the cents*num product safe
// from overflow for any realistic numerator.
func roundHalfEvenDiv(cents, num, den int64) int64 {
	n := new(big.Int).Mul(big.NewInt(cents), big.NewInt(num))
	d := big.NewInt(den)

	q, r := new(big.Int).QuoRem(n, d, new(big.Int))

	// Compare twice the remainder with the denominator to decide the
	// rounding direction; ties go to the even quotient.
	r.Lsh(r, 1)

	switch r.CmpAbs(d) {
	case -1:
		return q.Int64()
	case 1:
		return q.Int64() + 1
	default:
		if q.Bit(0) == 0 {
			return q.Int64()
		}

		return q.Int64() + 1
	}
}
