package allocate_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbrossard/indivis/internal/allocate"
	"github.com/lbrossard/indivis/internal/fraction"
	"github.com/lbrossard/indivis/internal/money"
)

// Fixed owner IDs whose byte order is known: ownerA < ownerB < ownerC.
var (
	ownerA = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	ownerB = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	ownerC = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

func frac(owner uuid.UUID, num, den int64) *fraction.Fraction {
	return &fraction.Fraction{OwnerID: owner, Numerator: num, Denominator: den}
}

func TestDistribute_ThirdsOfHundred(t *testing.T) {
	shares, err := allocate.Distribute(money.MustParse("100.00"), []*fraction.Fraction{
		frac(ownerA, 1, 3),
		frac(ownerB, 2, 3),
	})
	require.NoError(t, err)
	require.Len(t, shares, 2)

	assert.Equal(t, ownerA, shares[0].OwnerID)
	assert.Equal(t, money.MustParse("33.33"), shares[0].Amount)
	assert.Equal(t, ownerB, shares[1].OwnerID)
	assert.Equal(t, money.MustParse("66.67"), shares[1].Amount)
}

func TestDistribute_NoFractions(t *testing.T) {
	shares, err := allocate.Distribute(money.MustParse("100.00"), nil)
	assert.ErrorIs(t, err, allocate.ErrNoActiveFractions)
	assert.Nil(t, shares)
}

func TestDistribute_SumInvariant(t *testing.T) {
	type testCase struct {
		name      string
		amount    string
		fractions []*fraction.Fraction
	}

	tests := []testCase{
		{
			name:   "ExactThirds",
			amount: "99.99",
			fractions: []*fraction.Fraction{
				frac(ownerA, 1, 3), frac(ownerB, 1, 3), frac(ownerC, 1, 3),
			},
		},
		{
			name:   "UnevenSevenths",
			amount: "123.45",
			fractions: []*fraction.Fraction{
				frac(ownerA, 2, 7), frac(ownerB, 3, 7), frac(ownerC, 2, 7),
			},
		},
		{
			name:   "SingleOwner",
			amount: "0.01",
			fractions: []*fraction.Fraction{
				frac(ownerA, 1, 1),
			},
		},
		{
			name:   "FractionsBelowOne",
			amount: "500.00",
			fractions: []*fraction.Fraction{
				frac(ownerA, 1, 4), frac(ownerB, 1, 4),
			},
		},
		{
			name:   "FractionsAboveOne",
			amount: "80.00",
			fractions: []*fraction.Fraction{
				frac(ownerA, 3, 4), frac(ownerB, 3, 4),
			},
		},
		{
			name:   "ZeroAmount",
			amount: "0.00",
			fractions: []*fraction.Fraction{
				frac(ownerA, 1, 2), frac(ownerB, 1, 2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := money.MustParse(tt.amount)

			shares, err := allocate.Distribute(amount, tt.fractions)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.fractions))

			var total money.Amount
			for _, sh := range shares {
				total += sh.Amount
			}

			assert.Equal(t, amount, total)
		})
	}
}

// The input order of the fractions must not affect the result; ordering
// comes from the owner IDs alone.
func TestDistribute_Deterministic(t *testing.T) {
	amount := money.MustParse("250.33")

	forward := []*fraction.Fraction{
		frac(ownerA, 1, 3), frac(ownerB, 1, 3), frac(ownerC, 1, 3),
	}
	reversed := []*fraction.Fraction{
		frac(ownerC, 1, 3), frac(ownerB, 1, 3), frac(ownerA, 1, 3),
	}

	got1, err := allocate.Distribute(amount, forward)
	require.NoError(t, err)

	got2, err := allocate.Distribute(amount, reversed)
	require.NoError(t, err)

	assert.Equal(t, got1, got2)
}

func TestDistribute_RemainderOnLastOwner(t *testing.T) {
	// 100.00 / 3: the two lowest owners get the rounded 33.33, the
	// highest owner absorbs the extra cent.
	shares, err := allocate.Distribute(money.MustParse("100.00"), []*fraction.Fraction{
		frac(ownerB, 1, 3),
		frac(ownerC, 1, 3),
		frac(ownerA, 1, 3),
	})
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.Equal(t, money.MustParse("33.33"), shares[0].Amount)
	assert.Equal(t, money.MustParse("33.33"), shares[1].Amount)
	assert.Equal(t, ownerC, shares[2].OwnerID)
	assert.Equal(t, money.MustParse("33.34"), shares[2].Amount)
}

func TestDistribute_HalfEvenRounding(t *testing.T) {
	// 0.01 * 1/2 = 0.005 cents: the tie rounds to the even quotient 0,
	// so the full cent falls to the last owner.
	shares, err := allocate.Distribute(money.MustParse("0.01"), []*fraction.Fraction{
		frac(ownerA, 1, 2),
		frac(ownerB, 1, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, money.Amount(0), shares[0].Amount)
	assert.Equal(t, money.Amount(1), shares[1].Amount)

	// 0.03 * 1/2 = 1.5 cents: the tie rounds up to the even quotient 2.
	shares, err = allocate.Distribute(money.MustParse("0.03"), []*fraction.Fraction{
		frac(ownerA, 1, 2),
		frac(ownerB, 1, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, money.Amount(2), shares[0].Amount)
	assert.Equal(t, money.Amount(1), shares[1].Amount)
}
