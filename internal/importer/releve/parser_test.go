package releve

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/money"
)

func TestParse_DebitCreditLayout(t *testing.T) {
	input := strings.Join([]string{
		"Date;Libellé;Débit;Crédit",
		"15/01/2024;PRLV SEPA EDF;-88,50;",
		"20/01/2024;VIR LOYER JANVIER;;650,00",
		";Solde au 31/01/2024;;561,50",
	}, "\n")

	entries, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), entries[0].Date)
	assert.Equal(t, "PRLV SEPA EDF", entries[0].Label)
	assert.Equal(t, money.MustParse("88.50"), entries[0].Amount)
	assert.Equal(t, estate.DirectionOutflow, entries[0].Direction)

	assert.Equal(t, "VIR LOYER JANVIER", entries[1].Label)
	assert.Equal(t, money.MustParse("650.00"), entries[1].Amount)
	assert.Equal(t, estate.DirectionInflow, entries[1].Direction)
}

func TestParse_SignedAmountLayout(t *testing.T) {
	input := strings.Join([]string{
		"Date;Libellé;Montant",
		"01/02/2024;TAXE FONCIERE;-1 234,56",
		"05/02/2024;REMBOURSEMENT;72,30",
	}, "\n")

	entries, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, money.MustParse("1234.56"), entries[0].Amount)
	assert.Equal(t, estate.DirectionOutflow, entries[0].Direction)
	assert.Equal(t, money.MustParse("72.30"), entries[1].Amount)
	assert.Equal(t, estate.DirectionInflow, entries[1].Direction)
}

func TestParse_OperationLayout(t *testing.T) {
	input := strings.Join([]string{
		"Date opération;Libellé opération;Montant",
		"2024-03-10;ASSURANCE PNO;-25,00",
	}, "\n")

	entries, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), entries[0].Date)
}

func TestParse_SkipsPreambleBeforeHeader(t *testing.T) {
	input := strings.Join([]string{
		"Relevé de compte",
		"Période: janvier 2024",
		"Date;Libellé;Montant",
		"15/01/2024;EAU;-40,00",
	}, "\n")

	entries, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "EAU", entries[0].Label)
}

func TestParse_NoMatchingLayout(t *testing.T) {
	input := "foo;bar\n1;2\n"

	_, err := New().Parse(strings.NewReader(input))
	assert.ErrorContains(t, err, "no matching statement layout")
}

func TestParse_Windows1252(t *testing.T) {
	// "Libellé" encoded in Windows-1252: é is a single 0xE9 byte.
	header := []byte("Date;Libell\xe9;Montant\n")
	row := []byte("15/01/2024;ENTRETIEN CHAUDI\xc8RE;-120,00\n")

	entries, err := New().Parse(bytes.NewReader(append(header, row...)))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "ENTRETIEN CHAUDIÈRE", entries[0].Label)
	assert.Equal(t, money.MustParse("120.00"), entries[0].Amount)
}

func TestParseFrenchAmount(t *testing.T) {
	type testCase struct {
		in      string
		want    money.Amount
		wantErr bool
	}

	tests := []testCase{
		{in: "10,00", want: 1000},
		{in: "-588,74", want: -58874},
		{in: "1 234,56", want: 123456},
		{in: "1.234,56", want: 123456},
		{in: "0,01", want: 1},
		{in: "650", want: 65000},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFrenchAmount(tt.in)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
