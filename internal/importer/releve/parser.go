// Package releve parses French bank CSV statements (relevés de compte).
// The column layout is auto-detected by matching header names against
// known profiles; amounts may come as one signed column or as separate
// debit/credit columns.
package releve

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/lbrossard/indivis/internal/encoding"
	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/importer"
	"github.com/lbrossard/indivis/internal/money"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]importer.Entry, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching statement layout: expected Date/Libellé with Montant or Débit/Crédit columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// dateLayouts are tried in order; French banks mix the two.
var dateLayouts = []string{"02/01/2006", "2006-01-02"}

func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]importer.Entry, error) {
	dateIdx := cols[p.DateCol]
	labelIdx := cols[p.LabelCol]

	var entries []importer.Entry

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, past the header

		date, ok := parseDate(row, dateIdx)
		if !ok {
			// Trailing balance lines and blank separators have no date.
			continue
		}

		label := cellValue(row, labelIdx)
		if label == "" {
			return nil, fmt.Errorf("row %d: missing label", rowNum)
		}

		amount, direction, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		entries = append(entries, importer.Entry{
			Date:      date,
			Label:     label,
			Amount:    amount,
			Direction: direction,
		})
	}

	return entries, nil
}

func parseDate(row []string, idx int) (time.Time, bool) {
	raw := cellValue(row, idx)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}

	return time.Time{}, false
}

// parseAmount extracts the magnitude and direction for one row.
func parseAmount(p *Profile, cols colIndex, row []string) (money.Amount, estate.Direction, bool) {
	switch p.AmountMode {
	case amountSplit:
		if raw := cellValue(row, cols[p.DebitCol]); raw != "" {
			amt, err := parseFrenchAmount(raw)
			if err != nil {
				return 0, "", false
			}

			return amt.Abs(), estate.DirectionOutflow, true
		}

		if raw := cellValue(row, cols[p.CreditCol]); raw != "" {
			amt, err := parseFrenchAmount(raw)
			if err != nil {
				return 0, "", false
			}

			return amt.Abs(), estate.DirectionInflow, true
		}

		return 0, "", false

	default:
		raw := cellValue(row, cols[p.AmountCol])
		if raw == "" {
			return 0, "", false
		}

		amt, err := parseFrenchAmount(raw)
		if err != nil {
			return 0, "", false
		}

		if amt < 0 {
			return -amt, estate.DirectionOutflow, true
		}

		return amt, estate.DirectionInflow, true
	}
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
