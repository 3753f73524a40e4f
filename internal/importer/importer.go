// Package importer turns bank statement files into ledger operations.
package importer

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/ledger"
	"github.com/lbrossard/indivis/internal/money"
)

// Entry is one statement line, already normalized: a non-negative
// amount plus a direction.
type Entry struct {
	Date      time.Time
	Label     string
	Amount    money.Amount
	Direction estate.Direction
}

// Parser reads a statement file and produces entries.
type Parser interface {
	Parse(r io.Reader) ([]Entry, error)
}

type Service struct {
	parser Parser
	ledger *ledger.Service
}

func NewService(parser Parser, ledgerSvc *ledger.Service) *Service {
	return &Service{parser: parser, ledger: ledgerSvc}
}

// Options scope an import: every created operation lands on the given
// bank account; lot and category apply to all rows. A lot routes every
// row through the allocation engine.
type Options struct {
	BankAccountID uuid.UUID
	LotID         *uuid.UUID
	CategoryID    *uuid.UUID
}

// Import parses the statement and creates all operations in a single
// storage transaction.
func (s *Service) Import(ctx context.Context, r io.Reader, opts Options) ([]*ledger.Operation, error) {
	entries, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	params := make([]ledger.CreateParams, 0, len(entries))

	for _, e := range entries {
		params = append(params, ledger.CreateParams{
			Date:          e.Date,
			Amount:        e.Amount,
			Direction:     e.Direction,
			LotID:         opts.LotID,
			BankAccountID: opts.BankAccountID,
			CategoryID:    opts.CategoryID,
			Label:         e.Label,
		})
	}

	return s.ledger.CreateBatch(ctx, params)
}
