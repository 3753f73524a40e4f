package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/money"
)

type TransferParams struct {
	Date          time.Time
	Amount        money.Amount
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	LotID         *uuid.UUID
	Label         string
}

// ComposeTransfer creates a matched debit/credit pair: an outflow on the
// source account and an inflow on the destination, same amount, labels
// cross-referencing the other account's name. Categories are best
// effort (FRAIS_BANCAIRES for the outflow, AUTRE for the inflow, either
// standing in for a missing one, nil if both are absent; a missing
// category never fails the transfer). Both operations get their IDs
// before distribution so allocation foreign keys are valid; with a lot,
// each leg is distributed independently.
func (s *Service) ComposeTransfer(ctx context.Context, params TransferParams) (*Operation, *Operation, error) {
	if params.Amount < 0 {
		return nil, nil, ErrNegativeAmount
	}

	tx, err := s.repo.Begin(ctx, params.LotID)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	fromName := s.accountName(ctx, tx, params.FromAccountID)
	toName := s.accountName(ctx, tx, params.ToAccountID)

	outCat := s.transferCategory(ctx, tx, estate.CategoryFraisBancaires, estate.CategoryAutre)
	inCat := s.transferCategory(ctx, tx, estate.CategoryAutre, estate.CategoryFraisBancaires)

	outflow := &Operation{
		Date:          params.Date,
		Amount:        params.Amount,
		Direction:     estate.DirectionOutflow,
		LotID:         params.LotID,
		BankAccountID: params.FromAccountID,
		CategoryID:    outCat,
		Label:         fmt.Sprintf("Vir. vers %s: %s", toName, params.Label),
	}

	inflow := &Operation{
		Date:          params.Date,
		Amount:        params.Amount,
		Direction:     estate.DirectionInflow,
		LotID:         params.LotID,
		BankAccountID: params.ToAccountID,
		CategoryID:    inCat,
		Label:         fmt.Sprintf("Vir. depuis %s: %s", fromName, params.Label),
	}

	for _, op := range []*Operation{outflow, inflow} {
		if err := tx.CreateOperation(ctx, op); err != nil {
			return nil, nil, fmt.Errorf("create transfer leg: %w", err)
		}
	}

	if params.LotID != nil {
		for _, op := range []*Operation{outflow, inflow} {
			if err := s.reallocate(ctx, tx, op); err != nil {
				return nil, nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	return outflow, inflow, nil
}

// accountName falls back to the raw ID when the account cannot be loaded.
func (s *Service) accountName(ctx context.Context, tx Tx, id uuid.UUID) string {
	acc, err := tx.GetAccount(ctx, id)
	if err != nil {
		return id.String()
	}

	return acc.Name
}

// transferCategory tries the preferred category name, then the
// fallback, and settles for nil when neither exists.
func (s *Service) transferCategory(ctx context.Context, tx Tx, preferred, fallback string) *uuid.UUID {
	for _, name := range []string{preferred, fallback} {
		cat, err := tx.FindCategoryByName(ctx, name)
		if err == nil {
			return &cat.ID
		}

		if !errors.Is(err, estate.ErrNotFound) {
			return nil
		}
	}

	return nil
}
