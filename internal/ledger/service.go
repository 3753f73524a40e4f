package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/allocate"
	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/fraction"
	"github.com/lbrossard/indivis/internal/money"
)

var (
	ErrNotFound          = errors.New("operation not found")
	ErrNegativeAmount    = errors.New("operation amount must not be negative")
	ErrLotRequired       = errors.New("operation requires a lot unless its category is a direct redistribution")
	ErrRecipientRequired = errors.New("lot-free direct redistribution requires a recipient owner")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetOperation(ctx context.Context, id uuid.UUID) (*Operation, error)
	ListOperations(ctx context.Context, filter ListFilter) ([]*Operation, error)

	// Begin opens the single storage transaction every mutation runs
	// in. When lockLot is set, an advisory lock keyed by the lot ID
	// serializes writers touching that lot's fractions and operations.
	Begin(ctx context.Context, lockLot *uuid.UUID) (Tx, error)
}

type Tx interface {
	CreateOperation(ctx context.Context, op *Operation) error
	UpdateOperation(ctx context.Context, op *Operation) error
	DeleteOperation(ctx context.Context, id uuid.UUID) error

	CreateAllocations(ctx context.Context, allocs []*Allocation) error
	DeleteAllocations(ctx context.Context, operationID uuid.UUID) error

	OperationsByLot(ctx context.Context, lotID uuid.UUID) ([]*Operation, error)
	ActiveFractions(ctx context.Context, lotID uuid.UUID, date time.Time) ([]*fraction.Fraction, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*estate.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*estate.Category, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*estate.BankAccount, error)

	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date             time.Time
	Amount           money.Amount
	Direction        estate.Direction
	LotID            *uuid.UUID
	BankAccountID    uuid.UUID
	CategoryID       *uuid.UUID
	Label            string
	PaidByOwnerID    *uuid.UUID
	RecipientOwnerID *uuid.UUID
	ProofFilename    string
}

type ListFilter struct {
	LotID         *uuid.UUID
	BankAccountID *uuid.UUID
	CategoryID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// Create persists the operation and its freshly computed allocations in
// one storage transaction. A failure anywhere rolls back everything.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Operation, error) {
	if params.Amount < 0 {
		return nil, ErrNegativeAmount
	}

	op := &Operation{
		Date:             params.Date,
		Amount:           params.Amount,
		Direction:        params.Direction,
		LotID:            params.LotID,
		BankAccountID:    params.BankAccountID,
		CategoryID:       params.CategoryID,
		Label:            params.Label,
		PaidByOwnerID:    params.PaidByOwnerID,
		RecipientOwnerID: params.RecipientOwnerID,
		ProofFilename:    params.ProofFilename,
	}

	tx, err := s.repo.Begin(ctx, params.LotID)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkAllocatable(ctx, tx, op); err != nil {
		return nil, err
	}

	if err := tx.CreateOperation(ctx, op); err != nil {
		return nil, fmt.Errorf("create operation: %w", err)
	}

	if err := s.reallocate(ctx, tx, op); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return op, nil
}

// CreateBatch persists several operations and their allocations in one
// storage transaction; any failure rolls the whole batch back. All
// params must target the same lot (or none) because the batch takes a
// single lot lock.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Operation, error) {
	if len(params) == 0 {
		return nil, nil
	}

	tx, err := s.repo.Begin(ctx, params[0].LotID)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ops := make([]*Operation, 0, len(params))

	for _, p := range params {
		if p.Amount < 0 {
			return nil, ErrNegativeAmount
		}

		op := &Operation{
			Date:             p.Date,
			Amount:           p.Amount,
			Direction:        p.Direction,
			LotID:            p.LotID,
			BankAccountID:    p.BankAccountID,
			CategoryID:       p.CategoryID,
			Label:            p.Label,
			PaidByOwnerID:    p.PaidByOwnerID,
			RecipientOwnerID: p.RecipientOwnerID,
			ProofFilename:    p.ProofFilename,
		}

		if err := tx.CreateOperation(ctx, op); err != nil {
			return nil, fmt.Errorf("create operation: %w", err)
		}

		if op.LotID != nil {
			if err := s.reallocate(ctx, tx, op); err != nil {
				return nil, err
			}
		}

		ops = append(ops, op)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return ops, nil
}

// Update rewrites the operation and regenerates its allocations.
func (s *Service) Update(ctx context.Context, op *Operation) error {
	if op.Amount < 0 {
		return ErrNegativeAmount
	}

	tx, err := s.repo.Begin(ctx, op.LotID)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkAllocatable(ctx, tx, op); err != nil {
		return err
	}

	if err := tx.UpdateOperation(ctx, op); err != nil {
		return fmt.Errorf("update operation: %w", err)
	}

	if err := tx.DeleteAllocations(ctx, op.ID); err != nil {
		return fmt.Errorf("delete allocations: %w", err)
	}

	if err := s.reallocate(ctx, tx, op); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Delete removes the operation together with its allocations.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.repo.Begin(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.DeleteAllocations(ctx, id); err != nil {
		return fmt.Errorf("delete allocations: %w", err)
	}

	if err := tx.DeleteOperation(ctx, id); err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Operation, error) {
	return s.repo.GetOperation(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Operation, error) {
	return s.repo.ListOperations(ctx, filter)
}

// checkAllocatable rejects lot-free operations that are not direct
// redistributions, and direct redistributions without a recipient.
func (s *Service) checkAllocatable(ctx context.Context, tx Tx, op *Operation) error {
	if op.LotID != nil {
		return nil
	}

	if op.CategoryID == nil {
		return ErrLotRequired
	}

	cat, err := tx.GetCategory(ctx, *op.CategoryID)
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}

	if cat.Kind != estate.KindDirectRedistribution {
		return ErrLotRequired
	}

	if op.RecipientOwnerID == nil {
		return ErrRecipientRequired
	}

	return nil
}

// reallocate computes and stores the operation's allocations. A lot
// routes through the allocation engine; a lot-free direct
// redistribution assigns the full amount to the recipient owner.
// allocate.ErrNoActiveFractions propagates: the caller must not
// silently skip a distribution it asked for.
func (s *Service) reallocate(ctx context.Context, tx Tx, op *Operation) error {
	allocs, err := s.computeAllocations(ctx, tx, op)
	if err != nil {
		return err
	}

	op.Allocations = allocs
	if len(allocs) == 0 {
		return nil
	}

	if err := tx.CreateAllocations(ctx, allocs); err != nil {
		return fmt.Errorf("create allocations: %w", err)
	}

	return nil
}

func (s *Service) computeAllocations(ctx context.Context, tx Tx, op *Operation) ([]*Allocation, error) {
	switch {
	case op.LotID != nil:
		fractions, err := tx.ActiveFractions(ctx, *op.LotID, op.Date)
		if err != nil {
			return nil, fmt.Errorf("load active fractions: %w", err)
		}

		shares, err := allocate.Distribute(op.Amount, fractions)
		if err != nil {
			return nil, err
		}

		allocs := make([]*Allocation, 0, len(shares))
		for _, sh := range shares {
			allocs = append(allocs, &Allocation{
				OperationID: op.ID,
				OwnerID:     sh.OwnerID,
				Amount:      sh.Amount,
			})
		}

		return allocs, nil

	case op.RecipientOwnerID != nil:
		return []*Allocation{{
			OperationID: op.ID,
			OwnerID:     *op.RecipientOwnerID,
			Amount:      op.Amount,
		}}, nil

	default:
		return nil, nil
	}
}
