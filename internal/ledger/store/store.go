package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/estate"
	"github.com/lbrossard/indivis/internal/fraction"
	"github.com/lbrossard/indivis/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOperationColumns = `
	o.id, o.date, o.amount, o.direction, o.lot_id, o.bank_account_id,
	o.category_id, o.label, o.paid_by_owner_id, o.recipient_owner_id,
	o.proof_filename, o.created_at, o.updated_at
`

func scanOperation(s scanner) (*ledger.Operation, error) {
	var op ledger.Operation

	var direction string

	var proof sql.NullString

	if err := s.Scan(
		&op.ID, &op.Date, &op.Amount, &direction, &op.LotID, &op.BankAccountID,
		&op.CategoryID, &op.Label, &op.PaidByOwnerID, &op.RecipientOwnerID,
		&proof, &op.CreatedAt, &op.UpdatedAt,
	); err != nil {
		return nil, err
	}

	op.Direction = estate.Direction(direction)
	op.ProofFilename = proof.String

	return &op, nil
}

func (s *Store) GetOperation(ctx context.Context, id uuid.UUID) (*ledger.Operation, error) {
	query := `SELECT ` + selectOperationColumns + ` FROM operations o WHERE o.id = $1`

	op, err := scanOperation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting operation: %w", err)
	}

	allocs, err := queryAllocations(ctx, s.db, op.ID)
	if err != nil {
		return nil, err
	}

	op.Allocations = allocs

	return op, nil
}

func (s *Store) ListOperations(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Operation, error) {
	query := `SELECT ` + selectOperationColumns + ` FROM operations o WHERE 1=1`

	var args []any

	argIdx := 1

	addArg := func(clause string, v any) {
		query += fmt.Sprintf(clause, argIdx)

		args = append(args, v)
		argIdx++
	}

	if filter.LotID != nil {
		addArg(" AND o.lot_id = $%d", *filter.LotID)
	}

	if filter.BankAccountID != nil {
		addArg(" AND o.bank_account_id = $%d", *filter.BankAccountID)
	}

	if filter.CategoryID != nil {
		addArg(" AND o.category_id = $%d", *filter.CategoryID)
	}

	if filter.StartDate != nil {
		addArg(" AND o.date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		addArg(" AND o.date <= $%d", *filter.EndDate)
	}

	query += " ORDER BY o.date DESC, o.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*ledger.Operation

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}

		ops = append(ops, op)
	}

	return ops, rows.Err()
}

// lotLockKey derives the advisory-lock key serializing writers of one
// lot's operations and fractions.
func lotLockKey(lotID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(lotID[:])

	return int64(h.Sum64())
}

type ledgerTx struct {
	tx *sql.Tx
}

// Begin opens a storage transaction. With lockLot set it takes a
// transaction-scoped advisory lock on the lot, so a resync never races
// a concurrent operation edit on the same lot.
func (s *Store) Begin(ctx context.Context, lockLot *uuid.UUID) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	if lockLot != nil {
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lotLockKey(*lockLot)); err != nil {
			dbTx.Rollback()
			return nil, fmt.Errorf("acquiring lot lock: %w", err)
		}
	}

	return &ledgerTx{tx: dbTx}, nil
}

func (t *ledgerTx) Commit() error   { return t.tx.Commit() }
func (t *ledgerTx) Rollback() error { return t.tx.Rollback() }

func (t *ledgerTx) CreateOperation(ctx context.Context, op *ledger.Operation) error {
	query := `
		INSERT INTO operations (date, amount, direction, lot_id, bank_account_id, category_id,
			label, paid_by_owner_id, recipient_owner_id, proof_filename, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		op.Date, op.Amount, op.Direction, op.LotID, op.BankAccountID, op.CategoryID,
		op.Label, op.PaidByOwnerID, op.RecipientOwnerID, nullString(op.ProofFilename),
	).Scan(&op.ID, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating operation: %w", err)
	}

	return nil
}

func (t *ledgerTx) UpdateOperation(ctx context.Context, op *ledger.Operation) error {
	query := `
		UPDATE operations
		SET date = $1, amount = $2, direction = $3, lot_id = $4, bank_account_id = $5,
			category_id = $6, label = $7, paid_by_owner_id = $8, recipient_owner_id = $9,
			proof_filename = $10, updated_at = NOW()
		WHERE id = $11
	`

	if _, err := t.tx.ExecContext(ctx, query,
		op.Date, op.Amount, op.Direction, op.LotID, op.BankAccountID,
		op.CategoryID, op.Label, op.PaidByOwnerID, op.RecipientOwnerID,
		nullString(op.ProofFilename), op.ID,
	); err != nil {
		return fmt.Errorf("updating operation: %w", err)
	}

	return nil
}

func (t *ledgerTx) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM operations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting operation: %w", err)
	}

	return nil
}

func (t *ledgerTx) CreateAllocations(ctx context.Context, allocs []*ledger.Allocation) error {
	query := `
		INSERT INTO allocations (operation_id, owner_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	for _, a := range allocs {
		if err := t.tx.QueryRowContext(ctx, query, a.OperationID, a.OwnerID, a.Amount).Scan(&a.ID); err != nil {
			return fmt.Errorf("creating allocation: %w", err)
		}
	}

	return nil
}

func (t *ledgerTx) DeleteAllocations(ctx context.Context, operationID uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM allocations WHERE operation_id = $1`, operationID); err != nil {
		return fmt.Errorf("deleting allocations: %w", err)
	}

	return nil
}

func (t *ledgerTx) OperationsByLot(ctx context.Context, lotID uuid.UUID) ([]*ledger.Operation, error) {
	query := `SELECT ` + selectOperationColumns + `
		FROM operations o
		WHERE o.lot_id = $1
		ORDER BY o.date ASC, o.created_at ASC`

	rows, err := t.tx.QueryContext(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("listing lot operations: %w", err)
	}
	defer rows.Close()

	var ops []*ledger.Operation

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}

		ops = append(ops, op)
	}

	return ops, rows.Err()
}

func (t *ledgerTx) ActiveFractions(ctx context.Context, lotID uuid.UUID, date time.Time) ([]*fraction.Fraction, error) {
	query := `
		SELECT f.id, f.lot_id, f.owner_id, f.numerator, f.denominator,
			f.start_date, f.end_date, f.created_at, f.updated_at
		FROM fractions f
		WHERE f.lot_id = $1
		  AND f.start_date <= $2
		  AND (f.end_date IS NULL OR f.end_date >= $2)
		ORDER BY f.owner_id ASC`

	rows, err := t.tx.QueryContext(ctx, query, lotID, date)
	if err != nil {
		return nil, fmt.Errorf("listing active fractions: %w", err)
	}
	defer rows.Close()

	var fractions []*fraction.Fraction

	for rows.Next() {
		var f fraction.Fraction

		var endDate sql.NullTime

		if err := rows.Scan(
			&f.ID, &f.LotID, &f.OwnerID, &f.Numerator, &f.Denominator,
			&f.StartDate, &endDate, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning fraction: %w", err)
		}

		if endDate.Valid {
			f.EndDate = &endDate.Time
		}

		fractions = append(fractions, &f)
	}

	return fractions, rows.Err()
}

func (t *ledgerTx) GetCategory(ctx context.Context, id uuid.UUID) (*estate.Category, error) {
	query := `SELECT id, name, default_direction, kind, description, created_at
		FROM categories WHERE id = $1`

	return scanCategory(t.tx.QueryRowContext(ctx, query, id))
}

func (t *ledgerTx) FindCategoryByName(ctx context.Context, name string) (*estate.Category, error) {
	query := `SELECT id, name, default_direction, kind, description, created_at
		FROM categories WHERE name = $1`

	return scanCategory(t.tx.QueryRowContext(ctx, query, name))
}

func scanCategory(row *sql.Row) (*estate.Category, error) {
	var c estate.Category
	if err := row.Scan(
		&c.ID, &c.Name, &c.DefaultDirection, &c.Kind, &c.Description, &c.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, estate.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return &c, nil
}

func (t *ledgerTx) GetAccount(ctx context.Context, id uuid.UUID) (*estate.BankAccount, error) {
	query := `SELECT id, name, iban, initial_balance, created_at, updated_at
		FROM bank_accounts WHERE id = $1`

	var a estate.BankAccount
	if err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.IBAN, &a.InitialBalance, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, estate.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return &a, nil
}

func queryAllocations(ctx context.Context, db *sql.DB, operationID uuid.UUID) ([]*ledger.Allocation, error) {
	query := `SELECT id, operation_id, owner_id, amount
		FROM allocations WHERE operation_id = $1 ORDER BY owner_id ASC`

	rows, err := db.QueryContext(ctx, query, operationID)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*ledger.Allocation

	for rows.Next() {
		var a ledger.Allocation
		if err := rows.Scan(&a.ID, &a.OperationID, &a.OwnerID, &a.Amount); err != nil {
			return nil, fmt.Errorf("scanning allocation: %w", err)
		}

		allocs = append(allocs, &a)
	}

	return allocs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
