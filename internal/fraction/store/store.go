package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lbrossard/indivis/internal/fraction"
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

const selectFractionColumns = `
	f.id, f.lot_id, f.owner_id, f.numerator, f.denominator,
	f.start_date, f.end_date, f.created_at, f.updated_at
`

func scanFraction(s scanner) (*fraction.Fraction, error) {
	var f fraction.Fraction

	var endDate sql.NullTime

	if err := s.Scan(
		&f.ID, &f.LotID, &f.OwnerID, &f.Numerator, &f.Denominator,
		&f.StartDate, &endDate, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if endDate.Valid {
		f.EndDate = &endDate.Time
	}

	return &f, nil
}

func (s *Store) CreateFraction(ctx context.Context, f *fraction.Fraction) error {
	query := `
		INSERT INTO fractions (lot_id, owner_id, numerator, denominator, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		f.LotID, f.OwnerID, f.Numerator, f.Denominator, f.StartDate, f.EndDate,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating fraction: %w", err)
	}

	return nil
}

func (s *Store) GetFraction(ctx context.Context, id uuid.UUID) (*fraction.Fraction, error) {
	query := `SELECT ` + selectFractionColumns + ` FROM fractions f WHERE f.id = $1`

	f, err := scanFraction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fraction.ErrNotFound
		}

		return nil, fmt.Errorf("getting fraction: %w", err)
	}

	return f, nil
}

func (s *Store) UpdateFraction(ctx context.Context, f *fraction.Fraction) error {
	query := `
		UPDATE fractions
		SET owner_id = $1, numerator = $2, denominator = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		f.OwnerID, f.Numerator, f.Denominator, f.StartDate, f.EndDate, f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating fraction: %w", err)
	}

	return nil
}

func (s *Store) DeleteFraction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fractions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting fraction: %w", err)
	}

	return nil
}

func (s *Store) ListFractions(ctx context.Context, lotID uuid.UUID) ([]*fraction.Fraction, error) {
	query := `SELECT ` + selectFractionColumns + `
		FROM fractions f
		WHERE f.lot_id = $1
		ORDER BY f.start_date ASC, f.owner_id ASC`

	return s.queryFractions(ctx, query, lotID)
}

func (s *Store) ActiveFractions(ctx context.Context, lotID uuid.UUID, date time.Time) ([]*fraction.Fraction, error) {
	query := `SELECT ` + selectFractionColumns + `
		FROM fractions f
		WHERE f.lot_id = $1
		  AND f.start_date <= $2
		  AND (f.end_date IS NULL OR f.end_date >= $2)
		ORDER BY f.owner_id ASC`

	return s.queryFractions(ctx, query, lotID, date)
}

func (s *Store) queryFractions(ctx context.Context, query string, args ...any) ([]*fraction.Fraction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing fractions: %w", err)
	}
	defer rows.Close()

	var fractions []*fraction.Fraction

	for rows.Next() {
		f, err := scanFraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fraction: %w", err)
		}

		fractions = append(fractions, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fraction rows: %w", err)
	}

	return fractions, nil
}
