package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lbrossard/indivis/internal/estate"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const fkViolation = "23503"

// asEstateErr translates storage errors into the package's sentinel
// errors: missing rows become ErrNotFound, foreign-key violations on
// delete become ErrInUse so referenced records are never cascaded away.
func asEstateErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return estate.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
		return estate.ErrInUse
	}

	return err
}

// --- Owners ---

func (s *Store) CreateOwner(ctx context.Context, o *estate.Owner) error {
	query := `
		INSERT INTO owners (name, email, phone, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		o.Name, o.Email, o.Phone, o.Role, o.PasswordHash,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating owner: %w", err)
	}

	return nil
}

func (s *Store) GetOwner(ctx context.Context, id uuid.UUID) (*estate.Owner, error) {
	query := `SELECT id, name, email, phone, role, password_hash, created_at, updated_at
		FROM owners WHERE id = $1`

	var o estate.Owner
	if err := s.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.Email, &o.Phone, &o.Role, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, asEstateErr(err)
	}

	return &o, nil
}

func (s *Store) GetOwnerByEmail(ctx context.Context, email string) (*estate.Owner, error) {
	query := `SELECT id, name, email, phone, role, password_hash, created_at, updated_at
		FROM owners WHERE email = $1`

	var o estate.Owner
	if err := s.db.QueryRowContext(ctx, query, email).Scan(
		&o.ID, &o.Name, &o.Email, &o.Phone, &o.Role, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, asEstateErr(err)
	}

	return &o, nil
}

func (s *Store) ListOwners(ctx context.Context) ([]*estate.Owner, error) {
	query := `SELECT id, name, email, phone, role, password_hash, created_at, updated_at
		FROM owners ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	defer rows.Close()

	var owners []*estate.Owner

	for rows.Next() {
		var o estate.Owner
		if err := rows.Scan(
			&o.ID, &o.Name, &o.Email, &o.Phone, &o.Role, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}

		owners = append(owners, &o)
	}

	return owners, rows.Err()
}

func (s *Store) UpdateOwner(ctx context.Context, o *estate.Owner) error {
	query := `
		UPDATE owners
		SET name = $1, email = $2, phone = $3, role = $4, password_hash = $5, updated_at = NOW()
		WHERE id = $6
	`

	if _, err := s.db.ExecContext(ctx, query,
		o.Name, o.Email, o.Phone, o.Role, o.PasswordHash, o.ID,
	); err != nil {
		return fmt.Errorf("updating owner: %w", err)
	}

	return nil
}

func (s *Store) DeleteOwner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id); err != nil {
		return asEstateErr(err)
	}

	return nil
}

// --- Lots ---

func (s *Store) CreateLot(ctx context.Context, l *estate.Lot) error {
	query := `
		INSERT INTO lots (name, kind, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, l.Name, l.Kind, l.Description).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating lot: %w", err)
	}

	return nil
}

func (s *Store) GetLot(ctx context.Context, id uuid.UUID) (*estate.Lot, error) {
	query := `SELECT id, name, kind, description, created_at, updated_at FROM lots WHERE id = $1`

	var l estate.Lot
	if err := s.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Kind, &l.Description, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, asEstateErr(err)
	}

	return &l, nil
}

func (s *Store) ListLots(ctx context.Context) ([]*estate.Lot, error) {
	query := `SELECT id, name, kind, description, created_at, updated_at FROM lots ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	defer rows.Close()

	var lots []*estate.Lot

	for rows.Next() {
		var l estate.Lot
		if err := rows.Scan(&l.ID, &l.Name, &l.Kind, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning lot: %w", err)
		}

		lots = append(lots, &l)
	}

	return lots, rows.Err()
}

func (s *Store) UpdateLot(ctx context.Context, l *estate.Lot) error {
	query := `
		UPDATE lots SET name = $1, kind = $2, description = $3, updated_at = NOW() WHERE id = $4
	`

	if _, err := s.db.ExecContext(ctx, query, l.Name, l.Kind, l.Description, l.ID); err != nil {
		return fmt.Errorf("updating lot: %w", err)
	}

	return nil
}

func (s *Store) DeleteLot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM lots WHERE id = $1`, id); err != nil {
		return asEstateErr(err)
	}

	return nil
}

// --- Bank accounts ---

func (s *Store) CreateAccount(ctx context.Context, a *estate.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (name, iban, initial_balance, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, a.Name, a.IBAN, a.InitialBalance).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*estate.BankAccount, error) {
	query := `SELECT id, name, iban, initial_balance, created_at, updated_at
		FROM bank_accounts WHERE id = $1`

	var a estate.BankAccount
	if err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.IBAN, &a.InitialBalance, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, asEstateErr(err)
	}

	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*estate.BankAccount, error) {
	query := `SELECT id, name, iban, initial_balance, created_at, updated_at
		FROM bank_accounts ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*estate.BankAccount

	for rows.Next() {
		var a estate.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.IBAN, &a.InitialBalance, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, &a)
	}

	return accounts, rows.Err()
}

func (s *Store) UpdateAccount(ctx context.Context, a *estate.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET name = $1, iban = $2, initial_balance = $3, updated_at = NOW()
		WHERE id = $4
	`

	if _, err := s.db.ExecContext(ctx, query, a.Name, a.IBAN, a.InitialBalance, a.ID); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id); err != nil {
		return asEstateErr(err)
	}

	return nil
}

// --- Categories ---

func (s *Store) CreateCategory(ctx context.Context, c *estate.Category) error {
	query := `
		INSERT INTO categories (name, default_direction, kind, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name, c.DefaultDirection, c.Kind, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*estate.Category, error) {
	query := `SELECT id, name, default_direction, kind, description, created_at
		FROM categories WHERE id = $1`

	return s.scanCategoryRow(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*estate.Category, error) {
	query := `SELECT id, name, default_direction, kind, description, created_at
		FROM categories WHERE name = $1`

	return s.scanCategoryRow(s.db.QueryRowContext(ctx, query, name))
}

func (s *Store) scanCategoryRow(row *sql.Row) (*estate.Category, error) {
	var c estate.Category
	if err := row.Scan(
		&c.ID, &c.Name, &c.DefaultDirection, &c.Kind, &c.Description, &c.CreatedAt,
	); err != nil {
		return nil, asEstateErr(err)
	}

	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*estate.Category, error) {
	query := `SELECT id, name, default_direction, kind, description, created_at
		FROM categories ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*estate.Category

	for rows.Next() {
		var c estate.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.DefaultDirection, &c.Kind, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return asEstateErr(err)
	}

	return nil
}
