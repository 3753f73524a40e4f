package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migrate applies the schema. Every statement is idempotent so the
// function can run unconditionally at startup.
func Migrate(db *sql.DB) error {
	slog.Info("applying database migrations")

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}

	return nil
}

// Deletes are deliberately RESTRICT everywhere an operation or fraction
// references a record: removing a referenced owner, lot, account or
// category must fail instead of cascading. Allocations are the one
// exception, since they are owned by their operation.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS owners (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'READ',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS owners_email_idx ON owners (email) WHERE email <> ''`,

	`CREATE TABLE IF NOT EXISTS lots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'Appartement',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS bank_accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		iban TEXT NOT NULL DEFAULT '',
		initial_balance BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		default_direction TEXT NOT NULL DEFAULT 'OUTFLOW',
		kind TEXT NOT NULL DEFAULT 'PROPORTIONAL',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS fractions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		lot_id UUID NOT NULL REFERENCES lots (id) ON DELETE RESTRICT,
		owner_id UUID NOT NULL REFERENCES owners (id) ON DELETE RESTRICT,
		numerator BIGINT NOT NULL CHECK (numerator > 0),
		denominator BIGINT NOT NULL CHECK (denominator > 0),
		start_date DATE NOT NULL,
		end_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE INDEX IF NOT EXISTS fractions_lot_idx ON fractions (lot_id, start_date)`,

	`CREATE TABLE IF NOT EXISTS operations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		date DATE NOT NULL,
		amount BIGINT NOT NULL CHECK (amount >= 0),
		direction TEXT NOT NULL,
		lot_id UUID REFERENCES lots (id) ON DELETE RESTRICT,
		bank_account_id UUID NOT NULL REFERENCES bank_accounts (id) ON DELETE RESTRICT,
		category_id UUID REFERENCES categories (id) ON DELETE RESTRICT,
		label TEXT NOT NULL DEFAULT '',
		paid_by_owner_id UUID REFERENCES owners (id) ON DELETE RESTRICT,
		recipient_owner_id UUID REFERENCES owners (id) ON DELETE RESTRICT,
		proof_filename TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE INDEX IF NOT EXISTS operations_lot_idx ON operations (lot_id, date)`,
	`CREATE INDEX IF NOT EXISTS operations_account_idx ON operations (bank_account_id, date)`,

	`CREATE TABLE IF NOT EXISTS allocations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		operation_id UUID NOT NULL REFERENCES operations (id) ON DELETE CASCADE,
		owner_id UUID NOT NULL REFERENCES owners (id) ON DELETE RESTRICT,
		amount BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS allocations_operation_idx ON allocations (operation_id)`,
}
