package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup; every statement is idempotent. The CHECK
// constraints are a backstop, the range is enforced in code before writes.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		handle TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		balance NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		role TEXT NOT NULL DEFAULT 'USER',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS connections (
		owner_id UUID NOT NULL REFERENCES accounts(id),
		peer_id UUID NOT NULL REFERENCES accounts(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (owner_id, peer_id),
		CHECK (owner_id <> peer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		sender_id UUID NOT NULL REFERENCES accounts(id),
		receiver_id UUID NOT NULL REFERENCES accounts(id),
		description VARCHAR(255) NOT NULL,
		amount NUMERIC(10,2) NOT NULL CHECK (amount > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_sender ON transactions (sender_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_receiver ON transactions (receiver_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS receipt_jobs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		url TEXT NOT NULL,
		payload JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		attempts INT NOT NULL DEFAULT 0,
		next_run_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key_id TEXT PRIMARY KEY,
		response_status INT NOT NULL,
		response_body BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema. Safe to run on every boot.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
