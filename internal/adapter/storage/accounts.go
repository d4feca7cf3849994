package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// AccountRepository is the Postgres-backed account store. Balances travel as
// text on the wire and as decimals in memory; floats never touch money.
type AccountRepository struct {
	db      *pgxpool.Pool
	ceiling decimal.Decimal
}

func NewAccountRepository(db *pgxpool.Pool, ceiling decimal.Decimal) *AccountRepository {
	return &AccountRepository{db: db, ceiling: ceiling}
}

const accountColumns = `id, handle, email, balance::text, role, created_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		acc     domain.Account
		balance string
	)
	err := row.Scan(&acc.ID, &acc.Handle, &acc.Email, &balance, &acc.Role, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	acc.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("corrupt balance for account %s: %w", acc.ID, err)
	}
	return &acc, nil
}

func (r *AccountRepository) Create(ctx context.Context, handle, email string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO accounts (handle, email)
		VALUES ($1, $2)
		RETURNING `+accountColumns, handle, email)

	acc, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation (handle or email already taken)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: handle or email already in use", domain.ErrInvalidRequest)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return acc, nil
}

func (r *AccountRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE handle = $1`, handle)
	return scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// SetBalance writes an already validated balance.
func (r *AccountRepository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET balance = $1 WHERE id = $2`,
		balance.StringFixed(2), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Adjust applies current ± amount under a row lock so that concurrent
// adjustments cannot both pass the range check against a stale balance.
func (r *AccountRepository) Adjust(ctx context.Context, id uuid.UUID, amount decimal.Decimal, direction domain.Direction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var raw string
	err = tx.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	current, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("corrupt balance for account %s: %w", id, err)
	}

	newBalance := current.Add(amount)
	if direction == domain.Debit {
		newBalance = current.Sub(amount)
	}
	if err := domain.CheckBalance(newBalance, r.ceiling); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, newBalance.StringFixed(2), id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
