package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// LedgerRepository persists transactions and performs settlement. When a
// webhook URL is configured, every committed transfer also enqueues one
// receipt job inside the same transaction.
type LedgerRepository struct {
	db         *pgxpool.Pool
	ceiling    decimal.Decimal
	webhookURL string
}

func NewLedgerRepository(db *pgxpool.Pool, ceiling decimal.Decimal, webhookURL string) *LedgerRepository {
	return &LedgerRepository{db: db, ceiling: ceiling, webhookURL: webhookURL}
}

// Settle moves amount from sender to receiver and appends the transaction
// record, all in one database transaction. Both account rows are locked in
// ascending id order so that two transfers touching the same pair cannot
// deadlock, and the funds check runs against the locked balances.
func (r *LedgerRepository) Settle(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	balances := map[uuid.UUID]decimal.Decimal{}
	for _, id := range lockOrder(senderID, receiverID) {
		var raw string
		err := tx.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			if id == senderID {
				return nil, domain.ErrSenderNotFound
			}
			return nil, domain.ErrReceiverNotFound
		}
		if err != nil {
			return nil, err
		}
		balances[id], err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance for account %s: %w", id, err)
		}
	}

	senderBalance := balances[senderID].Sub(amount)
	receiverBalance := balances[receiverID].Add(amount)

	if senderBalance.IsNegative() {
		return nil, fmt.Errorf("%w: balance %s is below %s",
			domain.ErrInsufficientFunds, balances[senderID], amount)
	}
	if err := domain.CheckBalance(receiverBalance, r.ceiling); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, senderBalance.StringFixed(2), senderID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, receiverBalance.StringFixed(2), receiverID); err != nil {
		return nil, err
	}

	record := &domain.Transaction{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Description: description,
		Amount:      amount,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (sender_id, receiver_id, description, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		senderID, receiverID, description, amount.StringFixed(2),
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, err
	}

	if r.webhookURL != "" {
		if err := r.enqueueReceipt(ctx, tx, record); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *LedgerRepository) enqueueReceipt(ctx context.Context, tx pgx.Tx, record *domain.Transaction) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO receipt_jobs (url, payload) VALUES ($1, $2)`,
		r.webhookURL, payload)
	return err
}

// lockOrder returns the two ids in ascending byte order.
func lockOrder(a, b uuid.UUID) [2]uuid.UUID {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return [2]uuid.UUID{a, b}
	}
	return [2]uuid.UUID{b, a}
}

const transactionColumns = `id, sender_id, receiver_id, description, amount::text, created_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		amount string
	)
	err := row.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.Description, &amount, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount for transaction %s: %w", t.ID, err)
	}
	return &t, nil
}

// FindByAccount lists every transaction the account took part in, oldest first.
func (r *LedgerRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, *t)
	}
	return history, rows.Err()
}

func (r *LedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// UpdateDescription rewrites the description; amount and parties stay fixed.
func (r *LedgerRepository) UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE transactions SET description = $1 WHERE id = $2
		RETURNING `+transactionColumns, description, id)
	return scanTransaction(row)
}

func (r *LedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
