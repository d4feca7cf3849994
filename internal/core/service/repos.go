package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// AccountRepo is the persistence contract for accounts. The pgx
// implementation lives in internal/adapter/storage.
type AccountRepo interface {
	Create(ctx context.Context, handle, email string) (*domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	FindByHandle(ctx context.Context, handle string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// SetBalance persists an already range-checked balance.
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	// Adjust applies current ± amount under a row lock, re-checking the
	// range against the locked value before writing.
	Adjust(ctx context.Context, id uuid.UUID, amount decimal.Decimal, direction domain.Direction) error
}

// ConnectionRepo stores the may-pay graph as directed edges.
type ConnectionRepo interface {
	// Exists reports whether an edge exists in either direction.
	Exists(ctx context.Context, a, b uuid.UUID) (bool, error)
	// CreatePair inserts both directed edges in a single transaction;
	// one edge without its mirror must never be observable.
	CreatePair(ctx context.Context, a, b uuid.UUID) error
	ListPeers(ctx context.Context, owner uuid.UUID) ([]domain.Relation, error)
}

// LedgerRepo persists transactions and performs the atomic settlement.
type LedgerRepo interface {
	// Settle debits the sender, credits the receiver and appends the
	// transaction record as one atomic unit. The funds check runs inside
	// the same serialized section as the writes.
	Settle(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*domain.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
