package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// Accounts exposes balance reads and the administrative balance mutations.
// It owns the configurable ceiling; every write path validates through
// domain.CheckBalance before anything is persisted.
type Accounts struct {
	repo    AccountRepo
	ceiling decimal.Decimal
}

func NewAccounts(repo AccountRepo, ceiling decimal.Decimal) *Accounts {
	return &Accounts{repo: repo, ceiling: ceiling}
}

// Create registers a new account with a zero balance. Credential handling
// lives elsewhere; this only reserves the identity.
func (s *Accounts) Create(ctx context.Context, handle, email string) (*domain.Account, error) {
	handle = strings.TrimSpace(handle)
	email = strings.TrimSpace(email)
	if handle == "" || email == "" {
		return nil, fmt.Errorf("%w: handle and email are required", domain.ErrInvalidRequest)
	}

	account, err := s.repo.Create(ctx, handle, email)
	if err != nil {
		return nil, err
	}

	slog.Info("Account created", "account_id", account.ID, "handle", account.Handle)
	return account, nil
}

func (s *Accounts) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// GetBalance returns the current balance of an account.
func (s *Accounts) GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// SetBalance overwrites an account's balance. This and Adjust are the only
// mutation paths outside settlement, and all of them enforce the same range.
func (s *Accounts) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	if err := domain.CheckBalance(balance, s.ceiling); err != nil {
		return err
	}
	if err := s.repo.SetBalance(ctx, id, balance); err != nil {
		return err
	}

	slog.Info("Balance set", "account_id", id, "balance", balance)
	return nil
}

// Adjust credits or debits an account outside the transfer path (top-up and
// withdrawal). It bypasses the connection checks but never the range invariant.
func (s *Accounts) Adjust(ctx context.Context, id uuid.UUID, amount decimal.Decimal, direction domain.Direction) error {
	if err := domain.ValidAmount(amount); err != nil {
		return err
	}
	if direction != domain.Credit && direction != domain.Debit {
		return fmt.Errorf("%w: unknown direction %q", domain.ErrInvalidRequest, direction)
	}

	if err := s.repo.Adjust(ctx, id, amount, direction); err != nil {
		return err
	}

	slog.Info("Balance adjusted", "account_id", id, "amount", amount, "direction", direction)
	return nil
}
