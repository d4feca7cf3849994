package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// Ledger exposes the transaction history and the administrative edit/delete
// path. Records are created only by settlement; here a record can be touched
// solely by one of its own parties, and only the description is mutable.
type Ledger struct {
	repo LedgerRepo
}

func NewLedger(repo LedgerRepo) *Ledger {
	return &Ledger{repo: repo}
}

// FindByAccount returns every transaction where the account is sender or
// receiver, in creation order.
func (s *Ledger) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	return s.repo.FindByAccount(ctx, accountID)
}

func (s *Ledger) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateDescription rewrites a record's description on behalf of actorID.
func (s *Ledger) UpdateDescription(ctx context.Context, actorID, id uuid.UUID, description string) (*domain.Transaction, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidRequest)
	}
	if len(description) > MaxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidRequest, MaxDescriptionLen)
	}

	if err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateDescription(ctx, id, description)
	if err != nil {
		return nil, err
	}

	slog.Info("Transaction description updated", "transaction_id", id, "actor_id", actorID)
	return updated, nil
}

// Delete removes a record on behalf of actorID.
func (s *Ledger) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.authorize(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Transaction deleted", "transaction_id", id, "actor_id", actorID)
	return nil
}

// authorize admits only the sender or the receiver of the record.
func (s *Ledger) authorize(ctx context.Context, actorID, id uuid.UUID) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actorID != record.SenderID && actorID != record.ReceiverID {
		return fmt.Errorf("%w: only the sender or receiver may modify this transaction", domain.ErrNotAuthorized)
	}
	return nil
}
