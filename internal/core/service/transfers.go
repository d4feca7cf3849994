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

// MaxDescriptionLen caps the free-text description on a transfer.
const MaxDescriptionLen = 255

// Transfers is the transfer engine. A transfer runs through structural
// validation, account resolution, the connection check and the self-transfer
// guard before the atomic settlement; any failure leaves every balance and
// the ledger untouched.
type Transfers struct {
	accounts    AccountRepo
	connections ConnectionRepo
	ledger      LedgerRepo
}

func NewTransfers(accounts AccountRepo, connections ConnectionRepo, ledger LedgerRepo) *Transfers {
	return &Transfers{accounts: accounts, connections: connections, ledger: ledger}
}

// Transfer moves amount from sender to receiver and returns the persisted
// transaction record.
func (s *Transfers) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	// Structural validation first: nothing is resolved or locked yet.
	if receiverID == uuid.Nil {
		return nil, fmt.Errorf("%w: receiver is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidRequest)
	}
	if len(description) > MaxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidRequest, MaxDescriptionLen)
	}
	if err := domain.ValidAmount(amount); err != nil {
		return nil, err
	}

	sender, err := s.accounts.Get(ctx, senderID)
	if err != nil {
		return nil, domain.ErrSenderNotFound
	}
	receiver, err := s.accounts.Get(ctx, receiverID)
	if err != nil {
		return nil, domain.ErrReceiverNotFound
	}

	connected, err := s.connections.Exists(ctx, sender.ID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, fmt.Errorf("%w: you may only send money to your connections", domain.ErrNotAuthorized)
	}

	// Enforced on its own even though the graph disallows self-loops.
	if sender.ID == receiver.ID {
		return nil, fmt.Errorf("%w: cannot transfer to yourself", domain.ErrInvalidRequest)
	}

	// Funds check and both balance writes happen inside the settlement's
	// serialized section; checking here would race concurrent transfers.
	transaction, err := s.ledger.Settle(ctx, sender.ID, receiver.ID, amount, description)
	if err != nil {
		slog.Warn("Transfer failed", "sender_id", sender.ID, "receiver_id", receiver.ID, "amount", amount, "error", err)
		return nil, err
	}

	slog.Info("Transfer committed",
		"transaction_id", transaction.ID,
		"sender_id", sender.ID,
		"receiver_id", receiver.ID,
		"amount", amount)
	return transaction, nil
}
