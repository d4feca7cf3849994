package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// Connections manages the may-pay graph between accounts.
type Connections struct {
	accounts AccountRepo
	repo     ConnectionRepo
}

func NewConnections(accounts AccountRepo, repo ConnectionRepo) *Connections {
	return &Connections{accounts: accounts, repo: repo}
}

// AreConnected reports whether two accounts may pay each other. The graph is
// symmetric, so the lookup is directionless.
func (s *Connections) AreConnected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, a, b)
}

// Connect adds a mutual connection between the owner and the account that
// peerIdentifier resolves to. An identifier that looks like an email address
// is resolved by email, anything else by handle.
func (s *Connections) Connect(ctx context.Context, ownerID uuid.UUID, peerIdentifier string) error {
	peerIdentifier = strings.TrimSpace(peerIdentifier)
	if peerIdentifier == "" {
		return fmt.Errorf("%w: peer identifier is required", domain.ErrInvalidRequest)
	}

	owner, err := s.accounts.Get(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("owner: %w", err)
	}

	peer, err := s.resolve(ctx, peerIdentifier)
	if err != nil {
		return err
	}

	if peer.ID == owner.ID {
		return domain.ErrSelfConnection
	}

	exists, err := s.repo.Exists(ctx, owner.ID, peer.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyConnected
	}

	if err := s.repo.CreatePair(ctx, owner.ID, peer.ID); err != nil {
		return err
	}

	slog.Info("Connection added", "owner_id", owner.ID, "peer_id", peer.ID)
	return nil
}

// List returns the owner's connections as id/handle pairs.
func (s *Connections) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Relation, error) {
	if _, err := s.accounts.Get(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListPeers(ctx, ownerID)
}

func (s *Connections) resolve(ctx context.Context, identifier string) (*domain.Account, error) {
	if strings.Contains(identifier, "@") {
		return s.accounts.FindByEmail(ctx, identifier)
	}
	return s.accounts.FindByHandle(ctx, identifier)
}
