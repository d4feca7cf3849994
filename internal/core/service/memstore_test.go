package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// memStore is an in-memory implementation of the three repository contracts.
// A single mutex serializes settlement the way row locks do in Postgres, so
// the concurrency properties can be exercised without a database.
type memStore struct {
	mu       sync.Mutex
	ceiling  decimal.Decimal
	accounts map[uuid.UUID]*domain.Account
	edges    map[[2]uuid.UUID]struct{}
	txs      []domain.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		ceiling:  domain.DefaultCeiling,
		accounts: make(map[uuid.UUID]*domain.Account),
		edges:    make(map[[2]uuid.UUID]struct{}),
	}
}

func (m *memStore) addAccount(handle, email, balance string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := &domain.Account{
		ID:        uuid.New(),
		Handle:    handle,
		Email:     email,
		Balance:   decimal.RequireFromString(balance),
		Role:      "USER",
		CreatedAt: time.Now(),
	}
	m.accounts[acc.ID] = acc
	return acc.ID
}

func (m *memStore) addEdge(a, b uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[[2]uuid.UUID{a, b}] = struct{}{}
	m.edges[[2]uuid.UUID{b, a}] = struct{}{}
}

func (m *memStore) balance(id uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id].Balance
}

// --- AccountRepo ---

func (m *memStore) Create(_ context.Context, handle, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Handle == handle || acc.Email == email {
			return nil, fmt.Errorf("%w: handle or email already in use", domain.ErrInvalidRequest)
		}
	}
	acc := &domain.Account{
		ID:        uuid.New(),
		Handle:    handle,
		Email:     email,
		Balance:   decimal.Zero,
		Role:      "USER",
		CreatedAt: time.Now(),
	}
	m.accounts[acc.ID] = acc
	return acc, nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *acc
	return &copied, nil
}

func (m *memStore) FindByHandle(_ context.Context, handle string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Handle == handle {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Email == email {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) SetBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	acc.Balance = balance
	return nil
}

func (m *memStore) Adjust(_ context.Context, id uuid.UUID, amount decimal.Decimal, direction domain.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	newBalance := acc.Balance.Add(amount)
	if direction == domain.Debit {
		newBalance = acc.Balance.Sub(amount)
	}
	if err := domain.CheckBalance(newBalance, m.ceiling); err != nil {
		return err
	}
	acc.Balance = newBalance
	return nil
}

// --- ConnectionRepo ---

func (m *memStore) Exists(_ context.Context, a, b uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.edges[[2]uuid.UUID{a, b}]; ok {
		return true, nil
	}
	_, ok := m.edges[[2]uuid.UUID{b, a}]
	return ok, nil
}

func (m *memStore) CreatePair(_ context.Context, a, b uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[[2]uuid.UUID{a, b}] = struct{}{}
	m.edges[[2]uuid.UUID{b, a}] = struct{}{}
	return nil
}

func (m *memStore) ListPeers(_ context.Context, owner uuid.UUID) ([]domain.Relation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var relations []domain.Relation
	for edge := range m.edges {
		if edge[0] == owner {
			relations = append(relations, domain.Relation{
				PeerID: edge[1],
				Handle: m.accounts[edge[1]].Handle,
			})
		}
	}
	return relations, nil
}

// --- LedgerRepo ---

func (m *memStore) Settle(_ context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sender, ok := m.accounts[senderID]
	if !ok {
		return nil, domain.ErrSenderNotFound
	}
	receiver, ok := m.accounts[receiverID]
	if !ok {
		return nil, domain.ErrReceiverNotFound
	}

	senderBalance := sender.Balance.Sub(amount)
	receiverBalance := receiver.Balance.Add(amount)
	if senderBalance.IsNegative() {
		return nil, fmt.Errorf("%w: balance %s is below %s", domain.ErrInsufficientFunds, sender.Balance, amount)
	}
	if err := domain.CheckBalance(receiverBalance, m.ceiling); err != nil {
		return nil, err
	}

	sender.Balance = senderBalance
	receiver.Balance = receiverBalance

	record := domain.Transaction{
		ID:          uuid.New(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Description: description,
		Amount:      amount,
		CreatedAt:   time.Now(),
	}
	m.txs = append(m.txs, record)
	return &record, nil
}

func (m *memStore) FindByAccount(_ context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var history []domain.Transaction
	for _, t := range m.txs {
		if t.SenderID == accountID || t.ReceiverID == accountID {
			history = append(history, t)
		}
	}
	return history, nil
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.txs {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) UpdateDescription(_ context.Context, id uuid.UUID, description string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.txs {
		if m.txs[i].ID == id {
			m.txs[i].Description = description
			copied := m.txs[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.txs {
		if m.txs[i].ID == id {
			m.txs = append(m.txs[:i], m.txs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
