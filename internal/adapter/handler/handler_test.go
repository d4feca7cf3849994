package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
	"github.com/RayL2590/paymybuddy/internal/core/service"
)

// testBank is a minimal in-memory backend for handler tests. Handlers are
// exercised through the real services so the full error taxonomy flows
// through the status mapping.
type testBank struct {
	accounts map[uuid.UUID]*domain.Account
	edges    map[[2]uuid.UUID]struct{}
	txs      []domain.Transaction
}

func newTestBank() *testBank {
	return &testBank{
		accounts: make(map[uuid.UUID]*domain.Account),
		edges:    make(map[[2]uuid.UUID]struct{}),
	}
}

func (b *testBank) addAccount(handle, email, balance string) uuid.UUID {
	acc := &domain.Account{
		ID:      uuid.New(),
		Handle:  handle,
		Email:   email,
		Balance: decimal.RequireFromString(balance),
		Role:    "USER",
	}
	b.accounts[acc.ID] = acc
	return acc.ID
}

func (b *testBank) addEdge(x, y uuid.UUID) {
	b.edges[[2]uuid.UUID{x, y}] = struct{}{}
	b.edges[[2]uuid.UUID{y, x}] = struct{}{}
}

func (b *testBank) Create(_ context.Context, handle, email string) (*domain.Account, error) {
	for _, acc := range b.accounts {
		if acc.Handle == handle || acc.Email == email {
			return nil, fmt.Errorf("%w: handle or email already in use", domain.ErrInvalidRequest)
		}
	}
	id := b.addAccount(handle, email, "0")
	return b.accounts[id], nil
}

func (b *testBank) Get(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	acc, ok := b.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return acc, nil
}

func (b *testBank) FindByHandle(_ context.Context, handle string) (*domain.Account, error) {
	for _, acc := range b.accounts {
		if acc.Handle == handle {
			return acc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *testBank) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, acc := range b.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *testBank) SetBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	acc, ok := b.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	acc.Balance = balance
	return nil
}

func (b *testBank) Adjust(_ context.Context, id uuid.UUID, amount decimal.Decimal, direction domain.Direction) error {
	acc, ok := b.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	newBalance := acc.Balance.Add(amount)
	if direction == domain.Debit {
		newBalance = acc.Balance.Sub(amount)
	}
	if err := domain.CheckBalance(newBalance, domain.DefaultCeiling); err != nil {
		return err
	}
	acc.Balance = newBalance
	return nil
}

func (b *testBank) Exists(_ context.Context, x, y uuid.UUID) (bool, error) {
	_, ok := b.edges[[2]uuid.UUID{x, y}]
	return ok, nil
}

func (b *testBank) CreatePair(_ context.Context, x, y uuid.UUID) error {
	b.addEdge(x, y)
	return nil
}

func (b *testBank) ListPeers(_ context.Context, owner uuid.UUID) ([]domain.Relation, error) {
	var relations []domain.Relation
	for edge := range b.edges {
		if edge[0] == owner {
			relations = append(relations, domain.Relation{PeerID: edge[1], Handle: b.accounts[edge[1]].Handle})
		}
	}
	return relations, nil
}

func (b *testBank) Settle(_ context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	sender, ok := b.accounts[senderID]
	if !ok {
		return nil, domain.ErrSenderNotFound
	}
	receiver, ok := b.accounts[receiverID]
	if !ok {
		return nil, domain.ErrReceiverNotFound
	}
	if sender.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	if err := domain.CheckBalance(receiver.Balance.Add(amount), domain.DefaultCeiling); err != nil {
		return nil, err
	}
	sender.Balance = sender.Balance.Sub(amount)
	receiver.Balance = receiver.Balance.Add(amount)
	record := domain.Transaction{
		ID: uuid.New(), SenderID: senderID, ReceiverID: receiverID,
		Description: description, Amount: amount, CreatedAt: time.Now(),
	}
	b.txs = append(b.txs, record)
	return &record, nil
}

func (b *testBank) FindByAccount(_ context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	var history []domain.Transaction
	for _, t := range b.txs {
		if t.SenderID == accountID || t.ReceiverID == accountID {
			history = append(history, t)
		}
	}
	return history, nil
}

func (b *testBank) FindByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	for i := range b.txs {
		if b.txs[i].ID == id {
			return &b.txs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *testBank) UpdateDescription(_ context.Context, id uuid.UUID, description string) (*domain.Transaction, error) {
	for i := range b.txs {
		if b.txs[i].ID == id {
			b.txs[i].Description = description
			return &b.txs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *testBank) Delete(_ context.Context, id uuid.UUID) error {
	for i := range b.txs {
		if b.txs[i].ID == id {
			b.txs = append(b.txs[:i], b.txs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// newTestApp wires the real services over the fake backend into a fiber app
// with the production routes.
func newTestApp(bank *testBank) *fiber.App {
	accounts := service.NewAccounts(bank, domain.DefaultCeiling)
	connections := service.NewConnections(bank, bank)
	transfers := service.NewTransfers(bank, bank, bank)
	ledger := service.NewLedger(bank)

	accountHandler := &AccountHandler{Accounts: accounts}
	connectionHandler := &ConnectionHandler{Connections: connections}
	transferHandler := &TransferHandler{Transfers: transfers, Ledger: ledger}

	app := fiber.New()
	api := app.Group("/v1")
	api.Post("/accounts", accountHandler.Create)
	api.Get("/accounts/:id", accountHandler.Get)
	api.Post("/accounts/:id/balance", accountHandler.Adjust)
	api.Get("/accounts/:id/connections", connectionHandler.List)
	api.Get("/accounts/:id/transactions", transferHandler.History)
	api.Post("/connections", connectionHandler.Create)
	api.Post("/transfers", transferHandler.Create)
	api.Patch("/transactions/:id", transferHandler.Update)
	api.Delete("/transactions/:id", transferHandler.Delete)
	return app
}
