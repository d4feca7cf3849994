package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a user's identity plus their current balance.
// Balance is an exact decimal with 2 fractional digits, never a float.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Handle    string          `json:"handle"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	Role      string          `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// Relation is one entry of an account's connection list: a peer the
// owner is allowed to send money to.
type Relation struct {
	PeerID uuid.UUID `json:"peer_id"`
	Handle string    `json:"handle"`
}

// Transaction is the immutable record of one completed transfer.
// The timestamp is assigned by the database at persist time.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	SenderID    uuid.UUID       `json:"sender_id"`
	ReceiverID  uuid.UUID       `json:"receiver_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Direction selects the sign of a balance adjustment.
type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

// ParseDirection validates a direction string coming from the transport layer.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Credit:
		return Credit, nil
	case Debit:
		return Debit, nil
	}
	return "", ErrInvalidRequest
}
