package domain

import (
	"errors"
	"fmt"
)

// Typed errors surfaced by the transfer core. All of them are recoverable:
// the transport layer maps each one to a status code and a user-facing message.
var (
	// ErrInvalidRequest means the input was malformed or missing a field.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound means an account or transaction id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrSenderNotFound pins ErrNotFound to the sending side of a transfer.
	ErrSenderNotFound = fmt.Errorf("sender: %w", ErrNotFound)
	// ErrReceiverNotFound pins ErrNotFound to the receiving side of a transfer.
	ErrReceiverNotFound = fmt.Errorf("receiver: %w", ErrNotFound)
	// ErrNotAuthorized means the two accounts are not connected, or the actor
	// does not own the record they are trying to touch.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInsufficientFunds means the sender's balance is below the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAlreadyConnected means an edge already exists in either direction.
	ErrAlreadyConnected = errors.New("already connected")
	// ErrSelfConnection means an account tried to connect to itself.
	ErrSelfConnection = errors.New("cannot connect to yourself")
	// ErrInvalidAmount means an amount is non-positive, not a 2-decimal value,
	// or would push a balance outside the allowed range.
	ErrInvalidAmount = errors.New("invalid amount")
)
