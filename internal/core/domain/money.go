package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCeiling is the maximum balance an account may hold. A business rule
// inherited from the original product, not a technical limit; override it via
// the BALANCE_CEILING config value.
var DefaultCeiling = decimal.NewFromInt(10000)

// ValidAmount checks that an amount is usable as money in a movement:
// strictly positive and expressible in whole cents.
func ValidAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount must have at most 2 decimal places, got %s", ErrInvalidAmount, amount)
	}
	return nil
}

// CheckBalance is the single choke point for the balance range invariant.
// Every balance write in the system (settlement, admin adjustment, direct set)
// runs its candidate value through here before persisting.
func CheckBalance(balance, ceiling decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot go below 0, got %s", ErrInvalidAmount, balance)
	}
	if balance.GreaterThan(ceiling) {
		return fmt.Errorf("%w: balance cannot exceed %s, got %s", ErrInvalidAmount, ceiling, balance)
	}
	return nil
}
