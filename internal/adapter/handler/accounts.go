package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
	"github.com/RayL2590/paymybuddy/internal/core/service"
)

type AccountHandler struct {
	Accounts *service.Accounts
}

type CreateAccountRequest struct {
	Handle string `json:"handle" validate:"required,max=64"`
	Email  string `json:"email" validate:"required,email"`
}

type AdjustBalanceRequest struct {
	// Amount is a decimal string ("25.00"); floats would lose cents.
	Amount    string `json:"amount" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=CREDIT DEBIT"`
}

func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	account, err := h.Accounts.Create(c.Context(), req.Handle, req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(account)
}

func (h *AccountHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	account, err := h.Accounts.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(account)
}

// Adjust is the administrative top-up/withdrawal path. It skips the
// connection checks but the balance range still applies.
func (h *AccountHandler) Adjust(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	var req AdjustBalanceRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fail(c, domain.ErrInvalidAmount)
	}
	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		return fail(c, err)
	}

	if err := h.Accounts.Adjust(c.Context(), id, amount, direction); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
