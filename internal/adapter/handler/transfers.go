package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
	"github.com/RayL2590/paymybuddy/internal/core/service"
)

type TransferHandler struct {
	Transfers *service.Transfers
	Ledger    *service.Ledger
}

type TransferRequest struct {
	SenderID   string `json:"sender_id" validate:"required,uuid"`
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
	// Amount is a decimal string ("30.00"); floats would lose cents.
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,max=255"`
}

type UpdateTransactionRequest struct {
	ActorID     string `json:"actor_id" validate:"required,uuid"`
	Description string `json:"description" validate:"required,max=255"`
}

func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req TransferRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	senderID, err := uuid.Parse(req.SenderID)
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fail(c, domain.ErrInvalidAmount)
	}

	transaction, err := h.Transfers.Transfer(c.Context(), senderID, receiverID, amount, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(transaction)
}

// History lists every transaction the account was part of, oldest first.
func (h *TransferHandler) History(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	history, err := h.Ledger.FindByAccount(c.Context(), accountID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"transactions": history})
}

// Update rewrites a transaction's description. Only the sender or the
// receiver of the record may do this.
func (h *TransferHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	var req UpdateTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	updated, err := h.Ledger.UpdateDescription(c.Context(), actorID, id, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

// Delete removes a transaction record, same ownership rule as Update.
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}
	actorID, err := uuid.Parse(c.Query("actor_id"))
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	if err := h.Ledger.Delete(c.Context(), actorID, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
