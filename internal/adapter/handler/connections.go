package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
	"github.com/RayL2590/paymybuddy/internal/core/service"
)

type ConnectionHandler struct {
	Connections *service.Connections
}

type ConnectRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
	// Peer is an email address or a handle; the engine decides which.
	Peer string `json:"peer" validate:"required,max=255"`
}

func (h *ConnectionHandler) Create(c *fiber.Ctx) error {
	var req ConnectRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	if err := h.Connections.Connect(c.Context(), ownerID, req.Peer); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusCreated)
}

func (h *ConnectionHandler) List(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, domain.ErrInvalidRequest)
	}

	relations, err := h.Connections.List(c.Context(), ownerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"connections": relations})
}
