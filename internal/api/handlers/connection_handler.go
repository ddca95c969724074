package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/service"
)

type ConnectionHandler struct {
	cs service.ConnectionService
}

func NewConnectionHandler(cs service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{cs: cs}
}

func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	connections, err := h.cs.List(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list connections",
		})
	}
	if connections == nil {
		connections = []*models.PlatformConnection{}
	}

	return c.Status(fiber.StatusOK).JSON(connections)
}

func (h *ConnectionHandler) DeleteConnection(c *fiber.Ctx) error {
	connectionID, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.cs.Delete(c.Context(), GetUserID(c), connectionID); err != nil {
		return errorResponse(c, err, "Connection not found", "Unable to remove connection")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
