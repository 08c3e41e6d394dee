package notifications

import (
	"errors"

	notifsvc "auraestate-backend/internal/application/notifications"
	"auraestate-backend/internal/middleware"
	"auraestate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// GET /api/users/notifications
func (h *Handlers) List(c *fiber.Ctx) error {
	list, err := h.Service.List(c.UserContext(), middleware.GetActor(c).ID)
	if err != nil {
		return middleware.Fail(c, err)
	}
	return c.JSON(fiber.Map{"notifications": list})
}

// PUT /api/users/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, notifsvc.ErrNotificationNotFound.Error(), fiber.StatusNotFound)
	}
	n, err := h.Service.MarkRead(c.UserContext(), middleware.GetActor(c).ID, id)
	if err != nil {
		if errors.Is(err, notifsvc.ErrNotificationNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return middleware.Fail(c, err)
	}
	return c.JSON(fiber.Map{"notification": n})
}
