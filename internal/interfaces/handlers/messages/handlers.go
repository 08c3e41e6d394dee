package messages

import (
	"encoding/json"
	"errors"

	msgsvc "auraestate-backend/internal/application/messages"
	"auraestate-backend/internal/middleware"
	"auraestate-backend/internal/pkg/response"
	"auraestate-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *msgsvc.Service
}

func fail(c *fiber.Ctx, err error) error {
	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		return response.Validation(c, verrs)
	case errors.Is(err, msgsvc.ErrRecipientNotFound),
		errors.Is(err, msgsvc.ErrPropertyNotFound),
		errors.Is(err, msgsvc.ErrMessageNotFound),
		errors.Is(err, msgsvc.ErrUserNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound)
	case errors.Is(err, msgsvc.ErrNotAuthorized):
		return response.Error(c, err.Error(), fiber.StatusForbidden)
	case errors.Is(err, msgsvc.ErrSelfMessage):
		return response.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return middleware.Fail(c, err)
}

// GET /api/messages/conversations
func (h *Handlers) Conversations(c *fiber.Ctx) error {
	convs, err := h.Service.Conversations(c.UserContext(), middleware.GetActor(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversations": convs})
}

// GET /api/messages/unread/count
func (h *Handlers) UnreadCount(c *fiber.Ctx) error {
	n, err := h.Service.UnreadCount(c.UserContext(), middleware.GetActor(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// GET /api/messages/:userId?propertyId=&page=&limit=
func (h *Handlers) Thread(c *fiber.Ctx) error {
	other, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, msgsvc.ErrUserNotFound.Error(), fiber.StatusNotFound)
	}
	q := msgsvc.ThreadQuery{Page: c.QueryInt("page"), Limit: c.QueryInt("limit")}
	if id, err := uuid.Parse(c.Query("propertyId")); err == nil {
		q.PropertyID = &id
	}
	thread, err := h.Service.Thread(c.UserContext(), middleware.GetActor(c).ID, other, q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(thread)
}

// POST /api/messages
func (h *Handlers) Send(c *fiber.Ctx) error {
	var in msgsvc.SendInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	msg, err := h.Service.Send(c.UserContext(), middleware.GetActor(c).ID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, fiber.Map{"message": msg})
}

// PUT /api/messages/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, msgsvc.ErrMessageNotFound.Error(), fiber.StatusNotFound)
	}
	msg, err := h.Service.MarkRead(c.UserContext(), middleware.GetActor(c).ID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}
