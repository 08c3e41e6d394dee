package saved

import (
	"encoding/json"
	"errors"

	savedsvc "auraestate-backend/internal/application/saved"
	"auraestate-backend/internal/middleware"
	"auraestate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *savedsvc.Service
}

type saveBody struct {
	Notes *string `json:"notes"`
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, savedsvc.ErrPropertyNotFound), errors.Is(err, savedsvc.ErrSavedNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound)
	case errors.Is(err, savedsvc.ErrAlreadySaved):
		return response.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return middleware.Fail(c, err)
}

// GET /api/users/saved
func (h *Handlers) List(c *fiber.Ctx) error {
	saved, err := h.Service.List(c.UserContext(), middleware.GetActor(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"saved": saved})
}

// POST /api/users/saved/:propertyId with optional {"notes": "..."}
func (h *Handlers) Save(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return response.Error(c, savedsvc.ErrPropertyNotFound.Error(), fiber.StatusNotFound)
	}
	var body saveBody
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
		}
	}
	sp, err := h.Service.Save(c.UserContext(), middleware.GetActor(c).ID, propertyID, body.Notes)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, fiber.Map{"saved": sp})
}

// DELETE /api/users/saved/:propertyId
func (h *Handlers) Unsave(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return response.Error(c, savedsvc.ErrSavedNotFound.Error(), fiber.StatusNotFound)
	}
	if err := h.Service.Unsave(c.UserContext(), middleware.GetActor(c).ID, propertyID); err != nil {
		return fail(c, err)
	}
	return response.Message(c, "Property removed from saved")
}
