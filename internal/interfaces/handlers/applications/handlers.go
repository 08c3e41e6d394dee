package applications

import (
	"encoding/json"
	"errors"
	"strings"

	appsvc "auraestate-backend/internal/application/applications"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/middleware"
	"auraestate-backend/internal/pkg/response"
	"auraestate-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *appsvc.Service
}

type statusBody struct {
	Status string `json:"status"`
}

func fail(c *fiber.Ctx, err error) error {
	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		return response.Validation(c, verrs)
	case errors.Is(err, appsvc.ErrPropertyNotFound),
		errors.Is(err, appsvc.ErrApplicationNotFound),
		errors.Is(err, appsvc.ErrUserNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound)
	case errors.Is(err, appsvc.ErrNotAuthorized):
		return response.Error(c, err.Error(), fiber.StatusForbidden)
	case errors.Is(err, appsvc.ErrPropertyUnavailable),
		errors.Is(err, appsvc.ErrOwnProperty),
		errors.Is(err, appsvc.ErrDuplicateApplication),
		errors.Is(err, appsvc.ErrInvalidStatus),
		errors.Is(err, appsvc.ErrCannotWithdraw):
		return response.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return middleware.Fail(c, err)
}

func filter(c *fiber.Ctx) appsvc.Filter {
	f := appsvc.Filter{Status: domain.ApplicationStatus(strings.ToUpper(c.Query("status")))}
	if id, err := uuid.Parse(c.Query("propertyId")); err == nil {
		f.PropertyID = id
	}
	return f
}

// GET /api/applications?status=
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	apps, err := h.Service.ListMine(c.UserContext(), middleware.GetActor(c).ID, filter(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"applications": apps})
}

// GET /api/applications/received?status=&propertyId=
func (h *Handlers) ListReceived(c *fiber.Ctx) error {
	apps, err := h.Service.ListReceived(c.UserContext(), middleware.GetActor(c).ID, filter(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"applications": apps})
}

// POST /api/applications
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var in appsvc.SubmitInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	app, err := h.Service.Submit(c.UserContext(), *middleware.GetActor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, fiber.Map{"application": app})
}

// PUT /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, appsvc.ErrApplicationNotFound.Error(), fiber.StatusNotFound)
	}
	var body statusBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	status := domain.ApplicationStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	app, err := h.Service.UpdateStatus(c.UserContext(), *middleware.GetActor(c), id, status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"application": app})
}

// POST /api/applications/:propertyId/schedule-viewing
func (h *Handlers) ScheduleViewing(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return response.Error(c, appsvc.ErrPropertyNotFound.Error(), fiber.StatusNotFound)
	}
	var in appsvc.ViewingInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	v, err := h.Service.ScheduleViewing(c.UserContext(), *middleware.GetActor(c), propertyID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, fiber.Map{"viewing": v})
}

// DELETE /api/applications/:id withdraws the caller's application.
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, appsvc.ErrApplicationNotFound.Error(), fiber.StatusNotFound)
	}
	if err := h.Service.Withdraw(c.UserContext(), *middleware.GetActor(c), id); err != nil {
		return fail(c, err)
	}
	return response.Message(c, "Application withdrawn")
}
