package user

import (
	"encoding/json"
	"errors"

	usersvc "auraestate-backend/internal/application/user"
	"auraestate-backend/internal/middleware"
	"auraestate-backend/internal/pkg/response"
	"auraestate-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *usersvc.Service
}

func fail(c *fiber.Ctx, err error) error {
	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		return response.Validation(c, verrs)
	case errors.Is(err, usersvc.ErrUserNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound)
	}
	return middleware.Fail(c, err)
}

// GET /api/users/profile
func (h *Handlers) Profile(c *fiber.Ctx) error {
	p, err := h.Service.Profile(c.UserContext(), middleware.GetActor(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": p})
}

// PUT /api/users/profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var in usersvc.UpdateProfileInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	u, err := h.Service.UpdateProfile(c.UserContext(), middleware.GetActor(c).ID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}

// PUT /api/users/tenant-profile
func (h *Handlers) UpdateTenantProfile(c *fiber.Ctx) error {
	var in usersvc.TenantProfileInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	p, err := h.Service.UpdateTenantProfile(c.UserContext(), middleware.GetActor(c).ID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"profile": p})
}

// PUT /api/users/landlord-profile
func (h *Handlers) UpdateLandlordProfile(c *fiber.Ctx) error {
	var in usersvc.LandlordProfileInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	p, err := h.Service.UpdateLandlordProfile(c.UserContext(), middleware.GetActor(c).ID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"profile": p})
}
