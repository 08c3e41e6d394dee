package properties

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	propsvc "auraestate-backend/internal/application/properties"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/middleware"
	"auraestate-backend/internal/pkg/listquery"
	"auraestate-backend/internal/pkg/response"
	"auraestate-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *propsvc.Service
}

func viewerID(c *fiber.Ctx) *uuid.UUID {
	if a := middleware.GetActor(c); a != nil {
		return &a.ID
	}
	return nil
}

// ids that do not parse cannot name a listing, so they answer 404 like a missing one.
func propertyID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// fail maps service errors to responses.
func fail(c *fiber.Ctx, err error) error {
	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		return response.Validation(c, verrs)
	case errors.Is(err, propsvc.ErrPropertyNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound)
	case errors.Is(err, propsvc.ErrNotAuthorized):
		return response.Error(c, err.Error(), fiber.StatusForbidden)
	}
	return middleware.Fail(c, err)
}

// GET /api/properties
func (h *Handlers) List(c *fiber.Ctx) error {
	q := listquery.Parse(func(key string) string { return c.Query(key) })
	result, err := h.Service.List(c.UserContext(), q, viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// GET /api/properties/featured?listingType=&limit=
func (h *Handlers) Featured(c *fiber.Ctx) error {
	lt := domain.ListingType(strings.ToUpper(c.Query("listingType")))
	limit, _ := strconv.Atoi(c.Query("limit"))
	props, err := h.Service.Featured(c.UserContext(), lt, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"properties": props})
}

// GET /api/properties/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, ok := propertyID(c)
	if !ok {
		return response.Error(c, propsvc.ErrPropertyNotFound.Error(), fiber.StatusNotFound)
	}
	p, err := h.Service.Get(c.UserContext(), id, viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"property": p})
}

// GET /api/properties/:id/similar
func (h *Handlers) Similar(c *fiber.Ctx) error {
	id, ok := propertyID(c)
	if !ok {
		return response.Error(c, propsvc.ErrPropertyNotFound.Error(), fiber.StatusNotFound)
	}
	props, err := h.Service.Similar(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"similar": props})
}

// GET /api/properties/:id/events
func (h *Handlers) Events(c *fiber.Ctx) error {
	id, ok := propertyID(c)
	if !ok {
		return response.Error(c, propsvc.ErrPropertyNotFound.Error(), fiber.StatusNotFound)
	}
	events, err := h.Service.Events(c.UserContext(), *middleware.GetActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

// POST /api/properties
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in propsvc.CreateInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	p, err := h.Service.Create(c.UserContext(), *middleware.GetActor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, fiber.Map{"property": p})
}

// PUT /api/properties/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, ok := propertyID(c)
	if !ok {
		return response.Error(c, propsvc.ErrPropertyNotFound.Error(), fiber.StatusNotFound)
	}
	var in propsvc.UpdateInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	p, err := h.Service.Update(c.UserContext(), *middleware.GetActor(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"property": p})
}

// DELETE /api/properties/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, ok := propertyID(c)
	if !ok {
		return response.Error(c, propsvc.ErrPropertyNotFound.Error(), fiber.StatusNotFound)
	}
	if err := h.Service.Delete(c.UserContext(), *middleware.GetActor(c), id); err != nil {
		return fail(c, err)
	}
	return response.Message(c, "Property deleted successfully")
}
