package response

import (
	"auraestate-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the error JSON shape: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// ValidationBody lists rejected fields: {"errors": [{"field", "message"}]}.
type ValidationBody struct {
	Errors []validation.FieldError `json:"errors"`
}

// MessageBody is returned by endpoints that have nothing else to say.
type MessageBody struct {
	Message string `json:"message"`
}

// Error sends {"error": message} with the given status.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

// Validation sends 400 with the field errors.
func Validation(c *fiber.Ctx, errs *validation.Errors) error {
	return c.Status(fiber.StatusBadRequest).JSON(ValidationBody{Errors: errs.Fields})
}

// Message sends 200 {"message": message}.
func Message(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(MessageBody{Message: message})
}

// Created sends 201 with body.
func Created(c *fiber.Ctx, body interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Unauthorized sends 401 so all auth failures share one shape.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized)
}

// Internal sends the generic 500 body. The cause is logged by the caller, never returned.
func Internal(c *fiber.Ctx) error {
	return Error(c, "Internal server error", fiber.StatusInternalServerError)
}
