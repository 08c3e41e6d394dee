package middleware

import (
	"errors"

	"auraestate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. fiber errors keep their code and
// message; anything else is logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return response.Error(c, "Endpoint not found", fe.Code)
		}
		return response.Error(c, fe.Message, fe.Code)
	}
	logFailure(c, err, "unhandled error")
	return response.Internal(c)
}
