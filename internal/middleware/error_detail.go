package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const detailLocal = "error_detail"

const genericFailure = "Internal server error"

// ErrorDetail controls whether raw error text reaches the logs and the health
// error log for this request. With show false only the error's type is logged.
func ErrorDetail(show bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(detailLocal, show)
		return c.Next()
	}
}

func showDetail(c *fiber.Ctx) bool {
	show, _ := c.Locals(detailLocal).(bool)
	return show
}

func logFailure(c *fiber.Ctx, err error, msg string) {
	ev := log.Error().Str("trace_id", GetTraceID(c)).Str("method", c.Method()).Str("path", c.Path())
	if showDetail(c) {
		ev = ev.Err(err)
	} else {
		ev = ev.Str("error_type", fmt.Sprintf("%T", err))
	}
	ev.Msg(msg)
}

// failureMessage is what the health error log records for err.
func failureMessage(c *fiber.Ctx, err error) string {
	if err == nil || !showDetail(c) {
		return genericFailure
	}
	return err.Error()
}
