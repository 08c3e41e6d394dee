package middleware

import (
	"auraestate-backend/internal/auth"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const actorLocal = "actor"

// OptionalAuth attaches the actor when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Next()
		}
		if actor, err := tokens.Verify(raw); err == nil {
			SetActor(c, actor)
		}
		return c.Next()
	}
}

// RequireAuth answers 401 unless the request carries a valid bearer token.
func RequireAuth(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return response.Unauthorized(c, auth.ErrMissingToken.Error())
		}
		actor, err := tokens.Verify(raw)
		if err != nil {
			if !auth.IsTokenError(err) {
				log.Error().Err(err).Str("trace_id", GetTraceID(c)).Msg("token verification misconfigured")
				return response.Internal(c)
			}
			return response.Unauthorized(c, auth.ErrInvalidToken.Error())
		}
		SetActor(c, actor)
		return c.Next()
	}
}

// GetActor returns the authenticated actor (nil when anonymous).
func GetActor(c *fiber.Ctx) *domain.Actor {
	a, _ := c.Locals(actorLocal).(*domain.Actor)
	return a
}

// SetActor attaches actor to the request.
func SetActor(c *fiber.Ctx, actor *domain.Actor) {
	c.Locals(actorLocal, actor)
}
