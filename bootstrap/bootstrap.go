package bootstrap

import (
	"auraestate-backend/internal/config"
	"auraestate-backend/internal/interfaces/router"
	"auraestate-backend/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless hosting (the api handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
