package router

import (
	"context"
	"net/http"
	"time"

	appsvc "auraestate-backend/internal/application/applications"
	msgsvc "auraestate-backend/internal/application/messages"
	notifsvc "auraestate-backend/internal/application/notifications"
	propsvc "auraestate-backend/internal/application/properties"
	savedsvc "auraestate-backend/internal/application/saved"
	usersvc "auraestate-backend/internal/application/user"
	"auraestate-backend/internal/auth"
	"auraestate-backend/internal/config"
	"auraestate-backend/internal/constants"
	"auraestate-backend/internal/infrastructure/database"
	apphandler "auraestate-backend/internal/interfaces/handlers/applications"
	healthhandler "auraestate-backend/internal/interfaces/handlers/health"
	msghandler "auraestate-backend/internal/interfaces/handlers/messages"
	notifhandler "auraestate-backend/internal/interfaces/handlers/notifications"
	prophandler "auraestate-backend/internal/interfaces/handlers/properties"
	savedhandler "auraestate-backend/internal/interfaces/handlers/saved"
	userhandler "auraestate-backend/internal/interfaces/handlers/user"
	"auraestate-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the connections and settings the routes are built from. Rdb may be nil.
type Deps struct {
	DB             *gorm.DB
	Rdb            *redis.Client
	Tokens         *auth.Tokens
	AllowedOrigins []string
	HealthAdminKey string
	ListCacheTTL   time.Duration // 0 uses the default
	// ErrorDetail puts raw error text in logs; off in production.
	ErrorDetail    bool
}

// CreateApp opens the database and Redis from cfg and mounts every route.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	} else {
		log.Warn().Msg("REDIS_URL not set: listing cache and request stats disabled")
	}

	app := Mount(Deps{
		DB:             db,
		Rdb:            rdb,
		Tokens:         auth.NewTokens(cfg.JWTSecret),
		AllowedOrigins: cfg.AllowedOrigins,
		HealthAdminKey: cfg.HealthAdminKey,
		ListCacheTTL:   cfg.ListCacheTTL,
		ErrorDetail:    !cfg.IsProduction(),
	})
	return app, db, rdb, nil
}

// Mount builds the fiber app over already-open connections.
func Mount(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.ErrorDetail(d.ErrorDetail))
	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: d.AllowedOrigins}))
	app.Use(middleware.HealthMarker(d.Rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	ps := &propsvc.Service{DB: d.DB}
	if d.Rdb != nil {
		ps.Cache = &propsvc.ListCache{Rdb: d.Rdb, TTL: d.ListCacheTTL}
	}

	hh := &healthhandler.Handlers{
		Rdb:            d.Rdb,
		DB:             &database.Pinger{DB: d.DB},
		Catalog:        ps,
		HealthAdminKey: d.HealthAdminKey,
	}
	app.Get("/api/health", hh.Ping)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)

	optional := middleware.OptionalAuth(d.Tokens)
	required := middleware.RequireAuth(d.Tokens)

	// Properties
	ph := &prophandler.Handlers{Service: ps}
	pg := app.Group("/api/properties")
	pg.Get("/", optional, ph.List)
	pg.Get("/featured", optional, ph.Featured)
	pg.Get("/:id", optional, ph.Get)
	pg.Get("/:id/similar", ph.Similar)
	pg.Get("/:id/events", required, ph.Events)
	pg.Post("/", required, middleware.AuthorizePermission(constants.CreateProperty), ph.Create)
	pg.Put("/:id", required, ph.Update)
	pg.Delete("/:id", required, ph.Delete)

	// Saves and applications change counters shown on cached pages.
	var invalidate func(ctx context.Context)
	if ps.Cache != nil {
		cache := ps.Cache
		invalidate = func(ctx context.Context) {
			if err := cache.Invalidate(ctx); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("listing cache invalidation failed")
			}
		}
	}

	ss := &savedsvc.Service{DB: d.DB, OnChange: invalidate}
	sh := &savedhandler.Handlers{Service: ss}
	ug := app.Group("/api/users", required)
	uh := &userhandler.Handlers{Service: &usersvc.Service{DB: d.DB}}
	ug.Get("/profile", uh.Profile)
	ug.Put("/profile", uh.UpdateProfile)
	ug.Put("/tenant-profile", uh.UpdateTenantProfile)
	ug.Put("/landlord-profile", uh.UpdateLandlordProfile)
	ug.Get("/saved", sh.List)
	ug.Post("/saved/:propertyId", sh.Save)
	ug.Delete("/saved/:propertyId", sh.Unsave)

	// Notifications
	nh := &notifhandler.Handlers{Service: &notifsvc.Service{DB: d.DB}}
	ug.Get("/notifications", nh.List)
	ug.Put("/notifications/:id/read", nh.MarkRead)

	// Applications
	ah := &apphandler.Handlers{Service: &appsvc.Service{DB: d.DB, OnChange: invalidate}}
	ag := app.Group("/api/applications", required)
	ag.Get("/", ah.ListMine)
	ag.Get("/received", ah.ListReceived)
	ag.Post("/", ah.Submit)
	ag.Put("/:id/status", ah.UpdateStatus)
	ag.Delete("/:id", ah.Withdraw)
	ag.Post("/:propertyId/schedule-viewing", ah.ScheduleViewing)

	// Messages
	mh := &msghandler.Handlers{Service: &msgsvc.Service{DB: d.DB}}
	mg := app.Group("/api/messages", required)
	mg.Get("/conversations", mh.Conversations)
	mg.Get("/unread/count", mh.UnreadCount)
	mg.Get("/:userId", mh.Thread)
	mg.Post("/", mh.Send)
	mg.Put("/:id/read", mh.MarkRead)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
