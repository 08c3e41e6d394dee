package health

import (
	"encoding/json"
	"strconv"
	"time"

	healthsvc "auraestate-backend/internal/health"
	"auraestate-backend/internal/middleware"
	"auraestate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const serviceName = "auraestate-api"

var statsKeys = []string{
	middleware.KeyReqTotal,
	middleware.KeyReqErrors,
	middleware.KeyResTime,
	middleware.KeyResCount,
	middleware.KeyStartTime,
	middleware.KeyLastReq,
	middleware.KeyErrorLog,
}

type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.DBPinger
	Catalog        healthsvc.CatalogSource
	HealthAdminKey string
}

type jsonReport struct {
	Service string `json:"service"`
	healthsvc.Report
}

// GET /api/health
func (h *Handlers) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// GET /health/reset?key=... clears the request counters and error log.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if h.HealthAdminKey == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden)
	}
	if h.Rdb == nil {
		return response.Error(c, "Redis not configured", fiber.StatusServiceUnavailable)
	}
	ctx := c.UserContext()
	_, err := h.Rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, statsKeys...)
		pipe.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0)
		return nil
	})
	if err != nil {
		return middleware.Fail(c, err)
	}
	return response.Message(c, "Stats reset successfully")
}

// GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	report := healthsvc.Collect(c.UserContext(), healthsvc.Sources{
		Redis:   h.Rdb,
		DB:      h.DB,
		Catalog: h.Catalog,
	})
	return c.JSON(jsonReport{Service: serviceName, Report: report})
}

// GET /health/errors returns the latest 5xx entries, newest first.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	entries := []middleware.ErrorEntry{}
	if h.Rdb == nil {
		return c.JSON(entries)
	}
	raw, err := h.Rdb.LRange(c.UserContext(), middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(entries)
	}
	for _, s := range raw {
		var e middleware.ErrorEntry
		if json.Unmarshal([]byte(s), &e) == nil {
			entries = append(entries, e)
		}
	}
	return c.JSON(entries)
}
