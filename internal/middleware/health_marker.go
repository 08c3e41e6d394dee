package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"auraestate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys shared by the marker and the health endpoints.
const (
	KeyReqTotal  = "health:global:req_total"
	KeyReqErrors = "health:global:req_errors"
	KeyResTime   = "health:global:res_time_total"
	KeyResCount  = "health:global:res_count"
	KeyStartTime = "health:global:start_time"
	KeyLastReq   = "health:global:last_request"
	KeyErrorLog  = "health:global:error_log"
)

// ErrorLogSize is how many recent 5xx entries are kept.
const ErrorLogSize = 50

const errorLocal = "error_cause"

// ErrorEntry is one element of the Redis error log.
type ErrorEntry struct {
	Time    time.Time `json:"time"`
	Path    string    `json:"path"`
	Method  string    `json:"method"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	TraceID string    `json:"traceId,omitempty"`
}

// Fail logs err, remembers it for the error log and answers 500 without exposing it.
func Fail(c *fiber.Ctx, err error) error {
	logFailure(c, err, "request failed")
	c.Locals(errorLocal, err)
	return response.Internal(c)
}

// HealthMarker records request stats in Redis (skip /, /health*, /api/health, favicon).
// Redis failures never fail the request.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil {
			return c.Next()
		}
		path := c.Path()
		if path == "/" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/api/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		_, _ = rdb.Set(ctx, KeyLastReq, b, 0).Result()
		_, _ = rdb.Incr(ctx, KeyReqTotal).Result()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		_, _ = rdb.Incr(ctx, KeyResCount).Result()
		_, _ = rdb.IncrByFloat(ctx, KeyResTime, float64(ms)).Result()

		status := responseStatus(c, err)
		cause := err
		if cause == nil {
			cause, _ = c.Locals(errorLocal).(error)
		}
		if status >= fiber.StatusInternalServerError {
			_, _ = rdb.Incr(ctx, KeyReqErrors).Result()
			entry, _ := json.Marshal(ErrorEntry{
				Time:    time.Now().UTC(),
				Path:    c.OriginalURL(),
				Method:  c.Method(),
				Status:  status,
				Message: failureMessage(c, cause),
				TraceID: GetTraceID(c),
			})
			pipe := rdb.TxPipeline()
			pipe.LPush(ctx, KeyErrorLog, entry)
			pipe.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1)
			_, _ = pipe.Exec(ctx)
		}
		return err
	}
}
