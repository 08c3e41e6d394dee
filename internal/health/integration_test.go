//go:build integration

package health

import (
	"context"
	"os"
	"testing"

	"auraestate-backend/internal/infrastructure/database"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Runs against real services when REDIS_URL and DATABASE_URL are set:
// go test -tags=integration ./internal/health/... -run TestCollect_RealServices -v
func TestCollect_RealServices(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	dsn := os.Getenv("DATABASE_URL")
	if redisURL == "" || dsn == "" {
		t.Skip("REDIS_URL or DATABASE_URL not set, skipping integration test")
	}
	opt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	db, err := database.Open(dsn)
	require.NoError(t, err)

	report := Collect(context.Background(), Sources{Redis: rdb, DB: &database.Pinger{DB: db}})
	require.Equal(t, "connected", report.Dependencies["redis"].Status)
	require.Equal(t, "connected", report.Dependencies["database"].Status)
	require.NotNil(t, report.Dependencies["redis"].PingMs)
	require.Equal(t, StatusOK, report.Status)
}
