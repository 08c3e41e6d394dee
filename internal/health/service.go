// Package health reports API liveness: dependency reachability, runtime
// figures, request counters kept by middleware.HealthMarker and the size of the
// listing catalog.
package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"auraestate-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"
)

const (
	StatusOK    = "ok"
	StatusIssue = "issue"

	depConnected    = "connected"
	depDisconnected = "disconnected"
	depError        = "error"
)

type DBPinger interface {
	Ping() error
}

// CatalogSource counts listings. *properties.Service implements it.
type CatalogSource interface {
	CountListings(ctx context.Context) (active, total int64, err error)
}

// Sources are the dependencies a report probes. Any of them may be nil.
type Sources struct {
	Redis   *redis.Client
	DB      DBPinger
	Catalog CatalogSource
}

// Report is the body of /health/json without the service name.
type Report struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Catalog      *CatalogInfo         `json:"catalog,omitempty"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB     int `json:"allocMb"`
	HeapInuseMB int `json:"heapInuseMb"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type CatalogInfo struct {
	ActiveListings int64 `json:"activeListings"`
	TotalListings  int64 `json:"totalListings"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Collect probes every source concurrently. The report is "ok" only when both
// the database and Redis answer.
func Collect(ctx context.Context, src Sources) Report {
	var (
		wg       conc.WaitGroup
		dbDep    = DepStatus{Status: depDisconnected}
		redisDep = DepStatus{Status: depDisconnected}
		traffic  = TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
		catalog  *CatalogInfo
		started  = time.Now().UnixMilli()
	)

	if src.DB != nil {
		wg.Go(func() { dbDep = probe(src.DB.Ping) })
	}
	if src.Redis != nil {
		wg.Go(func() {
			redisDep = probe(func() error { return src.Redis.Ping(ctx).Err() })
			if redisDep.Status == depConnected {
				traffic, started = readTraffic(ctx, src.Redis, started)
			}
		})
	}
	if src.Catalog != nil {
		wg.Go(func() {
			active, total, err := src.Catalog.CountListings(ctx)
			if err == nil {
				catalog = &CatalogInfo{ActiveListings: active, TotalListings: total}
			}
		})
	}
	wg.Wait()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - started) / 1000
	if uptime < 0 {
		uptime = 0
	}

	report := Report{
		Status: StatusIssue,
		Runtime: RuntimeInfo{
			UptimeSeconds: uptime,
			Memory:        MemoryInfo{AllocMB: int(m.Alloc >> 20), HeapInuseMB: int(m.HeapInuse >> 20)},
			Goroutines:    runtime.NumGoroutine(),
			Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
			GoVersion:     runtime.Version(),
		},
		Traffic: traffic,
		Catalog: catalog,
		Dependencies: map[string]DepStatus{
			"database": dbDep,
			"redis":    redisDep,
		},
	}
	if dbDep.Status == depConnected && redisDep.Status == depConnected {
		report.Status = StatusOK
	}
	return report
}

func probe(ping func() error) DepStatus {
	start := time.Now()
	if err := ping(); err != nil {
		return DepStatus{Status: depError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: depConnected, PingMs: &ms}
}

// readTraffic turns the HealthMarker counters into rates. The first read
// stamps the start time used for uptime.
func readTraffic(ctx context.Context, rdb *redis.Client, startedMs int64) (TrafficInfo, int64) {
	out := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		return out, startedMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	if t, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		startedMs = t
	} else {
		rdb.SetNX(ctx, middleware.KeyStartTime, startedMs, 0)
	}

	out.TotalRequests, _ = strconv.Atoi(str(0))
	out.FailedCount, _ = strconv.Atoi(str(1))
	out.SuccessCount = out.TotalRequests - out.FailedCount
	if out.TotalRequests > 0 {
		out.SuccessRate = strconv.FormatFloat(float64(out.SuccessCount)/float64(out.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	if n, _ := strconv.Atoi(str(3)); n > 0 {
		out.AvgResponseTime = strconv.FormatFloat(timeSum/float64(n), 'f', 2, 64)
	}
	if last := str(5); last != "" {
		var req map[string]interface{}
		if json.Unmarshal([]byte(last), &req) == nil {
			out.LastRequest = req
		}
	}
	return out, startedMs
}
