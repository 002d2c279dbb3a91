package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ignite/campaign-manager/internal/pkg/httputil"
	"github.com/redis/go-redis/v9"
)

const healthVersion = "1.0.0"

// HealthStatus represents the overall health of the system.
type HealthStatus struct {
	Status   string                    `json:"status"` // "healthy", "degraded", "unhealthy"
	Version  string                    `json:"version"`
	Uptime   string                    `json:"uptime"`
	Sessions int                       `json:"sessions"`
	Checks   map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "degraded", "not_configured"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthChecker reports on the optional backing stores. Either may be nil.
type HealthChecker struct {
	db          *sql.DB
	redisClient redis.UniversalClient
	sessions    func() int
	startTime   time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(db *sql.DB, redisClient redis.UniversalClient, sessions func() int) *HealthChecker {
	return &HealthChecker{
		db:          db,
		redisClient: redisClient,
		sessions:    sessions,
		startTime:   time.Now(),
	}
}

// HandleHealth returns the health of all components. The endpoint always
// answers 200; the body carries the verdict.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	status := HealthStatus{
		Status:  overallStatus(checks),
		Version: healthVersion,
		Uptime:  time.Since(hc.startTime).Round(time.Second).String(),
		Checks:  checks,
	}
	if hc.sessions != nil {
		status.Sessions = hc.sessions()
	}
	httputil.OK(w, status)
}

func (hc *HealthChecker) runAllChecks(ctx context.Context) map[string]ComponentCheck {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]ComponentCheck, 2)
	)
	run := func(name string, fn func(context.Context) ComponentCheck) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := fn(ctx)
			mu.Lock()
			checks[name] = c
			mu.Unlock()
		}()
	}
	run("database", hc.checkDatabase)
	run("redis", hc.checkRedis)
	wg.Wait()
	return checks
}

func (hc *HealthChecker) checkDatabase(ctx context.Context) ComponentCheck {
	if hc.db == nil {
		return ComponentCheck{Status: "not_configured"}
	}
	return timedCheck(ctx, 3*time.Second, time.Second, hc.db.PingContext)
}

func (hc *HealthChecker) checkRedis(ctx context.Context) ComponentCheck {
	if hc.redisClient == nil {
		return ComponentCheck{Status: "not_configured"}
	}
	return timedCheck(ctx, 2*time.Second, 500*time.Millisecond, func(ctx context.Context) error {
		return hc.redisClient.Ping(ctx).Err()
	})
}

// timedCheck pings with a timeout and reports slow answers as degraded.
func timedCheck(ctx context.Context, timeout, slow time.Duration, ping func(context.Context) error) ComponentCheck {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := ping(pingCtx)
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{Status: "down", Latency: latency.String(), Message: fmt.Sprintf("ping failed: %v", err)}
	}
	if latency > slow {
		return ComponentCheck{Status: "degraded", Latency: latency.String(), Message: fmt.Sprintf("slow response (%s)", latency)}
	}
	return ComponentCheck{Status: "up", Latency: latency.String(), Message: "connected"}
}

func overallStatus(checks map[string]ComponentCheck) string {
	overall := "healthy"
	for _, c := range checks {
		switch c.Status {
		case "down":
			return "unhealthy"
		case "degraded":
			overall = "degraded"
		}
	}
	return overall
}
