package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type readinessCheck struct {
	name string
	ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []readinessCheck
	started time.Time
	version string
}

// NewHealthHandler reports ready only while the database answers.
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		checks:  []readinessCheck{{"database", db.Ping}},
		started: time.Now(),
		version: version,
	}
}

// WithCheck adds another dependency to /readyz.
func (h *HealthHandler) WithCheck(name string, ping func(ctx context.Context) error) *HealthHandler {
	h.checks = append(h.checks, readinessCheck{name, ping})
	return h
}

type readinessResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

// Health is the public check the SPA polls.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	res := readinessResponse{
		Status:  "ready",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks:  make(map[string]string, len(h.checks)),
	}
	code := http.StatusOK
	for _, chk := range h.checks {
		if err := chk.ping(ctx); err != nil {
			res.Checks[chk.name] = "down: " + err.Error()
			res.Status = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		res.Checks[chk.name] = "up"
	}

	c.JSON(code, res)
}
