package http

import (
	"net/http"
	"time"

	"kanban_api/internal/http/handlers"
	"kanban_api/internal/http/middleware"
	"kanban_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

type Limits struct {
	AuthRequests  int
	AuthWindow    time.Duration
	WriteRequests int
	WriteWindow   time.Duration
}

type Deps struct {
	Handler        *handlers.Handler
	Health         *handlers.HealthHandler
	Tokens         middleware.TokenParser
	Hub            *ws.Hub
	Redis          *redis.Client // nil: rate limits are per process
	AllowedOrigins []string
	Limits         Limits
}

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(d.AllowedOrigins))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := d.Handler

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRL := middleware.RateLimit(d.Redis, "auth", d.Limits.AuthRequests, d.Limits.AuthWindow, middleware.ByIP)
	writeRL := middleware.WritesOnly(
		middleware.RateLimit(d.Redis, "writes", d.Limits.WriteRequests, d.Limits.WriteWindow, middleware.ByUser),
	)
	jwt := middleware.JWT(d.Tokens)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authRL, h.Register)
		auth.POST("/login", authRL, h.Login)
		auth.GET("/profile", jwt, h.Profile)
		auth.PATCH("/profile", jwt, writeRL, h.UpdateProfile)
		auth.POST("/change-password", jwt, authRL, h.ChangePassword)
	}

	boards := api.Group("/boards", jwt, writeRL)
	{
		boards.GET("", h.ListBoards)
		boards.POST("", h.CreateBoard)
		boards.GET("/:id", h.GetBoard)
		boards.PATCH("/:id", h.UpdateBoard)
		boards.DELETE("/:id", h.DeleteBoard)
		boards.PATCH("/:id/star", h.ToggleStar)
		boards.PATCH("/:id/view", h.MarkViewed)
		boards.GET("/:id/columns", h.BoardColumns)
		boards.PATCH("/:id/columns/reorder", h.ReorderColumns)
		boards.GET("/:id/tasks", h.BoardTasks)
	}

	columns := api.Group("/columns", jwt, writeRL)
	{
		columns.POST("", h.CreateColumn)
		columns.GET("/:id", h.GetColumn)
		columns.PATCH("/:id", h.UpdateColumn)
		columns.DELETE("/:id", h.DeleteColumn)
		columns.GET("/:id/tasks", h.ColumnTasks)
	}

	tasks := api.Group("/tasks", jwt, writeRL)
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.PATCH("/:id/move", h.MoveTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	if d.Hub != nil {
		api.GET("/ws", handlers.WS(d.Hub, d.Tokens, d.AllowedOrigins))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
