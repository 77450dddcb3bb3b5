package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"kanban_api/internal/client"
	"kanban_api/internal/db"
	"kanban_api/internal/domain"
	httpserver "kanban_api/internal/http"
	"kanban_api/internal/http/handlers"
	"kanban_api/internal/migrations"
	"kanban_api/internal/service"
	"kanban_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	pool *pgxpool.Pool
	hub  *ws.Hub
	srv  *httptest.Server
}

// newEnv serves the full router against DATABASE_URL. Tests skip without it.
func newEnv(t *testing.T, boardOpts ...service.BoardOption) *env {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, dsn, db.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = migrations.Apply(ctx, pool)
	require.NoError(t, err)

	hub := ws.NewHub()
	tokens := service.NewTokenManager("integration-secret", time.Hour)
	h := &handlers.Handler{
		Auth:    service.NewAuthService(pool, tokens),
		Boards:  service.NewBoardService(pool, hub, boardOpts...),
		Columns: service.NewColumnService(pool, hub),
		Tasks:   service.NewTaskService(pool, hub),
	}
	r := httpserver.NewRouter(httpserver.Deps{
		Handler: h,
		Health:  handlers.NewHealthHandler(pool, "test"),
		Tokens:  tokens,
		Hub:     hub,
		Limits: httpserver.Limits{
			AuthRequests:  10000,
			AuthWindow:    time.Minute,
			WriteRequests: 10000,
			WriteWindow:   time.Minute,
		},
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &env{pool: pool, hub: hub, srv: srv}
}

// user registers a fresh account and returns a client logged in as it.
func (e *env) user(t *testing.T) *client.Client {
	t.Helper()
	c := client.NewClient(e.srv.URL, "")
	email := fmt.Sprintf("it-%s@example.com", uuid.NewString())
	res, err := c.Register(context.Background(), domain.RegisterInput{Email: email, Password: "secret1", Name: "IT"})
	require.NoError(t, err)
	c.SetToken(res.Token)
	return c
}

func (e *env) board(t *testing.T, c *client.Client, title string) (*domain.Board, []domain.Column) {
	t.Helper()
	ctx := context.Background()
	b, err := c.CreateBoard(ctx, domain.CreateBoardInput{Title: title, Color: "bg-blue-500"})
	require.NoError(t, err)
	cols, err := c.BoardColumns(ctx, b.ID)
	require.NoError(t, err)
	return b, cols
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return http.StatusOK
	}
	apiErr, ok := err.(*client.APIError)
	require.True(t, ok, "unexpected error: %v", err)
	return apiErr.Status
}
