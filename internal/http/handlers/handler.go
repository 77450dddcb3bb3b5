package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"kanban_api/internal/domain"
	"kanban_api/internal/http/middleware"
	"kanban_api/internal/logger"
	"kanban_api/internal/perrors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		domain.UseJSONNames(v)
	}
}

type AuthService interface {
	Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error)
	Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, p domain.ProfilePatch) (*domain.User, error)
	ChangePassword(ctx context.Context, userID string, in domain.ChangePasswordInput) error
}

type BoardService interface {
	List(ctx context.Context, userID string) ([]domain.Board, error)
	Get(ctx context.Context, id, userID string) (*domain.Board, error)
	Create(ctx context.Context, userID string, in domain.CreateBoardInput) (*domain.Board, error)
	Update(ctx context.Context, id, userID string, p domain.BoardPatch) (*domain.Board, error)
	Delete(ctx context.Context, id, userID string) error
	ToggleStar(ctx context.Context, id, userID string) (*domain.Board, error)
	MarkViewed(ctx context.Context, id, userID string) (*domain.Board, error)
	Columns(ctx context.Context, boardID, userID string) ([]domain.Column, error)
	Tasks(ctx context.Context, boardID, userID string) ([]domain.Task, error)
	ReorderColumns(ctx context.Context, boardID, userID string, orders []domain.ColumnOrder) ([]domain.Column, error)
}

type ColumnService interface {
	Get(ctx context.Context, id, userID string) (*domain.Column, error)
	Tasks(ctx context.Context, id, userID string) ([]domain.Task, error)
	Create(ctx context.Context, userID string, in domain.CreateColumnInput) (*domain.Column, error)
	Update(ctx context.Context, id, userID string, p domain.ColumnPatch) (*domain.Column, error)
	Delete(ctx context.Context, id, userID string) error
}

type TaskService interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Get(ctx context.Context, id, userID string) (*domain.Task, error)
	Create(ctx context.Context, userID string, in domain.CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, id, userID string, p domain.TaskPatch) (*domain.Task, error)
	Move(ctx context.Context, id, userID, columnID string) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) error
}

type Handler struct {
	Auth    AuthService
	Boards  BoardService
	Columns ColumnService
	Tasks   TaskService
}

var errInvalidBody = perrors.Validation("Invalid request body")

// respondError is the single place errors become HTTP responses. Only
// perrors messages reach the client.
func respondError(c *gin.Context, err error) {
	if perr, ok := perrors.As(err); ok {
		if perr.Code == perrors.ErrCodeInternalServer {
			logger.WithContext(c.Request.Context()).Error("request failed", "error", err)
		}
		c.AbortWithStatusJSON(perr.HttpStatus(), gin.H{"error": perr.Message})
		return
	}

	logger.WithContext(c.Request.Context()).Error("request failed", "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// bindJSON decodes and checks the body's binding tags. Rule failures get the
// same messages the services produce.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondError(c, domain.ValidationError(verrs))
		} else {
			respondError(c, errInvalidBody)
		}
		return false
	}
	return true
}

// bindPatch reads a partial-update body. An empty body is an empty patch.
func bindPatch(c *gin.Context) (map[string]json.RawMessage, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, errInvalidBody)
		return nil, false
	}
	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, true
	}
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		respondError(c, errInvalidBody)
		return nil, false
	}
	return raw, true
}

func userID(c *gin.Context) string {
	return middleware.UserID(c)
}
