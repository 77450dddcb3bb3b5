package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kanban_api/internal/domain"
)

// APIError is a non-2xx response. Message comes from the {"error": ...} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the kanban REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

// BaseURL is the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func esc(id string) string {
	return url.PathEscape(id)
}

// Auth

func (c *Client) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	var res domain.AuthResult
	in := domain.LoginInput{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch map[string]any) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodPatch, "/api/auth/profile", patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	in := domain.ChangePasswordInput{CurrentPassword: current, NewPassword: next}
	return c.do(ctx, http.MethodPost, "/api/auth/change-password", in, nil)
}

// Boards

func (c *Client) Boards(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	if err := c.do(ctx, http.MethodGet, "/api/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (c *Client) Board(ctx context.Context, id string) (*domain.Board, error) {
	return c.board(ctx, http.MethodGet, "/api/boards/"+esc(id), nil)
}

func (c *Client) CreateBoard(ctx context.Context, in domain.CreateBoardInput) (*domain.Board, error) {
	return c.board(ctx, http.MethodPost, "/api/boards", in)
}

func (c *Client) UpdateBoard(ctx context.Context, id string, patch map[string]any) (*domain.Board, error) {
	return c.board(ctx, http.MethodPatch, "/api/boards/"+esc(id), patch)
}

func (c *Client) ToggleStar(ctx context.Context, id string) (*domain.Board, error) {
	return c.board(ctx, http.MethodPatch, "/api/boards/"+esc(id)+"/star", nil)
}

func (c *Client) MarkViewed(ctx context.Context, id string) (*domain.Board, error) {
	return c.board(ctx, http.MethodPatch, "/api/boards/"+esc(id)+"/view", nil)
}

func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/boards/"+esc(id), nil, nil)
}

func (c *Client) board(ctx context.Context, method, path string, body any) (*domain.Board, error) {
	var b domain.Board
	if err := c.do(ctx, method, path, body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) BoardColumns(ctx context.Context, boardID string) ([]domain.Column, error) {
	var cols []domain.Column
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+esc(boardID)+"/columns", nil, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

func (c *Client) BoardTasks(ctx context.Context, boardID string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+esc(boardID)+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) ReorderColumns(ctx context.Context, boardID string, orders []domain.ColumnOrder) ([]domain.Column, error) {
	body := map[string]any{"columnOrders": orders}
	var cols []domain.Column
	if err := c.do(ctx, http.MethodPatch, "/api/boards/"+esc(boardID)+"/columns/reorder", body, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// Columns

func (c *Client) Column(ctx context.Context, id string) (*domain.Column, error) {
	return c.column(ctx, http.MethodGet, "/api/columns/"+esc(id), nil)
}

func (c *Client) CreateColumn(ctx context.Context, in domain.CreateColumnInput) (*domain.Column, error) {
	return c.column(ctx, http.MethodPost, "/api/columns", in)
}

func (c *Client) UpdateColumn(ctx context.Context, id string, patch map[string]any) (*domain.Column, error) {
	return c.column(ctx, http.MethodPatch, "/api/columns/"+esc(id), patch)
}

func (c *Client) DeleteColumn(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/columns/"+esc(id), nil, nil)
}

func (c *Client) column(ctx context.Context, method, path string, body any) (*domain.Column, error) {
	var col domain.Column
	if err := c.do(ctx, method, path, body, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Client) ColumnTasks(ctx context.Context, columnID string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/columns/"+esc(columnID)+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Tasks

func (c *Client) Tasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Task(ctx context.Context, id string) (*domain.Task, error) {
	return c.task(ctx, http.MethodGet, "/api/tasks/"+esc(id), nil)
}

func (c *Client) CreateTask(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error) {
	return c.task(ctx, http.MethodPost, "/api/tasks", in)
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch map[string]any) (*domain.Task, error) {
	return c.task(ctx, http.MethodPatch, "/api/tasks/"+esc(id), patch)
}

func (c *Client) MoveTask(ctx context.Context, id, columnID string) (*domain.Task, error) {
	return c.task(ctx, http.MethodPatch, "/api/tasks/"+esc(id)+"/move", domain.MoveTaskInput{ColumnID: columnID})
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+esc(id), nil, nil)
}

func (c *Client) task(ctx context.Context, method, path string, body any) (*domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, method, path, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
