package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"kanban_api/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a small in-memory stand-in for the REST server.
type fakeAPI struct {
	mu      sync.Mutex
	seq     int
	boards  map[string]domain.Board
	columns map[string]domain.Column
	tasks   map[string]domain.Task
	calls   []string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{
		boards:  map[string]domain.Board{},
		columns: map[string]domain.Column{},
		tasks:   map[string]domain.Task{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in domain.LoginInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, domain.AuthResult{User: &domain.User{ID: "u1", Email: in.Email}, Token: "tok-1"})
	})
	mux.HandleFunc("GET /api/boards", f.auth(func(w http.ResponseWriter, r *http.Request) {
		var out []domain.Board
		for _, b := range f.boards {
			out = append(out, b)
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /api/boards", f.auth(func(w http.ResponseWriter, r *http.Request) {
		var in domain.CreateBoardInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b := domain.Board{ID: f.id("b"), UserID: "u1", Title: in.Title, Color: in.Color, LastUpdated: 1}
		f.boards[b.ID] = b
		for i, title := range domain.DefaultColumns {
			c := domain.Column{ID: f.id("c"), BoardID: b.ID, Title: title, Order: i}
			f.columns[c.ID] = c
		}
		writeJSON(w, http.StatusCreated, b)
	}))
	mux.HandleFunc("PATCH /api/boards/{id}/star", f.auth(func(w http.ResponseWriter, r *http.Request) {
		b, ok := f.boards[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Board not found"})
			return
		}
		b.IsStarred = !b.IsStarred
		f.boards[b.ID] = b
		writeJSON(w, http.StatusOK, b)
	}))
	mux.HandleFunc("DELETE /api/boards/{id}", f.auth(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		delete(f.boards, id)
		for cid, c := range f.columns {
			if c.BoardID == id {
				delete(f.columns, cid)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/boards/{id}/columns", f.auth(func(w http.ResponseWriter, r *http.Request) {
		var out []domain.Column
		for _, c := range f.columns {
			if c.BoardID == r.PathValue("id") {
				out = append(out, c)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("PATCH /api/boards/{id}/columns/reorder", f.auth(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ColumnOrders []domain.ColumnOrder `json:"columnOrders"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		var out []domain.Column
		for _, o := range in.ColumnOrders {
			c := f.columns[o.ID]
			c.Order = o.Order
			f.columns[c.ID] = c
			out = append(out, c)
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("DELETE /api/columns/{id}", f.auth(func(w http.ResponseWriter, r *http.Request) {
		delete(f.columns, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/tasks", f.auth(func(w http.ResponseWriter, r *http.Request) {
		var out []domain.Task
		for _, t := range f.tasks {
			out = append(out, t)
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /api/tasks", f.auth(func(w http.ResponseWriter, r *http.Request) {
		var in domain.CreateTaskInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		due, err := in.Validate()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		tk := domain.Task{
			ID: f.id("t"), ColumnID: in.ColumnID, Title: in.Title, Priority: in.Priority,
			DueDate: due, CreatedAt: time.Unix(int64(f.seq), 0).UTC(),
		}
		f.tasks[tk.ID] = tk
		writeJSON(w, http.StatusCreated, tk)
	}))
	mux.HandleFunc("PATCH /api/tasks/{id}/move", f.auth(func(w http.ResponseWriter, r *http.Request) {
		var in domain.MoveTaskInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		tk, ok := f.tasks[r.PathValue("id")]
		if _, colOK := f.columns[in.ColumnID]; !ok || !colOK {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found or access denied"})
			return
		}
		tk.ColumnID = in.ColumnID
		f.tasks[tk.ID] = tk
		writeJSON(w, http.StatusOK, tk)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "No token provided"})
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestStore(t *testing.T) (*fakeAPI, *Store) {
	f, srv := newFakeAPI(t)
	c := NewClient(srv.URL+"/", "")
	_, err := c.Login(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	return f, NewStore(c)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := NewClient(srv.URL, "")

	_, err := c.Login(context.Background(), "a@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	_, err = c.Boards(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "No token provided", apiErr.Message)
}

func TestCreateBoardCachesSeededColumns(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, domain.CreateBoardInput{Title: "Launch", Color: "bg-blue-500"})
	require.NoError(t, err)

	var titles []string
	for _, c := range s.BoardColumns(b.ID) {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, domain.DefaultColumns, titles)
	assert.Len(t, s.Boards(), 1)
}

func TestDeleteBoardDropsDescendants(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, domain.CreateBoardInput{Title: "Launch", Color: "bg-blue-500"})
	require.NoError(t, err)
	col := s.BoardColumns(b.ID)[0]
	task, err := s.CreateTask(ctx, domain.CreateTaskInput{ColumnID: col.ID, Title: "Ship", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Len(t, s.ColumnTasks(col.ID), 1)

	require.NoError(t, s.DeleteBoard(ctx, b.ID))
	assert.Empty(t, s.Boards())
	assert.Empty(t, s.BoardColumns(b.ID))
	_, ok := s.Task(task.ID)
	assert.False(t, ok)
}

func TestDeleteColumnDropsItsTasks(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, domain.CreateBoardInput{Title: "Launch", Color: "bg-blue-500"})
	require.NoError(t, err)
	cols := s.BoardColumns(b.ID)
	gone, err := s.CreateTask(ctx, domain.CreateTaskInput{ColumnID: cols[0].ID, Title: "a", Priority: domain.PriorityLow})
	require.NoError(t, err)
	kept, err := s.CreateTask(ctx, domain.CreateTaskInput{ColumnID: cols[1].ID, Title: "b", Priority: domain.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, s.DeleteColumn(ctx, cols[0].ID))

	_, ok := s.Task(gone.ID)
	assert.False(t, ok)
	_, ok = s.Task(kept.ID)
	assert.True(t, ok)
	assert.Len(t, s.BoardColumns(b.ID), 2)
}

func TestMoveColumnRenumbers(t *testing.T) {
	f, s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, domain.CreateBoardInput{Title: "Launch", Color: "bg-blue-500"})
	require.NoError(t, err)
	cols := s.BoardColumns(b.ID)

	_, err = s.MoveColumn(ctx, b.ID, cols[0].ID, 2)
	require.NoError(t, err)

	var got []string
	for _, c := range s.BoardColumns(b.ID) {
		got = append(got, c.ID)
	}
	want := []string{cols[1].ID, cols[2].ID, cols[0].ID}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("column order mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, f.calls, "PATCH /api/boards/"+b.ID+"/columns/reorder")

	_, err = s.MoveColumn(ctx, b.ID, "nope", 0)
	assert.Error(t, err)
}

func TestFailedMutationLeavesCacheUntouched(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, domain.CreateBoardInput{Title: "Launch", Color: "bg-blue-500"})
	require.NoError(t, err)
	col := s.BoardColumns(b.ID)[0]
	task, err := s.CreateTask(ctx, domain.CreateTaskInput{ColumnID: col.ID, Title: "Ship", Priority: domain.PriorityHigh})
	require.NoError(t, err)

	_, err = s.MoveTask(ctx, task.ID, "someone-elses-column")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	cached, _ := s.Task(task.ID)
	assert.Equal(t, col.ID, cached.ColumnID)
}

func TestCompleteTaskMovesToDoneColumn(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, domain.CreateBoardInput{Title: "Launch", Color: "bg-blue-500"})
	require.NoError(t, err)
	cols := s.BoardColumns(b.ID)
	task, err := s.CreateTask(ctx, domain.CreateTaskInput{ColumnID: cols[0].ID, Title: "Ship", Priority: domain.PriorityHigh})
	require.NoError(t, err)

	done, err := s.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, cols[2].ID, done.ColumnID)
	assert.Len(t, s.ColumnTasks(cols[2].ID), 1)
}

func TestRefreshReplacesStaleState(t *testing.T) {
	f, s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, domain.CreateBoardInput{Title: "Launch", Color: "bg-blue-500"})
	require.NoError(t, err)

	// Another session deletes the board behind our back.
	f.mu.Lock()
	delete(f.boards, b.ID)
	f.mu.Unlock()

	require.NoError(t, s.Refresh(ctx))
	assert.Empty(t, s.Boards())
	assert.Empty(t, s.BoardColumns(b.ID))
}

func TestBoardsNewestFirst(t *testing.T) {
	s := NewStore(nil)
	s.boards = map[string]domain.Board{
		"old": {ID: "old", LastUpdated: 10},
		"new": {ID: "new", LastUpdated: 30},
		"mid": {ID: "mid", LastUpdated: 20},
	}

	var ids []string
	for _, b := range s.Boards() {
		ids = append(ids, b.ID)
	}
	assert.True(t, slices.Equal([]string{"new", "mid", "old"}, ids), "got %v", ids)
}
