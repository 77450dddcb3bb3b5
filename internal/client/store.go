package client

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"kanban_api/internal/domain"
)

// Store caches one user's boards, columns and tasks. The server is the source
// of truth: every mutation goes to the API first and only the response is
// applied locally.
type Store struct {
	api *Client
	now func() time.Time

	mu      sync.RWMutex
	boards  map[string]domain.Board
	columns map[string]domain.Column
	tasks   map[string]domain.Task
}

func NewStore(api *Client) *Store {
	return &Store{
		api:     api,
		now:     time.Now,
		boards:  map[string]domain.Board{},
		columns: map[string]domain.Column{},
		tasks:   map[string]domain.Task{},
	}
}

func (s *Store) API() *Client {
	return s.api
}

// Refresh replaces the whole cache with the server's state.
func (s *Store) Refresh(ctx context.Context) error {
	boards, err := s.api.Boards(ctx)
	if err != nil {
		return fmt.Errorf("load boards: %w", err)
	}
	tasks, err := s.api.Tasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	columns := map[string]domain.Column{}
	for _, b := range boards {
		cols, err := s.api.BoardColumns(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("load columns of board %s: %w", b.ID, err)
		}
		for _, c := range cols {
			columns[c.ID] = c
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards = make(map[string]domain.Board, len(boards))
	for _, b := range boards {
		s.boards[b.ID] = b
	}
	s.columns = columns
	s.tasks = make(map[string]domain.Task, len(tasks))
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return nil
}

// Boards

func (s *Store) CreateBoard(ctx context.Context, in domain.CreateBoardInput) (domain.Board, error) {
	b, err := s.api.CreateBoard(ctx, in)
	if err != nil {
		return domain.Board{}, err
	}
	cols, err := s.api.BoardColumns(ctx, b.ID)
	if err != nil {
		return domain.Board{}, fmt.Errorf("load seeded columns: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[b.ID] = *b
	for _, c := range cols {
		s.columns[c.ID] = c
	}
	return *b, nil
}

func (s *Store) UpdateBoard(ctx context.Context, id string, patch map[string]any) (domain.Board, error) {
	return s.putBoard(s.api.UpdateBoard(ctx, id, patch))
}

func (s *Store) ToggleStar(ctx context.Context, id string) (domain.Board, error) {
	return s.putBoard(s.api.ToggleStar(ctx, id))
}

func (s *Store) MarkViewed(ctx context.Context, id string) (domain.Board, error) {
	return s.putBoard(s.api.MarkViewed(ctx, id))
}

func (s *Store) putBoard(b *domain.Board, err error) (domain.Board, error) {
	if err != nil {
		return domain.Board{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[b.ID] = *b
	return *b, nil
}

// DeleteBoard drops the board together with its columns and their tasks.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	if err := s.api.DeleteBoard(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, id)
	for cid, c := range s.columns {
		if c.BoardID == id {
			s.dropColumnLocked(cid)
		}
	}
	return nil
}

// Columns

func (s *Store) CreateColumn(ctx context.Context, in domain.CreateColumnInput) (domain.Column, error) {
	return s.putColumn(s.api.CreateColumn(ctx, in))
}

func (s *Store) UpdateColumn(ctx context.Context, id string, patch map[string]any) (domain.Column, error) {
	return s.putColumn(s.api.UpdateColumn(ctx, id, patch))
}

func (s *Store) putColumn(c *domain.Column, err error) (domain.Column, error) {
	if err != nil {
		return domain.Column{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns[c.ID] = *c
	s.touchLocked(c.BoardID)
	return *c, nil
}

func (s *Store) DeleteColumn(ctx context.Context, id string) error {
	if err := s.api.DeleteColumn(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.columns[id]; ok {
		s.touchLocked(c.BoardID)
	}
	s.dropColumnLocked(id)
	return nil
}

func (s *Store) dropColumnLocked(id string) {
	delete(s.columns, id)
	for tid, t := range s.tasks {
		if t.ColumnID == id {
			delete(s.tasks, tid)
		}
	}
}

// MoveColumn moves a column to newIndex within its board and renumbers the
// board's columns 0..n-1. The board's columns are replaced with the server's
// answer.
func (s *Store) MoveColumn(ctx context.Context, boardID, columnID string, newIndex int) ([]domain.Column, error) {
	cols := s.BoardColumns(boardID)

	from := slices.IndexFunc(cols, func(c domain.Column) bool { return c.ID == columnID })
	if from < 0 {
		return nil, fmt.Errorf("column %s is not on board %s", columnID, boardID)
	}
	moved := cols[from]
	cols = slices.Delete(cols, from, from+1)
	newIndex = max(0, min(newIndex, len(cols)))
	cols = slices.Insert(cols, newIndex, moved)

	orders := make([]domain.ColumnOrder, len(cols))
	for i, c := range cols {
		orders[i] = domain.ColumnOrder{ID: c.ID, Order: i}
	}

	updated, err := s.api.ReorderColumns(ctx, boardID, orders)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.columns {
		if c.BoardID == boardID {
			delete(s.columns, id)
		}
	}
	for _, c := range updated {
		s.columns[c.ID] = c
	}
	s.touchLocked(boardID)
	return updated, nil
}

// Tasks

func (s *Store) CreateTask(ctx context.Context, in domain.CreateTaskInput) (domain.Task, error) {
	return s.putTask(s.api.CreateTask(ctx, in))
}

func (s *Store) UpdateTask(ctx context.Context, id string, patch map[string]any) (domain.Task, error) {
	return s.putTask(s.api.UpdateTask(ctx, id, patch))
}

func (s *Store) MoveTask(ctx context.Context, id, columnID string) (domain.Task, error) {
	return s.putTask(s.api.MoveTask(ctx, id, columnID))
}

// CompleteTask moves a task into its board's done column, or the last
// column when the board has none titled that way.
func (s *Store) CompleteTask(ctx context.Context, id string) (domain.Task, error) {
	s.mu.RLock()
	t, ok := s.tasks[id]
	var boardID string
	if ok {
		boardID = s.columns[t.ColumnID].BoardID
	}
	s.mu.RUnlock()
	if !ok {
		return domain.Task{}, fmt.Errorf("task %s is not cached", id)
	}

	cols := s.BoardColumns(boardID)
	if len(cols) == 0 {
		return domain.Task{}, fmt.Errorf("board %s has no columns", boardID)
	}
	target := cols[len(cols)-1]
	for _, c := range cols {
		if IsDoneColumn(c.Title) {
			target = c
			break
		}
	}
	if target.ID == t.ColumnID {
		return t, nil
	}
	return s.MoveTask(ctx, id, target.ID)
}

func (s *Store) putTask(t *domain.Task, err error) (domain.Task, error) {
	if err != nil {
		return domain.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.tasks[t.ID]; ok && prev.ColumnID != t.ColumnID {
		s.touchLocked(s.columns[prev.ColumnID].BoardID)
	}
	s.tasks[t.ID] = *t
	s.touchLocked(s.columns[t.ColumnID].BoardID)
	return *t, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		s.touchLocked(s.columns[t.ColumnID].BoardID)
	}
	delete(s.tasks, id)
	return nil
}

// touchLocked mirrors the server bumping lastUpdated on child writes.
func (s *Store) touchLocked(boardID string) {
	if b, ok := s.boards[boardID]; ok {
		b.LastUpdated = s.now().UnixMilli()
		s.boards[boardID] = b
	}
}

// Getters

// Boards returns boards most recently updated first.
func (s *Store) Boards() []domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Board, 0, len(s.boards))
	for _, b := range s.boards {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b domain.Board) int {
		if a.LastUpdated != b.LastUpdated {
			if a.LastUpdated > b.LastUpdated {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Store) Board(id string) (domain.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[id]
	return b, ok
}

// BoardColumns returns a board's columns sorted by order.
func (s *Store) BoardColumns(boardID string) []domain.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Column
	for _, c := range s.columns {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Column) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// ColumnTasks returns a column's tasks, newest first.
func (s *Store) ColumnTasks(columnID string) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasksLocked(func(t domain.Task) bool { return t.ColumnID == columnID })
}

func (s *Store) BoardTasks(boardID string) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasksLocked(func(t domain.Task) bool {
		return s.columns[t.ColumnID].BoardID == boardID
	})
}

// AllTasks returns every cached task, newest first.
func (s *Store) AllTasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasksLocked(func(domain.Task) bool { return true })
}

func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

func (s *Store) tasksLocked(keep func(domain.Task) bool) []domain.Task {
	var out []domain.Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// IsDoneColumn reports whether a column title marks finished work.
func IsDoneColumn(title string) bool {
	switch strings.ToLower(strings.TrimSpace(title)) {
	case "done", "completed", "finished":
		return true
	}
	return false
}
