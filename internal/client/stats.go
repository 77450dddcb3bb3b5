package client

import (
	"math"
	"slices"
	"time"

	"kanban_api/internal/domain"
)

const dueSoonWindow = 48 * time.Hour

type Stats struct {
	TotalBoards int `json:"totalBoards"`
	TotalTasks  int `json:"totalTasks"`
	DoneTasks   int `json:"doneTasks"`
	// Completion is a whole percentage; 0 when there are no tasks.
	Completion int `json:"completion"`
	DueToday   int `json:"dueToday"`
	DueSoon    int `json:"dueSoon"`
	Overdue    int `json:"overdue"`

	LastViewed *domain.Board `json:"lastViewed"`
	Starred    int           `json:"starred"`
	// Boards follows Store.Boards order.
	Boards []BoardSummary `json:"boards"`
}

// BoardSummary is one dashboard card.
type BoardSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	IsStarred bool   `json:"isStarred"`
	Progress  int    `json:"progress"`
}

// Stats summarises the cache as of now. A due date counts from midnight of
// that day in now's location.
func (s *Store) Stats(now time.Time) Stats {
	boards := s.Boards()
	tasks := s.AllTasks()

	s.mu.RLock()
	done := make(map[string]bool, len(s.columns))
	for id, c := range s.columns {
		done[id] = IsDoneColumn(c.Title)
	}
	s.mu.RUnlock()

	st := Stats{TotalBoards: len(boards), TotalTasks: len(tasks), Boards: make([]BoardSummary, 0, len(boards))}
	today := domain.DateOf(now)

	for _, t := range tasks {
		if done[t.ColumnID] {
			st.DoneTasks++
			continue
		}
		if t.DueDate == nil {
			continue
		}
		due := time.Date(t.DueDate.Year(), t.DueDate.Month(), t.DueDate.Day(), 0, 0, 0, 0, now.Location())
		switch {
		case t.DueDate.Equal(today):
			st.DueToday++
		case due.Before(now):
			st.Overdue++
		}
		if due.After(now) && due.Before(now.Add(dueSoonWindow)) {
			st.DueSoon++
		}
	}

	st.Completion = percent(st.DoneTasks, st.TotalTasks)

	for i, b := range boards {
		if st.LastViewed == nil || viewedAt(b) > viewedAt(*st.LastViewed) {
			st.LastViewed = &boards[i]
		}
		if b.IsStarred {
			st.Starred++
		}
		st.Boards = append(st.Boards, BoardSummary{
			ID:        b.ID,
			Title:     b.Title,
			IsStarred: b.IsStarred,
			Progress:  s.BoardProgress(b.ID),
		})
	}
	return st
}

// BoardProgress is the whole percentage of a board's tasks that sit in a
// done column. A board without tasks or without a done column is at 0.
func (s *Store) BoardProgress(boardID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total, done := 0, 0
	for _, t := range s.tasks {
		c, ok := s.columns[t.ColumnID]
		if !ok || c.BoardID != boardID {
			continue
		}
		total++
		if IsDoneColumn(c.Title) {
			done++
		}
	}
	return percent(done, total)
}

// RecentBoards returns up to n boards, most recently viewed first. Boards
// never viewed come last, most recently updated first. n <= 0 means all.
func (s *Store) RecentBoards(n int) []domain.Board {
	boards := s.Boards()
	slices.SortStableFunc(boards, func(a, b domain.Board) int {
		va, vb := viewedAt(a), viewedAt(b)
		switch {
		case va > vb:
			return -1
		case va < vb:
			return 1
		}
		return 0
	})
	if n > 0 && len(boards) > n {
		boards = boards[:n]
	}
	return boards
}

// StarredBoards returns the starred boards in Boards order.
func (s *Store) StarredBoards() []domain.Board {
	out := []domain.Board{}
	for _, b := range s.Boards() {
		if b.IsStarred {
			out = append(out, b)
		}
	}
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func viewedAt(b domain.Board) int64 {
	if b.LastViewed == nil {
		return 0
	}
	return *b.LastViewed
}
