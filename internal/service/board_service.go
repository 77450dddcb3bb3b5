package service

import (
	"context"

	"kanban_api/internal/domain"
	"kanban_api/internal/perrors"
	"kanban_api/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BoardService struct {
	db      DB
	events  Publisher
	boards  *repository.BoardRepository
	columns *repository.ColumnRepository
	tasks   *repository.TaskRepository
	seed    []string
}

type BoardOption func(*BoardService)

// WithDefaultColumns overrides the columns seeded into new boards.
func WithDefaultColumns(titles ...string) BoardOption {
	return func(s *BoardService) { s.seed = titles }
}

func NewBoardService(db DB, events Publisher, opts ...BoardOption) *BoardService {
	s := &BoardService{
		db:      db,
		events:  orNop(events),
		boards:  repository.NewBoardRepository(db),
		columns: repository.NewColumnRepository(db),
		tasks:   repository.NewTaskRepository(db),
		seed:    domain.DefaultColumns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BoardService) List(ctx context.Context, userID string) ([]domain.Board, error) {
	return s.boards.ListByUser(ctx, userID)
}

func (s *BoardService) Get(ctx context.Context, id, userID string) (*domain.Board, error) {
	b, err := s.boards.Get(ctx, id, userID)
	return b, notFoundAs(err, msgBoardNotFound)
}

// Create inserts the board and its seed columns atomically.
func (s *BoardService) Create(ctx context.Context, userID string, in domain.CreateBoardInput) (*domain.Board, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b := &domain.Board{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		LastUpdated: repository.NowMillis(),
	}

	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := repository.NewBoardRepository(tx).Create(ctx, b); err != nil {
			return err
		}
		columns := repository.NewColumnRepository(tx)
		for i, title := range s.seed {
			c := &domain.Column{ID: uuid.NewString(), BoardID: b.ID, Title: title, Order: i}
			if err := columns.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, newEvent(domain.EventBoardCreated, userID, b.ID, b.ID))
	return b, nil
}

func (s *BoardService) Update(ctx context.Context, id, userID string, p domain.BoardPatch) (*domain.Board, error) {
	b, err := s.boards.Update(ctx, id, userID, p.Assignments(), repository.NowMillis())
	if err != nil {
		return nil, notFoundAs(err, msgBoardNotFound)
	}
	s.events.Publish(ctx, newEvent(domain.EventBoardUpdated, userID, b.ID, b.ID))
	return b, nil
}

func (s *BoardService) Delete(ctx context.Context, id, userID string) error {
	if err := s.boards.Delete(ctx, id, userID); err != nil {
		return notFoundAs(err, msgBoardNotFound)
	}
	s.events.Publish(ctx, newEvent(domain.EventBoardDeleted, userID, id, id))
	return nil
}

func (s *BoardService) ToggleStar(ctx context.Context, id, userID string) (*domain.Board, error) {
	b, err := s.boards.ToggleStar(ctx, id, userID, repository.NowMillis())
	if err != nil {
		return nil, notFoundAs(err, msgBoardNotFound)
	}
	s.events.Publish(ctx, newEvent(domain.EventBoardUpdated, userID, b.ID, b.ID))
	return b, nil
}

func (s *BoardService) MarkViewed(ctx context.Context, id, userID string) (*domain.Board, error) {
	b, err := s.boards.MarkViewed(ctx, id, userID, repository.NowMillis())
	if err != nil {
		return nil, notFoundAs(err, msgBoardNotFound)
	}
	s.events.Publish(ctx, newEvent(domain.EventBoardUpdated, userID, b.ID, b.ID))
	return b, nil
}

func (s *BoardService) Columns(ctx context.Context, boardID, userID string) ([]domain.Column, error) {
	if err := repository.BoardOwned(ctx, s.db, boardID, userID); err != nil {
		return nil, notFoundAs(err, msgBoardNotFound)
	}
	return s.columns.ListByBoard(ctx, boardID)
}

func (s *BoardService) Tasks(ctx context.Context, boardID, userID string) ([]domain.Task, error) {
	if err := repository.BoardOwned(ctx, s.db, boardID, userID); err != nil {
		return nil, notFoundAs(err, msgBoardNotFound)
	}
	return s.tasks.ListByBoard(ctx, boardID)
}

// ReorderColumns applies the new orders, renumbers the board's columns to
// 0..n-1 and returns them sorted. The board row stays locked until commit so
// concurrent reorders of one board serialise.
func (s *BoardService) ReorderColumns(ctx context.Context, boardID, userID string, orders []domain.ColumnOrder) ([]domain.Column, error) {
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if o.ID == "" {
			return nil, perrors.Validation("Each column order needs an id")
		}
		if seen[o.ID] {
			return nil, perrors.Validationf("Duplicate column id: %s", o.ID)
		}
		seen[o.ID] = true
	}

	var result []domain.Column
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		boards := repository.NewBoardRepository(tx)
		columns := repository.NewColumnRepository(tx)

		if err := boards.LockOwned(ctx, boardID, userID); err != nil {
			return notFoundAs(err, msgBoardNotFound)
		}
		for _, o := range orders {
			if err := columns.SetOrder(ctx, o.ID, boardID, o.Order); err != nil {
				return notFoundAs(err, msgColumnNotFound)
			}
		}
		if err := columns.Normalize(ctx, boardID); err != nil {
			return err
		}
		if err := boards.Touch(ctx, boardID, repository.NowMillis()); err != nil {
			return err
		}

		var err error
		result, err = columns.ListByBoard(ctx, boardID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, newEvent(domain.EventColumnsReordered, userID, boardID, boardID))
	return result, nil
}
