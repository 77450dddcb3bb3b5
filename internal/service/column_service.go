package service

import (
	"context"

	"kanban_api/internal/domain"
	"kanban_api/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ColumnService struct {
	db      DB
	events  Publisher
	columns *repository.ColumnRepository
	tasks   *repository.TaskRepository
}

func NewColumnService(db DB, events Publisher) *ColumnService {
	return &ColumnService{
		db:      db,
		events:  orNop(events),
		columns: repository.NewColumnRepository(db),
		tasks:   repository.NewTaskRepository(db),
	}
}

func (s *ColumnService) Get(ctx context.Context, id, userID string) (*domain.Column, error) {
	if _, err := repository.ColumnBoardID(ctx, s.db, id, userID); err != nil {
		return nil, notFoundAs(err, msgColumnNotFound)
	}
	c, err := s.columns.Get(ctx, id)
	return c, notFoundAs(err, msgColumnNotFound)
}

func (s *ColumnService) Tasks(ctx context.Context, id, userID string) ([]domain.Task, error) {
	if _, err := repository.ColumnBoardID(ctx, s.db, id, userID); err != nil {
		return nil, notFoundAs(err, msgColumnNotFound)
	}
	return s.tasks.ListByColumn(ctx, id)
}

func (s *ColumnService) Create(ctx context.Context, userID string, in domain.CreateColumnInput) (*domain.Column, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c := &domain.Column{
		ID:      uuid.NewString(),
		BoardID: in.BoardID,
		Title:   in.Title,
		Order:   *in.Order,
	}
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := repository.BoardOwned(ctx, tx, in.BoardID, userID); err != nil {
			return notFoundAs(err, msgBoardNotFound)
		}
		if err := repository.NewColumnRepository(tx).Create(ctx, c); err != nil {
			return err
		}
		return repository.NewBoardRepository(tx).Touch(ctx, c.BoardID, repository.NowMillis())
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, newEvent(domain.EventColumnCreated, userID, c.BoardID, c.ID))
	return c, nil
}

func (s *ColumnService) Update(ctx context.Context, id, userID string, p domain.ColumnPatch) (*domain.Column, error) {
	set := p.Assignments()
	if len(set) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	var c *domain.Column
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		boardID, err := repository.ColumnBoardID(ctx, tx, id, userID)
		if err != nil {
			return notFoundAs(err, msgColumnNotFound)
		}
		c, err = repository.NewColumnRepository(tx).Update(ctx, id, set)
		if err != nil {
			return notFoundAs(err, msgColumnNotFound)
		}
		return repository.NewBoardRepository(tx).Touch(ctx, boardID, repository.NowMillis())
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, newEvent(domain.EventColumnUpdated, userID, c.BoardID, c.ID))
	return c, nil
}

// Delete removes the column; its tasks go with it through the foreign key.
func (s *ColumnService) Delete(ctx context.Context, id, userID string) error {
	var boardID string
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		boardID, err = repository.ColumnBoardID(ctx, tx, id, userID)
		if err != nil {
			return notFoundAs(err, msgColumnNotFound)
		}
		if err := repository.NewColumnRepository(tx).Delete(ctx, id); err != nil {
			return notFoundAs(err, msgColumnNotFound)
		}
		return repository.NewBoardRepository(tx).Touch(ctx, boardID, repository.NowMillis())
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, newEvent(domain.EventColumnDeleted, userID, boardID, id))
	return nil
}
