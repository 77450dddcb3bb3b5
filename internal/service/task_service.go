package service

import (
	"context"

	"kanban_api/internal/domain"
	"kanban_api/internal/perrors"
	"kanban_api/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TaskService struct {
	db     DB
	events Publisher
	tasks  *repository.TaskRepository
}

func NewTaskService(db DB, events Publisher) *TaskService {
	return &TaskService{
		db:     db,
		events: orNop(events),
		tasks:  repository.NewTaskRepository(db),
	}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	if _, err := repository.TaskColumnID(ctx, s.db, id, userID); err != nil {
		return nil, notFoundAs(err, msgTaskNotFound)
	}
	t, err := s.tasks.Get(ctx, id)
	return t, notFoundAs(err, msgTaskNotFound)
}

func (s *TaskService) Create(ctx context.Context, userID string, in domain.CreateTaskInput) (*domain.Task, error) {
	due, err := in.Validate()
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		ID:          uuid.NewString(),
		ColumnID:    in.ColumnID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     due,
	}
	var boardID string
	err = inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		boardID, err = repository.ColumnBoardID(ctx, tx, in.ColumnID, userID)
		if err != nil {
			return notFoundAs(err, msgColumnNotFound)
		}
		if err := repository.NewTaskRepository(tx).Create(ctx, t); err != nil {
			return err
		}
		return repository.NewBoardRepository(tx).TouchByColumn(ctx, t.ColumnID, repository.NowMillis())
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, newEvent(domain.EventTaskCreated, userID, boardID, t.ID))
	return t, nil
}

// Update applies a partial update. A columnId in the patch must name a
// column the caller owns, same as Move.
func (s *TaskService) Update(ctx context.Context, id, userID string, p domain.TaskPatch) (*domain.Task, error) {
	set := p.Assignments()
	if len(set) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	var (
		t                  *domain.Task
		oldBoard, newBoard string
	)
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		_, oldBoard, err = repository.TaskLocation(ctx, tx, id, userID)
		if err != nil {
			return notFoundAs(err, msgTaskNotFound)
		}
		newBoard = oldBoard
		if p.ColumnID.Set {
			newBoard, err = repository.ColumnBoardID(ctx, tx, p.ColumnID.Value, userID)
			if err != nil {
				return notFoundAs(err, msgColumnNotFound)
			}
		}

		t, err = repository.NewTaskRepository(tx).Update(ctx, id, set)
		if err != nil {
			return notFoundAs(err, msgTaskNotFound)
		}
		return touchBoards(ctx, tx, oldBoard, newBoard)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, newEvent(domain.EventTaskUpdated, userID, newBoard, t.ID))
	if oldBoard != newBoard {
		s.events.Publish(ctx, newEvent(domain.EventTaskUpdated, userID, oldBoard, t.ID))
	}
	return t, nil
}

// Move reassigns the task to columnID after checking both ends belong to the
// caller.
func (s *TaskService) Move(ctx context.Context, id, userID, columnID string) (*domain.Task, error) {
	if columnID == "" {
		return nil, perrors.Validation("columnId is required")
	}

	var (
		t                  *domain.Task
		oldBoard, newBoard string
	)
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		_, oldBoard, err = repository.TaskLocation(ctx, tx, id, userID)
		if err != nil {
			return notFoundAs(err, msgTaskNotFound)
		}
		newBoard, err = repository.ColumnBoardID(ctx, tx, columnID, userID)
		if err != nil {
			return notFoundAs(err, msgColumnNotFound)
		}

		t, err = repository.NewTaskRepository(tx).SetColumn(ctx, id, columnID)
		if err != nil {
			return notFoundAs(err, msgTaskNotFound)
		}
		return touchBoards(ctx, tx, oldBoard, newBoard)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, newEvent(domain.EventTaskMoved, userID, newBoard, t.ID))
	if oldBoard != newBoard {
		s.events.Publish(ctx, newEvent(domain.EventTaskMoved, userID, oldBoard, t.ID))
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	var boardID string
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		_, boardID, err = repository.TaskLocation(ctx, tx, id, userID)
		if err != nil {
			return notFoundAs(err, msgTaskNotFound)
		}
		if err := repository.NewTaskRepository(tx).Delete(ctx, id); err != nil {
			return notFoundAs(err, msgTaskNotFound)
		}
		return repository.NewBoardRepository(tx).Touch(ctx, boardID, repository.NowMillis())
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, newEvent(domain.EventTaskDeleted, userID, boardID, id))
	return nil
}

// touchBoards bumps the destination board and, for a cross-board move, the
// source board as well.
func touchBoards(ctx context.Context, tx pgx.Tx, oldBoard, newBoard string) error {
	boards := repository.NewBoardRepository(tx)
	now := repository.NowMillis()
	if err := boards.Touch(ctx, newBoard, now); err != nil {
		return err
	}
	if oldBoard != newBoard {
		return boards.Touch(ctx, oldBoard, now)
	}
	return nil
}
