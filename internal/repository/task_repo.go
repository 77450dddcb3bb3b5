package repository

import (
	"context"
	"fmt"

	"kanban_api/internal/domain"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `t.id, t.column_id, t.title, t.description, t.priority, t.due_date, t.created_at`

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) list(ctx context.Context, sql string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Task])
}

// ListByUser returns every task on the user's boards, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t
		 JOIN columns c ON c.id = t.column_id
		 JOIN boards b ON b.id = c.board_id
		 WHERE b.user_id = $1
		 ORDER BY t.created_at DESC`,
		userID,
	)
}

func (r *TaskRepository) ListByBoard(ctx context.Context, boardID string) ([]domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t
		 JOIN columns c ON c.id = t.column_id
		 WHERE c.board_id = $1
		 ORDER BY t.created_at`,
		boardID,
	)
}

func (r *TaskRepository) ListByColumn(ctx context.Context, columnID string) ([]domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.column_id = $1 ORDER BY t.created_at`,
		columnID,
	)
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id)
	if err != nil {
		return nil, err
	}
	t, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[domain.Task])
	return t, notFound(err)
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (id, column_id, title, description, priority, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		t.ID, t.ColumnID, t.Title, t.Description, string(t.Priority), t.DueDate,
	).Scan(&t.CreatedAt)
}

func (r *TaskRepository) Update(ctx context.Context, id string, set []domain.Assignment) (*domain.Task, error) {
	clause, args := setClause(set, 1)
	sql := fmt.Sprintf(
		`UPDATE tasks t SET %s WHERE t.id = $%d RETURNING `+taskColumns,
		clause, len(args)+1,
	)
	rows, err := r.db.Query(ctx, sql, append(args, id)...)
	if err != nil {
		return nil, err
	}
	t, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[domain.Task])
	return t, notFound(err)
}

func (r *TaskRepository) SetColumn(ctx context.Context, id, columnID string) (*domain.Task, error) {
	return r.Update(ctx, id, []domain.Assignment{{Column: "column_id", Value: columnID}})
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
