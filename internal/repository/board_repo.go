package repository

import (
	"context"
	"fmt"

	"kanban_api/internal/domain"

	"github.com/jackc/pgx/v5"
)

const boardColumns = `id, user_id, title, description, color, last_updated, last_viewed, is_starred`

type BoardRepository struct {
	db DBTX
}

func NewBoardRepository(db DBTX) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) scanOne(ctx context.Context, sql string, args ...any) (*domain.Board, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	b, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[domain.Board])
	return b, notFound(err)
}

func (r *BoardRepository) ListByUser(ctx context.Context, userID string) ([]domain.Board, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE user_id = $1 ORDER BY last_updated DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Board])
}

func (r *BoardRepository) Get(ctx context.Context, id, userID string) (*domain.Board, error) {
	return r.scanOne(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
}

// LockOwned takes a row lock on the board for the rest of the transaction.
func (r *BoardRepository) LockOwned(ctx context.Context, id, userID string) error {
	var one int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM boards WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&one)
	return notFound(err)
}

func (r *BoardRepository) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO boards (id, user_id, title, description, color, last_updated, last_viewed, is_starred)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.Title, b.Description, b.Color, b.LastUpdated, b.LastViewed, b.IsStarred,
	)
	return err
}

// Update applies the patch and sets last_updated in the same statement.
func (r *BoardRepository) Update(ctx context.Context, id, userID string, set []domain.Assignment, now int64) (*domain.Board, error) {
	set = append(set, domain.Assignment{Column: "last_updated", Value: now})
	clause, args := setClause(set, 1)
	n := len(args)
	sql := fmt.Sprintf(
		`UPDATE boards SET %s WHERE id = $%d AND user_id = $%d RETURNING `+boardColumns,
		clause, n+1, n+2,
	)
	return r.scanOne(ctx, sql, append(args, id, userID)...)
}

func (r *BoardRepository) ToggleStar(ctx context.Context, id, userID string, now int64) (*domain.Board, error) {
	return r.scanOne(ctx,
		`UPDATE boards SET is_starred = NOT is_starred, last_updated = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+boardColumns,
		now, id, userID,
	)
}

func (r *BoardRepository) MarkViewed(ctx context.Context, id, userID string, now int64) (*domain.Board, error) {
	return r.scanOne(ctx,
		`UPDATE boards SET last_viewed = $1, last_updated = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+boardColumns,
		now, id, userID,
	)
}

func (r *BoardRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM boards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BoardRepository) Touch(ctx context.Context, id string, now int64) error {
	_, err := r.db.Exec(ctx, `UPDATE boards SET last_updated = $1 WHERE id = $2`, now, id)
	return err
}

// TouchByColumn bumps the board that owns columnID.
func (r *BoardRepository) TouchByColumn(ctx context.Context, columnID string, now int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE boards SET last_updated = $1
		 WHERE id = (SELECT board_id FROM columns WHERE id = $2)`,
		now, columnID,
	)
	return err
}
