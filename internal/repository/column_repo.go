package repository

import (
	"context"
	"fmt"

	"kanban_api/internal/domain"

	"github.com/jackc/pgx/v5"
)

const columnColumns = `id, board_id, title, "order"`

type ColumnRepository struct {
	db DBTX
}

func NewColumnRepository(db DBTX) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) ListByBoard(ctx context.Context, boardID string) ([]domain.Column, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+columnColumns+` FROM columns WHERE board_id = $1 ORDER BY "order", id`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Column])
}

func (r *ColumnRepository) Get(ctx context.Context, id string) (*domain.Column, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columnColumns+` FROM columns WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[domain.Column])
	return c, notFound(err)
}

func (r *ColumnRepository) Create(ctx context.Context, c *domain.Column) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO columns (id, board_id, title, "order") VALUES ($1, $2, $3, $4)`,
		c.ID, c.BoardID, c.Title, c.Order,
	)
	return err
}

func (r *ColumnRepository) Update(ctx context.Context, id string, set []domain.Assignment) (*domain.Column, error) {
	clause, args := setClause(set, 1)
	sql := fmt.Sprintf(`UPDATE columns SET %s WHERE id = $%d RETURNING `+columnColumns, clause, len(args)+1)
	rows, err := r.db.Query(ctx, sql, append(args, id)...)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[domain.Column])
	return c, notFound(err)
}

func (r *ColumnRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOrder moves one column of boardID. ErrNotFound when the column is not
// on that board.
func (r *ColumnRepository) SetOrder(ctx context.Context, id, boardID string, order int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE columns SET "order" = $1 WHERE id = $2 AND board_id = $3`,
		order, id, boardID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Normalize rewrites the board's orders to 0..n-1, keeping the current
// sequence and breaking ties by id.
func (r *ColumnRepository) Normalize(ctx context.Context, boardID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE columns c SET "order" = ranked.pos
		 FROM (
		     SELECT id, (ROW_NUMBER() OVER (ORDER BY "order", id) - 1)::int AS pos
		     FROM columns
		     WHERE board_id = $1
		 ) ranked
		 WHERE c.id = ranked.id AND c."order" <> ranked.pos`,
		boardID,
	)
	return err
}
