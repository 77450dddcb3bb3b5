package repository

import "context"

// Ownership guards. Each resolves the resource through its board to the
// owner and returns ErrNotFound both when the row is missing and when
// someone else owns it.

func BoardOwned(ctx context.Context, q DBTX, boardID, userID string) error {
	var one int
	err := q.QueryRow(ctx,
		`SELECT 1 FROM boards WHERE id = $1 AND user_id = $2`,
		boardID, userID,
	).Scan(&one)
	return notFound(err)
}

// ColumnBoardID returns the board of an owned column.
func ColumnBoardID(ctx context.Context, q DBTX, columnID, userID string) (string, error) {
	var boardID string
	err := q.QueryRow(ctx,
		`SELECT c.board_id
		 FROM columns c
		 JOIN boards b ON b.id = c.board_id
		 WHERE c.id = $1 AND b.user_id = $2`,
		columnID, userID,
	).Scan(&boardID)
	return boardID, notFound(err)
}

// TaskColumnID returns the column of an owned task.
func TaskColumnID(ctx context.Context, q DBTX, taskID, userID string) (string, error) {
	columnID, _, err := TaskLocation(ctx, q, taskID, userID)
	return columnID, err
}

// TaskLocation returns both the column and the board of an owned task.
func TaskLocation(ctx context.Context, q DBTX, taskID, userID string) (columnID, boardID string, err error) {
	err = q.QueryRow(ctx,
		`SELECT t.column_id, c.board_id
		 FROM tasks t
		 JOIN columns c ON c.id = t.column_id
		 JOIN boards b ON b.id = c.board_id
		 WHERE t.id = $1 AND b.user_id = $2`,
		taskID, userID,
	).Scan(&columnID, &boardID)
	return columnID, boardID, notFound(err)
}
