package domain

// DefaultColumns are seeded into every new board, left to right.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

// Board timestamps are unix milliseconds.
type Board struct {
	ID          string `db:"id" json:"id"`
	UserID      string `db:"user_id" json:"userId"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Color       string `db:"color" json:"color"`
	LastUpdated int64  `db:"last_updated" json:"lastUpdated"`
	LastViewed  *int64 `db:"last_viewed" json:"lastViewed"`
	IsStarred   bool   `db:"is_starred" json:"isStarred"`
}

type CreateBoardInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"required"`
}

func (in CreateBoardInput) Validate() error {
	return Validate(in)
}

// ColumnOrder is one entry of a reorder request.
type ColumnOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}
