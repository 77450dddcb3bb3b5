package domain

type Column struct {
	ID      string `db:"id" json:"id"`
	BoardID string `db:"board_id" json:"boardId"`
	Title   string `db:"title" json:"title"`
	Order   int    `db:"order" json:"order"`
}

type CreateColumnInput struct {
	BoardID string `json:"boardId" binding:"required"`
	Title   string `json:"title" binding:"required"`
	// nil when absent; 0 is a valid order.
	Order *int `json:"order" binding:"required"`
}

func (in CreateColumnInput) Validate() error {
	return Validate(in)
}
