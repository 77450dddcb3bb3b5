package domain

import (
	"time"

	"kanban_api/internal/perrors"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var errInvalidPriority = perrors.Validation("Invalid priority. Must be low, medium, or high")

type Task struct {
	ID          string    `db:"id" json:"id"`
	ColumnID    string    `db:"column_id" json:"columnId"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Priority    Priority  `db:"priority" json:"priority"`
	DueDate     *Date     `db:"due_date" json:"dueDate"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreateTaskInput struct {
	ColumnID    string   `json:"columnId" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Priority    Priority `json:"priority" binding:"required,oneof=low medium high"`
	DueDate     *string  `json:"dueDate"`
}

// Validate checks the input and returns the parsed due date, if any.
func (in CreateTaskInput) Validate() (*Date, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if in.DueDate == nil || *in.DueDate == "" {
		return nil, nil
	}
	d, err := ParseDate(*in.DueDate)
	if err != nil {
		return nil, perrors.Validationf("Invalid dueDate %q", *in.DueDate)
	}
	return &d, nil
}

type MoveTaskInput struct {
	ColumnID string `json:"columnId"`
}
