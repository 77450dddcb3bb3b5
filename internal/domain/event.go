package domain

type EventType string

const (
	EventBoardCreated     EventType = "board.created"
	EventBoardUpdated     EventType = "board.updated"
	EventBoardDeleted     EventType = "board.deleted"
	EventColumnCreated    EventType = "column.created"
	EventColumnUpdated    EventType = "column.updated"
	EventColumnDeleted    EventType = "column.deleted"
	EventColumnsReordered EventType = "column.reordered"
	EventTaskCreated      EventType = "task.created"
	EventTaskUpdated      EventType = "task.updated"
	EventTaskMoved        EventType = "task.moved"
	EventTaskDeleted      EventType = "task.deleted"
)

// Event tells a user's other sessions that a board changed. At is unix ms.
type Event struct {
	Type     EventType `json:"type"`
	BoardID  string    `json:"boardId"`
	EntityID string    `json:"entityId"`
	UserID   string    `json:"userId"`
	At       int64     `json:"at"`
}
