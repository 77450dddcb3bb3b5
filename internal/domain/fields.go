package domain

import "kanban_api/internal/perrors"

// Field maps one JSON key of the API contract to its storage column.
type Field struct {
	JSON      string
	Column    string
	Updatable bool
}

type FieldTable struct {
	Entity string
	Fields []Field
}

var BoardFields = FieldTable{
	Entity: "board",
	Fields: []Field{
		{JSON: "id", Column: "id"},
		{JSON: "userId", Column: "user_id"},
		{JSON: "title", Column: "title", Updatable: true},
		{JSON: "description", Column: "description", Updatable: true},
		{JSON: "color", Column: "color", Updatable: true},
		{JSON: "lastUpdated", Column: "last_updated"},
		{JSON: "lastViewed", Column: "last_viewed"},
		{JSON: "isStarred", Column: "is_starred", Updatable: true},
	},
}

// "order" is a reserved word; the repository quotes every column it writes.
var ColumnFields = FieldTable{
	Entity: "column",
	Fields: []Field{
		{JSON: "id", Column: "id"},
		{JSON: "boardId", Column: "board_id"},
		{JSON: "title", Column: "title", Updatable: true},
		{JSON: "order", Column: "order", Updatable: true},
	},
}

var TaskFields = FieldTable{
	Entity: "task",
	Fields: []Field{
		{JSON: "id", Column: "id"},
		{JSON: "columnId", Column: "column_id", Updatable: true},
		{JSON: "title", Column: "title", Updatable: true},
		{JSON: "description", Column: "description", Updatable: true},
		{JSON: "priority", Column: "priority", Updatable: true},
		{JSON: "dueDate", Column: "due_date", Updatable: true},
		{JSON: "createdAt", Column: "created_at"},
	},
}

var UserFields = FieldTable{
	Entity: "user",
	Fields: []Field{
		{JSON: "id", Column: "id"},
		{JSON: "email", Column: "email"},
		{JSON: "name", Column: "name", Updatable: true},
		{JSON: "avatarUrl", Column: "avatar_url", Updatable: true},
		{JSON: "createdAt", Column: "created_at"},
	},
}

func (t FieldTable) Lookup(key string) (Field, bool) {
	for _, f := range t.Fields {
		if f.JSON == key {
			return f, true
		}
	}
	return Field{}, false
}

// Column returns the storage column for key. Unknown keys are a programming
// error.
func (t FieldTable) Column(key string) string {
	f, ok := t.Lookup(key)
	if !ok {
		panic("domain: no " + t.Entity + " field " + key)
	}
	return f.Column
}

func (t FieldTable) updatable(key string) (Field, error) {
	f, ok := t.Lookup(key)
	if !ok {
		return Field{}, perrors.Validationf("Unknown field: %s", key)
	}
	if !f.Updatable {
		return Field{}, perrors.Validationf("Field cannot be updated: %s", key)
	}
	return f, nil
}
