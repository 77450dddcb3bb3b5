package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"kanban_api/internal/perrors"
)

var ErrNoFieldsToUpdate = perrors.Validation("No fields to update")

// Optional is a patch value; Set is false when the key was absent.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

type BoardPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Color       Optional[string]
	IsStarred   Optional[bool]
}

type ColumnPatch struct {
	Title Optional[string]
	Order Optional[int]
}

type TaskPatch struct {
	ColumnID    Optional[string]
	Title       Optional[string]
	Description Optional[*string]
	Priority    Optional[Priority]
	DueDate     Optional[*Date]
}

type ProfilePatch struct {
	Name      Optional[string]
	AvatarURL Optional[*string]
}

// ParseBoardPatch accepts an empty patch: every board update bumps
// last_updated, so "{}" is a touch.
func ParseBoardPatch(raw map[string]json.RawMessage) (BoardPatch, error) {
	var p BoardPatch
	for _, key := range sortedKeys(raw) {
		// lastUpdated is always overwritten with the current time.
		if key == "lastUpdated" {
			continue
		}
		if _, err := BoardFields.updatable(key); err != nil {
			return p, err
		}
		var err error
		val := raw[key]
		switch key {
		case "title":
			p.Title, err = decodeNonEmpty(key, val)
		case "description":
			p.Description, err = decode[string](key, val)
		case "color":
			p.Color, err = decodeNonEmpty(key, val)
		case "isStarred":
			p.IsStarred, err = decode[bool](key, val)
		}
		if err != nil {
			return p, err
		}
	}
	return p, nil
}

func (p BoardPatch) Assignments() []Assignment {
	var out []Assignment
	out = appendSet(out, BoardFields, "title", p.Title)
	out = appendSet(out, BoardFields, "description", p.Description)
	out = appendSet(out, BoardFields, "color", p.Color)
	out = appendSet(out, BoardFields, "isStarred", p.IsStarred)
	return out
}

func ParseColumnPatch(raw map[string]json.RawMessage) (ColumnPatch, error) {
	var p ColumnPatch
	for _, key := range sortedKeys(raw) {
		if _, err := ColumnFields.updatable(key); err != nil {
			return p, err
		}
		var err error
		val := raw[key]
		switch key {
		case "title":
			p.Title, err = decodeNonEmpty(key, val)
		case "order":
			p.Order, err = decode[int](key, val)
		}
		if err != nil {
			return p, err
		}
	}
	if !p.Title.Set && !p.Order.Set {
		return p, ErrNoFieldsToUpdate
	}
	return p, nil
}

func (p ColumnPatch) Assignments() []Assignment {
	var out []Assignment
	out = appendSet(out, ColumnFields, "title", p.Title)
	out = appendSet(out, ColumnFields, "order", p.Order)
	return out
}

func ParseTaskPatch(raw map[string]json.RawMessage) (TaskPatch, error) {
	var p TaskPatch
	for _, key := range sortedKeys(raw) {
		if _, err := TaskFields.updatable(key); err != nil {
			return p, err
		}
		var err error
		val := raw[key]
		switch key {
		case "columnId":
			p.ColumnID, err = decodeNonEmpty(key, val)
		case "title":
			p.Title, err = decodeNonEmpty(key, val)
		case "description":
			p.Description, err = decodeNullable[string](key, val)
		case "priority":
			p.Priority, err = decode[Priority](key, val)
			if err == nil && !p.Priority.Value.Valid() {
				err = errInvalidPriority
			}
		case "dueDate":
			p.DueDate, err = decodeDueDate(val)
		}
		if err != nil {
			return p, err
		}
	}
	if !p.ColumnID.Set && !p.Title.Set && !p.Description.Set && !p.Priority.Set && !p.DueDate.Set {
		return p, ErrNoFieldsToUpdate
	}
	return p, nil
}

func (p TaskPatch) Assignments() []Assignment {
	var out []Assignment
	out = appendSet(out, TaskFields, "columnId", p.ColumnID)
	out = appendSet(out, TaskFields, "title", p.Title)
	out = appendSet(out, TaskFields, "description", p.Description)
	if p.Priority.Set {
		out = append(out, Assignment{TaskFields.Column("priority"), string(p.Priority.Value)})
	}
	if p.DueDate.Set {
		var v any
		if p.DueDate.Value != nil {
			v = p.DueDate.Value.Time
		}
		out = append(out, Assignment{TaskFields.Column("dueDate"), v})
	}
	return out
}

func ParseProfilePatch(raw map[string]json.RawMessage) (ProfilePatch, error) {
	var p ProfilePatch
	for _, key := range sortedKeys(raw) {
		if _, err := UserFields.updatable(key); err != nil {
			return p, err
		}
		var err error
		val := raw[key]
		switch key {
		case "name":
			p.Name, err = decodeTrimmed(key, val)
		case "avatarUrl":
			p.AvatarURL, err = decodeNullable[string](key, val)
		}
		if err != nil {
			return p, err
		}
	}
	if !p.Name.Set && !p.AvatarURL.Set {
		return p, ErrNoFieldsToUpdate
	}
	return p, nil
}

func (p ProfilePatch) Assignments() []Assignment {
	var out []Assignment
	out = appendSet(out, UserFields, "name", p.Name)
	out = appendSet(out, UserFields, "avatarUrl", p.AvatarURL)
	return out
}

func appendSet[T any](out []Assignment, table FieldTable, key string, o Optional[T]) []Assignment {
	if !o.Set {
		return out
	}
	return append(out, Assignment{Column: table.Column(key), Value: o.Value})
}

func sortedKeys(raw map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isNull(val json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(val), []byte("null"))
}

func decode[T any](key string, val json.RawMessage) (Optional[T], error) {
	var v T
	if isNull(val) {
		return Optional[T]{}, perrors.Validationf("%s cannot be null", key)
	}
	if err := json.Unmarshal(val, &v); err != nil {
		return Optional[T]{}, perrors.Validationf("Invalid value for %s", key)
	}
	return Some(v), nil
}

func decodeNonEmpty(key string, val json.RawMessage) (Optional[string], error) {
	o, err := decode[string](key, val)
	if err != nil {
		return o, err
	}
	if o.Value == "" {
		return Optional[string]{}, perrors.Validationf("%s cannot be empty", key)
	}
	return o, nil
}

// decodeTrimmed is decodeNonEmpty for values stored without surrounding
// whitespace.
func decodeTrimmed(key string, val json.RawMessage) (Optional[string], error) {
	o, err := decode[string](key, val)
	if err != nil {
		return o, err
	}
	o.Value = strings.TrimSpace(o.Value)
	if o.Value == "" {
		return Optional[string]{}, perrors.Validationf("%s cannot be empty", key)
	}
	return o, nil
}

func decodeNullable[T any](key string, val json.RawMessage) (Optional[*T], error) {
	if isNull(val) {
		return Some[*T](nil), nil
	}
	o, err := decode[T](key, val)
	if err != nil {
		return Optional[*T]{}, err
	}
	return Some(&o.Value), nil
}

// decodeDueDate treats null and "" alike as clearing the date.
func decodeDueDate(val json.RawMessage) (Optional[*Date], error) {
	s, err := decodeNullable[string]("dueDate", val)
	if err != nil {
		return Optional[*Date]{}, err
	}
	if s.Value == nil || *s.Value == "" {
		return Some[*Date](nil), nil
	}
	d, err := ParseDate(*s.Value)
	if err != nil {
		return Optional[*Date]{}, perrors.Validationf("Invalid dueDate %q", *s.Value)
	}
	return Some(&d), nil
}
