package domain

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The API contract and the storage schema must stay in step with the struct
// tags the repositories and handlers rely on.
func TestFieldTablesMatchStructTags(t *testing.T) {
	cases := []struct {
		table FieldTable
		typ   any
	}{
		{BoardFields, Board{}},
		{ColumnFields, Column{}},
		{TaskFields, Task{}},
		{UserFields, User{}},
	}

	for _, tc := range cases {
		t.Run(tc.table.Entity, func(t *testing.T) {
			rt := reflect.TypeOf(tc.typ)
			exported := map[string]string{}
			for i := 0; i < rt.NumField(); i++ {
				f := rt.Field(i)
				jsonKey := strings.Split(f.Tag.Get("json"), ",")[0]
				if jsonKey == "-" {
					continue
				}
				exported[jsonKey] = f.Tag.Get("db")
			}

			assert.Len(t, tc.table.Fields, len(exported))
			for _, f := range tc.table.Fields {
				col, ok := exported[f.JSON]
				if assert.True(t, ok, "no struct field for %s", f.JSON) {
					assert.Equal(t, col, f.Column, f.JSON)
				}
			}
		})
	}
}

func TestImmutableFieldsAreNotUpdatable(t *testing.T) {
	for _, key := range []string{"id", "userId"} {
		f, ok := BoardFields.Lookup(key)
		assert.True(t, ok)
		assert.False(t, f.Updatable, key)
	}
	f, _ := ColumnFields.Lookup("boardId")
	assert.False(t, f.Updatable)
	f, _ = TaskFields.Lookup("id")
	assert.False(t, f.Updatable)
	f, _ = UserFields.Lookup("email")
	assert.False(t, f.Updatable)
}

func TestColumnPanicsOnUnknownKey(t *testing.T) {
	assert.Equal(t, "order", ColumnFields.Column("order"))
	assert.Panics(t, func() { ColumnFields.Column("position") })
}
