package domain

import (
	"encoding/json"
	"testing"
	"time"

	"kanban_api/internal/perrors"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawPatch(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestParseBoardPatch(t *testing.T) {
	p, err := ParseBoardPatch(rawPatch(t, `{"title":"Roadmap","isStarred":true,"lastUpdated":1}`))
	require.NoError(t, err)

	want := []Assignment{
		{Column: "title", Value: "Roadmap"},
		{Column: "is_starred", Value: true},
	}
	if diff := cmp.Diff(want, p.Assignments()); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBoardPatchAllowsTouch(t *testing.T) {
	p, err := ParseBoardPatch(rawPatch(t, `{}`))
	require.NoError(t, err)
	assert.Empty(t, p.Assignments())
}

func TestPatchRejections(t *testing.T) {
	cases := []struct {
		name  string
		parse func(map[string]json.RawMessage) error
		body  string
		msg   string
	}{
		{"board id", boardParse, `{"id":"x"}`, "Field cannot be updated: id"},
		{"board owner", boardParse, `{"userId":"x"}`, "Field cannot be updated: userId"},
		{"board unknown", boardParse, `{"owner":"x"}`, "Unknown field: owner"},
		{"board empty title", boardParse, `{"title":""}`, "title cannot be empty"},
		{"board wrong type", boardParse, `{"isStarred":"yes"}`, "Invalid value for isStarred"},
		{"column board", columnParse, `{"boardId":"b"}`, "Field cannot be updated: boardId"},
		{"column fractional order", columnParse, `{"order":1.5}`, "Invalid value for order"},
		{"column empty", columnParse, `{}`, "No fields to update"},
		{"task priority", taskParse, `{"priority":"urgent"}`, "Invalid priority. Must be low, medium, or high"},
		{"task null title", taskParse, `{"title":null}`, "title cannot be null"},
		{"task bad date", taskParse, `{"dueDate":"tomorrow"}`, `Invalid dueDate "tomorrow"`},
		{"task created", taskParse, `{"createdAt":"2024-01-01"}`, "Field cannot be updated: createdAt"},
		{"task empty", taskParse, `{}`, "No fields to update"},
		{"profile email", profileParse, `{"email":"a@b.c"}`, "Field cannot be updated: email"},
		{"profile empty name", profileParse, `{"name":""}`, "name cannot be empty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.parse(rawPatch(t, tc.body))
			require.Error(t, err)
			perr, ok := perrors.As(err)
			require.True(t, ok)
			assert.Equal(t, perrors.ErrCodeInvalidRequest, perr.Code)
			assert.Equal(t, tc.msg, perr.Message)
		})
	}
}

func boardParse(m map[string]json.RawMessage) error {
	_, err := ParseBoardPatch(m)
	return err
}

func columnParse(m map[string]json.RawMessage) error {
	_, err := ParseColumnPatch(m)
	return err
}

func taskParse(m map[string]json.RawMessage) error {
	_, err := ParseTaskPatch(m)
	return err
}

func profileParse(m map[string]json.RawMessage) error {
	_, err := ParseProfilePatch(m)
	return err
}

func TestParseColumnPatchOrderZero(t *testing.T) {
	p, err := ParseColumnPatch(rawPatch(t, `{"order":0}`))
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{Column: "order", Value: 0}}, p.Assignments())
}

func TestParseTaskPatchNullables(t *testing.T) {
	p, err := ParseTaskPatch(rawPatch(t, `{"description":null,"dueDate":null,"priority":"high"}`))
	require.NoError(t, err)

	got := p.Assignments()
	require.Len(t, got, 3)
	assert.Equal(t, Assignment{Column: "description", Value: (*string)(nil)}, got[0])
	assert.Equal(t, Assignment{Column: "priority", Value: "high"}, got[1])
	assert.Equal(t, Assignment{Column: "due_date", Value: nil}, got[2])
}

func TestParseTaskPatchDueDate(t *testing.T) {
	p, err := ParseTaskPatch(rawPatch(t, `{"dueDate":"Sat Oct 18 2025","columnId":"c2"}`))
	require.NoError(t, err)

	got := p.Assignments()
	require.Len(t, got, 2)
	assert.Equal(t, Assignment{Column: "column_id", Value: "c2"}, got[0])
	assert.Equal(t, "due_date", got[1].Column)
	assert.Equal(t, time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC), got[1].Value)
}

func TestParseProfilePatch(t *testing.T) {
	p, err := ParseProfilePatch(rawPatch(t, `{"name":"Ada","avatarUrl":"https://x/a.png"}`))
	require.NoError(t, err)

	got := p.Assignments()
	require.Len(t, got, 2)
	assert.Equal(t, "name", got[0].Column)
	assert.Equal(t, "Ada", got[0].Value)
	assert.Equal(t, "avatar_url", got[1].Column)
	url, ok := got[1].Value.(*string)
	require.True(t, ok)
	assert.Equal(t, "https://x/a.png", *url)
}

func TestProfileNameIsTrimmed(t *testing.T) {
	p, err := ParseProfilePatch(rawPatch(t, `{"name":"  Ada  "}`))
	require.NoError(t, err)
	assert.Equal(t, Some("Ada"), p.Name)

	_, err = ParseProfilePatch(rawPatch(t, `{"name":"   "}`))
	assert.EqualError(t, err, "name cannot be empty")
}
