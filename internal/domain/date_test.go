package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateLayouts(t *testing.T) {
	want := NewDate(2025, time.March, 7)
	for _, in := range []string{
		"2025-03-07",
		"2025-03-07T00:00:00.000Z",
		"2025-03-07T18:30:00+02:00",
		"2025-03-07T09:15",
		"Fri Mar 07 2025",
		" Fri Mar 7 2025 ",
	} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	_, err := ParseDate("03/07/2025")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.February, 29)
	b, err := json.Marshal(struct {
		Due *Date `json:"due"`
	}{&d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-02-29"}`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"Thu Feb 29 2024"`), &back))
	assert.Equal(t, "2024-02-29", back.String())
}

func TestCreateInputsValidate(t *testing.T) {
	err := CreateBoardInput{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Missing required fields: title, color", err.Error())

	zero := 0
	assert.NoError(t, CreateColumnInput{BoardID: "b", Title: "Backlog", Order: &zero}.Validate())
	assert.EqualError(t, CreateColumnInput{BoardID: "b", Title: "Backlog"}.Validate(), "Missing required fields: order")

	_, err = CreateTaskInput{ColumnID: "c", Title: "t", Priority: "urgent"}.Validate()
	assert.EqualError(t, err, "Invalid priority. Must be low, medium, or high")

	due := "2025-12-01"
	d, err := CreateTaskInput{ColumnID: "c", Title: "t", Priority: PriorityLow, DueDate: &due}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", d.String())
}
