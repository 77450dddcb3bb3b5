package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIsOrderedAndEmbedded(t *testing.T) {
	all, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	assert.Equal(t, "0001_init.sql", all[0].Name)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
	for _, table := range []string{"users", "boards", "columns", "tasks"} {
		assert.True(t, strings.Contains(all[0].SQL, "CREATE TABLE IF NOT EXISTS "+table), table)
	}
	assert.Contains(t, all[0].SQL, `"order"  INTEGER`)
}
