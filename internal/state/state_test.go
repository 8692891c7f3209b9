package state

import (
	"testing"

	"survey-dashboard/internal/survey"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyTable(t *testing.T) *survey.Table {
	t.Helper()
	schema := survey.DefaultSchema()
	table, err := survey.Normalize(schema.Expected(), nil, schema)
	require.NoError(t, err)
	return table
}

func TestAppState_ReplaceDiscardsPrevious(t *testing.T) {
	s := NewAppState()
	assert.Nil(t, s.Current())

	first := s.Replace("a.csv", "csv", emptyTable(t))
	_, err := uuid.Parse(first.ID)
	require.NoError(t, err)

	got, ok := s.Get(first.ID)
	require.True(t, ok)
	assert.Same(t, first, got)

	second := s.Replace("b.csv", "csv", emptyTable(t))
	assert.NotEqual(t, first.ID, second.ID)

	_, ok = s.Get(first.ID)
	assert.False(t, ok, "replaced dataset must not be reachable")
	assert.Equal(t, "b.csv", s.Current().FileName)

	s.Clear()
	assert.Nil(t, s.Current())
	_, ok = s.Get(second.ID)
	assert.False(t, ok)
}
