package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPaginatedMiddlePage(t *testing.T) {
	env := formatPaginated(restPage{
		Docs:        make([]map[string]any, 20),
		TotalDocs:   45,
		Limit:       20,
		TotalPages:  3,
		Page:        2,
		HasNextPage: true,
		HasPrevPage: true,
	})

	assert.Equal(t, 45, env.Pagination.TotalItems)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasNextPage)
	assert.True(t, env.Pagination.HasPrevPage)
	require.NotNil(t, env.Pagination.NextPage)
	require.NotNil(t, env.Pagination.PrevPage)
	assert.Equal(t, 3, *env.Pagination.NextPage)
	assert.Equal(t, 1, *env.Pagination.PrevPage)
}

func TestFormatPaginatedBoundaryPages(t *testing.T) {
	first := formatPaginated(restPage{
		Docs: []map[string]any{{"id": 1}}, TotalDocs: 30, Limit: 20, TotalPages: 2,
		Page: 1, HasNextPage: true, HasPrevPage: false,
	})
	assert.Nil(t, first.Pagination.PrevPage)
	require.NotNil(t, first.Pagination.NextPage)
	assert.Equal(t, 2, *first.Pagination.NextPage)

	last := formatPaginated(restPage{
		Docs: []map[string]any{{"id": 2}}, TotalDocs: 30, Limit: 20, TotalPages: 2,
		Page: 2, HasNextPage: false, HasPrevPage: true,
	})
	assert.Nil(t, last.Pagination.NextPage)
	require.NotNil(t, last.Pagination.PrevPage)
	assert.Equal(t, 1, *last.Pagination.PrevPage)
}

func TestFormatPaginatedEmptyDocs(t *testing.T) {
	env := formatPaginated(restPage{Docs: nil, TotalDocs: 0, Limit: 20, Page: 1, TotalPages: 0})
	assert.NotNil(t, env.Items)
	assert.Empty(t, env.Items)
	assert.Nil(t, env.Pagination.NextPage)
	assert.Nil(t, env.Pagination.PrevPage)
}
