package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMiddlePage(t *testing.T) {
	p := New(make([]int, 20), 45, 20, 2)

	assert.Equal(t, int64(45), p.TotalDocs)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.Page)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
	require.NotNil(t, p.NextPage)
	require.NotNil(t, p.PrevPage)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 1, *p.PrevPage)
}

func TestNewFirstAndLastPage(t *testing.T) {
	first := New(make([]int, 20), 45, 20, 1)
	assert.False(t, first.HasPrevPage)
	assert.True(t, first.HasNextPage)
	assert.Nil(t, first.PrevPage)

	last := New(make([]int, 5), 45, 20, 3)
	assert.True(t, last.HasPrevPage)
	assert.False(t, last.HasNextPage)
	assert.Nil(t, last.NextPage)
}

func TestNewEmpty(t *testing.T) {
	p := New[string](nil, 0, 20, 1)
	assert.NotNil(t, p.Docs)
	assert.Empty(t, p.Docs)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestNewClampsBadInput(t *testing.T) {
	p := New(make([]int, 3), 3, 0, 0)
	assert.Equal(t, 1, p.Limit)
	assert.Equal(t, 1, p.Page)
}
