package web_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inputguard/internal/web"
)

func TestMemorySearcher(t *testing.T) {
	t.Parallel()

	s := web.NewMemorySearcher(web.DemoPosts())
	ctx := context.Background()

	items, total, err := s.Search(ctx, web.SearchQuery{Sort: "title", Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, "Content Security Policy basics", items[0].Title)

	items, total, err = s.Search(ctx, web.SearchQuery{Keyword: "QUERIES", Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 3, items[0].ID)

	items, total, err = s.Search(ctx, web.SearchQuery{Page: 9, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, items)
}
