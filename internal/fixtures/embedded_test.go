package fixtures_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royal_palate/internal/fixtures"
)

func TestEmbedded_Datasets(t *testing.T) {
	ctx := context.Background()
	src := fixtures.New()

	posts, err := src.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 9)
	featured := 0
	for _, p := range posts {
		assert.False(t, p.Date.IsZero(), "post %d has no date", p.ID)
		if p.Featured {
			featured++
		}
	}
	assert.Equal(t, 3, featured)

	products, err := src.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 8)

	cats, err := src.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 6)

	reviews, err := src.Reviews(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, reviews)
	seen := map[int64]bool{}
	for _, r := range reviews {
		assert.False(t, seen[r.ID], "duplicate review id %d", r.ID)
		seen[r.ID] = true
		assert.NoError(t, r.ToInput().Validate())
	}
}
