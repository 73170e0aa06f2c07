package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memcache "fiber-storefront/internal/infrastructure/cache"
)

func TestCartSlotRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartSlotRepository(memcache.NewMemoryCache(time.Hour, 0), time.Hour)

	id, err := repo.GetCartID(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.SaveCartID(ctx, "s1", "gid://shopify/Cart/1"))
	require.NoError(t, repo.SaveCartID(ctx, "s2", "gid://shopify/Cart/2"))

	id, err = repo.GetCartID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/1", id)

	require.NoError(t, repo.SaveCartID(ctx, "s1", "gid://shopify/Cart/3"))
	id, _ = repo.GetCartID(ctx, "s1")
	assert.Equal(t, "gid://shopify/Cart/3", id)
}
