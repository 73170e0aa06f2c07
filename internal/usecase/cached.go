package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"fiber-storefront/pkg/cache"
)

// cached serves key from c, collapsing concurrent misses into one load.
// Failed loads are never cached.
func cached[T any](ctx context.Context, c cache.CacheService, g *singleflight.Group, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if val, found := c.Get(key); found {
		return val.(T), nil
	}

	ch := g.DoChan(key, func() (interface{}, error) {
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
