package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"samplehub/internal/domain"
)

type BrandFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Brand, error)
}

type RepFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Rep, error)
}

// CachedBrands memoizes brand lookups for recipient resolution. Misses and
// errors are not cached.
type CachedBrands struct {
	next  BrandFinder
	cache *expirable.LRU[string, domain.Brand]
}

func NewCachedBrands(next BrandFinder, size int, ttl time.Duration) *CachedBrands {
	return &CachedBrands{next: next, cache: expirable.NewLRU[string, domain.Brand](size, nil, ttl)}
}

func (c *CachedBrands) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	if b, ok := c.cache.Get(id); ok {
		return &b, nil
	}

	b, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, *b)
	return b, nil
}

// CachedReps memoizes rep lookups for recipient resolution.
type CachedReps struct {
	next  RepFinder
	cache *expirable.LRU[string, domain.Rep]
}

func NewCachedReps(next RepFinder, size int, ttl time.Duration) *CachedReps {
	return &CachedReps{next: next, cache: expirable.NewLRU[string, domain.Rep](size, nil, ttl)}
}

func (c *CachedReps) FindByID(ctx context.Context, id string) (*domain.Rep, error) {
	if r, ok := c.cache.Get(id); ok {
		return &r, nil
	}

	r, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, *r)
	return r, nil
}
