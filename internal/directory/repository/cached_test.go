package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplehub/internal/domain"
)

type countingBrands struct {
	calls int
	err   error
}

func (c *countingBrands) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &domain.Brand{ID: id, Name: "Acme"}, nil
}

type countingReps struct {
	calls int
}

func (c *countingReps) FindByID(ctx context.Context, id string) (*domain.Rep, error) {
	c.calls++
	return &domain.Rep{ID: id, UserID: "u-" + id, IsActive: true}, nil
}

func TestCachedBrands_HitsCache(t *testing.T) {
	next := &countingBrands{}
	cached := NewCachedBrands(next, 16, time.Minute)

	for i := 0; i < 3; i++ {
		b, err := cached.FindByID(context.Background(), "b-1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", b.Name)
	}

	assert.Equal(t, 1, next.calls)
}

func TestCachedBrands_DoesNotCacheErrors(t *testing.T) {
	next := &countingBrands{err: errors.New("timeout")}
	cached := NewCachedBrands(next, 16, time.Minute)

	_, err := cached.FindByID(context.Background(), "b-1")
	require.Error(t, err)
	_, err = cached.FindByID(context.Background(), "b-1")
	require.Error(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachedBrands_Expires(t *testing.T) {
	next := &countingBrands{}
	cached := NewCachedBrands(next, 16, 20*time.Millisecond)

	_, _ = cached.FindByID(context.Background(), "b-1")
	time.Sleep(60 * time.Millisecond)
	_, _ = cached.FindByID(context.Background(), "b-1")

	assert.Equal(t, 2, next.calls)
}

func TestCachedReps_ReturnsCopies(t *testing.T) {
	next := &countingReps{}
	cached := NewCachedReps(next, 16, time.Minute)

	first, err := cached.FindByID(context.Background(), "r-1")
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := cached.FindByID(context.Background(), "r-1")
	require.NoError(t, err)

	assert.Empty(t, second.Name)
	assert.Equal(t, 1, next.calls)
}
