package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLoadsOnce(t *testing.T) {
	calls := 0
	c := New(
		WithLoader(func(_ context.Context, key int) (*string, error) {
			calls++
			v := fmt.Sprintf("value-%d", key)
			return &v, nil
		}),
		WithExpiration[int, string](time.Minute),
	)

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), 78)
		require.NoError(t, err)
		assert.Equal(t, "value-78", *v)
	}
	assert.Equal(t, 1, calls)
}

func TestCacheExpires(t *testing.T) {
	calls := 0
	c := New(
		WithLoader(func(_ context.Context, key int) (*string, error) {
			calls++
			v := "x"
			return &v, nil
		}),
		WithExpiration[int, string](10*time.Millisecond),
	)

	_, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheInvalidate(t *testing.T) {
	calls := 0
	c := New(
		WithLoader(func(_ context.Context, key int) (*string, error) {
			calls++
			v := "x"
			return &v, nil
		}),
		WithExpiration[int, string](time.Minute),
	)

	_, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	c.Invalidate(context.Background(), 1)
	_, err = c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheWithoutLoader(t *testing.T) {
	c := New[int, string]()
	_, err := c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheLoaderError(t *testing.T) {
	c := New(
		WithLoader(func(_ context.Context, _ int) (*string, error) {
			return nil, fmt.Errorf("boom")
		}),
	)
	_, err := c.Get(context.Background(), 1)
	assert.ErrorContains(t, err, "boom")
}
