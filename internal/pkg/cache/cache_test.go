package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	_, found, err := c.GetStrings(ctx, KeyCareers)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetStrings(ctx, KeyCareers, []string{"Computer Science", "Law"}))

	values, found, err := c.GetStrings(ctx, KeyCareers)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Computer Science", "Law"}, values)
	assert.Equal(t, time.Minute, mr.TTL(KeyCareers))

	mr.FastForward(2 * time.Minute)
	_, found, err = c.GetStrings(ctx, KeyCareers)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_EmptyListIsAHit(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetStrings(ctx, KeyCertificationNames, nil))
	values, found, err := c.GetStrings(ctx, KeyCertificationNames)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, values)
}

func TestRedisCache_Invalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetStrings(ctx, KeyCareers, []string{"Law"}))
	require.NoError(t, c.SetStrings(ctx, KeyCertificationNames, []string{"AWS"}))
	require.NoError(t, c.Invalidate(ctx, KeyCareers, KeyCertificationNames))

	assert.False(t, mr.Exists(KeyCareers))
	assert.False(t, mr.Exists(KeyCertificationNames))
}

func TestRedisCache_ServerDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	mr.Close()

	_, _, err := c.GetStrings(context.Background(), KeyCareers)
	assert.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	var c LookupCache = NoopCache{}
	ctx := context.Background()

	require.NoError(t, c.SetStrings(ctx, KeyCareers, []string{"Law"}))
	_, found, err := c.GetStrings(ctx, KeyCareers)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, KeyCareers))
}
