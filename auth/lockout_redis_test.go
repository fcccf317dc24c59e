package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLockoutStore(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	store := NewRedisLockoutStoreWithClient(client, LockoutPolicy{MaxAttempts: 2, Duration: time.Minute})
	require.NoError(t, store.Ping(ctx))

	locked, err := store.Status(ctx, "a@gov.sa")
	require.NoError(t, err)
	assert.Zero(t, locked)

	remaining, err := store.RecordFailure(ctx, "a@gov.sa")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	ttl, err := client.TTL(ctx, store.failuresKey("a@gov.sa")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	remaining, err = store.RecordFailure(ctx, "a@gov.sa")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	locked, err = store.Status(ctx, "a@gov.sa")
	require.NoError(t, err)
	assert.Greater(t, locked, 50*time.Second)
	assert.LessOrEqual(t, locked, time.Minute)

	require.NoError(t, store.Reset(ctx, "a@gov.sa"))
	locked, err = store.Status(ctx, "a@gov.sa")
	require.NoError(t, err)
	assert.Zero(t, locked)
}
