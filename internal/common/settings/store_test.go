package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-workers/internal/common/logger"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client), mr
}

func TestRedisStoreGet(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("user:u-1:settings:search:jina_api_key", "jina-secret"))

	val, err := store.Get(context.Background(), "u-1", "search", "jina_api_key")
	require.NoError(t, err)
	assert.Equal(t, "jina-secret", val)
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "u-1", "search", "jina_api_key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserSettingsResolver(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("user:u-1:settings:search:jina_api_key", "from-settings"))

	resolver := &UserSettingsResolver{
		Store:    store,
		UserID:   "u-1",
		Category: "search",
		Key:      "jina_api_key",
		Logger:   logger.NewTestLogger(t),
	}

	key, ok := resolver.Resolve(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "from-settings", key)
}

func TestUserSettingsResolverMissingUser(t *testing.T) {
	store, _ := newTestStore(t)

	resolver := &UserSettingsResolver{
		Store:    store,
		UserID:   "",
		Category: "search",
		Key:      "jina_api_key",
	}

	_, ok := resolver.Resolve(context.Background())
	assert.False(t, ok)
}

func TestEnvResolver(t *testing.T) {
	t.Setenv("TEST_SEARCH_KEY", "from-env")

	key, ok := (&EnvResolver{Var: "TEST_SEARCH_KEY"}).Resolve(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "from-env", key)

	t.Setenv("TEST_SEARCH_KEY", "")
	_, ok = (&EnvResolver{Var: "TEST_SEARCH_KEY"}).Resolve(context.Background())
	assert.False(t, ok)
}

func TestResolveFirstOrder(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("user:u-1:settings:search:jina_api_key", "from-settings"))
	t.Setenv("TEST_SEARCH_KEY", "from-env")

	key, ok := ResolveFirst(context.Background(),
		&UserSettingsResolver{Store: store, UserID: "u-1", Category: "search", Key: "jina_api_key"},
		&EnvResolver{Var: "TEST_SEARCH_KEY"},
	)
	require.True(t, ok)
	assert.Equal(t, "from-settings", key)

	mr.Del("user:u-1:settings:search:jina_api_key")

	key, ok = ResolveFirst(context.Background(),
		&UserSettingsResolver{Store: store, UserID: "u-1", Category: "search", Key: "jina_api_key"},
		&EnvResolver{Var: "TEST_SEARCH_KEY"},
	)
	require.True(t, ok)
	assert.Equal(t, "from-env", key)
}

func TestResolveFirstNone(t *testing.T) {
	_, ok := ResolveFirst(context.Background(), &EnvResolver{Var: "DEFINITELY_UNSET_VAR_42"})
	assert.False(t, ok)
}
