package storage

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	testRedisURL    string
	testDatabaseDSN string
)

// TestMain starts one redis and one postgres container for the package.
// With -short only the in-memory backend is exercised.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}
	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}
	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		_ = redisContainer.Terminate(ctx)
		os.Exit(1)
	}
	testRedisURL = "redis://" + endpoint

	postgresContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("portal"),
		tcpostgres.WithUsername("portal"),
		tcpostgres.WithPassword("portal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		_ = redisContainer.Terminate(ctx)
		os.Exit(1)
	}
	testDatabaseDSN, err = postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get postgres connection string: %v\n", err)
		_ = redisContainer.Terminate(ctx)
		_ = postgresContainer.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	_ = redisContainer.Terminate(ctx)
	_ = postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func testUser() models.User {
	return models.User{
		ID:        uuid.MustParse("7f8e5a52-1b8f-4c1f-9d55-2a9e0b1c3d4e"),
		Email:     "recruiter@example.com",
		Role:      models.RoleAdmin,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// runStorageContract checks the behaviour every backend must share.
func runStorageContract(t *testing.T, kv KV) {
	ctx := context.Background()

	t.Run("should round trip auth", func(t *testing.T) {
		s := New(kv, uuid.NewString())
		user := testUser()
		require.NoError(t, s.SetAuth(ctx, "access-1", "refresh-1", user))

		token, err := s.GetAccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "access-1", token)

		refresh, err := s.GetRefreshToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", refresh)

		got, err := s.GetUser(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.Role, got.Role)
		assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("should clear all three keys", func(t *testing.T) {
		s := New(kv, uuid.NewString())
		require.NoError(t, s.SetAuth(ctx, "a", "r", testUser()))
		require.NoError(t, s.ClearAuth(ctx))

		token, err := s.GetAccessToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)

		refresh, err := s.GetRefreshToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, refresh)

		user, err := s.GetUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("should treat malformed user as absent", func(t *testing.T) {
		sid := uuid.NewString()
		require.NoError(t, kv.SetMany(ctx, sid, map[string]string{UserKey: "{not json"}))

		user, err := New(kv, sid).GetUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("should keep sessions isolated", func(t *testing.T) {
		a := New(kv, uuid.NewString())
		b := New(kv, uuid.NewString())
		require.NoError(t, a.SetAccessToken(ctx, "only-a"))

		token, err := b.GetAccessToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("should overwrite single keys", func(t *testing.T) {
		s := New(kv, uuid.NewString())
		require.NoError(t, s.SetRefreshToken(ctx, "r1"))
		require.NoError(t, s.SetRefreshToken(ctx, "r2"))

		refresh, err := s.GetRefreshToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "r2", refresh)
	})
}

func TestMemoryKV(t *testing.T) {
	runStorageContract(t, NewMemoryKV())
}

func TestMemoryKVDropsEmptySessions(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	s := New(kv, "sid")
	require.NoError(t, s.SetAuth(ctx, "a", "r", testUser()))
	require.NoError(t, s.ClearAuth(ctx))

	kv.mu.RLock()
	defer kv.mu.RUnlock()
	assert.NotContains(t, kv.sessions, "sid")
}

func TestMemoryKVPrune(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	s := New(kv, "abandoned")
	require.NoError(t, s.SetAuth(ctx, "a", "r", testUser()))

	n, err := kv.Prune(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "recent sessions are kept")

	n, err = kv.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	token, err := s.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRedisKV(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	opts, err := redis.ParseURL(testRedisURL)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.FlushAll(context.Background()).Err())

	kv := NewRedisKV(rdb, time.Minute)
	runStorageContract(t, kv)

	t.Run("should expire idle sessions", func(t *testing.T) {
		ctx := context.Background()
		s := New(kv, uuid.NewString())
		require.NoError(t, s.SetAccessToken(ctx, "a"))

		ttl, err := rdb.TTL(ctx, kv.key(s.SessionID())).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}

func TestGormKV(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, err := gorm.Open(postgres.Open(testDatabaseDSN), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SessionValue{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	kv := NewGormKV(db)
	runStorageContract(t, kv)

	t.Run("should upsert in place", func(t *testing.T) {
		ctx := context.Background()
		s := New(kv, uuid.NewString())
		require.NoError(t, s.SetAuth(ctx, "a1", "r1", testUser()))
		require.NoError(t, s.SetAuth(ctx, "a2", "r2", testUser()))

		var rows int64
		require.NoError(t, db.Model(&models.SessionValue{}).Where("session_id = ?", s.SessionID()).Count(&rows).Error)
		assert.Equal(t, int64(3), rows)

		token, err := s.GetAccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a2", token)
	})

	t.Run("should prune idle sessions only", func(t *testing.T) {
		ctx := context.Background()
		stale := New(kv, uuid.NewString())
		require.NoError(t, stale.SetAccessToken(ctx, "stale"))
		require.NoError(t, db.Model(&models.SessionValue{}).
			Where("session_id = ?", stale.SessionID()).
			Update("updated_at", time.Now().Add(-2*time.Hour)).Error)
		fresh := New(kv, uuid.NewString())
		require.NoError(t, fresh.SetAccessToken(ctx, "fresh"))

		n, err := kv.Prune(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		token, err := stale.GetAccessToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
		token, err = fresh.GetAccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "fresh", token)
	})
}
