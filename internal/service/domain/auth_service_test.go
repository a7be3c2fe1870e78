package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/cache"
	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
	"github.com/moviemates/moviemates/internal/service/domain"
)

func newAuthService(t *testing.T, db *gorm.DB) (domain.AuthService, *cache.RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisCache, err := cache.NewRedisCache(mr.Addr())
	require.NoError(t, err)
	auth := domain.NewAuthService(db, repository.NewUserRepoGorm(db), redisCache, time.Hour, zap.NewNop())
	return auth, redisCache
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)

	user, err := auth.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.StatusOffline, user.Status)
	assert.NotEqual(t, "s3cret-pass", user.HashedPassword)

	// duplicate username and duplicate email
	_, err = auth.Register(ctx, "alice", "other@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrConflict)
	_, err = auth.Register(ctx, "alice2", "alice@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = auth.Register(ctx, "", "x@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrInvalid)
}

func TestLoginAndResolveToken(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)

	_, err := auth.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, token, err := auth.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, model.StatusOnline, user.Status)

	resolved, err := auth.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = auth.ResolveToken(ctx, "bogus-token")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)

	_, err := auth.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, oldToken, err := auth.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	user, newToken, err := auth.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, oldToken, newToken)

	// the superseded token no longer authenticates, not even via the cache
	_, err = auth.ResolveToken(ctx, oldToken)
	assert.ErrorIs(t, err, service.ErrForbidden)

	resolved, err := auth.ResolveToken(ctx, newToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveTokenFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	auth, redisCache := newAuthService(t, db)

	_, err := auth.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	user, token, err := auth.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	// cache lost its entry; the user row still resolves the token
	require.NoError(t, redisCache.DeleteSession(token))

	resolved, err := auth.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// and the cache is backfilled
	cached, err := redisCache.GetSession(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cached)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	auth, redisCache := newAuthService(t, db)

	_, err := auth.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	user, token, err := auth.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, user.ID))

	_, err = auth.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = redisCache.GetSession(token)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)

	stored, err := repository.NewUserRepoGorm(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SessionToken)
	assert.Equal(t, model.StatusOffline, stored.Status)
}
