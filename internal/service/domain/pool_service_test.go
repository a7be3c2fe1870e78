package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
	"github.com/moviemates/moviemates/internal/service/domain"
)

func newPoolService(db *gorm.DB, provider domain.MetadataProvider) domain.PoolService {
	return domain.NewPoolService(
		db,
		repository.NewPoolRepoGorm(db),
		repository.NewGroupRepoGorm(db),
		repository.NewMovieRepoGorm(db),
		newCatalog(db, provider),
	)
}

func TestAddMovieToPool(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 1)
	pool := newPoolService(db, newFakeProvider(100, 200, 300))

	entry, err := pool.AddMovie(ctx, f.group.ID, 100, f.creator.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)

	entry, err = pool.AddMovie(ctx, f.group.ID, 200, f.members[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Position)

	// same movie twice in one pool
	_, err = pool.AddMovie(ctx, f.group.ID, 100, f.members[0].ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	// non-members cannot contribute
	outsider := createUser(t, db, "outsider")
	_, err = pool.AddMovie(ctx, f.group.ID, 300, outsider.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAddMovieContributionCap(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 0)
	pool := newPoolService(db, newFakeProvider(100, 200, 300))

	_, err := pool.AddMovie(ctx, f.group.ID, 100, f.creator.ID)
	require.NoError(t, err)
	_, err = pool.AddMovie(ctx, f.group.ID, 200, f.creator.ID)
	require.NoError(t, err)

	// third candidate from the same member is rejected
	_, err = pool.AddMovie(ctx, f.group.ID, 300, f.creator.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&model.PoolEntry{}).
		Where("group_id = ? AND added_by_id = ?", f.group.ID, f.creator.ID).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAddMovieCapHoldsAcrossServiceInstances(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 0)

	// two services over the same store, as with parallel request paths;
	// adds of distinct movies by one member must still respect the cap
	// and receive distinct positions
	poolA := newPoolService(db, newFakeProvider(100, 200, 300))
	poolB := newPoolService(db, newFakeProvider(100, 200, 300))

	_, err := poolA.AddMovie(ctx, f.group.ID, 100, f.creator.ID)
	require.NoError(t, err)
	_, err = poolB.AddMovie(ctx, f.group.ID, 200, f.creator.ID)
	require.NoError(t, err)
	_, err = poolA.AddMovie(ctx, f.group.ID, 300, f.creator.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	entries, err := repository.NewPoolRepoGorm(db).ListByGroup(ctx, f.group.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 2, entries[1].Position)
}

func TestAddMoviePhaseGate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 0)
	pool := newPoolService(db, newFakeProvider(100))

	f.setPhase(t, model.PhaseVoting)
	_, err := pool.AddMovie(ctx, f.group.ID, 100, f.creator.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRemoveMovieFromPool(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 1)
	pool := newPoolService(db, newFakeProvider(100, 200))

	_, err := pool.AddMovie(ctx, f.group.ID, 100, f.members[0].ID)
	require.NoError(t, err)

	// a member cannot remove someone else's candidate
	other := createUser(t, db, "other")
	require.NoError(t, repository.NewGroupRepoGorm(db).AddMember(ctx, f.group.ID, other.ID))
	assert.ErrorIs(t, pool.RemoveMovie(ctx, f.group.ID, 100, other.ID), service.ErrForbidden)

	// the contributor can, and the cap slot is freed up
	require.NoError(t, pool.RemoveMovie(ctx, f.group.ID, 100, f.members[0].ID))
	assert.ErrorIs(t, pool.RemoveMovie(ctx, f.group.ID, 100, f.members[0].ID), service.ErrNotFound)

	_, err = pool.AddMovie(ctx, f.group.ID, 200, f.members[0].ID)
	assert.NoError(t, err)
}

func TestListPoolKeepsEntryOrder(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 1)
	pool := newPoolService(db, newFakeProvider(300, 100, 200))

	_, err := pool.AddMovie(ctx, f.group.ID, 300, f.creator.ID)
	require.NoError(t, err)
	_, err = pool.AddMovie(ctx, f.group.ID, 100, f.members[0].ID)
	require.NoError(t, err)
	_, err = pool.AddMovie(ctx, f.group.ID, 200, f.creator.ID)
	require.NoError(t, err)

	movies, err := pool.ListPool(ctx, f.group.ID)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, int64(300), movies[0].ID)
	assert.Equal(t, int64(100), movies[1].ID)
	assert.Equal(t, int64(200), movies[2].ID)
}
