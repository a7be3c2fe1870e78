package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service/domain"
	"github.com/moviemates/moviemates/internal/tmdb"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		Status:         model.StatusOffline,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeProvider is an in-memory stand-in for the TMDb client.
type fakeProvider struct {
	movies map[int64]*tmdb.Movie
	err    error
	calls  int
}

func (f *fakeProvider) GetMovie(ctx context.Context, id int64) (*tmdb.Movie, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	movie, ok := f.movies[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return movie, nil
}

func newFakeProvider(ids ...int64) *fakeProvider {
	movies := make(map[int64]*tmdb.Movie, len(ids))
	for _, id := range ids {
		movies[id] = &tmdb.Movie{
			ID:          id,
			Title:       "Movie",
			ReleaseDate: "2020-01-01",
		}
	}
	return &fakeProvider{movies: movies}
}

func newCatalog(db *gorm.DB, provider domain.MetadataProvider) domain.CatalogService {
	return domain.NewCatalogService(db, repository.NewMovieRepoGorm(db), provider, zap.NewNop())
}

// groupFixture wires a group with its creator plus extra members.
type groupFixture struct {
	db      *gorm.DB
	groups  domain.GroupService
	group   *model.Group
	creator *model.User
	members []*model.User
}

func newGroupFixture(t *testing.T, db *gorm.DB, memberCount int) *groupFixture {
	t.Helper()
	ctx := context.Background()

	groupRepo := repository.NewGroupRepoGorm(db)
	userRepo := repository.NewUserRepoGorm(db)
	groups := domain.NewGroupService(db, groupRepo, userRepo)

	creator := createUser(t, db, "creator")
	group, err := groups.CreateGroup(ctx, "movie night", creator.ID)
	require.NoError(t, err)

	var members []*model.User
	for i := 0; i < memberCount; i++ {
		member := createUser(t, db, "member"+string(rune('a'+i)))
		require.NoError(t, groupRepo.AddMember(ctx, group.ID, member.ID))
		members = append(members, member)
	}

	return &groupFixture{
		db:      db,
		groups:  groups,
		group:   group,
		creator: creator,
		members: members,
	}
}

func (f *groupFixture) setPhase(t *testing.T, phase model.GroupPhase) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.Group{}).
		Where("id = ?", f.group.ID).
		Update("phase", phase).Error)
}
