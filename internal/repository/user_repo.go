package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
)

type UserRepo interface {
	WithTx(tx *gorm.DB) UserRepo
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetBySessionToken(ctx context.Context, token string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetSession(ctx context.Context, id uint, token *string, status model.UserStatus) error
	AddWatchlistEntry(ctx context.Context, entry *model.WatchlistEntry) error
	RemoveWatchlistEntry(ctx context.Context, userID uint, movieID int64) (int64, error)
	ListWatchlist(ctx context.Context, userID uint) ([]model.Movie, error)
	AddWatchedMovie(ctx context.Context, watched *model.WatchedMovie) error
	ListWatched(ctx context.Context, userID uint) ([]model.Movie, error)
}

type userRepoGorm struct {
	db *gorm.DB
}

var _ UserRepo = (*userRepoGorm)(nil)

func NewUserRepoGorm(db *gorm.DB) *userRepoGorm {
	return &userRepoGorm{
		db: db,
	}
}

func (r *userRepoGorm) WithTx(tx *gorm.DB) UserRepo {
	return &userRepoGorm{
		db: tx,
	}
}

func (r *userRepoGorm) Create(ctx context.Context, user *model.User) error {
	return gorm.G[model.User](r.db).Create(ctx, user)
}

func (r *userRepoGorm) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := gorm.G[model.User](r.db).Where(&model.User{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepoGorm) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := gorm.G[model.User](r.db).Where(&model.User{Username: username}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepoGorm) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := gorm.G[model.User](r.db).Where(&model.User{Email: email}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepoGorm) GetBySessionToken(ctx context.Context, token string) (*model.User, error) {
	user, err := gorm.G[model.User](r.db).Where("session_token = ?", token).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepoGorm) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepoGorm) SetSession(ctx context.Context, id uint, token *string, status model.UserStatus) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"session_token": token, "status": status}).Error
}

func (r *userRepoGorm) AddWatchlistEntry(ctx context.Context, entry *model.WatchlistEntry) error {
	return gorm.G[model.WatchlistEntry](r.db).Create(ctx, entry)
}

func (r *userRepoGorm) RemoveWatchlistEntry(ctx context.Context, userID uint, movieID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.WatchlistEntry{})
	return res.RowsAffected, res.Error
}

func (r *userRepoGorm) ListWatchlist(ctx context.Context, userID uint) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Joins("JOIN watchlist_entries ON watchlist_entries.movie_id = movies.id").
		Where("watchlist_entries.user_id = ?", userID).
		Order("watchlist_entries.added_at").
		Find(&movies).Error
	return movies, err
}

func (r *userRepoGorm) AddWatchedMovie(ctx context.Context, watched *model.WatchedMovie) error {
	return gorm.G[model.WatchedMovie](r.db).Create(ctx, watched)
}

func (r *userRepoGorm) ListWatched(ctx context.Context, userID uint) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Joins("JOIN watched_movies ON watched_movies.movie_id = movies.id").
		Where("watched_movies.user_id = ?", userID).
		Order("watched_movies.watched_at").
		Find(&movies).Error
	return movies, err
}
