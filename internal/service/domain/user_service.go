package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
)

// ProfileUpdate carries the editable profile fields. Nil pointers leave
// the field untouched.
type ProfileUpdate struct {
	Bio               *string
	FavoriteGenres    []string
	FavoriteActors    []string
	FavoriteDirectors []string
	FavoriteMovieID   *int64
}

type UserService interface {
	GetUser(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error)
	AddToWatchlist(ctx context.Context, userID uint, movieID int64) error
	RemoveFromWatchlist(ctx context.Context, userID uint, movieID int64) error
	Watchlist(ctx context.Context, userID uint) ([]model.Movie, error)
	MarkWatched(ctx context.Context, userID uint, movieID int64) error
	Watched(ctx context.Context, userID uint) ([]model.Movie, error)
}

type userService struct {
	db      *gorm.DB
	repo    repository.UserRepo
	catalog CatalogService
}

var _ UserService = (*userService)(nil)

func NewUserService(db *gorm.DB, userRepo repository.UserRepo, catalog CatalogService) *userService {
	return &userService{
		db:      db,
		repo:    userRepo,
		catalog: catalog,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.FavoriteGenres != nil {
		user.FavoriteGenres = update.FavoriteGenres
	}
	if update.FavoriteActors != nil {
		user.FavoriteActors = update.FavoriteActors
	}
	if update.FavoriteDirectors != nil {
		user.FavoriteDirectors = update.FavoriteDirectors
	}
	if update.FavoriteMovieID != nil {
		if _, err := s.catalog.Resolve(ctx, *update.FavoriteMovieID); err != nil {
			return nil, err
		}
		user.FavoriteMovieID = update.FavoriteMovieID
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) AddToWatchlist(ctx context.Context, userID uint, movieID int64) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.catalog.Resolve(ctx, movieID); err != nil {
		return err
	}
	entry := model.WatchlistEntry{
		UserID:  userID,
		MovieID: movieID,
		AddedAt: time.Now(),
	}
	err := s.repo.AddWatchlistEntry(ctx, &entry)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return service.ErrConflict
	}
	return err
}

func (s *userService) RemoveFromWatchlist(ctx context.Context, userID uint, movieID int64) error {
	removed, err := s.repo.RemoveWatchlistEntry(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *userService) Watchlist(ctx context.Context, userID uint) ([]model.Movie, error) {
	return s.repo.ListWatchlist(ctx, userID)
}

// MarkWatched moves the movie from the watchlist (when present) to the
// watched collection in one transaction.
func (s *userService) MarkWatched(ctx context.Context, userID uint, movieID int64) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.catalog.Resolve(ctx, movieID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.RemoveWatchlistEntry(ctx, userID, movieID); err != nil {
			return err
		}
		watched := model.WatchedMovie{
			UserID:    userID,
			MovieID:   movieID,
			WatchedAt: time.Now(),
		}
		err := repo.AddWatchedMovie(ctx, &watched)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return service.ErrConflict
		}
		return err
	})
}

func (s *userService) Watched(ctx context.Context, userID uint) ([]model.Movie, error) {
	return s.repo.ListWatched(ctx, userID)
}
