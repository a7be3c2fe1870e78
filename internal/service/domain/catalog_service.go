package domain

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
	"github.com/moviemates/moviemates/internal/tmdb"
)

// castLimit caps how many cast names are cached per movie.
const castLimit = 10

// MetadataProvider is the external movie-metadata lookup consumed by the
// catalog. *tmdb.Client implements it.
type MetadataProvider interface {
	GetMovie(ctx context.Context, id int64) (*tmdb.Movie, error)
}

type CatalogService interface {
	Resolve(ctx context.Context, movieID int64) (*model.Movie, error)
	Search(ctx context.Context, query repository.MovieSearch) ([]model.Movie, error)
}

type catalogService struct {
	db       *gorm.DB
	repo     repository.MovieRepo
	provider MetadataProvider
	logger   *zap.Logger
}

var _ CatalogService = (*catalogService)(nil)

func NewCatalogService(db *gorm.DB, movieRepo repository.MovieRepo, provider MetadataProvider, logger *zap.Logger) *catalogService {
	return &catalogService{
		db:       db,
		repo:     movieRepo,
		provider: provider,
		logger:   logger,
	}
}

// Resolve returns the cached movie, fetching and caching it from the
// external provider on first reference. A provider outage fails the call
// cleanly; no partial row is written.
func (s *catalogService) Resolve(ctx context.Context, movieID int64) (*model.Movie, error) {
	movie, err := s.repo.GetByID(ctx, movieID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fetched, err := s.provider.GetMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		s.logger.Warn("movie metadata fetch failed",
			zap.Int64("movie_id", movieID),
			zap.Error(err),
		)
		return nil, service.ErrUnavailable
	}

	cached := toModel(fetched)
	if err := s.repo.Upsert(ctx, cached); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, movieID)
}

func (s *catalogService) Search(ctx context.Context, query repository.MovieSearch) ([]model.Movie, error) {
	return s.repo.Search(ctx, query)
}

func toModel(m *tmdb.Movie) *model.Movie {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}

	actors := make([]string, 0, castLimit)
	for _, c := range m.Credits.Cast {
		if len(actors) == castLimit {
			break
		}
		actors = append(actors, c.Name)
	}

	var directors []string
	for _, c := range m.Credits.Crew {
		if c.Job == "Director" {
			directors = append(directors, c.Name)
		}
	}

	languages := make([]string, 0, len(m.SpokenLanguages))
	for _, l := range m.SpokenLanguages {
		languages = append(languages, l.EnglishName)
	}

	var trailerURL string
	for _, v := range m.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			trailerURL = "https://www.youtube.com/watch?v=" + v.Key
			break
		}
	}

	var posterURL string
	if m.PosterPath != "" {
		posterURL = "https://image.tmdb.org/t/p/w500" + m.PosterPath
	}

	var year int
	if len(m.ReleaseDate) >= 4 {
		year, _ = strconv.Atoi(m.ReleaseDate[:4])
	}

	var rating *float64
	if m.VoteAverage > 0 {
		v := m.VoteAverage
		rating = &v
	}

	return &model.Movie{
		ID:               m.ID,
		Title:            m.Title,
		ReleaseYear:      year,
		Genres:           genres,
		Actors:           actors,
		Directors:        directors,
		SpokenLanguages:  languages,
		OriginalLanguage: m.OriginalLanguage,
		PosterURL:        posterURL,
		TrailerURL:       trailerURL,
		Description:      m.Overview,
		TmdbRating:       rating,
	}
}
