package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moviemates/moviemates/internal/model"
)

// MovieSearch holds the optional catalog search filters. Zero values mean
// "no filter".
type MovieSearch struct {
	Title    string
	Genre    string
	Year     int
	Actor    string
	Director string
}

type MovieRepo interface {
	WithTx(tx *gorm.DB) MovieRepo
	Upsert(ctx context.Context, movie *model.Movie) error
	GetByID(ctx context.Context, id int64) (*model.Movie, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Movie, error)
	Search(ctx context.Context, query MovieSearch) ([]model.Movie, error)
}

type movieRepoGorm struct {
	db *gorm.DB
}

var _ MovieRepo = (*movieRepoGorm)(nil)

func NewMovieRepoGorm(db *gorm.DB) *movieRepoGorm {
	return &movieRepoGorm{
		db: db,
	}
}

func (r *movieRepoGorm) WithTx(tx *gorm.DB) MovieRepo {
	return &movieRepoGorm{
		db: tx,
	}
}

// Upsert inserts the movie unless a row with the same external id already
// exists. Cached metadata is never overwritten.
func (r *movieRepoGorm) Upsert(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(movie).Error
}

func (r *movieRepoGorm) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	movie, err := gorm.G[model.Movie](r.db).Where(&model.Movie{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepoGorm) GetByIDs(ctx context.Context, ids []int64) ([]model.Movie, error) {
	return gorm.G[model.Movie](r.db).Where("id IN ?", ids).Find(ctx)
}

// Search matches against the cached catalog only. List columns are stored
// as JSON text, so genre/actor/director filters use substring matching.
func (r *movieRepoGorm) Search(ctx context.Context, query MovieSearch) ([]model.Movie, error) {
	db := r.db.WithContext(ctx).Model(&model.Movie{})
	if query.Title != "" {
		db = db.Where("title LIKE ?", "%"+query.Title+"%")
	}
	if query.Genre != "" {
		db = db.Where("genres LIKE ?", "%"+query.Genre+"%")
	}
	if query.Year != 0 {
		db = db.Where("release_year = ?", query.Year)
	}
	if query.Actor != "" {
		db = db.Where("actors LIKE ?", "%"+query.Actor+"%")
	}
	if query.Director != "" {
		db = db.Where("directors LIKE ?", "%"+query.Director+"%")
	}
	var movies []model.Movie
	err := db.Order("id").Find(&movies).Error
	return movies, err
}
