package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
)

type RankingRepo interface {
	WithTx(tx *gorm.DB) RankingRepo
	ReplaceForUser(ctx context.Context, groupID, userID uint, rankings []model.MovieRanking) error
	ListByGroup(ctx context.Context, groupID uint) ([]model.MovieRanking, error)
	ListByGroupAndUser(ctx context.Context, groupID, userID uint) ([]model.MovieRanking, error)
	CountSubmitters(ctx context.Context, groupID uint) (int64, error)
	AppendSubmission(ctx context.Context, sub *model.RankingSubmission) error
	AppendResult(ctx context.Context, result *model.RankingResult) error
	LatestResult(ctx context.Context, groupID uint) (*model.RankingResult, error)
}

type rankingRepoGorm struct {
	db *gorm.DB
}

var _ RankingRepo = (*rankingRepoGorm)(nil)

func NewRankingRepoGorm(db *gorm.DB) *rankingRepoGorm {
	return &rankingRepoGorm{
		db: db,
	}
}

func (r *rankingRepoGorm) WithTx(tx *gorm.DB) RankingRepo {
	return &rankingRepoGorm{
		db: tx,
	}
}

// ReplaceForUser deletes the user's previous ranking rows for the group
// and inserts the new set. Callers wrap it in a transaction so a failed
// insert rolls the delete back too.
func (r *rankingRepoGorm) ReplaceForUser(ctx context.Context, groupID, userID uint, rankings []model.MovieRanking) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.MovieRanking{}).Error; err != nil {
		return err
	}
	return db.Create(&rankings).Error
}

func (r *rankingRepoGorm) ListByGroup(ctx context.Context, groupID uint) ([]model.MovieRanking, error) {
	return gorm.G[model.MovieRanking](r.db).
		Where("group_id = ?", groupID).
		Find(ctx)
}

func (r *rankingRepoGorm) ListByGroupAndUser(ctx context.Context, groupID, userID uint) ([]model.MovieRanking, error) {
	return gorm.G[model.MovieRanking](r.db).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Order("rank").
		Find(ctx)
}

func (r *rankingRepoGorm) CountSubmitters(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.MovieRanking{}).
		Where("group_id = ?", groupID).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *rankingRepoGorm) AppendSubmission(ctx context.Context, sub *model.RankingSubmission) error {
	return gorm.G[model.RankingSubmission](r.db).Create(ctx, sub)
}

func (r *rankingRepoGorm) AppendResult(ctx context.Context, result *model.RankingResult) error {
	return gorm.G[model.RankingResult](r.db).Create(ctx, result)
}

func (r *rankingRepoGorm) LatestResult(ctx context.Context, groupID uint) (*model.RankingResult, error) {
	result, err := gorm.G[model.RankingResult](r.db).
		Where("group_id = ?", groupID).
		Order("calculated_at DESC, id DESC").
		First(ctx)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
