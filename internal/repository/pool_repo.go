package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
)

type PoolRepo interface {
	WithTx(tx *gorm.DB) PoolRepo
	AddEntry(ctx context.Context, entry *model.PoolEntry) error
	RemoveEntry(ctx context.Context, groupID uint, movieID int64) (int64, error)
	GetEntry(ctx context.Context, groupID uint, movieID int64) (*model.PoolEntry, error)
	ListByGroup(ctx context.Context, groupID uint) ([]model.PoolEntry, error)
	CountByContributor(ctx context.Context, groupID, userID uint) (int64, error)
	MaxPosition(ctx context.Context, groupID uint) (int, error)
}

type poolRepoGorm struct {
	db *gorm.DB
}

var _ PoolRepo = (*poolRepoGorm)(nil)

func NewPoolRepoGorm(db *gorm.DB) *poolRepoGorm {
	return &poolRepoGorm{
		db: db,
	}
}

func (r *poolRepoGorm) WithTx(tx *gorm.DB) PoolRepo {
	return &poolRepoGorm{
		db: tx,
	}
}

func (r *poolRepoGorm) AddEntry(ctx context.Context, entry *model.PoolEntry) error {
	return gorm.G[model.PoolEntry](r.db).Create(ctx, entry)
}

func (r *poolRepoGorm) RemoveEntry(ctx context.Context, groupID uint, movieID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND movie_id = ?", groupID, movieID).
		Delete(&model.PoolEntry{})
	return res.RowsAffected, res.Error
}

func (r *poolRepoGorm) GetEntry(ctx context.Context, groupID uint, movieID int64) (*model.PoolEntry, error) {
	entry, err := gorm.G[model.PoolEntry](r.db).
		Where("group_id = ? AND movie_id = ?", groupID, movieID).
		First(ctx)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *poolRepoGorm) ListByGroup(ctx context.Context, groupID uint) ([]model.PoolEntry, error) {
	return gorm.G[model.PoolEntry](r.db).
		Where("group_id = ?", groupID).
		Order("position").
		Find(ctx)
}

func (r *poolRepoGorm) CountByContributor(ctx context.Context, groupID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PoolEntry{}).
		Where("group_id = ? AND added_by_id = ?", groupID, userID).
		Count(&count).Error
	return count, err
}

func (r *poolRepoGorm) MaxPosition(ctx context.Context, groupID uint) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&model.PoolEntry{}).
		Where("group_id = ?", groupID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
