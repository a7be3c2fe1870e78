package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moviemates/moviemates/internal/model"
)

type FriendRepo interface {
	WithTx(tx *gorm.DB) FriendRepo
	CreateRequest(ctx context.Context, req *model.FriendRequest) error
	GetRequestByID(ctx context.Context, id uint) (*model.FriendRequest, error)
	HasPendingBetween(ctx context.Context, userA, userB uint) (bool, error)
	PendingSent(ctx context.Context, senderID uint) ([]model.FriendRequest, error)
	PendingReceived(ctx context.Context, receiverID uint) ([]model.FriendRequest, error)
	MarkResponded(ctx context.Context, id uint, accepted bool, at time.Time) error
	AddFriendship(ctx context.Context, userID, friendID uint) error
	RemoveFriendship(ctx context.Context, userID, friendID uint) (int64, error)
	AreFriends(ctx context.Context, userID, friendID uint) (bool, error)
	ListFriendIDs(ctx context.Context, userID uint) ([]uint, error)
}

type friendRepoGorm struct {
	db *gorm.DB
}

var _ FriendRepo = (*friendRepoGorm)(nil)

func NewFriendRepoGorm(db *gorm.DB) *friendRepoGorm {
	return &friendRepoGorm{
		db: db,
	}
}

func (r *friendRepoGorm) WithTx(tx *gorm.DB) FriendRepo {
	return &friendRepoGorm{
		db: tx,
	}
}

func (r *friendRepoGorm) CreateRequest(ctx context.Context, req *model.FriendRequest) error {
	return gorm.G[model.FriendRequest](r.db).Create(ctx, req)
}

func (r *friendRepoGorm) GetRequestByID(ctx context.Context, id uint) (*model.FriendRequest, error) {
	req, err := gorm.G[model.FriendRequest](r.db).Where(&model.FriendRequest{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRepoGorm) HasPendingBetween(ctx context.Context, userA, userB uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("responded_at IS NULL").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

func (r *friendRepoGorm) PendingSent(ctx context.Context, senderID uint) ([]model.FriendRequest, error) {
	return gorm.G[model.FriendRequest](r.db).
		Where("sender_id = ? AND responded_at IS NULL", senderID).
		Find(ctx)
}

func (r *friendRepoGorm) PendingReceived(ctx context.Context, receiverID uint) ([]model.FriendRequest, error) {
	return gorm.G[model.FriendRequest](r.db).
		Where("receiver_id = ? AND responded_at IS NULL", receiverID).
		Find(ctx)
}

func (r *friendRepoGorm) MarkResponded(ctx context.Context, id uint, accepted bool, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{"accepted": accepted, "responded_at": at}).Error
}

// AddFriendship writes both directions of the relation. OnConflict
// DoNothing keeps the union idempotent when a pair is already linked.
func (r *friendRepoGorm) AddFriendship(ctx context.Context, userID, friendID uint) error {
	now := time.Now()
	rows := []model.Friendship{
		{UserID: userID, FriendID: friendID, CreatedAt: now},
		{UserID: friendID, FriendID: userID, CreatedAt: now},
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *friendRepoGorm) RemoveFriendship(ctx context.Context, userID, friendID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Delete(&model.Friendship{})
	return res.RowsAffected, res.Error
}

func (r *friendRepoGorm) AreFriends(ctx context.Context, userID, friendID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

func (r *friendRepoGorm) ListFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("user_id = ?", userID).
		Order("friend_id").
		Pluck("friend_id", &ids).Error
	return ids, err
}
