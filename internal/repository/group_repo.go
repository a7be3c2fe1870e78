package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
)

type GroupRepo interface {
	WithTx(tx *gorm.DB) GroupRepo
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id uint) (*model.Group, error)
	Lock(ctx context.Context, id uint) error
	GetByName(ctx context.Context, name string) (*model.Group, error)
	SetPhase(ctx context.Context, id uint, phase model.GroupPhase) error
	Delete(ctx context.Context, id uint) error
	AddMember(ctx context.Context, groupID, userID uint) error
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	ListMemberIDs(ctx context.Context, groupID uint) ([]uint, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Group, error)
	CreateInvitation(ctx context.Context, inv *model.GroupInvitation) error
	GetInvitationByID(ctx context.Context, id uint) (*model.GroupInvitation, error)
	HasPendingInvitation(ctx context.Context, groupID, receiverID uint) (bool, error)
	PendingInvitationsSent(ctx context.Context, senderID uint) ([]model.GroupInvitation, error)
	PendingInvitationsReceived(ctx context.Context, receiverID uint) ([]model.GroupInvitation, error)
	MarkInvitationResponded(ctx context.Context, id uint, accepted bool, at time.Time) error
}

type groupRepoGorm struct {
	db *gorm.DB
}

var _ GroupRepo = (*groupRepoGorm)(nil)

func NewGroupRepoGorm(db *gorm.DB) *groupRepoGorm {
	return &groupRepoGorm{
		db: db,
	}
}

func (r *groupRepoGorm) WithTx(tx *gorm.DB) GroupRepo {
	return &groupRepoGorm{
		db: tx,
	}
}

func (r *groupRepoGorm) Create(ctx context.Context, group *model.Group) error {
	return gorm.G[model.Group](r.db).Create(ctx, group)
}

func (r *groupRepoGorm) GetByID(ctx context.Context, id uint) (*model.Group, error) {
	group, err := gorm.G[model.Group](r.db).Where(&model.Group{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepoGorm) GetByName(ctx context.Context, name string) (*model.Group, error) {
	group, err := gorm.G[model.Group](r.db).Where(&model.Group{Name: name}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Lock takes the group row's write lock for the remainder of the
// surrounding transaction. Read-then-write sequences against the same
// group serialize here, so a count taken after the lock sees every
// previously committed write.
func (r *groupRepoGorm) Lock(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", id).
		Update("phase", gorm.Expr("phase")).Error
}

func (r *groupRepoGorm) SetPhase(ctx context.Context, id uint, phase model.GroupPhase) error {
	return r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", id).
		Update("phase", phase).Error
}

// Delete removes the group together with its membership, invitation, pool
// and ranking rows. Callers wrap it in a transaction.
func (r *groupRepoGorm) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("group_id = ?", id).Delete(&model.MovieRanking{}).Error; err != nil {
		return err
	}
	if err := db.Where("group_id = ?", id).Delete(&model.RankingResult{}).Error; err != nil {
		return err
	}
	if err := db.Where("group_id = ?", id).Delete(&model.RankingSubmission{}).Error; err != nil {
		return err
	}
	if err := db.Where("group_id = ?", id).Delete(&model.PoolEntry{}).Error; err != nil {
		return err
	}
	if err := db.Where("group_id = ?", id).Delete(&model.GroupInvitation{}).Error; err != nil {
		return err
	}
	if err := db.Where("group_id = ?", id).Delete(&model.GroupMember{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Group{}, id).Error
}

func (r *groupRepoGorm) AddMember(ctx context.Context, groupID, userID uint) error {
	member := model.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return gorm.G[model.GroupMember](r.db).Create(ctx, &member)
}

func (r *groupRepoGorm) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepoGorm) ListMemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("joined_at").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *groupRepoGorm) ListForUser(ctx context.Context, userID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.id").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepoGorm) CreateInvitation(ctx context.Context, inv *model.GroupInvitation) error {
	return gorm.G[model.GroupInvitation](r.db).Create(ctx, inv)
}

func (r *groupRepoGorm) GetInvitationByID(ctx context.Context, id uint) (*model.GroupInvitation, error) {
	inv, err := gorm.G[model.GroupInvitation](r.db).Where(&model.GroupInvitation{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *groupRepoGorm) HasPendingInvitation(ctx context.Context, groupID, receiverID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GroupInvitation{}).
		Where("group_id = ? AND receiver_id = ? AND responded_at IS NULL", groupID, receiverID).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepoGorm) PendingInvitationsSent(ctx context.Context, senderID uint) ([]model.GroupInvitation, error) {
	return gorm.G[model.GroupInvitation](r.db).
		Where("sender_id = ? AND responded_at IS NULL", senderID).
		Find(ctx)
}

func (r *groupRepoGorm) PendingInvitationsReceived(ctx context.Context, receiverID uint) ([]model.GroupInvitation, error) {
	return gorm.G[model.GroupInvitation](r.db).
		Where("receiver_id = ? AND responded_at IS NULL", receiverID).
		Find(ctx)
}

func (r *groupRepoGorm) MarkInvitationResponded(ctx context.Context, id uint, accepted bool, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.GroupInvitation{}).
		Where("id = ?", id).
		Updates(map[string]any{"accepted": accepted, "responded_at": at}).Error
}
