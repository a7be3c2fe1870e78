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

type GroupService interface {
	CreateGroup(ctx context.Context, name string, creatorID uint) (*model.Group, error)
	GetGroup(ctx context.Context, groupID uint) (*model.Group, []uint, error)
	ListGroupsForUser(ctx context.Context, userID uint) ([]model.Group, error)
	DeleteGroup(ctx context.Context, groupID, callerID uint) error
	StartVoting(ctx context.Context, groupID, callerID uint) error
	Invite(ctx context.Context, groupID, senderID, receiverID uint) (*model.GroupInvitation, error)
	AcceptInvitation(ctx context.Context, invitationID, callerID uint) error
	RejectInvitation(ctx context.Context, invitationID, callerID uint) error
	PendingInvitationsSent(ctx context.Context, userID uint) ([]model.GroupInvitation, error)
	PendingInvitationsReceived(ctx context.Context, userID uint) ([]model.GroupInvitation, error)
}

type groupService struct {
	db       *gorm.DB
	repo     repository.GroupRepo
	userRepo repository.UserRepo
}

var _ GroupService = (*groupService)(nil)

func NewGroupService(db *gorm.DB, groupRepo repository.GroupRepo, userRepo repository.UserRepo) *groupService {
	return &groupService{
		db:       db,
		repo:     groupRepo,
		userRepo: userRepo,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, name string, creatorID uint) (*model.Group, error) {
	if name == "" {
		return nil, service.ErrInvalid
	}
	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, service.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	group := &model.Group{
		Name:      name,
		CreatorID: creatorID,
		Phase:     model.PhaseCollecting,
		CreatedAt: time.Now(),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, group); err != nil {
			return err
		}
		return repo.AddMember(ctx, group.ID, creatorID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, service.ErrConflict
		}
		return nil, err
	}
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, groupID uint) (*model.Group, []uint, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, service.ErrNotFound
		}
		return nil, nil, err
	}
	members, err := s.repo.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return group, members, nil
}

func (s *groupService) ListGroupsForUser(ctx context.Context, userID uint) ([]model.Group, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *groupService) DeleteGroup(ctx context.Context, groupID, callerID uint) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	if group.CreatorID != callerID {
		return service.ErrForbidden
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, groupID)
	})
}

// StartVoting moves the group from COLLECTING to VOTING. Only the creator
// closes pooling, and no phase is ever skipped.
func (s *groupService) StartVoting(ctx context.Context, groupID, callerID uint) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	if group.CreatorID != callerID {
		return service.ErrForbidden
	}
	if group.Phase != model.PhaseCollecting {
		return service.ErrConflict
	}
	return s.repo.SetPhase(ctx, groupID, model.PhaseVoting)
}

func (s *groupService) Invite(ctx context.Context, groupID, senderID, receiverID uint) (*model.GroupInvitation, error) {
	if senderID == receiverID {
		return nil, service.ErrInvalid
	}
	if _, err := s.repo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}

	senderIsMember, err := s.repo.IsMember(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !senderIsMember {
		return nil, service.ErrForbidden
	}

	receiverIsMember, err := s.repo.IsMember(ctx, groupID, receiverID)
	if err != nil {
		return nil, err
	}
	if receiverIsMember {
		return nil, service.ErrConflict
	}

	pending, err := s.repo.HasPendingInvitation(ctx, groupID, receiverID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, service.ErrConflict
	}

	inv := &model.GroupInvitation{
		GroupID:    groupID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// AcceptInvitation marks the invitation answered and adds the receiver to
// the group in one transaction.
func (s *groupService) AcceptInvitation(ctx context.Context, invitationID, callerID uint) error {
	inv, err := s.loadPendingInvitation(ctx, invitationID, callerID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.MarkInvitationResponded(ctx, inv.ID, true, time.Now()); err != nil {
			return err
		}
		return repo.AddMember(ctx, inv.GroupID, inv.ReceiverID)
	})
}

func (s *groupService) RejectInvitation(ctx context.Context, invitationID, callerID uint) error {
	inv, err := s.loadPendingInvitation(ctx, invitationID, callerID)
	if err != nil {
		return err
	}
	return s.repo.MarkInvitationResponded(ctx, inv.ID, false, time.Now())
}

func (s *groupService) loadPendingInvitation(ctx context.Context, invitationID, callerID uint) (*model.GroupInvitation, error) {
	inv, err := s.repo.GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	if inv.ReceiverID != callerID {
		return nil, service.ErrForbidden
	}
	if inv.RespondedAt != nil {
		return nil, service.ErrConflict
	}
	return inv, nil
}

func (s *groupService) PendingInvitationsSent(ctx context.Context, userID uint) ([]model.GroupInvitation, error) {
	return s.repo.PendingInvitationsSent(ctx, userID)
}

func (s *groupService) PendingInvitationsReceived(ctx context.Context, userID uint) ([]model.GroupInvitation, error) {
	return s.repo.PendingInvitationsReceived(ctx, userID)
}
