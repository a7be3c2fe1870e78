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

type FriendService interface {
	SendRequest(ctx context.Context, senderID, receiverID uint) (*model.FriendRequest, error)
	AcceptRequest(ctx context.Context, requestID, callerID uint) error
	RejectRequest(ctx context.Context, requestID, callerID uint) error
	PendingSent(ctx context.Context, userID uint) ([]model.FriendRequest, error)
	PendingReceived(ctx context.Context, userID uint) ([]model.FriendRequest, error)
	ListFriends(ctx context.Context, userID uint) ([]model.User, error)
	RemoveFriend(ctx context.Context, userID, friendID uint) error
}

type friendService struct {
	db       *gorm.DB
	repo     repository.FriendRepo
	userRepo repository.UserRepo
}

var _ FriendService = (*friendService)(nil)

func NewFriendService(db *gorm.DB, friendRepo repository.FriendRepo, userRepo repository.UserRepo) *friendService {
	return &friendService{
		db:       db,
		repo:     friendRepo,
		userRepo: userRepo,
	}
}

func (s *friendService) SendRequest(ctx context.Context, senderID, receiverID uint) (*model.FriendRequest, error) {
	if senderID == receiverID {
		return nil, service.ErrInvalid
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}

	friends, err := s.repo.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, service.ErrConflict
	}

	pending, err := s.repo.HasPendingBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, service.ErrConflict
	}

	req := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// AcceptRequest marks the request answered and links both users in a
// single transaction so friendship stays symmetric even on failure.
func (s *friendService) AcceptRequest(ctx context.Context, requestID, callerID uint) error {
	req, err := s.loadPendingRequest(ctx, requestID, callerID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.MarkResponded(ctx, req.ID, true, time.Now()); err != nil {
			return err
		}
		return repo.AddFriendship(ctx, req.SenderID, req.ReceiverID)
	})
}

func (s *friendService) RejectRequest(ctx context.Context, requestID, callerID uint) error {
	req, err := s.loadPendingRequest(ctx, requestID, callerID)
	if err != nil {
		return err
	}
	return s.repo.MarkResponded(ctx, req.ID, false, time.Now())
}

// loadPendingRequest enforces the shared accept/reject rules: the request
// must exist, the caller must be the receiver, and it must not have been
// answered before.
func (s *friendService) loadPendingRequest(ctx context.Context, requestID, callerID uint) (*model.FriendRequest, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	if req.ReceiverID != callerID {
		return nil, service.ErrForbidden
	}
	if req.RespondedAt != nil {
		return nil, service.ErrConflict
	}
	return req, nil
}

func (s *friendService) PendingSent(ctx context.Context, userID uint) ([]model.FriendRequest, error) {
	return s.repo.PendingSent(ctx, userID)
}

func (s *friendService) PendingReceived(ctx context.Context, userID uint) ([]model.FriendRequest, error) {
	return s.repo.PendingReceived(ctx, userID)
}

func (s *friendService) ListFriends(ctx context.Context, userID uint) ([]model.User, error) {
	ids, err := s.repo.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends := make([]model.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		friends = append(friends, *user)
	}
	return friends, nil
}

func (s *friendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		removed, err := s.repo.WithTx(tx).RemoveFriendship(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return service.ErrNotFound
		}
		return nil
	})
}
