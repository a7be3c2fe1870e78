package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
	"github.com/moviemates/moviemates/internal/service/domain"
)

func newFriendService(db *gorm.DB) domain.FriendService {
	return domain.NewFriendService(db, repository.NewFriendRepoGorm(db), repository.NewUserRepoGorm(db))
}

func TestSendFriendRequest(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	friends := newFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := friends.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, req.RespondedAt)
	assert.False(t, req.Accepted)

	// self-request
	_, err = friends.SendRequest(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, service.ErrInvalid)

	// unknown receiver
	_, err = friends.SendRequest(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// duplicate while pending, both directions
	_, err = friends.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
	_, err = friends.SendRequest(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestAcceptFriendRequestIsSymmetric(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	friends := newFriendService(db)
	repo := repository.NewFriendRepoGorm(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := friends.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// only the receiver may respond
	err = friends.AcceptRequest(ctx, req.ID, alice.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	require.NoError(t, friends.AcceptRequest(ctx, req.ID, bob.ID))

	aliceBob, err := repo.AreFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	bobAlice, err := repo.AreFriends(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, aliceBob)
	assert.True(t, bobAlice)

	stored, err := repo.GetRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, stored.Accepted)
	assert.NotNil(t, stored.RespondedAt)
}

func TestFriendRequestRespondedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	friends := newFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := friends.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, friends.AcceptRequest(ctx, req.ID, bob.ID))

	// a second response of either kind is rejected
	assert.ErrorIs(t, friends.AcceptRequest(ctx, req.ID, bob.ID), service.ErrConflict)
	assert.ErrorIs(t, friends.RejectRequest(ctx, req.ID, bob.ID), service.ErrConflict)
}

func TestRejectFriendRequestLeavesGraphUntouched(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	friends := newFriendService(db)
	repo := repository.NewFriendRepoGorm(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := friends.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, friends.RejectRequest(ctx, req.ID, bob.ID))

	linked, err := repo.AreFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, linked)

	// rejected request no longer counts as pending, so a new one goes out
	_, err = friends.SendRequest(ctx, alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestPendingListsFilterByDirection(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	friends := newFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	_, err := friends.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = friends.SendRequest(ctx, carol.ID, alice.ID)
	require.NoError(t, err)

	sent, err := friends.PendingSent(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, bob.ID, sent[0].ReceiverID)

	received, err := friends.PendingReceived(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, carol.ID, received[0].SenderID)
}

func TestRemoveFriendDeletesBothDirections(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	friends := newFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := friends.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, friends.AcceptRequest(ctx, req.ID, bob.ID))

	require.NoError(t, friends.RemoveFriend(ctx, bob.ID, alice.ID))

	var count int64
	require.NoError(t, db.Model(&model.Friendship{}).Count(&count).Error)
	assert.Zero(t, count)

	// not friends anymore
	assert.ErrorIs(t, friends.RemoveFriend(ctx, bob.ID, alice.ID), service.ErrNotFound)
}
