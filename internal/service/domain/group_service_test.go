package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
)

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 0)

	assert.Equal(t, model.PhaseCollecting, f.group.Phase)

	// creator is the first member
	repo := repository.NewGroupRepoGorm(db)
	isMember, err := repo.IsMember(ctx, f.group.ID, f.creator.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	// duplicate name
	_, err = f.groups.CreateGroup(ctx, f.group.Name, f.creator.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestDeleteGroupCreatorOnly(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 1)

	err := f.groups.DeleteGroup(ctx, f.group.ID, f.members[0].ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	require.NoError(t, f.groups.DeleteGroup(ctx, f.group.ID, f.creator.ID))

	_, _, err = f.groups.GetGroup(ctx, f.group.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var members int64
	require.NoError(t, db.Model(&model.GroupMember{}).Where("group_id = ?", f.group.ID).Count(&members).Error)
	assert.Zero(t, members)
}

func TestStartVotingPhaseTransitions(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 1)

	// only the creator closes pooling
	assert.ErrorIs(t, f.groups.StartVoting(ctx, f.group.ID, f.members[0].ID), service.ErrForbidden)

	require.NoError(t, f.groups.StartVoting(ctx, f.group.ID, f.creator.ID))

	group, _, err := f.groups.GetGroup(ctx, f.group.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseVoting, group.Phase)

	// no second transition from VOTING, and none from CLOSED
	assert.ErrorIs(t, f.groups.StartVoting(ctx, f.group.ID, f.creator.ID), service.ErrConflict)
	f.setPhase(t, model.PhaseClosed)
	assert.ErrorIs(t, f.groups.StartVoting(ctx, f.group.ID, f.creator.ID), service.ErrConflict)
}

func TestInviteValidation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 1)

	outsider := createUser(t, db, "outsider")
	stranger := createUser(t, db, "stranger")

	// sender must be a member
	_, err := f.groups.Invite(ctx, f.group.ID, outsider.ID, stranger.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// receiver must not already be a member
	_, err = f.groups.Invite(ctx, f.group.ID, f.creator.ID, f.members[0].ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = f.groups.Invite(ctx, f.group.ID, f.creator.ID, outsider.ID)
	require.NoError(t, err)

	// duplicate pending invitation for the same group and receiver
	_, err = f.groups.Invite(ctx, f.group.ID, f.members[0].ID, outsider.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestAcceptInvitationAddsMembership(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 0)
	repo := repository.NewGroupRepoGorm(db)

	invitee := createUser(t, db, "invitee")
	inv, err := f.groups.Invite(ctx, f.group.ID, f.creator.ID, invitee.ID)
	require.NoError(t, err)

	// only the receiver may respond
	assert.ErrorIs(t, f.groups.AcceptInvitation(ctx, inv.ID, f.creator.ID), service.ErrForbidden)

	require.NoError(t, f.groups.AcceptInvitation(ctx, inv.ID, invitee.ID))

	isMember, err := repo.IsMember(ctx, f.group.ID, invitee.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	// one response only
	assert.ErrorIs(t, f.groups.AcceptInvitation(ctx, inv.ID, invitee.ID), service.ErrConflict)
	assert.ErrorIs(t, f.groups.RejectInvitation(ctx, inv.ID, invitee.ID), service.ErrConflict)
}

func TestRejectInvitationLeavesMembershipUntouched(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 0)
	repo := repository.NewGroupRepoGorm(db)

	invitee := createUser(t, db, "invitee")
	inv, err := f.groups.Invite(ctx, f.group.ID, f.creator.ID, invitee.ID)
	require.NoError(t, err)

	require.NoError(t, f.groups.RejectInvitation(ctx, inv.ID, invitee.ID))

	isMember, err := repo.IsMember(ctx, f.group.ID, invitee.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestPendingInvitationLists(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	f := newGroupFixture(t, db, 0)

	invitee := createUser(t, db, "invitee")
	inv, err := f.groups.Invite(ctx, f.group.ID, f.creator.ID, invitee.ID)
	require.NoError(t, err)

	sent, err := f.groups.PendingInvitationsSent(ctx, f.creator.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, inv.ID, sent[0].ID)

	received, err := f.groups.PendingInvitationsReceived(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)

	require.NoError(t, f.groups.AcceptInvitation(ctx, inv.ID, invitee.ID))

	received, err = f.groups.PendingInvitationsReceived(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Empty(t, received)
}
