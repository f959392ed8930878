package services

import (
	"testing"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendshipIsSymmetricAfterAccept(t *testing.T) {
	f := newFixture(t, 2)
	alice, bob := f.id(0), f.id(1)

	require.NoError(t, f.svc.Relationships.SendRequest(f.ctx, alice, bob))

	incoming, err := f.svc.Relationships.ListRequests(f.ctx, bob)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, alice, incoming[0].From.ID)

	require.NoError(t, f.svc.Relationships.Accept(f.ctx, bob, alice))

	for _, pair := range [][2]uint{{alice, bob}, {bob, alice}} {
		friends, err := f.svc.Relationships.ListFriends(f.ctx, pair[0])
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, pair[1], friends[0].ID)
	}

	incoming, err = f.svc.Relationships.ListRequests(f.ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, incoming)

	assert.Len(t, f.notifications(bob, models.NotificationFriendRequest), 1)
	assert.Len(t, f.notifications(alice, models.NotificationFriendAccept), 1)
}

func TestSendRequestConflicts(t *testing.T) {
	f := newFixture(t, 3)
	alice, bob, carol := f.id(0), f.id(1), f.id(2)

	err := f.svc.Relationships.SendRequest(f.ctx, alice, alice)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	err = f.svc.Relationships.SendRequest(f.ctx, alice, 9999)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	require.NoError(t, f.svc.Relationships.SendRequest(f.ctx, alice, bob))
	err = f.svc.Relationships.SendRequest(f.ctx, alice, bob)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	err = f.svc.Relationships.SendRequest(f.ctx, bob, alice)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, "this user already sent you a friend request", appErr.Message)

	require.NoError(t, f.svc.Relationships.Accept(f.ctx, bob, alice))
	err = f.svc.Relationships.SendRequest(f.ctx, bob, alice)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	require.NoError(t, f.svc.Relationships.Block(f.ctx, carol, alice))
	err = f.svc.Relationships.SendRequest(f.ctx, alice, carol)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestRejectAndAcceptMissingRequest(t *testing.T) {
	f := newFixture(t, 2)
	alice, bob := f.id(0), f.id(1)

	assert.True(t, apperrors.Is(f.svc.Relationships.Accept(f.ctx, bob, alice), apperrors.CodeNotFound))
	assert.True(t, apperrors.Is(f.svc.Relationships.Reject(f.ctx, bob, alice), apperrors.CodeNotFound))

	require.NoError(t, f.svc.Relationships.SendRequest(f.ctx, alice, bob))
	require.NoError(t, f.svc.Relationships.Reject(f.ctx, bob, alice))

	friends, err := f.svc.Relationships.ListFriends(f.ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// a rejected request can be sent again
	require.NoError(t, f.svc.Relationships.SendRequest(f.ctx, alice, bob))
}

func TestRemoveFriend(t *testing.T) {
	f := newFixture(t, 2)
	alice, bob := f.id(0), f.id(1)
	f.befriend(alice, bob)

	require.NoError(t, f.svc.Relationships.Remove(f.ctx, bob, alice))
	for _, id := range []uint{alice, bob} {
		friends, err := f.svc.Relationships.ListFriends(f.ctx, id)
		require.NoError(t, err)
		assert.Empty(t, friends)
	}
	assert.True(t, apperrors.Is(f.svc.Relationships.Remove(f.ctx, bob, alice), apperrors.CodeNotFound))
}

func TestBlockEndsFriendshipAndRequests(t *testing.T) {
	f := newFixture(t, 3)
	alice, bob, carol := f.id(0), f.id(1), f.id(2)
	f.befriend(alice, bob)
	require.NoError(t, f.svc.Relationships.SendRequest(f.ctx, carol, alice))

	require.NoError(t, f.svc.Relationships.Block(f.ctx, alice, bob))
	require.NoError(t, f.svc.Relationships.Block(f.ctx, alice, carol))

	friends, err := f.svc.Relationships.ListFriends(f.ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, friends)
	incoming, err := f.svc.Relationships.ListRequests(f.ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, incoming)

	blocked, err := f.svc.Relationships.ListBlocked(f.ctx, alice)
	require.NoError(t, err)
	require.Len(t, blocked, 2)

	assert.True(t, apperrors.Is(f.svc.Relationships.Block(f.ctx, alice, alice), apperrors.CodeConflict))

	require.NoError(t, f.svc.Relationships.Unblock(f.ctx, alice, bob))
	assert.True(t, apperrors.Is(f.svc.Relationships.Unblock(f.ctx, alice, bob), apperrors.CodeNotFound))

	// unblocking does not restore the friendship
	friends, err = f.svc.Relationships.ListFriends(f.ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, friends)
}
