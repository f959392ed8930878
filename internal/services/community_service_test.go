package services

import (
	"testing"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageFollows(t *testing.T) {
	f := newFixture(t, 3)
	owner, fan, lurker := f.id(0), f.id(1), f.id(2)

	page, err := f.svc.Community.CreatePage(f.ctx, owner, models.CreatePageRequest{Name: " Gophers ", Description: "all things Go"})
	require.NoError(t, err)
	assert.Equal(t, "Gophers", page.Name)
	assert.True(t, page.IsAdmin(owner))

	require.NoError(t, f.svc.Community.FollowPage(f.ctx, fan, page.ID.Hex()))
	require.NoError(t, f.svc.Community.FollowPage(f.ctx, fan, page.ID.Hex()))

	views, _, err := f.svc.Community.ListPages(f.ctx, fan, 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.EqualValues(t, 1, views[0].Followers)
	assert.True(t, views[0].Following)

	views, _, err = f.svc.Community.ListPages(f.ctx, lurker, 1, 10)
	require.NoError(t, err)
	assert.False(t, views[0].Following)

	require.NoError(t, f.svc.Community.UnfollowPage(f.ctx, fan, page.ID.Hex()))
	require.NoError(t, f.svc.Community.UnfollowPage(f.ctx, fan, page.ID.Hex()))
	views, _, err = f.svc.Community.ListPages(f.ctx, fan, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, views[0].Followers)

	err = f.svc.Community.FollowPage(f.ctx, fan, "65a000000000000000000000")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestGroupMembership(t *testing.T) {
	f := newFixture(t, 2)
	owner, member := f.id(0), f.id(1)

	open, err := f.svc.Community.CreateGroup(f.ctx, owner, models.CreateGroupRequest{Name: "Open"})
	require.NoError(t, err)
	assert.Equal(t, models.GroupPublic, open.Privacy)
	assert.True(t, open.IsMember(owner))

	closed, err := f.svc.Community.CreateGroup(f.ctx, owner, models.CreateGroupRequest{Name: "Closed", Privacy: models.GroupPrivate})
	require.NoError(t, err)

	_, err = f.svc.Community.CreateGroup(f.ctx, owner, models.CreateGroupRequest{Name: "Odd", Privacy: "secret"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	require.NoError(t, f.svc.Community.JoinGroup(f.ctx, member, open.ID.Hex()))
	require.NoError(t, f.svc.Community.JoinGroup(f.ctx, member, open.ID.Hex()))
	assert.True(t, apperrors.Is(f.svc.Community.JoinGroup(f.ctx, member, closed.ID.Hex()), apperrors.CodeForbidden))

	groups, _, err := f.svc.Community.ListGroups(f.ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		if g.ID == open.ID {
			assert.Len(t, g.Members, 2)
		}
	}

	require.NoError(t, f.svc.Community.LeaveGroup(f.ctx, member, open.ID.Hex()))
	assert.True(t, apperrors.Is(f.svc.Community.LeaveGroup(f.ctx, member, "65a000000000000000000000"), apperrors.CodeNotFound))
}
