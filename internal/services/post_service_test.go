package services

import (
	"testing"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostDefaultsToAuthorSetting(t *testing.T) {
	f := newFixture(t, 1)
	author := f.id(0)

	post, err := f.svc.Posts.Create(f.ctx, author, models.CreatePostRequest{
		Content: "  hi  ",
		Tags:    []string{"Go", "go ", "", "news"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", post.Content)
	assert.Equal(t, models.TierFriends, post.Privacy)
	assert.Equal(t, []string{"go", "news"}, post.Tags)

	_, err = f.svc.Users.UpdatePrivacy(f.ctx, author, models.UpdatePrivacyRequest{Posts: models.TierPublic})
	require.NoError(t, err)
	post, err = f.svc.Posts.Create(f.ctx, author, models.CreatePostRequest{Content: "open"})
	require.NoError(t, err)
	assert.Equal(t, models.TierPublic, post.Privacy)

	_, err = f.svc.Posts.Create(f.ctx, author, models.CreatePostRequest{Content: " "})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	_, err = f.svc.Posts.Create(f.ctx, author, models.CreatePostRequest{Content: "x", Privacy: "everyone"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	f := newFixture(t, 2)
	author, other := f.id(0), f.id(1)
	post := f.post(author, "draft", models.TierPublic)
	id := post.ID.Hex()

	edited := "final"
	_, err := f.svc.Posts.Update(f.ctx, other, id, models.UpdatePostRequest{Content: &edited})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	updated, err := f.svc.Posts.Update(f.ctx, author, id, models.UpdatePostRequest{Content: &edited, Privacy: models.TierFriends})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, models.TierFriends, updated.Privacy)
	assert.True(t, updated.IsEdited)
	require.NotNil(t, updated.EditedAt)

	assert.True(t, apperrors.Is(f.svc.Posts.Delete(f.ctx, other, id), apperrors.CodeForbidden))
	require.NoError(t, f.svc.Posts.Delete(f.ctx, author, id))
	_, err = f.svc.Posts.Get(f.ctx, author, id)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestListByUserFiltersTiers(t *testing.T) {
	f := newFixture(t, 3)
	author, friend, stranger := f.id(0), f.id(1), f.id(2)
	f.befriend(author, friend)

	public := f.post(author, "public", models.TierPublic)
	friendsOnly := f.post(author, "friends", models.TierFriends)
	private := f.post(author, "private", models.TierPrivate)

	cases := map[uint][]string{
		author:   {private.ID.Hex(), friendsOnly.ID.Hex(), public.ID.Hex()},
		friend:   {friendsOnly.ID.Hex(), public.ID.Hex()},
		stranger: {public.ID.Hex()},
	}
	for viewer, want := range cases {
		got, _, err := f.svc.Posts.ListByUser(f.ctx, viewer, author, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, want, postIDs(got), "viewer %d", viewer)
	}

	require.NoError(t, f.svc.Relationships.Block(f.ctx, author, stranger))
	_, _, err := f.svc.Posts.ListByUser(f.ctx, stranger, author, 1, 10)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, _, err = f.svc.Posts.ListByUser(f.ctx, stranger, 9999, 1, 10)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestSavedPosts(t *testing.T) {
	f := newFixture(t, 2)
	author, reader := f.id(0), f.id(1)
	first := f.post(author, "first", models.TierPublic)
	second := f.post(author, "second", models.TierPublic)

	require.NoError(t, f.svc.Posts.Save(f.ctx, reader, first.ID.Hex()))
	require.NoError(t, f.svc.Posts.Save(f.ctx, reader, second.ID.Hex()))
	require.NoError(t, f.svc.Posts.Save(f.ctx, reader, second.ID.Hex()))

	saved, _, err := f.svc.Posts.ListSaved(f.ctx, reader, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID.Hex(), second.ID.Hex()}, postIDs(saved))

	// deleted posts drop out of the list
	require.NoError(t, f.svc.Posts.Delete(f.ctx, author, first.ID.Hex()))
	saved, _, err = f.svc.Posts.ListSaved(f.ctx, reader, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID.Hex()}, postIDs(saved))

	require.NoError(t, f.svc.Posts.Unsave(f.ctx, reader, second.ID.Hex()))
	assert.True(t, apperrors.Is(f.svc.Posts.Unsave(f.ctx, reader, second.ID.Hex()), apperrors.CodeNotFound))

	hidden := f.post(author, "hidden", models.TierPrivate)
	assert.True(t, apperrors.Is(f.svc.Posts.Save(f.ctx, reader, hidden.ID.Hex()), apperrors.CodeNotFound))
}

func TestPostsOnPagesAndGroups(t *testing.T) {
	f := newFixture(t, 2)
	admin, outsider := f.id(0), f.id(1)

	page, err := f.svc.Community.CreatePage(f.ctx, admin, models.CreatePageRequest{Name: "Gophers"})
	require.NoError(t, err)
	group, err := f.svc.Community.CreateGroup(f.ctx, admin, models.CreateGroupRequest{Name: "Go Club"})
	require.NoError(t, err)

	onPage, err := f.svc.Posts.Create(f.ctx, admin, models.CreatePostRequest{Content: "page news", PageID: page.ID.Hex()})
	require.NoError(t, err)
	require.NotNil(t, onPage.PageID)
	assert.Equal(t, page.ID, *onPage.PageID)

	_, err = f.svc.Posts.Create(f.ctx, outsider, models.CreatePostRequest{Content: "hijack", PageID: page.ID.Hex()})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	_, err = f.svc.Posts.Create(f.ctx, outsider, models.CreatePostRequest{Content: "hello", GroupID: group.ID.Hex()})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	require.NoError(t, f.svc.Community.JoinGroup(f.ctx, outsider, group.ID.Hex()))
	inGroup, err := f.svc.Posts.Create(f.ctx, outsider, models.CreatePostRequest{Content: "hello", GroupID: group.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, group.ID, *inGroup.GroupID)

	_, err = f.svc.Posts.Create(f.ctx, admin, models.CreatePostRequest{Content: "both", PageID: page.ID.Hex(), GroupID: group.ID.Hex()})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}
