package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestReactAddsWithDefaultLike(t *testing.T) {
	p := &Post{}

	assert.Equal(t, ReactionAdded, p.React(1, "", now))
	require.Len(t, p.Reactions, 1)
	assert.Equal(t, ReactionLike, p.Reactions[0].Kind)
}

func TestReactSameKindTwiceRemoves(t *testing.T) {
	p := &Post{}

	p.React(1, ReactionLove, now)
	assert.Equal(t, ReactionRemoved, p.React(1, ReactionLove, now))
	assert.Empty(t, p.Reactions)
}

func TestReactDifferentKindSwitches(t *testing.T) {
	p := &Post{}
	later := now.Add(time.Minute)

	p.React(1, ReactionLike, now)
	assert.Equal(t, ReactionChanged, p.React(1, ReactionLove, later))

	require.Len(t, p.Reactions, 1)
	assert.Equal(t, ReactionLove, p.Reactions[0].Kind)
	assert.Equal(t, later, p.Reactions[0].CreatedAt)
}

func TestReactKeepsOneEntryPerUser(t *testing.T) {
	p := &Post{}
	kinds := []ReactionKind{ReactionLike, ReactionWow, ReactionWow, ReactionSad, ReactionAngry, ReactionLike}

	for _, k := range kinds {
		p.React(7, k, now)
		p.React(8, ReactionHaha, now)
		seen := map[uint]int{}
		for _, r := range p.Reactions {
			seen[r.UserID]++
		}
		for user, n := range seen {
			assert.LessOrEqual(t, n, 1, "user %d", user)
		}
	}
}

func TestToggleLike(t *testing.T) {
	p := &Post{}

	assert.True(t, p.ToggleLike(3, now))
	assert.False(t, p.ToggleLike(3, now))
	assert.Empty(t, p.Reactions)

	p.React(3, ReactionCare, now)
	assert.True(t, p.ToggleLike(3, now))
	require.Len(t, p.Reactions, 1)
	assert.Equal(t, ReactionLike, p.Reactions[0].Kind)
}

func TestCommentLikeToggle(t *testing.T) {
	p := &Post{}
	c := p.AddComment(1, "hello", now)
	assert.NotEmpty(t, c.ID)

	res, err := p.ToggleCommentLike(c.ID, 2, now)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, Count: 1}, res)

	res, err = p.ToggleCommentLike(c.ID, 2, now)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, Count: 0}, res)

	_, err = p.ToggleCommentLike("missing", 2, now)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestReplies(t *testing.T) {
	p := &Post{}
	c := p.AddComment(1, "hello", now)

	r, err := p.AddReply(c.ID, 2, "hi back", now)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, r.ID)

	res, err := p.ToggleReplyLike(c.ID, r.ID, 1, now)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	_, err = p.AddReply("missing", 2, "x", now)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = p.ToggleReplyLike(c.ID, "missing", 1, now)
	assert.ErrorIs(t, err, ErrReplyNotFound)
}

func TestWithoutBlockedComments(t *testing.T) {
	p := &Post{}
	c1 := p.AddComment(1, "from friend", now)
	p.AddComment(9, "from blocked", now)
	_, err := p.AddReply(c1.ID, 9, "blocked reply", now)
	require.NoError(t, err)
	_, err = p.AddReply(c1.ID, 2, "ok reply", now)
	require.NoError(t, err)

	clean := p.WithoutBlockedComments(map[uint]struct{}{9: {}})

	require.Len(t, clean.Comments, 1)
	assert.Equal(t, uint(1), clean.Comments[0].UserID)
	require.Len(t, clean.Comments[0].Replies, 1)
	assert.Equal(t, uint(2), clean.Comments[0].Replies[0].UserID)

	// the original post keeps everything
	assert.Len(t, p.Comments, 2)
	assert.Len(t, p.Comments[0].Replies, 2)
}

func TestAddShare(t *testing.T) {
	p := &Post{}
	p.AddShare(4, now)
	require.Len(t, p.Shares, 1)
	assert.Equal(t, uint(4), p.Shares[0].UserID)
}
