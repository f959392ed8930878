package services

import (
	"context"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/privacy"
	"github.com/anonto42/socialnet/backend/internal/repositories"
)

type FeedService struct {
	posts repositories.PostRepository
	rel   repositories.RelationshipRepository
}

func NewFeedService(posts repositories.PostRepository, rel repositories.RelationshipRepository) *FeedService {
	return &FeedService{posts: posts, rel: rel}
}

// Compose returns the viewer's home feed, newest first. Candidates are the
// viewer's and friends' public or friends-only posts plus every public post.
// Authors blocked in either direction are excluded, and comments and replies
// by users the viewer blocked are stripped from what remains.
func (s *FeedService) Compose(ctx context.Context, viewer uint, page, limit int) ([]models.Post, Paging, error) {
	paging := NewPaging(page, limit)

	friendIDs, err := s.rel.FriendIDs(ctx, viewer)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load friends")
	}
	blocked, err := s.rel.BlockedIDs(ctx, viewer)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load blocked users")
	}
	blockedBy, err := s.rel.BlockedByIDs(ctx, viewer)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load blocked users")
	}

	candidates, err := s.posts.GetFeed(ctx, repositories.FeedQuery{
		Authors:         append(friendIDs, viewer),
		ExcludedAuthors: append(blocked, blockedBy...),
		Skip:            int64(paging.Offset()),
		Limit:           int64(paging.Limit),
	})
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load feed")
	}

	friends := toSet(friendIDs)
	hidden := toSet(blocked)
	feed := make([]models.Post, 0, len(candidates))
	for _, p := range candidates {
		_, isFriend := friends[p.AuthorID]
		if !privacy.Visible(viewer, p.AuthorID, p.Privacy, isFriend) {
			continue
		}
		feed = append(feed, p.WithoutBlockedComments(hidden))
	}
	return feed, paging, nil
}
