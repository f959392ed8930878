package services

import (
	"context"
	"errors"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/metrics"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/privacy"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"go.uber.org/zap"
)

// maxWriteAttempts bounds the optimistic retry loop on a post document
const maxWriteAttempts = 3

const maxCommentLength = 1000

// EngagementService applies reactions, comments, replies, likes and shares.
// Every nested change is a read-modify-write of the owning post guarded by
// its version.
type EngagementService struct {
	posts    repositories.PostRepository
	rel      repositories.RelationshipRepository
	notifier *Notifier
}

func NewEngagementService(posts repositories.PostRepository, rel repositories.RelationshipRepository, notifier *Notifier) *EngagementService {
	return &EngagementService{posts: posts, rel: rel, notifier: notifier}
}

// React toggles or switches the user's reaction. An empty kind means like.
func (s *EngagementService) React(ctx context.Context, postID string, userID uint, kind models.ReactionKind) (models.ReactionResult, error) {
	if kind == "" {
		kind = models.ReactionLike
	}
	if !kind.Valid() {
		return models.ReactionResult{}, apperrors.Validation("type", "invalid reaction type")
	}

	var outcome models.ReactionOutcome
	post, err := s.mutate(ctx, postID, userID, func(p *models.Post) error {
		outcome = p.React(userID, kind, now())
		return nil
	})
	if err != nil {
		return models.ReactionResult{}, err
	}

	metrics.ReactionsTotal.WithLabelValues(string(outcome)).Inc()
	if outcome != models.ReactionRemoved {
		s.notifier.Notify(ctx, Notice{
			Type:       models.NotificationPostReact,
			ActorID:    userID,
			Recipients: []uint{post.AuthorID},
			PostID:     postID,
			Reaction:   kind,
		})
	}
	return models.ReactionResult{Applied: outcome, Reactions: post.Reactions}, nil
}

// ToggleLike is the kindless like toggle kept for older clients
func (s *EngagementService) ToggleLike(ctx context.Context, postID string, userID uint) (models.LikeResult, error) {
	var liked bool
	post, err := s.mutate(ctx, postID, userID, func(p *models.Post) error {
		liked = p.ToggleLike(userID, now())
		return nil
	})
	if err != nil {
		return models.LikeResult{}, err
	}

	if liked {
		metrics.ReactionsTotal.WithLabelValues(string(models.ReactionAdded)).Inc()
		s.notifier.Notify(ctx, Notice{
			Type:       models.NotificationPostLike,
			ActorID:    userID,
			Recipients: []uint{post.AuthorID},
			PostID:     postID,
		})
	} else {
		metrics.ReactionsTotal.WithLabelValues(string(models.ReactionRemoved)).Inc()
	}
	return models.LikeResult{Liked: liked, Count: len(post.Reactions)}, nil
}

func (s *EngagementService) Comment(ctx context.Context, postID string, userID uint, content string) (models.Comment, error) {
	content, err := textField("content", content, maxCommentLength)
	if err != nil {
		return models.Comment{}, err
	}

	var comment models.Comment
	post, err := s.mutate(ctx, postID, userID, func(p *models.Post) error {
		comment = p.AddComment(userID, content, now())
		return nil
	})
	if err != nil {
		return models.Comment{}, err
	}

	metrics.CommentsTotal.WithLabelValues("comment").Inc()
	s.notifier.Notify(ctx, Notice{
		Type:       models.NotificationPostComment,
		ActorID:    userID,
		Recipients: []uint{post.AuthorID},
		PostID:     postID,
		CommentID:  comment.ID,
	})
	return comment, nil
}

func (s *EngagementService) LikeComment(ctx context.Context, postID, commentID string, userID uint) (models.LikeResult, error) {
	var (
		result models.LikeResult
		owner  uint
	)
	_, err := s.mutate(ctx, postID, userID, func(p *models.Post) error {
		var err error
		if result, err = p.ToggleCommentLike(commentID, userID, now()); err != nil {
			return err
		}
		c, _ := p.FindComment(commentID)
		owner = c.UserID
		return nil
	})
	if err != nil {
		return models.LikeResult{}, err
	}

	if result.Liked {
		s.notifier.Notify(ctx, Notice{
			Type:       models.NotificationCommentLike,
			ActorID:    userID,
			Recipients: []uint{owner},
			PostID:     postID,
			CommentID:  commentID,
		})
	}
	return result, nil
}

func (s *EngagementService) Reply(ctx context.Context, postID, commentID string, userID uint, content string) (models.Reply, error) {
	content, err := textField("content", content, maxCommentLength)
	if err != nil {
		return models.Reply{}, err
	}

	var (
		reply models.Reply
		owner uint
	)
	_, err = s.mutate(ctx, postID, userID, func(p *models.Post) error {
		var err error
		if reply, err = p.AddReply(commentID, userID, content, now()); err != nil {
			return err
		}
		c, _ := p.FindComment(commentID)
		owner = c.UserID
		return nil
	})
	if err != nil {
		return models.Reply{}, err
	}

	metrics.CommentsTotal.WithLabelValues("reply").Inc()
	s.notifier.Notify(ctx, Notice{
		Type:       models.NotificationReplyCreate,
		ActorID:    userID,
		Recipients: []uint{owner},
		PostID:     postID,
		CommentID:  commentID,
		ReplyID:    reply.ID,
	})
	return reply, nil
}

func (s *EngagementService) LikeReply(ctx context.Context, postID, commentID, replyID string, userID uint) (models.LikeResult, error) {
	var (
		result models.LikeResult
		owner  uint
	)
	_, err := s.mutate(ctx, postID, userID, func(p *models.Post) error {
		var err error
		if result, err = p.ToggleReplyLike(commentID, replyID, userID, now()); err != nil {
			return err
		}
		c, _ := p.FindComment(commentID)
		r, _ := c.FindReply(replyID)
		owner = r.UserID
		return nil
	})
	if err != nil {
		return models.LikeResult{}, err
	}

	if result.Liked {
		s.notifier.Notify(ctx, Notice{
			Type:       models.NotificationReplyLike,
			ActorID:    userID,
			Recipients: []uint{owner},
			PostID:     postID,
			CommentID:  commentID,
			ReplyID:    replyID,
		})
	}
	return result, nil
}

// Share creates the user's share post and then records the share on the
// original. The two writes are independent.
func (s *EngagementService) Share(ctx context.Context, postID string, userID uint, req models.ShareRequest) (*models.Post, error) {
	original, err := s.load(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	tier, err := privacy.ParseTier(string(req.Privacy), models.TierFriends)
	if err != nil {
		return nil, apperrors.Validation("privacy", err.Error())
	}

	originalID := original.ID
	share := &models.Post{
		AuthorID:       userID,
		Content:        req.Content,
		Images:         []string{},
		Privacy:        tier,
		OriginalPostID: &originalID,
	}
	if err := s.posts.CreatePost(ctx, share); err != nil {
		return nil, apperrors.Wrap(err, "failed to create share")
	}
	metrics.PostsCreated.WithLabelValues("share").Inc()

	// the share post stays even if this write fails
	if _, err := s.mutate(ctx, postID, userID, func(p *models.Post) error {
		p.AddShare(userID, now())
		return nil
	}); err != nil {
		logger.Log.Warn("Share was not recorded on the original post",
			logger.WithPostID(postID),
			logger.WithUserID(userID),
			zap.String("share_id", share.ID.Hex()),
			zap.Error(err))
	}

	s.notifier.Notify(ctx, Notice{
		Type:       models.NotificationPostShare,
		ActorID:    userID,
		Recipients: []uint{original.AuthorID},
		PostID:     postID,
	})
	return share, nil
}

// mutate loads the post, applies fn and saves it, reloading on a version
// conflict up to maxWriteAttempts times
func (s *EngagementService) mutate(ctx context.Context, postID string, userID uint, fn func(p *models.Post) error) (*models.Post, error) {
	for attempt := 1; ; attempt++ {
		post, err := s.load(ctx, postID, userID)
		if err != nil {
			return nil, err
		}
		if err := fn(post); err != nil {
			return nil, interactionError(err)
		}

		err = s.posts.SaveInteractions(ctx, post)
		switch {
		case err == nil:
			return post, nil
		case errors.Is(err, repositories.ErrVersionConflict):
			metrics.WriteConflicts.Inc()
			if attempt < maxWriteAttempts {
				continue
			}
			return nil, apperrors.Conflict("post was modified concurrently, please retry")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NotFound("post")
		default:
			return nil, apperrors.Wrap(err, "failed to save post")
		}
	}
}

// load returns the post if userID may see it; invisible posts are reported
// as missing
func (s *EngagementService) load(ctx context.Context, postID string, userID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, lookupError(err, "post")
	}
	if err := checkVisible(ctx, s.rel, userID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// checkVisible enforces the post's tier and blocks in either direction
func checkVisible(ctx context.Context, rel repositories.RelationshipRepository, viewer uint, post *models.Post) error {
	if viewer == post.AuthorID {
		return nil
	}
	blocked, err := rel.IsBlockedEitherWay(ctx, viewer, post.AuthorID)
	if err != nil {
		return apperrors.Wrap(err, "failed to check blocks")
	}
	if blocked {
		return apperrors.NotFound("post")
	}
	visible, err := privacy.VisibleTo(ctx, rel, viewer, post.AuthorID, post.Privacy)
	if err != nil {
		return apperrors.Wrap(err, "failed to check visibility")
	}
	if !visible {
		return apperrors.NotFound("post")
	}
	return nil
}

func interactionError(err error) error {
	switch {
	case errors.Is(err, models.ErrCommentNotFound):
		return apperrors.NotFound("comment")
	case errors.Is(err, models.ErrReplyNotFound):
		return apperrors.NotFound("reply")
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Wrap(err, "failed to update post")
}
