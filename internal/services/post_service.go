package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/metrics"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/privacy"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"go.uber.org/zap"
)

const maxPostLength = 10000

type PostService struct {
	posts    repositories.PostRepository
	users    repositories.UserRepository
	rel      repositories.RelationshipRepository
	saved    repositories.SavedPostRepository
	pages    repositories.PageRepository
	groups   repositories.GroupRepository
	notifier *Notifier
}

func NewPostService(repos repositories.Set, notifier *Notifier) *PostService {
	return &PostService{
		posts:    repos.Posts,
		users:    repos.Users,
		rel:      repos.Relationships,
		saved:    repos.SavedPosts,
		pages:    repos.Pages,
		groups:   repos.Groups,
		notifier: notifier,
	}
}

// Create stores a post, optionally on a page the author administers or in
// a group the author belongs to, and tells the author's friends.
func (s *PostService) Create(ctx context.Context, authorID uint, req models.CreatePostRequest) (*models.Post, error) {
	content, err := textField("content", req.Content, maxPostLength)
	if err != nil {
		return nil, err
	}
	fallback := models.TierFriends
	if req.Privacy == "" {
		fallback = s.defaultTier(ctx, authorID)
	}
	tier, err := privacy.ParseTier(string(req.Privacy), fallback)
	if err != nil {
		return nil, apperrors.Validation("privacy", err.Error())
	}
	if req.PageID != "" && req.GroupID != "" {
		return nil, apperrors.Validation("pageId", "a post belongs to a page or a group, not both")
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  content,
		Images:   req.Images,
		Privacy:  tier,
		Tags:     normalizeTags(req.Tags),
		Location: strings.TrimSpace(req.Location),
	}

	if req.PageID != "" {
		page, err := s.pages.GetPageByID(ctx, req.PageID)
		if err != nil {
			return nil, lookupError(err, "page")
		}
		if !page.IsAdmin(authorID) {
			return nil, apperrors.Forbidden("only page admins can post as this page")
		}
		post.PageID = &page.ID
	}
	if req.GroupID != "" {
		group, err := s.groups.GetGroupByID(ctx, req.GroupID)
		if err != nil {
			return nil, lookupError(err, "group")
		}
		if !group.IsMember(authorID) {
			return nil, apperrors.Forbidden("not a member of this group")
		}
		post.GroupID = &group.ID
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, apperrors.Wrap(err, "failed to create post")
	}
	metrics.PostsCreated.WithLabelValues("original").Inc()

	friends, err := s.rel.FriendIDs(ctx, authorID)
	if err != nil {
		logger.Log.Warn("Skipping post fan-out", logger.WithUserID(authorID), zap.Error(err))
		return post, nil
	}
	s.notifier.Notify(ctx, Notice{
		Type:       models.NotificationPostCreate,
		ActorID:    authorID,
		Recipients: friends,
		PostID:     post.ID.Hex(),
	})
	return post, nil
}

// Get returns a visible post with comments by blocked users removed
func (s *PostService) Get(ctx context.Context, viewer uint, postID string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, lookupError(err, "post")
	}
	if err := checkVisible(ctx, s.rel, viewer, post); err != nil {
		return nil, err
	}
	blocked, err := s.rel.BlockedIDs(ctx, viewer)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load blocked users")
	}
	sanitized := post.WithoutBlockedComments(toSet(blocked))
	return &sanitized, nil
}

// Update edits content and privacy; only the author may do it
func (s *PostService) Update(ctx context.Context, userID uint, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	var content string
	if req.Content != nil {
		var err error
		if content, err = textField("content", *req.Content, maxPostLength); err != nil {
			return nil, err
		}
	}
	if req.Privacy != "" && !req.Privacy.Valid() {
		return nil, apperrors.Validation("privacy", "invalid privacy tier")
	}

	for attempt := 1; ; attempt++ {
		post, err := s.owned(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		if req.Content != nil {
			post.Content = content
		}
		if req.Privacy != "" {
			post.Privacy = req.Privacy
		}
		edited := now()
		post.IsEdited = true
		post.EditedAt = &edited

		err = s.posts.UpdateContent(ctx, post)
		switch {
		case err == nil:
			return post, nil
		case errors.Is(err, repositories.ErrVersionConflict) && attempt < maxWriteAttempts:
			metrics.WriteConflicts.Inc()
		case errors.Is(err, repositories.ErrVersionConflict):
			metrics.WriteConflicts.Inc()
			return nil, apperrors.Conflict("post was modified concurrently, please retry")
		default:
			return nil, lookupError(err, "post")
		}
	}
}

// Delete removes the post with everything embedded in it
func (s *PostService) Delete(ctx context.Context, userID uint, postID string) error {
	if _, err := s.owned(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return lookupError(err, "post")
	}
	if err := s.saved.DeleteByPost(ctx, postID); err != nil {
		logger.Log.Warn("Failed to clear bookmarks of deleted post", logger.WithPostID(postID), zap.Error(err))
	}
	return nil
}

// ListByUser is a profile timeline limited to the tiers the viewer may see
func (s *PostService) ListByUser(ctx context.Context, viewer, authorID uint, page, limit int) ([]models.Post, Paging, error) {
	paging := NewPaging(page, limit)
	if _, err := s.users.GetUserByID(ctx, authorID); err != nil {
		return nil, paging, lookupError(err, "user")
	}

	isOwner := viewer == authorID
	isFriend := false
	if !isOwner {
		blocked, err := s.rel.IsBlockedEitherWay(ctx, viewer, authorID)
		if err != nil {
			return nil, paging, apperrors.Wrap(err, "failed to check blocks")
		}
		if blocked {
			return nil, paging, apperrors.NotFound("user")
		}
		if isFriend, err = s.rel.AreFriends(ctx, viewer, authorID); err != nil {
			return nil, paging, apperrors.Wrap(err, "failed to check friendship")
		}
	}

	posts, err := s.posts.GetPostsByAuthor(ctx, authorID, privacy.AllowedTiers(isOwner, isFriend), int64(paging.Offset()), int64(paging.Limit))
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load posts")
	}
	blocked, err := s.rel.BlockedIDs(ctx, viewer)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load blocked users")
	}
	hidden := toSet(blocked)
	for i := range posts {
		posts[i] = posts[i].WithoutBlockedComments(hidden)
	}
	return posts, paging, nil
}

// Save bookmarks a visible post; saving twice is a no-op
func (s *PostService) Save(ctx context.Context, userID uint, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return lookupError(err, "post")
	}
	if err := checkVisible(ctx, s.rel, userID, post); err != nil {
		return err
	}
	if err := s.saved.SavePost(ctx, userID, postID); err != nil {
		return apperrors.Wrap(err, "failed to save post")
	}
	return nil
}

func (s *PostService) Unsave(ctx context.Context, userID uint, postID string) error {
	if err := s.saved.UnsavePost(ctx, userID, postID); err != nil {
		return lookupError(err, "saved post")
	}
	return nil
}

// ListSaved returns bookmarked posts, most recently saved first. Posts that
// were deleted or are no longer visible are left out.
func (s *PostService) ListSaved(ctx context.Context, userID uint, page, limit int) ([]models.Post, Paging, error) {
	paging := NewPaging(page, limit)
	saved, err := s.saved.GetSavedPostsByUser(ctx, userID, paging.Offset(), paging.Limit)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load saved posts")
	}
	ids := make([]string, 0, len(saved))
	for _, sp := range saved {
		ids = append(ids, sp.PostID)
	}
	found, err := s.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load saved posts")
	}
	byID := make(map[string]models.Post, len(found))
	for _, p := range found {
		byID[p.ID.Hex()] = p
	}

	blocked, err := s.rel.BlockedIDs(ctx, userID)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load blocked users")
	}
	hidden := toSet(blocked)

	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if err := checkVisible(ctx, s.rel, userID, &p); err != nil {
			if apperrors.Is(err, apperrors.CodeNotFound) {
				continue
			}
			return nil, paging, err
		}
		posts = append(posts, p.WithoutBlockedComments(hidden))
	}
	return posts, paging, nil
}

func (s *PostService) owned(ctx context.Context, userID uint, postID string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, lookupError(err, "post")
	}
	if post.AuthorID != userID {
		return nil, apperrors.Forbidden("not the author of this post")
	}
	return post, nil
}

// defaultTier is the author's posts privacy setting, or friends
func (s *PostService) defaultTier(ctx context.Context, authorID uint) models.Tier {
	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil || !author.PostsPrivacy.Valid() {
		return models.TierFriends
	}
	return author.PostsPrivacy
}

// normalizeTags lowercases, trims and dedupes
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
