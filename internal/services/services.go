// Package services holds the application's use cases. Handlers call services;
// services call repositories and return apperrors.
package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/auth"
	"github.com/anonto42/socialnet/backend/internal/realtime"
	"github.com/anonto42/socialnet/backend/internal/repositories"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 50

	// keeps (page-1)*limit inside int
	maxPage = math.MaxInt / maxLimit
)

// Services is the set handed to the HTTP layer
type Services struct {
	Users         *UserService
	Posts         *PostService
	Feed          *FeedService
	Engagement    *EngagementService
	Relationships *RelationshipService
	Notifications *NotificationService
	Community     *CommunityService
	Notifier      *Notifier
}

// New wires every service. pub and verifier may be nil.
func New(repos repositories.Set, pub realtime.Publisher, tokens *auth.TokenManager, verifier TokenVerifier) *Services {
	notifier := NewNotifier(repos.Notifications, pub)
	return &Services{
		Users:         NewUserService(repos.Users, repos.Relationships, tokens, verifier),
		Posts:         NewPostService(repos, notifier),
		Feed:          NewFeedService(repos.Posts, repos.Relationships),
		Engagement:    NewEngagementService(repos.Posts, repos.Relationships, notifier),
		Relationships: NewRelationshipService(repos.Users, repos.Relationships, notifier),
		Notifications: NewNotificationService(repos.Notifications, repos.Users),
		Community:     NewCommunityService(repos.Pages, repos.Groups, repos.PageFollows),
		Notifier:      notifier,
	}
}

// Paging is a clamped offset window
type Paging struct {
	Page  int
	Limit int
}

// NewPaging applies the defaults and caps the page and limit
func NewPaging(page, limit int) Paging {
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Paging{Page: page, Limit: limit}
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.Limit
}

// lookupError maps a repository miss to a 404 and anything else to a 500
func lookupError(err error, resource string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(resource)
	}
	return apperrors.Wrap(err, "failed to load "+resource)
}

// textField trims content and enforces its length bounds
func textField(field, content string, max int) (string, error) {
	content = strings.TrimSpace(content)
	n := len([]rune(content))
	if n == 0 {
		return "", apperrors.Validation(field, field+" is required")
	}
	if n > max {
		return "", apperrors.Validation(field, field+" is too long")
	}
	return content, nil
}

func now() time.Time {
	return time.Now().UTC()
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
