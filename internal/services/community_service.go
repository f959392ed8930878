package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
)

// CommunityService covers pages and groups
type CommunityService struct {
	pages   repositories.PageRepository
	groups  repositories.GroupRepository
	follows repositories.PageFollowRepository
}

func NewCommunityService(pages repositories.PageRepository, groups repositories.GroupRepository, follows repositories.PageFollowRepository) *CommunityService {
	return &CommunityService{pages: pages, groups: groups, follows: follows}
}

func (s *CommunityService) ListPages(ctx context.Context, viewer uint, page, limit int) ([]models.PageView, Paging, error) {
	paging := NewPaging(page, limit)
	pages, err := s.pages.ListPages(ctx, int64(paging.Offset()), int64(paging.Limit))
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load pages")
	}

	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID.Hex())
	}
	counts, err := s.follows.FollowerCounts(ctx, ids)
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to count followers")
	}

	views := make([]models.PageView, 0, len(pages))
	for _, p := range pages {
		following, err := s.follows.IsFollowing(ctx, viewer, p.ID.Hex())
		if err != nil {
			return nil, paging, apperrors.Wrap(err, "failed to check follows")
		}
		views = append(views, models.PageView{Page: p, Followers: counts[p.ID.Hex()], Following: following})
	}
	return views, paging, nil
}

// CreatePage makes the creator its first admin
func (s *CommunityService) CreatePage(ctx context.Context, userID uint, req models.CreatePageRequest) (*models.Page, error) {
	name, err := textField("name", req.Name, 100)
	if err != nil {
		return nil, err
	}
	page := &models.Page{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
		Admins:      []uint{userID},
		CreatedAt:   now(),
	}
	if err := s.pages.CreatePage(ctx, page); err != nil {
		return nil, apperrors.Wrap(err, "failed to create page")
	}
	return page, nil
}

// FollowPage is idempotent
func (s *CommunityService) FollowPage(ctx context.Context, userID uint, pageID string) error {
	if _, err := s.pages.GetPageByID(ctx, pageID); err != nil {
		return lookupError(err, "page")
	}
	if err := s.follows.Follow(ctx, userID, pageID); err != nil {
		return apperrors.Wrap(err, "failed to follow page")
	}
	return nil
}

// UnfollowPage is idempotent
func (s *CommunityService) UnfollowPage(ctx context.Context, userID uint, pageID string) error {
	if _, err := s.pages.GetPageByID(ctx, pageID); err != nil {
		return lookupError(err, "page")
	}
	if err := s.follows.Unfollow(ctx, userID, pageID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return apperrors.Wrap(err, "failed to unfollow page")
	}
	return nil
}

func (s *CommunityService) ListGroups(ctx context.Context, page, limit int) ([]models.Group, Paging, error) {
	paging := NewPaging(page, limit)
	groups, err := s.groups.ListGroups(ctx, int64(paging.Offset()), int64(paging.Limit))
	if err != nil {
		return nil, paging, apperrors.Wrap(err, "failed to load groups")
	}
	return groups, paging, nil
}

// CreateGroup makes the creator admin and member
func (s *CommunityService) CreateGroup(ctx context.Context, userID uint, req models.CreateGroupRequest) (*models.Group, error) {
	name, err := textField("name", req.Name, 100)
	if err != nil {
		return nil, err
	}
	visibility := req.Privacy
	switch visibility {
	case "":
		visibility = models.GroupPublic
	case models.GroupPublic, models.GroupPrivate:
	default:
		return nil, apperrors.Validation("privacy", "privacy must be public or private")
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
		Admins:      []uint{userID},
		Members:     []uint{userID},
		Privacy:     visibility,
		CreatedAt:   now(),
	}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, apperrors.Wrap(err, "failed to create group")
	}
	return group, nil
}

// JoinGroup admits anyone to a public group; private groups are closed
func (s *CommunityService) JoinGroup(ctx context.Context, userID uint, groupID string) error {
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return lookupError(err, "group")
	}
	if group.IsMember(userID) {
		return nil
	}
	if group.Privacy == models.GroupPrivate {
		return apperrors.Forbidden("group is private")
	}
	if err := s.groups.AddMember(ctx, groupID, userID); err != nil {
		return lookupError(err, "group")
	}
	return nil
}

func (s *CommunityService) LeaveGroup(ctx context.Context, userID uint, groupID string) error {
	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return lookupError(err, "group")
	}
	return nil
}
