package services

import (
	"context"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
)

type NotificationService struct {
	repo  repositories.NotificationRepository
	users repositories.UserRepository
}

func NewNotificationService(repo repositories.NotificationRepository, users repositories.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, users: users}
}

// List returns the newest notifications of userID with actor cards and the
// total unread count
func (s *NotificationService) List(ctx context.Context, userID uint, page, limit int) (*models.NotificationPage, error) {
	paging := NewPaging(page, limit)
	items, err := s.repo.GetByRecipientID(ctx, userID, paging.Offset(), paging.Limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load notifications")
	}
	unread, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count notifications")
	}

	actorIDs := make([]uint, 0, len(items))
	for _, n := range items {
		actorIDs = append(actorIDs, n.ActorID)
	}
	cards, err := userCards(ctx, s.users, actorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.NotificationView, 0, len(items))
	for _, n := range items {
		view := models.NotificationView{Notification: n}
		if card, ok := cards[n.ActorID]; ok {
			view.Actor = &card
		}
		views = append(views, view)
	}
	return &models.NotificationPage{
		Items:       views,
		UnreadCount: unread,
		Page:        paging.Page,
		Limit:       paging.Limit,
	}, nil
}

// MarkRead is 404 unless userID is the recipient
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	if err := s.repo.MarkAsRead(ctx, notificationID, userID); err != nil {
		return lookupError(err, "notification")
	}
	return nil
}

// MarkAllRead is idempotent and reports how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to mark notifications read")
	}
	return n, nil
}
