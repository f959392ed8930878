package services

import (
	"context"
	"errors"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
)

// RelationshipService manages friend requests, friendships and blocks
type RelationshipService struct {
	users    repositories.UserRepository
	rel      repositories.RelationshipRepository
	notifier *Notifier
}

func NewRelationshipService(users repositories.UserRepository, rel repositories.RelationshipRepository, notifier *Notifier) *RelationshipService {
	return &RelationshipService{users: users, rel: rel, notifier: notifier}
}

func (s *RelationshipService) SendRequest(ctx context.Context, from, to uint) error {
	if from == to {
		return apperrors.Conflict("cannot send a friend request to yourself")
	}
	if _, err := s.users.GetUserByID(ctx, to); err != nil {
		return lookupError(err, "user")
	}

	blocked, err := s.rel.IsBlockedEitherWay(ctx, from, to)
	if err != nil {
		return apperrors.Wrap(err, "failed to check blocks")
	}
	if blocked {
		return apperrors.Forbidden("cannot send a friend request to this user")
	}
	friends, err := s.rel.AreFriends(ctx, from, to)
	if err != nil {
		return apperrors.Wrap(err, "failed to check friendship")
	}
	if friends {
		return apperrors.Conflict("already friends")
	}
	if err := s.requestAbsent(ctx, from, to, "friend request already sent"); err != nil {
		return err
	}
	if err := s.requestAbsent(ctx, to, from, "this user already sent you a friend request"); err != nil {
		return err
	}

	if err := s.rel.CreateFriendRequest(ctx, from, to); err != nil {
		return apperrors.Wrap(err, "failed to send friend request")
	}
	s.notifier.Notify(ctx, Notice{
		Type:       models.NotificationFriendRequest,
		ActorID:    from,
		Recipients: []uint{to},
	})
	return nil
}

// Accept turns requester's pending request into a friendship
func (s *RelationshipService) Accept(ctx context.Context, accepter, requester uint) error {
	if accepter == requester {
		return apperrors.Conflict("cannot accept your own friend request")
	}
	if _, err := s.users.GetUserByID(ctx, requester); err != nil {
		return lookupError(err, "user")
	}
	if err := s.rel.AcceptFriendRequest(ctx, requester, accepter); err != nil {
		return lookupError(err, "friend request")
	}
	s.notifier.Notify(ctx, Notice{
		Type:       models.NotificationFriendAccept,
		ActorID:    accepter,
		Recipients: []uint{requester},
	})
	return nil
}

func (s *RelationshipService) Reject(ctx context.Context, userID, requester uint) error {
	if err := s.rel.DeleteFriendRequest(ctx, requester, userID); err != nil {
		return lookupError(err, "friend request")
	}
	return nil
}

func (s *RelationshipService) Remove(ctx context.Context, userID, friendID uint) error {
	if _, err := s.users.GetUserByID(ctx, friendID); err != nil {
		return lookupError(err, "user")
	}
	if err := s.rel.RemoveFriendship(ctx, userID, friendID); err != nil {
		return lookupError(err, "friendship")
	}
	return nil
}

// Block also ends any friendship and pending request between the two
func (s *RelationshipService) Block(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return apperrors.Conflict("cannot block yourself")
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return lookupError(err, "user")
	}
	if err := s.rel.Block(ctx, userID, targetID); err != nil {
		return apperrors.Wrap(err, "failed to block user")
	}
	return nil
}

func (s *RelationshipService) Unblock(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return apperrors.Conflict("cannot unblock yourself")
	}
	if err := s.rel.Unblock(ctx, userID, targetID); err != nil {
		return lookupError(err, "block")
	}
	return nil
}

// ListRequests returns pending incoming requests, oldest first
func (s *RelationshipService) ListRequests(ctx context.Context, userID uint) ([]models.IncomingRequest, error) {
	requests, err := s.rel.ListIncomingRequests(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load friend requests")
	}
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.SenderID)
	}
	cards, err := s.cards(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.IncomingRequest, 0, len(requests))
	for _, r := range requests {
		card, ok := cards[r.SenderID]
		if !ok {
			continue
		}
		out = append(out, models.IncomingRequest{From: card, At: r.CreatedAt})
	}
	return out, nil
}

func (s *RelationshipService) ListFriends(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	ids, err := s.rel.FriendIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load friends")
	}
	return s.orderedCards(ctx, ids)
}

func (s *RelationshipService) ListBlocked(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	ids, err := s.rel.BlockedIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load blocked users")
	}
	return s.orderedCards(ctx, ids)
}

func (s *RelationshipService) requestAbsent(ctx context.Context, from, to uint, conflict string) error {
	_, err := s.rel.GetFriendRequest(ctx, from, to)
	switch {
	case err == nil:
		return apperrors.Conflict(conflict)
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return apperrors.Wrap(err, "failed to check friend requests")
	}
}

func (s *RelationshipService) cards(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error) {
	return userCards(ctx, s.users, ids)
}

func (s *RelationshipService) orderedCards(ctx context.Context, ids []uint) ([]models.UserCompact, error) {
	cards, err := s.cards(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		if card, ok := cards[id]; ok {
			out = append(out, card)
		}
	}
	return out, nil
}

// userCards loads the public cards of ids keyed by id
func userCards(ctx context.Context, users repositories.UserRepository, ids []uint) (map[uint]models.UserCompact, error) {
	cards := make(map[uint]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return cards, nil
	}
	found, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load users")
	}
	for i := range found {
		cards[found[i].ID] = found[i].ToCompact()
	}
	return cards, nil
}
