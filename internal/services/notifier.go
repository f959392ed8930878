package services

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/socialnet/backend/internal/metrics"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/realtime"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"go.uber.org/zap"
)

const notifyTimeout = 10 * time.Second

// Notice describes one event to fan out
type Notice struct {
	Type       models.NotificationType
	ActorID    uint
	Recipients []uint
	PostID     string
	CommentID  string
	ReplyID    string
	Reaction   models.ReactionKind
}

// Notifier persists notifications and pushes live events after the primary
// write has committed. It never reports failure to the caller.
type Notifier struct {
	repo     repositories.NotificationRepository
	pub      realtime.Publisher
	presence realtime.Presence
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewNotifier(repo repositories.NotificationRepository, pub realtime.Publisher) *Notifier {
	return &Notifier{repo: repo, pub: pub, timeout: notifyTimeout}
}

// SetPresence limits live pushes to recipients with an open connection.
// It must be called before the first Notify.
func (n *Notifier) SetPresence(p realtime.Presence) {
	n.presence = p
}

// Notify schedules the fan-out and returns immediately. The work outlives
// the request context but not its values.
func (n *Notifier) Notify(ctx context.Context, notice Notice) {
	if !notice.Type.Valid() {
		logger.Log.Error("Dropping notification of unknown type", zap.String("type", string(notice.Type)))
		return
	}
	recipients := recipientsOf(notice)
	if len(recipients) == 0 {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Notification fan-out panicked",
					zap.String("type", string(notice.Type)), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()
		n.deliver(ctx, notice, recipients)
	}()
}

// Wait blocks until every scheduled fan-out has finished
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, notice Notice, recipients []uint) {
	at := now()
	records := make([]*models.Notification, 0, len(recipients))
	for _, id := range recipients {
		records = append(records, &models.Notification{
			RecipientID: id,
			ActorID:     notice.ActorID,
			Type:        notice.Type,
			PostID:      notice.PostID,
			CommentID:   notice.CommentID,
			ReplyID:     notice.ReplyID,
			CreatedAt:   at,
		})
	}

	stored, err := n.repo.CreateNotifications(ctx, records)
	kind := string(notice.Type)
	metrics.NotificationsTotal.WithLabelValues(kind, "stored").Add(float64(len(stored)))
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Add(float64(len(records) - len(stored)))
		logger.Log.Warn("Some notifications were not stored",
			zap.String("type", kind),
			zap.Int("stored", len(stored)),
			zap.Int("requested", len(records)),
			zap.Error(err))
	}

	if n.pub == nil {
		return
	}
	for _, rec := range stored {
		room := realtime.UserRoom(rec.RecipientID)
		if !n.online(ctx, room) {
			metrics.LivePushesTotal.WithLabelValues("offline").Inc()
			continue
		}
		if err := n.pub.Publish(ctx, room, realtime.NewEvent(rec, notice.Reaction)); err != nil {
			metrics.LivePushesTotal.WithLabelValues("failed").Inc()
			logger.Log.Debug("Live push failed", logger.WithUserID(rec.RecipientID), zap.Error(err))
			continue
		}
		metrics.LivePushesTotal.WithLabelValues("sent").Inc()
	}
}

// online errs towards pushing when presence cannot be read
func (n *Notifier) online(ctx context.Context, room string) bool {
	if n.presence == nil {
		return true
	}
	ok, err := n.presence.IsOnline(ctx, room)
	if err != nil {
		logger.Log.Debug("Presence lookup failed", zap.String("room", room), zap.Error(err))
		return true
	}
	return ok
}

// recipientsOf drops the actor, zero ids and duplicates, keeping order
func recipientsOf(notice Notice) []uint {
	seen := make(map[uint]struct{}, len(notice.Recipients))
	out := make([]uint, 0, len(notice.Recipients))
	for _, id := range notice.Recipients {
		if id == 0 || id == notice.ActorID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
