package services

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/socialnet/backend/internal/auth"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/realtime"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/internal/repositories/memory"
	"github.com/anonto42/socialnet/backend/internal/testutil"
	"github.com/anonto42/socialnet/backend/pkg/firebase"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	rooms  []string
	events []realtime.Event
}

func (p *recordingPublisher) Publish(_ context.Context, room string, event realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rooms = append(p.rooms, room)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Rooms() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.rooms...)
}

type fakeVerifier map[string]*firebase.Identity

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*firebase.Identity, error) {
	if id, ok := f[idToken]; ok {
		return id, nil
	}
	return nil, repositories.ErrNotFound
}

// fixture wires the services over SQLite and the in-memory content store
type fixture struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	repos repositories.Set
	pub   *recordingPublisher
	svc   *Services
	users []models.User
}

func newFixture(t *testing.T, userCount int) *fixture {
	return newFixtureWithVerifier(t, userCount, nil)
}

func newFixtureWithVerifier(t *testing.T, userCount int, verifier TokenVerifier) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	users := testutil.CreateUsers(t, db, userCount)

	repos := repositories.Set{
		Users:         repositories.NewPostgresUserRepository(db),
		Relationships: repositories.NewPostgresRelationshipRepository(db),
		Notifications: repositories.NewPostgresNotificationRepository(db),
		SavedPosts:    repositories.NewPostgresSavedPostRepository(db),
		PageFollows:   repositories.NewPostgresPageFollowRepository(db),
		Posts:         memory.NewPostRepository(),
		Pages:         memory.NewPageRepository(),
		Groups:        memory.NewGroupRepository(),
	}
	pub := &recordingPublisher{}
	svc := New(repos, pub, auth.NewTokenManager("test-secret", 0), verifier)
	// drain fan-outs before the database closes
	t.Cleanup(svc.Notifier.Wait)

	return &fixture{t: t, ctx: context.Background(), db: db, repos: repos, pub: pub, svc: svc, users: users}
}

func (f *fixture) id(i int) uint {
	return f.users[i].ID
}

func (f *fixture) befriend(a, b uint) {
	f.t.Helper()
	require.NoError(f.t, f.repos.Relationships.CreateFriendRequest(f.ctx, a, b))
	require.NoError(f.t, f.repos.Relationships.AcceptFriendRequest(f.ctx, a, b))
}

func (f *fixture) post(author uint, content string, tier models.Tier) *models.Post {
	f.t.Helper()
	p, err := f.svc.Posts.Create(f.ctx, author, models.CreatePostRequest{Content: content, Privacy: tier})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) feed(viewer uint) []models.Post {
	f.t.Helper()
	posts, _, err := f.svc.Feed.Compose(f.ctx, viewer, 1, 50)
	require.NoError(f.t, err)
	return posts
}

func (f *fixture) notifications(recipient uint, kind models.NotificationType) []models.Notification {
	f.t.Helper()
	f.svc.Notifier.Wait()
	var out []models.Notification
	require.NoError(f.t, f.db.Where("recipient_id = ? AND type = ?", recipient, kind).Find(&out).Error)
	return out
}

func (f *fixture) countNotifications(kind models.NotificationType) int64 {
	f.t.Helper()
	f.svc.Notifier.Wait()
	var n int64
	require.NoError(f.t, f.db.Model(&models.Notification{}).Where("type = ?", kind).Count(&n).Error)
	return n
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID.Hex())
	}
	return ids
}
