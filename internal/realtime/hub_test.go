package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Presence = (*Hub)(nil)
	_ Presence = (*RedisRelay)(nil)
)

type presenceRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (p *presenceRecorder) SetOnline(_ context.Context, room string, online bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, room+"="+strconv.FormatBool(online))
	return nil
}

func (p *presenceRecorder) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// slowPresence stalls every online=true write, which would let a later
// offline write overtake it if updates were not applied in order
type slowPresence struct {
	presenceRecorder
}

func (p *slowPresence) SetOnline(ctx context.Context, room string, online bool) error {
	if online {
		time.Sleep(50 * time.Millisecond)
	}
	return p.presenceRecorder.SetOnline(ctx, room, online)
}

func isOnline(hub *Hub, room string) bool {
	online, _ := hub.IsOnline(context.Background(), room)
	return online
}

func parseNumericToken(token string) (uint, error) {
	id, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, errors.New("bad token")
	}
	return uint(id), nil
}

func startHub(t *testing.T, presence PresenceTracker) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	if presence != nil {
		hub.SetPresenceTracker(presence)
	}
	go hub.Run()

	e := echo.New()
	e.GET("/ws", NewHandler(hub, parseNumericToken, nil).ServeWS)
	srv := httptest.NewServer(e)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = hub.Shutdown(ctx)
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url, token string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestHubDeliversToEveryConnectionOfTheRoom(t *testing.T) {
	hub, url := startHub(t, nil)
	phone := dial(t, url, "7")
	laptop := dial(t, url, "7")
	require.Eventually(t, func() bool { return hub.Metrics().ActiveConnections == 2 }, time.Second, 10*time.Millisecond)

	n := &models.Notification{RecipientID: 7, ActorID: 3, Type: models.NotificationPostReact, PostID: "abc", CreatedAt: time.Now().UTC()}
	require.NoError(t, hub.Publish(context.Background(), UserRoom(7), NewEvent(n, models.ReactionLove)))

	for _, conn := range []*websocket.Conn{phone, laptop} {
		env := readEnvelope(t, conn)
		assert.Equal(t, EventNotification, env.Type)
		assert.Equal(t, models.NotificationPostReact, env.Payload.Type)
		assert.Equal(t, uint(3), env.Payload.ActorID)
		assert.Equal(t, models.ReactionLove, env.Payload.Reaction)
		assert.NotEmpty(t, env.Payload.ID)
	}
}

func TestHubDoesNotLeakAcrossRooms(t *testing.T) {
	hub, url := startHub(t, nil)
	other := dial(t, url, "8")
	target := dial(t, url, "9")
	require.Eventually(t, func() bool { return isOnline(hub, UserRoom(8)) && isOnline(hub, UserRoom(9)) }, time.Second, 10*time.Millisecond)

	n := &models.Notification{RecipientID: 9, ActorID: 1, Type: models.NotificationFriendRequest, CreatedAt: time.Now()}
	require.NoError(t, hub.Publish(context.Background(), UserRoom(9), NewEvent(n, "")))
	assert.Equal(t, models.NotificationFriendRequest, readEnvelope(t, target).Payload.Type)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, _, err := other.Read(ctx)
	assert.Error(t, err)
}

func TestHandlerRejectsBadToken(t *testing.T) {
	_, url := startHub(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := websocket.Dial(ctx, url+"?token=nope", nil)
	assert.Error(t, err)
}

func TestPresenceFollowsFirstAndLastConnection(t *testing.T) {
	rec := &presenceRecorder{}
	hub, url := startHub(t, rec)

	a := dial(t, url, "5")
	b := dial(t, url, "5")
	require.Eventually(t, func() bool { return hub.Metrics().ActiveConnections == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Close(websocket.StatusNormalClosure, ""))
	require.NoError(t, b.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return !isOnline(hub, UserRoom(5)) }, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"user:5=true", "user:5=false"}, rec.snapshot())
}

func TestPresenceUpdatesKeepOrder(t *testing.T) {
	rec := &slowPresence{}
	hub, url := startHub(t, rec)

	for i := 0; i < 3; i++ {
		conn := dial(t, url, "6")
		require.Eventually(t, func() bool { return isOnline(hub, UserRoom(6)) }, time.Second, 5*time.Millisecond)
		require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
		require.Eventually(t, func() bool { return !isOnline(hub, UserRoom(6)) }, 2*time.Second, 5*time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 6 }, 2*time.Second, 10*time.Millisecond)
	for i, call := range rec.snapshot() {
		assert.Equal(t, i%2 == 0, strings.HasSuffix(call, "=true"), "call %d: %s", i, call)
	}
}

func TestShutdownMarksRoomsOffline(t *testing.T) {
	rec := &presenceRecorder{}
	hub, url := startHub(t, rec)
	dial(t, url, "4")
	require.Eventually(t, func() bool { return isOnline(hub, UserRoom(4)) }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, hub.Shutdown(ctx))

	assert.Equal(t, []string{"user:4=true", "user:4=false"}, rec.snapshot())
}

func TestShutdownClosesConnections(t *testing.T) {
	hub, url := startHub(t, nil)
	conn := dial(t, url, "1")
	require.Eventually(t, func() bool { return isOnline(hub, UserRoom(1)) }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, hub.Shutdown(ctx))

	readCtx, readCancel := context.WithTimeout(context.Background(), time.Second)
	defer readCancel()
	_, _, err := conn.Read(readCtx)
	assert.Error(t, err)
	assert.Error(t, hub.Publish(context.Background(), UserRoom(1), Event{}))
}
