package realtime

import (
	"strings"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenParser resolves a bearer token to a user id
type TokenParser func(token string) (uint, error)

// Handler upgrades authenticated requests and joins them to the user's room
type Handler struct {
	hub            *Hub
	parse          TokenParser
	originPatterns []string
}

// NewHandler accepts any origin when originPatterns is empty or contains "*"
func NewHandler(hub *Hub, parse TokenParser, originPatterns []string) *Handler {
	return &Handler{hub: hub, parse: parse, originPatterns: originPatterns}
}

// ServeWS authenticates with ?token= or an Authorization header
func (h *Handler) ServeWS(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		token = strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	}
	if token == "" {
		return apperrors.Unauthorized("missing token")
	}
	userID, err := h.parse(token)
	if err != nil {
		return apperrors.Unauthorized("invalid or expired token")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), h.acceptOptions())
	if err != nil {
		// Accept has already written the response
		logger.Log.Warn("Websocket upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}

	client := NewClient(h.hub, conn, UserRoom(userID))
	if !h.hub.Register(client) {
		client.Close()
		return nil
	}

	go client.WritePump()
	client.ReadPump()
	return nil
}

func (h *Handler) acceptOptions() *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	if len(h.originPatterns) == 0 {
		opts.InsecureSkipVerify = true
		return opts
	}
	for _, p := range h.originPatterns {
		if p == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
	}
	opts.OriginPatterns = h.originPatterns
	return opts
}
