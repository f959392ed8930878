package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type FeedHandler struct {
	feed *services.FeedService
}

func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts/feed", h.GetFeed)
}

// GetFeed returns the caller's home feed, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, limit := paging(c)
	posts, p, err := h.feed.Compose(c.Request().Context(), currentUser(c), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageOf(posts, p))
}
