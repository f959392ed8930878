package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles bookmarks
type SavedPostHandler struct {
	posts *services.PostService
}

func NewSavedPostHandler(posts *services.PostService) *SavedPostHandler {
	return &SavedPostHandler{posts: posts}
}

func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.GET("/posts/saved", h.GetSavedPosts)
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/posts/:id/save", h.UnsavePost)
}

func (h *SavedPostHandler) SavePost(c echo.Context) error {
	if err := h.posts.Save(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "post saved")
}

func (h *SavedPostHandler) UnsavePost(c echo.Context) error {
	if err := h.posts.Unsave(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "post unsaved")
}

// GetSavedPosts lists bookmarks, most recently saved first
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	page, limit := paging(c)
	posts, p, err := h.posts.ListSaved(c.Request().Context(), currentUser(c), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageOf(posts, p))
}
