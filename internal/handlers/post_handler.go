package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts      *services.PostService
	engagement *services.EngagementService
}

func NewPostHandler(posts *services.PostService, engagement *services.EngagementService) *PostHandler {
	return &PostHandler{posts: posts, engagement: engagement}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/user/:userId", h.GetUserPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/share", h.SharePost)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Create(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a post the caller may see
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// GetUserPosts is a user's timeline filtered by the caller's relationship
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	authorID, err := idParam(c, "userId")
	if err != nil {
		return err
	}
	page, limit := paging(c)
	posts, p, err := h.posts.ListByUser(c.Request().Context(), currentUser(c), authorID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageOf(posts, p))
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.Request().Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.posts.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "post deleted")
}

// SharePost re-posts a visible post as the caller's own
func (h *PostHandler) SharePost(c echo.Context) error {
	var req models.ShareRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	share, err := h.engagement.Share(c.Request().Context(), c.Param("id"), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, share)
}
