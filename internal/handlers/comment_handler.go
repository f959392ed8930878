package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comments, replies and their likes
type CommentHandler struct {
	engagement *services.EngagementService
}

func NewCommentHandler(engagement *services.EngagementService) *CommentHandler {
	return &CommentHandler{engagement: engagement}
}

func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comment", h.CreateComment)
	g.POST("/posts/:id/comments/:cid/like", h.LikeComment)
	g.POST("/posts/:id/comments/:cid/reply", h.CreateReply)
	g.POST("/posts/:id/comments/:cid/replies/:rid/like", h.LikeReply)
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.engagement.Comment(c.Request().Context(), c.Param("id"), currentUser(c), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) LikeComment(c echo.Context) error {
	res, err := h.engagement.LikeComment(c.Request().Context(), c.Param("id"), c.Param("cid"), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) CreateReply(c echo.Context) error {
	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	reply, err := h.engagement.Reply(c.Request().Context(), c.Param("id"), c.Param("cid"), currentUser(c), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reply)
}

func (h *CommentHandler) LikeReply(c echo.Context) error {
	res, err := h.engagement.LikeReply(c.Request().Context(), c.Param("id"), c.Param("cid"), c.Param("rid"), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
