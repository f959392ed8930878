package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles post reactions and the legacy like toggle
type LikeHandler struct {
	engagement *services.EngagementService
}

func NewLikeHandler(engagement *services.EngagementService) *LikeHandler {
	return &LikeHandler{engagement: engagement}
}

func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/react", h.React)
}

func (h *LikeHandler) ToggleLike(c echo.Context) error {
	res, err := h.engagement.ToggleLike(c.Request().Context(), c.Param("id"), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// React adds, switches or removes the caller's reaction
func (h *LikeHandler) React(c echo.Context) error {
	var req models.ReactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.engagement.React(c.Request().Context(), c.Param("id"), currentUser(c), req.Type)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
