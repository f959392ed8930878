package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves profiles, privacy settings, search and blocks
type UserHandler struct {
	users         *services.UserService
	relationships *services.RelationshipService
}

func NewUserHandler(users *services.UserService, relationships *services.RelationshipService) *UserHandler {
	return &UserHandler{users: users, relationships: relationships}
}

func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.Me)
	g.GET("/users/search", h.Search)
	g.GET("/users/blocked", h.ListBlocked)
	g.PUT("/users/profile", h.UpdateProfile)
	g.PUT("/users/privacy", h.UpdatePrivacy)
	g.GET("/users/:id", h.GetProfile)
	g.POST("/users/:id/block", h.Block)
	g.DELETE("/users/:id/block", h.Unblock)
}

func (h *UserHandler) Me(c echo.Context) error {
	profile, err := h.users.Me(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfile applies the target's profile privacy to the caller
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.users.Profile(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdatePrivacy(c echo.Context) error {
	var req models.UpdatePrivacyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	settings, err := h.users.UpdatePrivacy(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// Search matches ?q against names and emails
func (h *UserHandler) Search(c echo.Context) error {
	page, limit := paging(c)
	users, total, p, err := h.users.Search(c.Request().Context(), currentUser(c), c.QueryParam("q"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": users,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

func (h *UserHandler) Block(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.relationships.Block(c.Request().Context(), currentUser(c), id); err != nil {
		return err
	}
	return message(c, "user blocked")
}

func (h *UserHandler) Unblock(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.relationships.Unblock(c.Request().Context(), currentUser(c), id); err != nil {
		return err
	}
	return message(c, "user unblocked")
}

func (h *UserHandler) ListBlocked(c echo.Context) error {
	users, err := h.relationships.ListBlocked(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
