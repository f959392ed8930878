package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommunityHandler serves pages and groups
type CommunityHandler struct {
	community *services.CommunityService
}

func NewCommunityHandler(community *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

func (h *CommunityHandler) RegisterCommunityRoutes(g *echo.Group) {
	g.GET("/pages", h.ListPages)
	g.POST("/pages", h.CreatePage)
	g.POST("/pages/:id/follow", h.FollowPage)
	g.DELETE("/pages/:id/follow", h.UnfollowPage)
	g.GET("/groups", h.ListGroups)
	g.POST("/groups", h.CreateGroup)
	g.POST("/groups/:id/join", h.JoinGroup)
	g.DELETE("/groups/:id/leave", h.LeaveGroup)
}

func (h *CommunityHandler) ListPages(c echo.Context) error {
	page, limit := paging(c)
	pages, p, err := h.community.ListPages(c.Request().Context(), currentUser(c), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageOf(pages, p))
}

func (h *CommunityHandler) CreatePage(c echo.Context) error {
	var req models.CreatePageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	page, err := h.community.CreatePage(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, page)
}

func (h *CommunityHandler) FollowPage(c echo.Context) error {
	if err := h.community.FollowPage(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "page followed")
}

func (h *CommunityHandler) UnfollowPage(c echo.Context) error {
	if err := h.community.UnfollowPage(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "page unfollowed")
}

func (h *CommunityHandler) ListGroups(c echo.Context) error {
	page, limit := paging(c)
	groups, p, err := h.community.ListGroups(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageOf(groups, p))
}

func (h *CommunityHandler) CreateGroup(c echo.Context) error {
	var req models.CreateGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	group, err := h.community.CreateGroup(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, group)
}

func (h *CommunityHandler) JoinGroup(c echo.Context) error {
	if err := h.community.JoinGroup(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "joined group")
}

func (h *CommunityHandler) LeaveGroup(c echo.Context) error {
	if err := h.community.LeaveGroup(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "left group")
}
