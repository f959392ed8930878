package handlers

import (
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	relationships *services.RelationshipService
}

func NewFriendshipHandler(relationships *services.RelationshipService) *FriendshipHandler {
	return &FriendshipHandler{relationships: relationships}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.POST("/friends/accept", h.AcceptFriendRequest)
	g.POST("/friends/reject", h.RejectFriendRequest)
	g.GET("/friends/requests", h.GetFriendRequests)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:friendId", h.DeleteFriend)
}

func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	var req models.SendFriendRequestInput
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.relationships.SendRequest(c.Request().Context(), currentUser(c), req.RecipientID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "friend request sent"})
}

func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	var req models.RespondFriendRequestInput
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.relationships.Accept(c.Request().Context(), currentUser(c), req.RequesterID); err != nil {
		return err
	}
	return message(c, "friend request accepted")
}

func (h *FriendshipHandler) RejectFriendRequest(c echo.Context) error {
	var req models.RespondFriendRequestInput
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.relationships.Reject(c.Request().Context(), currentUser(c), req.RequesterID); err != nil {
		return err
	}
	return message(c, "friend request rejected")
}

// GetFriendRequests lists pending incoming requests
func (h *FriendshipHandler) GetFriendRequests(c echo.Context) error {
	requests, err := h.relationships.ListRequests(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	friends, err := h.relationships.ListFriends(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, friends)
}

// DeleteFriend ends the friendship for both sides
func (h *FriendshipHandler) DeleteFriend(c echo.Context) error {
	friendID, err := idParam(c, "friendId")
	if err != nil {
		return err
	}
	if err := h.relationships.Remove(c.Request().Context(), currentUser(c), friendID); err != nil {
		return err
	}
	return message(c, "friend removed")
}
