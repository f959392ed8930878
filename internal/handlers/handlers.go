// Package handlers adapts HTTP requests to the services. Handlers bind and
// validate input, call one service method and render its result; errors are
// rendered by ErrorHandler.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/middleware"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PageResponse wraps a listing with the paging that produced it
type PageResponse[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func pageOf[T any](items []T, paging services.Paging) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{Items: items, Page: paging.Page, Limit: paging.Limit}
}

// bind decodes the body into req and runs the registered validator
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("body", "invalid request payload")
	}
	return c.Validate(req)
}

// paging reads ?page and ?limit; the services clamp them
func paging(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

// idParam parses a numeric user or notification id from the path
func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(name, "invalid id")
	}
	return uint(id), nil
}

func currentUser(c echo.Context) uint {
	return middleware.UserID(c)
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}
