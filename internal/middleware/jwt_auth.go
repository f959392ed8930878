package middleware

import (
	"strings"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/auth"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the context key holding the authenticated user's id
const UserIDKey = "userID"

// JWTAuth checks for a valid bearer token and stores the caller's id.
func JWTAuth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return apperrors.Unauthorized("missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperrors.Unauthorized("invalid Authorization header format")
			}

			userID, err := tokens.UserID(parts[1])
			if err != nil {
				return apperrors.Unauthorized("invalid or expired token")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id, or 0 outside JWTAuth
func UserID(c echo.Context) uint {
	id, _ := c.Get(UserIDKey).(uint)
	return id
}
