package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorBody struct {
	Error *apperrors.AppError `json:"error"`
}

// ErrorHandler renders every error as {"error": {code, message, field}}.
// Internal causes are logged, never returned to the caller.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	appErr := classify(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("Unhandled error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(appErr.Status)
	} else {
		err = c.JSON(appErr.Status, errorBody{Error: appErr})
	}
	if err != nil {
		logger.Log.Warn("Failed to write error response", zap.Error(err))
	}
}

func classify(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Code == apperrors.CodeInternal {
			return apperrors.Internal(appErr.Message)
		}
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return apperrors.Validation(first.Field(), validationMessage(first))
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			msg = m
		}
		return &apperrors.AppError{Code: apperrors.CodeForStatus(httpErr.Code), Message: msg, Status: httpErr.Code}
	}

	return apperrors.Internal("internal server error")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s long", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "tier":
		return fmt.Sprintf("%s must be public, friends or private", fe.Field())
	case "reaction":
		return fmt.Sprintf("%s is not a known reaction", fe.Field())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
