package apperrors

import "net/http"

// Code identifies the category of an application error
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

var statusCodes = map[Code]int{
	CodeValidation:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
}

// StatusCode returns the HTTP status for the code
func (c Code) StatusCode() int {
	if status, ok := statusCodes[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// CodeForStatus classifies a bare HTTP status, e.g. one raised by the router
func CodeForStatus(status int) Code {
	for code, s := range statusCodes {
		if s == status {
			return code
		}
	}
	if status >= 400 && status < 500 {
		return CodeValidation
	}
	return CodeInternal
}
