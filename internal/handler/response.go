package handler

import (
	"errors"
	"net/http"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://droneflow.app/errors/validation"
	ErrorTypeNotFound     = "https://droneflow.app/errors/not-found"
	ErrorTypeUnauthorized = "https://droneflow.app/errors/unauthorized"
	ErrorTypeConflict     = "https://droneflow.app/errors/conflict"
	ErrorTypeRateLimit    = "https://droneflow.app/errors/rate-limit"
	ErrorTypeInternal     = "https://droneflow.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewTooManyRequestsError creates a rate limit error response
func NewTooManyRequestsError(c echo.Context, detail string) error {
	return c.JSON(http.StatusTooManyRequests, ProblemDetails{
		Type:     ErrorTypeRateLimit,
		Title:    "Rate Limit Exceeded",
		Status:   http.StatusTooManyRequests,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

var (
	validationErrors = []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidMonthKey,
		domain.ErrNameRequired,
		domain.ErrNameTooLong,
		domain.ErrUnknownPartnerSlot,
		domain.ErrPartnerSlotRole,
		domain.ErrAreaNotFound,
	}
	notFoundErrors = []error{
		domain.ErrNotFound,
		domain.ErrClientNotFound,
		domain.ErrServiceNotFound,
		domain.ErrExpenseNotFound,
		domain.ErrAgendaNotFound,
	}
	conflictErrors = []error{
		domain.ErrMonthAlreadyClosed,
		domain.ErrMonthNotClosed,
		domain.ErrMonthClosed,
		domain.ErrRecordClosed,
		domain.ErrPartnerSlotTaken,
		domain.ErrAlreadyExists,
	}
)

func isAny(err error, targets []error) (error, bool) {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target, true
		}
	}
	return nil, false
}

// handleServiceError maps domain errors to problem responses. Anything
// unrecognized is logged and reported as 500 with the given action.
func handleServiceError(c echo.Context, err error, action string) error {
	if target, ok := isAny(err, validationErrors); ok {
		return NewValidationError(c, target.Error(), nil)
	}
	if target, ok := isAny(err, notFoundErrors); ok {
		return NewNotFoundError(c, target.Error())
	}
	if target, ok := isAny(err, conflictErrors); ok {
		return NewConflictError(c, target.Error())
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(action)
	return NewInternalError(c, action)
}
