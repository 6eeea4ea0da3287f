package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"admin-console/internal/clients"
	"admin-console/internal/console"
	"admin-console/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Error codes of the console envelope
const (
	ErrCodeInternalServer       = "INTERNAL_SERVER_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	ErrCodeSuperseded           = "SUPERSEDED"
	ErrCodeBackend              = "BACKEND_ERROR"
	ErrCodeBackendUnavailable   = "BACKEND_UNAVAILABLE"
	ErrCodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
)

// CustomError is an error that already knows its HTTP answer.
type CustomError struct {
	Code       string
	Message    string
	StatusCode int
	Field      string
	Details    map[string]string
}

func (e CustomError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) CustomError {
	return CustomError{Code: ErrCodeBadRequest, Message: message, StatusCode: http.StatusBadRequest}
}

func NewUnauthorizedError(message string) CustomError {
	return CustomError{Code: ErrCodeUnauthorized, Message: message, StatusCode: http.StatusUnauthorized}
}

func NewForbiddenError(message string) CustomError {
	return CustomError{Code: ErrCodeForbidden, Message: message, StatusCode: http.StatusForbidden}
}

func NewNotFoundError(resource string) CustomError {
	return CustomError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource), StatusCode: http.StatusNotFound}
}

func NewServiceUnavailableError(message string) CustomError {
	return CustomError{Code: ErrCodeServiceUnavailable, Message: message, StatusCode: http.StatusServiceUnavailable}
}

// NewConfirmationRequiredError rejects a destructive request sent without
// confirm=true.
func NewConfirmationRequiredError(prompt string) CustomError {
	return CustomError{
		Code:       ErrCodeConfirmationRequired,
		Message:    prompt,
		StatusCode: http.StatusConflict,
		Details:    map[string]string{"confirm": "Repeat the request with confirm=true"},
	}
}

// ErrorHandler answers the last error a handler attached with c.Error.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	entry := logger.WithField("component", "http")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		ce := Classify(err)

		line := entry.WithFields(logrus.Fields{
			"code":       ce.Code,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		}).WithError(err)
		if ce.StatusCode >= http.StatusInternalServerError {
			line.Error("request error")
		} else {
			line.Debug("request error")
		}

		c.JSON(ce.StatusCode, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    ce.Code,
				Message: ce.Message,
				Field:   ce.Field,
				Details: ce.Details,
			},
			RequestID: c.GetString("request_id"),
		})
	}
}

// Classify maps console and backend errors to HTTP answers. Backend 4xx
// statuses pass through; backend 5xx and transport failures become 502.
func Classify(err error) CustomError {
	var custom CustomError
	var validationErr *console.ValidationError
	var apiErr *clients.APIError
	var transportErr *clients.TransportError

	switch {
	case errors.As(err, &custom):
		return custom
	case errors.As(err, &validationErr):
		ce := CustomError{
			Code:       ErrCodeValidationFailed,
			Message:    validationErr.Error(),
			StatusCode: http.StatusBadRequest,
			Details:    validationErr.Fields,
		}
		if keys := validationErr.Keys(); len(keys) == 1 {
			ce.Field = keys[0]
		}
		return ce
	case errors.Is(err, console.ErrDeclined):
		return NewConfirmationRequiredError(console.Describe(err))
	case errors.Is(err, console.ErrNotFound):
		return CustomError{Code: ErrCodeNotFound, Message: console.Describe(err), StatusCode: http.StatusNotFound}
	case errors.Is(err, console.ErrSuperseded):
		return CustomError{Code: ErrCodeSuperseded, Message: "A newer request replaced this one", StatusCode: http.StatusConflict}
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		return CustomError{Code: ErrCodeBackend, Message: console.Describe(err), StatusCode: status}
	case errors.As(err, &transportErr), errors.Is(err, context.DeadlineExceeded):
		return CustomError{Code: ErrCodeBackendUnavailable, Message: console.Describe(err), StatusCode: http.StatusBadGateway}
	default:
		return CustomError{Code: ErrCodeInternalServer, Message: "An unexpected error occurred", StatusCode: http.StatusInternalServerError}
	}
}
