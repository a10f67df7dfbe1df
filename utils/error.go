package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error kinds, used as the machine-readable code of an AppError.
const (
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindValidation   = "validation"
	KindUpstream     = "upstream"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindInternal     = "internal"
)

// AppError carries an HTTP status alongside the wrapped cause.
type AppError struct {
	Status  int
	Kind    string
	Message string
	Err     error
	// Extra is merged into the response body (e.g. unavailableServices).
	Extra gin.H
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(status int, kind, msg string, err error) *AppError {
	return &AppError{Status: status, Kind: kind, Message: msg, Err: err}
}

func NotFound(msg string) *AppError {
	return newAppError(http.StatusNotFound, KindNotFound, msg, nil)
}

func Conflict(msg string, err error) *AppError {
	return newAppError(http.StatusConflict, KindConflict, msg, err)
}

func Validation(msg string) *AppError {
	return newAppError(http.StatusBadRequest, KindValidation, msg, nil)
}

// Upstream reports a failed call to an external provider. It maps to 400
// because the request cannot be completed as submitted.
func Upstream(msg string, err error) *AppError {
	return newAppError(http.StatusBadRequest, KindUpstream, msg, err)
}

func Unauthorized(msg string) *AppError {
	return newAppError(http.StatusUnauthorized, KindUnauthorized, msg, nil)
}

func Forbidden(msg string) *AppError {
	return newAppError(http.StatusForbidden, KindForbidden, msg, nil)
}

func Internal(msg string, err error) *AppError {
	return newAppError(http.StatusInternalServerError, KindInternal, msg, err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"status":  http.StatusInternalServerError,
					"message": "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// RespondError writes the standard error envelope for err. Errors that are not
// AppErrors are logged and reported as 500 without their details.
func RespondError(c *gin.Context, err error) {
	logger := GetLogger()

	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal("Internal Server Error", err)
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(appErr.Message, zap.String("path", c.Request.URL.Path), zap.Error(appErr.Err))
	} else {
		logger.Warn(appErr.Message, zap.String("path", c.Request.URL.Path), zap.Int("status", appErr.Status))
	}

	body := gin.H{
		"success": false,
		"status":  appErr.Status,
		"message": appErr.Message,
	}
	for k, v := range appErr.Extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(appErr.Status, body)
}

// JSONError sends the standard envelope for a status and message.
func JSONError(c *gin.Context, status int, message string) {
	RespondError(c, newAppError(status, kindForStatus(status), message, nil))
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusBadRequest:
		return KindValidation
	}
	return KindInternal
}
