package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobboard/internal/common"
)

// statusFor maps service and auth errors onto HTTP status codes. Anything
// unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrTooManyLoginAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrAccountNotFound), errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrEmailAlreadyExists),
		errors.Is(err, common.ErrAlreadyApplied),
		errors.Is(err, common.ErrResumeTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// detailFor is the message sent to the client. Internal errors and token
// problems are not described.
func detailFor(err error, status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "internal server error"
	case errors.Is(err, common.ErrUnauthenticated):
		return common.ErrUnauthenticated.Error()
	default:
		return err.Error()
	}
}

// abortWithError writes {"detail": ...} and stops the handler chain.
// Server errors are logged with the request id.
func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "request_id", c.GetString(requestIDKey), "error", err)
	} else if status == http.StatusUnauthorized {
		s.logger.Debug(c.Request.Context(), "unauthenticated", "request_id", c.GetString(requestIDKey), "error", err)
	}
	if status == http.StatusUnauthorized && errors.Is(err, common.ErrUnauthenticated) {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detailFor(err, status)})
}
