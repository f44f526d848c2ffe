package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/harentsoaR/school-api/internal/middleware"
	"github.com/harentsoaR/school-api/internal/resource"
)

// statusFor maps engine error kinds to HTTP statuses.
func statusFor(err error) int {
	switch resource.KindOf(err) {
	case resource.KindInvalidInput:
		return http.StatusBadRequest
	case resource.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the {"error": ...} envelope. Server-side failures are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("requestId", c.GetString(middleware.RequestIDKey)),
			zap.String("userId", c.GetString(middleware.UserIDKey)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}

	msg := err.Error()
	var re *resource.Error
	if errors.As(err, &re) {
		msg = re.Message
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
