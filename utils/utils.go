package utils

import (
	"dtrivia/services/coordinator"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByCode = map[string]int{
	coordinator.CodeGameNotFound:      http.StatusNotFound,
	coordinator.CodeInvalidSettings:   http.StatusBadRequest,
	coordinator.CodeInvalidEvent:      http.StatusBadRequest,
	coordinator.CodeGameFull:          http.StatusConflict,
	coordinator.CodeAlreadyMember:     http.StatusConflict,
	coordinator.CodeAlreadyStarted:    http.StatusConflict,
	coordinator.CodeNotStarted:        http.StatusConflict,
	coordinator.CodeNoCurrentQuestion: http.StatusConflict,
	coordinator.CodeNotMember:         http.StatusForbidden,
	coordinator.CodeNotHost:           http.StatusForbidden,
	coordinator.CodeHostCannotLeave:   http.StatusForbidden,
	coordinator.CodeTryAgain:          http.StatusServiceUnavailable,
}

// HTTPStatus maps a client error code to the response status
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler handles global errors. Handlers attach errors with c.Error and
// return, the last one becomes the response.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		code, message := coordinator.Describe(err)
		status := HTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.Error("[HTTP] request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(status, gin.H{"code": code, "error": message})
	}
}
