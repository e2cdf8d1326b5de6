package utils_test

import (
	"dtrivia/services/coordinator"
	"dtrivia/services/trivia"
	"dtrivia/utils"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", coordinator.ErrGameNotFound, http.StatusNotFound, coordinator.CodeGameNotFound},
		{"full", fmt.Errorf("join: %w", trivia.ErrGameFull), http.StatusConflict, coordinator.CodeGameFull},
		{"settings", trivia.ErrInvalidSettings, http.StatusBadRequest, coordinator.CodeInvalidSettings},
		{"not started", trivia.ErrNotStarted, http.StatusConflict, coordinator.CodeNotStarted},
		{"try again", fmt.Errorf("%w: redis down", coordinator.ErrTryAgain), http.StatusServiceUnavailable, coordinator.CodeTryAgain},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, coordinator.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(utils.ErrorHandler(zaptest.NewLogger(t)))
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotContains(t, body["error"], "redis down")
		})
	}
}

func TestErrorHandler_LeavesSuccessAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(utils.ErrorHandler(zaptest.NewLogger(t)))
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}
