package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerIncludesSessionParam(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/api/v1/sessions/:id/responses", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc-123/responses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/sessions/abc-123/responses", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "abc-123", fields["session"])

	// Routes without a session keep the plain field set.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	entries = logs.TakeAll()
	require.Len(t, entries, 1)
	_, hasSession := entries[0].ContextMap()["session"]
	assert.False(t, hasSession)
}
