package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(reg *Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(reg).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSessionEndpoint(t *testing.T) {
	r := newTestRouter(NewRegistry(nil, zap.NewNop()))

	w := doRequest(r, http.MethodPost, "/api/v1/sessions", `{"date":"2026-03-10"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "2026-03-10", body["date"])
}

func TestCreateSessionRejectsBadInput(t *testing.T) {
	r := newTestRouter(NewRegistry(nil, zap.NewNop()))

	w := doRequest(r, http.MethodPost, "/api/v1/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/sessions", `{"date":"10/03/2026"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["ok"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["code"])
}

func TestGetSessionNotFound(t *testing.T) {
	r := newTestRouter(NewRegistry(nil, zap.NewNop()))

	w := doRequest(r, http.MethodGet, "/api/v1/sessions/no-existe", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["ok"])
	assert.Equal(t, "sesión de taller no encontrada", body["message"])
}

func TestGetSessionReportsArtifactFlags(t *testing.T) {
	reg := NewRegistry(nil, zap.NewNop())
	sess := reg.Create("2026-03-10")
	sess.SetInsights("## Principales patrones emocionales")
	r := newTestRouter(reg)

	w := doRequest(r, http.MethodGet, "/api/v1/sessions/"+sess.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["has_analysis"])
	assert.Equal(t, false, body["has_articles"])
	assert.Equal(t, true, body["has_insights"])
}
