package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestParse(t *testing.T) {
	s := NewServer("php")
	w := do(t, s, http.MethodPost, "/parse",
		`{"code": "init(['dsn' => 'https://k@o0.ingest.sentry.io/0', 'debug' => true]);"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t,
		`{"dialect":"php","valid":true,"options":{"dsn":{"type":"string","value":"https://k@o0.ingest.sentry.io/0","rawText":"'https://k@o0.ingest.sentry.io/0'"},"debug":{"type":"boolean","value":true,"rawText":"true"}},"parseErrors":[]}`,
		w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestParseDialectSelection(t *testing.T) {
	s := NewServer("php")

	w := do(t, s, http.MethodPost, "/parse", `{"code": "sentry_sdk.init(debug=True)", "dialect": "py"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "python", body["dialect"])
	assert.Equal(t, true, body["valid"])

	w = do(t, s, http.MethodPost, "/parse?dialect=ruby", `{"code": "Sentry.init do |c|\n c.debug = true\nend"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ruby", decode(t, w)["dialect"])

	w = do(t, s, http.MethodPost, "/parse", `{"code": "x", "dialect": "cobol"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "unknown dialect")
}

func TestParseInvalidSnippetIsOK(t *testing.T) {
	s := NewServer("php")
	w := do(t, s, http.MethodPost, "/parse", `{"code": "init(not valid)"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Len(t, body["parseErrors"], 1)
}

func TestMissingCode(t *testing.T) {
	s := NewServer("php")

	w := do(t, s, http.MethodPost, "/parse", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing code parameter", decode(t, w)["error"])

	w = do(t, s, http.MethodPost, "/validate", `{"dialect": "php"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["valid"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "missing code parameter", errs[0].(map[string]any)["message"])
}

func TestValidate(t *testing.T) {
	s := NewServer("javascript")

	w := do(t, s, http.MethodPost, "/validate", `{"code": "Sentry.init({ dsn: 'x' })"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"valid":true,"errors":[]}`, w.Body.String())

	w = do(t, s, http.MethodPost, "/validate", `{"code": "Sentry.init({ dsn: 'x' "}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["valid"])
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, float64(1), first["line"])
	assert.Equal(t, float64(13), first["column"])
}

func TestBodyTooLarge(t *testing.T) {
	s := NewServer("php")
	body := `{"code": "` + strings.Repeat("a", MaxBodyBytes) + `"}`
	w := do(t, s, http.MethodPost, "/parse", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDialectsAndHealth(t *testing.T) {
	s := NewServer("php")

	w := do(t, s, http.MethodGet, "/dialects", "")
	require.Equal(t, http.StatusOK, w.Code)
	var infos []DialectInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "php")
	assert.Contains(t, names, "swift")

	w = do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.GreaterOrEqual(t, health.Dialects, 10)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := NewServer("php")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
