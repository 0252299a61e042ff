package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-registration/internal/models"
	"github.com/noah-isme/sma-course-registration/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:       config.EnvProduction,
		APIPrefix: "/api/v1",
		Store: config.StoreConfig{
			Driver:       config.StoreDriverCSV,
			CSVPath:      filepath.Join(t.TempDir(), "course_applications.csv"),
			WriteLockTTL: time.Second,
		},
		Access: config.AccessConfig{StudentPassphrase: "student-pass", AdminPassphrase: "admin-pass"},
		JWT:    config.JWTConfig{Secret: "router-secret", Expiration: time.Hour},
	}
}

func newTestApp(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, a.Router()
}

func do(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, role, passphrase string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/access/token", "", `{"role":"`+role+`","passphrase":"`+passphrase+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var env struct {
		Data models.AccessResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data.AccessToken
}

const thirdYearSubmission = `{
	"student_id": "30101",
	"student_name": "Lee Jiwoo",
	"grade_level": "third-year",
	"subject_codes": [
		"y3-s1-ap-calculus-1", "y3-s1-ap-physics-1", "y3-s1-ap-chemistry-1", "y3-s1-ap-biology-1",
		"y3-s1-astronomy-seminar", "y3-s1-informatics-project", "y3-s2-discrete-math", "y3-s2-ap-physics-2",
		"y3-s1-social-issues", "y3-s1-chinese"
	]
}`

func TestRouterRegistrationLifecycle(t *testing.T) {
	a, r := newTestApp(t)

	w := do(t, r, http.MethodPost, "/api/v1/registrations", "", thirdYearSubmission)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	student := login(t, r, "STUDENT", "student-pass")
	w = do(t, r, http.MethodPost, "/api/v1/registrations", student, thirdYearSubmission)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	raw, err := os.ReadFile(a.Config.Store.CSVPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, 11, len(strings.Split(strings.TrimSpace(string(raw)), "\n")))

	w = do(t, r, http.MethodGet, "/api/v1/admin/records", student, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := login(t, r, "ADMIN", "admin-pass")
	w = do(t, r, http.MethodGet, "/api/v1/admin/records?student_id=30101", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":10`)

	w = do(t, r, http.MethodGet, "/api/v1/admin/summary?grade_level=third-year&term=second-term", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestRouterRejectedSubmissionLeavesStoreUntouched(t *testing.T) {
	a, r := newTestApp(t)
	student := login(t, r, "STUDENT", "student-pass")

	body := `{"student_id":"30101","student_name":"Lee Jiwoo","grade_level":"third-year","subject_codes":["y3-s1-chinese","y3-s1-japanese"]}`
	w := do(t, r, http.MethodPost, "/api/v1/registrations", student, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "SOCIAL_STUDIES_REQUIRED")

	_, err := os.Stat(a.Config.Store.CSVPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRouterPublicEndpoints(t *testing.T) {
	_, r := newTestApp(t)

	w := do(t, r, http.MethodGet, "/api/v1/catalog?grade_level=third-year", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = do(t, r, http.MethodGet, "/docs/index.html", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
