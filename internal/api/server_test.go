package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farmer51Peace/sonarqube/internal/api"
	"github.com/Farmer51Peace/sonarqube/internal/registry"
	"github.com/Farmer51Peace/sonarqube/internal/rule"
	"github.com/Farmer51Peace/sonarqube/internal/security"
	"github.com/Farmer51Peace/sonarqube/internal/storage"
)

func newTestServer(t *testing.T) (*api.Server, *storage.DB) {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateSchema())

	return &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          slog.Default(),
		SessionDuration: time.Hour,
	}, db
}

func seedRepository(t *testing.T, db *storage.DB) {
	t.Helper()
	repo := registry.New("go-checks", "go")
	repo.NewRule("S1").
		SetName("first").
		SetDefaultSeverity(rule.SeverityMajor).
		SetStatus(rule.StatusReady).
		NewParam("max").SetType(rule.ParamTypeInteger)
	require.NoError(t, db.SaveRepository(repo.Definition(), time.Now()))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListRepositories(t *testing.T) {
	srv, db := newTestServer(t)
	seedRepository(t, db)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/repositories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []storage.RepoRow `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "go-checks", body.Items[0].Key)
	assert.Equal(t, 1, body.Items[0].Rules)
}

func TestGetRepository(t *testing.T) {
	srv, db := newTestServer(t)
	seedRepository(t, db)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/repositories/go-checks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var def registry.RepositoryDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
	require.Len(t, def.Rules, 1)
	assert.Equal(t, "S1", def.Rules[0].Key)

	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/repositories/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRulesFiltered(t *testing.T) {
	srv, db := newTestServer(t)
	seedRepository(t, db)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/repositories/go-checks/rules?status=ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int                       `json:"count"`
		Items []registry.RuleDefinition `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestBuiltinRules(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Greater(t, body.Count, 0)
}

func TestAuthFlow(t *testing.T) {
	srv, db := newTestServer(t)

	hash, err := security.HashPassword("secret")
	require.NoError(t, err)
	_, err = db.CreateUser("ops", hash, "admin")
	require.NoError(t, err)

	// Unauthenticated /me is rejected.
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong password.
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		bytes.NewBufferString(`{"username":"ops","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Login.
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		bytes.NewBufferString(`{"username":"ops","password":"secret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Authenticated /me.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "ops", me.Username)
	assert.Equal(t, "admin", me.Role)
}
