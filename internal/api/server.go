package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Farmer51Peace/sonarqube/internal/checks"
	"github.com/Farmer51Peace/sonarqube/internal/definitions"
	"github.com/Farmer51Peace/sonarqube/internal/registry"
	"github.com/Farmer51Peace/sonarqube/internal/schema"
	"github.com/Farmer51Peace/sonarqube/internal/storage"
)

// Store is the minimal contract the API needs.
type Store interface {
	ListRepositories(limit, offset int) ([]storage.RepoRow, error)
	LoadRepository(key string) (registry.RepositoryDefinition, error)
	ListRules(repoKey, status string) ([]registry.RuleDefinition, error)
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Logger          *slog.Logger
	SessionDuration time.Duration
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	withCORS := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h(w, r)
		}
	}

	// Health
	mux.HandleFunc("GET /api/v1/health", withCORS(s.handleHealth))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/me", withCORS(withAuth(s, s.handleMe, "me")))

	// Stored repositories
	mux.HandleFunc("GET /api/v1/repositories", withCORS(s.handleListRepositories))
	mux.HandleFunc("GET /api/v1/repositories/{key}", withCORS(s.handleGetRepository))
	mux.HandleFunc("GET /api/v1/repositories/{key}/rules", withCORS(s.handleListRules))

	// Built-in checks compiled on the fly
	mux.HandleFunc("GET /api/v1/rules", withCORS(s.handleBuiltinRules))

	// Fallback 404
	mux.HandleFunc("/", withCORS(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListRepositories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)

	rows, err := s.DB.ListRepositories(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetRepository(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	def, err := s.DB.LoadRepository(key)
	if err != nil {
		s.err(w, http.StatusNotFound, "repository not found")
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))
	items, err := s.DB.ListRules(key, status)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"repository": key, "status": status, "items": items, "count": len(items),
	})
}

// GET /api/v1/rules compiles the registered built-in checks and returns the
// resulting definition (read-only, no auth needed).
func (s *Server) handleBuiltinRules(w http.ResponseWriter, r *http.Request) {
	repo := registry.New("builtin", "")
	loader := definitions.NewLoader(schema.TagProvider{}, s.Logger)
	if err := loader.LoadRules(repo, checks.List()...); err != nil {
		s.err(w, http.StatusInternalServerError, "compile error: "+err.Error())
		return
	}
	def := repo.Definition()
	writeJSON(w, http.StatusOK, map[string]any{"items": def.Rules, "count": len(def.Rules)})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
