package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ServerTokenTTL is the lifetime of tokens issued by TaskServer.
const ServerTokenTTL = 30 * time.Minute

type userKey struct{}

// RecordedRequest is a request received by TaskServer.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type storedTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Owner       string `json:"-"`
}

// TaskServer is an in-process task backend speaking the same wire
// format as the real service: JSON signup, OAuth2 password-form login
// returning an HS256 JWT, and bearer-protected /tasks.
type TaskServer struct {
	*httptest.Server

	mu       sync.Mutex
	secret   []byte
	users    map[string][]byte // username -> bcrypt hash
	tasks    []storedTask
	requests []RecordedRequest
	status   map[string]int // "METHOD /path" -> forced status

	// OmitToken makes /login answer 200 without an access_token.
	OmitToken bool
}

// NewServer starts a TaskServer that is closed when the test ends.
func NewServer(t *testing.T) *TaskServer {
	t.Helper()

	s := &TaskServer{
		secret: []byte("test-secret"),
		users:  make(map[string][]byte),
		status: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.forcedStatus)
	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleCreateTask)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// FailWith forces every later request to method+path to answer status.
func (s *TaskServer) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[method+" "+path] = status
}

// Requests returns a copy of all recorded requests.
func (s *TaskServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]RecordedRequest, len(s.requests))
	copy(result, s.requests)
	return result
}

// RequestCount counts recorded requests to method+path.
func (s *TaskServer) RequestCount(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// IssueToken signs a token for username the way /login does.
func (s *TaskServer) IssueToken(username string, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *TaskServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *TaskServer) forcedStatus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.status[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeDetail(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *TaskServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		_, known := s.users[claims.Subject]
		s.mu.Unlock()
		if !known {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *TaskServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "hash failed")
		return
	}

	s.mu.Lock()
	_, exists := s.users[req.Username]
	if !exists {
		s.users[req.Username] = hash
	}
	s.mu.Unlock()

	if exists {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": uuid.NewString(), "username": req.Username})
}

func (s *TaskServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	hash, ok := s.users[username]
	omit := s.OmitToken
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		writeDetail(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}
	if omit {
		writeJSON(w, http.StatusOK, map[string]string{"token_type": "bearer"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": s.IssueToken(username, ServerTokenTTL),
		"token_type":   "bearer",
	})
}

func (s *TaskServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(userKey{}).(string)

	s.mu.Lock()
	result := []storedTask{}
	for _, t := range s.tasks {
		if t.Owner == user {
			result = append(result, t)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (s *TaskServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid task")
		return
	}

	user, _ := r.Context().Value(userKey{}).(string)
	task := storedTask{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Owner:       user,
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, task)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
