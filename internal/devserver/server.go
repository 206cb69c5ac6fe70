// Package devserver is an in-memory TaskMaster REST store for local
// development and tests. It serves the same routes and error bodies as the
// production API below /api.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"taskmaster/internal/service"
)

const (
	// MinPasswordLength matches the client-side check.
	MinPasswordLength = 6

	// shutdownTimeout bounds graceful shutdown in ListenAndServe.
	shutdownTimeout = 5 * time.Second

	// DefaultMaxBodyBytes caps a request body.
	DefaultMaxBodyBytes = 1 << 20
)

type ctxKey struct{}

// Server is the development remote store.
type Server struct {
	store    *memStore
	secret   []byte
	tokenTTL time.Duration
	cost     int
	maxBody  int64
	log      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the time source used for timestamps and token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.store.now = now }
}

// WithBcryptCost overrides the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.cost = cost }
}

// WithTokenTTL overrides the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.tokenTTL = ttl }
}

// WithMaxBodyBytes overrides the request body limit.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New creates a server signing tokens with secret. A nil logger discards logs.
func New(secret string, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		store:    newMemStore(),
		secret:   []byte(secret),
		tokenTTL: DefaultTokenTTL,
		cost:     bcrypt.DefaultCost,
		maxBody:  DefaultMaxBodyBytes,
		log:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("", s.handleRoot).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(s.requireAuth)
	tasks.HandleFunc("", s.handleListTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", s.handleCreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}/toggle", s.handleToggleTask).Methods(http.MethodPatch)
	tasks.HandleFunc("/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.log.Info("dev server listening", "addr", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "TaskMaster API is running!"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.Registration
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}
	if len(req.Password) < MinPasswordLength {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		s.log.Error("hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	user, err := s.store.addUser(req.Username, req.Email, hash)
	if errors.Is(err, errUserExists) {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.writeSession(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.Credentials
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	acc, ok := s.store.accountByEmail(req.Email)
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.writeSession(w, http.StatusOK, acc.user)
}

func (s *Server) writeSession(w http.ResponseWriter, status int, user service.User) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		s.log.Error("sign token", "err", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, status, service.Session{Token: token, User: user})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listTasks(userID(r)))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req service.NewTask
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.createTask(userID(r), req))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req service.TaskUpdate
	if !s.decode(w, r, &req) {
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := s.store.updateTask(userID(r), mux.Vars(r)["id"], func(t *service.Task) {
		if req.Title != nil {
			t.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			t.Description = strings.TrimSpace(*req.Description)
		}
		if req.Completed != nil {
			t.Completed = *req.Completed
		}
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.updateTask(userID(r), mux.Vars(r)["id"], func(t *service.Task) {
		t.Completed = !t.Completed
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteTask(userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// requireAuth rejects requests without a valid bearer token and stores the
// caller's user ID in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		c, err := s.parseToken(raw)
		if err != nil || !s.store.userExists(c.UserID) {
			writeError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, c.UserID)))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
