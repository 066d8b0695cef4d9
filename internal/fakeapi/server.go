// Package fakeapi is an in-memory Leap backend for local development and
// client tests. It serves the same routes and JSON shapes as the real API
// from seeded data.
package fakeapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/leap-app/leap/internal/logging"
)

// Options configures a Server.
type Options struct {
	// RequireAuth rejects anonymous writes and /users/me reads. When false,
	// anonymous callers act as the demo user.
	RequireAuth bool
	// Latency delays every API response, to make loading states visible.
	Latency time.Duration
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server is the fake API.
type Server struct {
	opts   Options
	data   *data
	logger *slog.Logger
	router *chi.Mux
}

// NewServer creates a server with freshly seeded data.
func NewServer(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		opts:   opts,
		data:   newData(opts.Now),
		logger: logger,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		if s.opts.Latency > 0 {
			r.Use(s.delay)
		}

		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/practice_challenges", func(r chi.Router) {
			r.Get("/templates", s.handleListTemplates)
			r.Get("/templates/{id}", s.handleGetTemplate)
			r.With(s.authenticate).Post("/complete", s.handleComplete)
		})

		r.With(s.authenticate).Get("/users/me/challenge_completions", s.handleMyCompletions)

		r.Route("/mind_content", func(r chi.Router) {
			r.Get("/", s.handleListContent)
			r.Get("/categories", s.handleListCategories)
			r.Get("/{id}", s.handleGetContent)
			r.With(s.authenticate).Post("/", s.handleAddContent)
			r.With(s.authenticate).Put("/{id}", s.handleUpdateContent)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

// authenticate resolves the bearer token to a user id stored in the
// request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		userID := 0

		switch {
		case header != "":
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respondError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}
			id, err := s.data.userForToken(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			userID = id
		case s.opts.RequireAuth:
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		default:
			userID = 1
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) int {
	id, _ := ctx.Value(ctxKey{}).(int)
	return id
}
