// Package server provides the HTTP API and server-rendered pages for IntelliHire.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/intellihire/internal/actions"
	"github.com/jonathan/intellihire/internal/config"
	"github.com/jonathan/intellihire/internal/server/middleware"
	"github.com/jonathan/intellihire/internal/server/ratelimit"
	"github.com/jonathan/intellihire/internal/store"
	"github.com/jonathan/intellihire/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	mux         *http.ServeMux
	store       store.Store
	actions     *actions.Service
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	validator   *validator.Validate

	cookieSecure   bool
	allowedOrigins []string
}

// Config holds server configuration
type Config struct {
	Port                  int
	LatestInterviewsLimit int
	SessionCookieSecure   bool
	AllowedOrigins        []string

	// Loaded from the environment when nil
	JWT       *config.JWTConfig
	Password  *config.PasswordConfig
	RateLimit *ratelimit.Config
}

// Deps are the handles the server runs against. Generators may be nil.
type Deps struct {
	Store      store.Store
	Grader     actions.FeedbackGenerator
	Questioner actions.QuestionGenerator
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}

	var err error
	if cfg.Password == nil {
		if cfg.Password, err = config.NewPasswordConfig(); err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
	}
	if cfg.JWT == nil {
		if cfg.JWT, err = config.NewJWTConfig(); err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
	}
	if cfg.RateLimit == nil {
		if cfg.RateLimit, err = ratelimit.LoadConfig(); err != nil {
			return nil, fmt.Errorf("failed to create rate limit config: %w", err)
		}
	}

	s := &Server{
		store:          deps.Store,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		jwtService:     NewJWTService(cfg.JWT),
		validator:      validator.New(),
		cookieSecure:   cfg.SessionCookieSecure,
		allowedOrigins: cfg.AllowedOrigins,
	}
	s.userService = NewUserService(deps.Store, cfg.Password)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	s.actions = actions.New(actions.Deps{
		Interviews: deps.Store,
		Feedback:   deps.Store,
		Users:      s.userService,
		Grader:     deps.Grader,
		Questioner: deps.Questioner,
	}, actions.WithLatestLimit(cfg.LatestInterviewsLimit))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Feedback generation waits on the model
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	s.mux = mux
	mux.HandleFunc("GET /health", s.handleHealth)

	// Interviews
	mux.HandleFunc("POST /v1/interviews", s.handleCreateInterview)
	mux.HandleFunc("POST /v1/interviews/generate", s.handleGenerateInterview)
	mux.HandleFunc("GET /v1/interviews/latest", s.handleLatestInterviews)
	mux.HandleFunc("GET /v1/interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("GET /v1/interviews/{id}/feedback", s.handleGetFeedback)
	mux.HandleFunc("GET /v1/users/{id}/interviews", s.handleUserInterviews)
	mux.Handle("GET /v1/dashboard", requireAuth(http.HandlerFunc(s.handleDashboard)))

	// Feedback
	mux.HandleFunc("POST /v1/feedback", s.handleCreateFeedback)

	// Auth API
	mux.HandleFunc("POST /v1/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", s.authHandler.Login)
	mux.Handle("GET /v1/users/me", requireAuth(http.HandlerFunc(s.authHandler.Me)))
	mux.Handle("PUT /v1/users/me/password", requireAuth(http.HandlerFunc(s.authHandler.UpdatePassword)))

	// Pages
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /sign-in", s.handleSignInPage)
	mux.HandleFunc("POST /sign-in", s.handleSignIn)
	mux.HandleFunc("GET /sign-up", s.handleSignUpPage)
	mux.HandleFunc("POST /sign-up", s.handleSignUp)
	mux.HandleFunc("POST /sign-out", s.handleSignOut)

	// Every route sees the session user when there is one
	return middleware.OptionalAuth(s.jwtService.AsTokenValidator())(mux)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
// The caller owns the store and closes it after Start returns.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers. With no configured origins any origin is allowed.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.allowedOrigins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case slices.Contains(s.allowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, s.routePath(r), r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// unmatchedRoute shares one bucket per client across requests no route serves
const unmatchedRoute = "<unmatched>"

// routePath returns the path of the mux pattern that serves r, so that
// /v1/interviews/a and /v1/interviews/b count against the same bucket.
func (s *Server) routePath(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	if pattern == "" {
		return unmatchedRoute
	}
	// Patterns look like "GET /v1/interviews/{id}"
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth reports liveness and whether the store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// dataResponse writes a successful envelope around data
func (s *Server) dataResponse(w http.ResponseWriter, data any) {
	s.jsonResponse(w, http.StatusOK, types.Envelope{Success: true, Data: data})
}

// errorResponse writes a failed envelope
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, types.Envelope{Success: false, Error: message})
}

// extractClientID uses the IP address from RemoteAddr.
// X-Forwarded-For is ignored since it is client controlled without a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", max(1, retryAfter)))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"success":     false,
		"error":       "Rate limit exceeded. Please try again later.",
		"limit":       info.Limit,
		"remaining":   info.Remaining,
		"reset_at":    info.ResetTime.Format(time.RFC3339),
		"retry_after": max(0, retryAfter),
	})
}
