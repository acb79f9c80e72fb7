// Package server wires stores, services, and handlers into the HTTP API.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/hamfast/internal/access"
	"github.com/dukerupert/hamfast/internal/handler"
	"github.com/dukerupert/hamfast/internal/middleware"
	"github.com/dukerupert/hamfast/internal/store"
)

type Server struct {
	db          *sql.DB
	authH       *handler.AuthHandler
	itemH       *handler.ItemHandler
	accessH     *handler.AccessHandler
	sharedH     *handler.SharedHandler
	rateLimiter *middleware.RateLimiter
	jwtSecret   string
	logger      *slog.Logger
}

func New(db *sql.DB, jwtSecret string, logger *slog.Logger) *Server {
	itemStore := store.NewItemStore(db)
	requestStore := store.NewAccessRequestStore(db)
	grantStore := store.NewSharedAccessStore(db)
	userStore := store.NewUserStore(db)

	accessSvc := access.NewService(requestStore, grantStore, itemStore, logger.With("component", "access"))

	return &Server{
		db:          db,
		authH:       handler.NewAuthHandler(userStore, jwtSecret, logger.With("component", "auth")),
		itemH:       handler.NewItemHandler(itemStore, logger.With("component", "item")),
		accessH:     handler.NewAccessHandler(accessSvc, userStore, logger.With("component", "access_handler")),
		sharedH:     handler.NewSharedHandler(accessSvc, logger.With("component", "shared")),
		rateLimiter: middleware.NewRateLimiter(),
		jwtSecret:   jwtSecret,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.jwtSecret)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Item API routes
	mux.HandleFunc("GET /api/items", s.itemH.List)
	mux.HandleFunc("POST /api/items", s.itemH.Create)
	mux.HandleFunc("PATCH /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)
	mux.HandleFunc("POST /api/items/reorder", s.itemH.Reorder)

	// Access request API routes
	mux.HandleFunc("GET /api/access-requests", s.accessH.List)
	mux.HandleFunc("POST /api/access-requests", s.accessH.Create)
	mux.HandleFunc("PUT /api/access-requests/{id}", s.accessH.Resolve)
	mux.HandleFunc("DELETE /api/access-requests/{id}", s.accessH.Delete)

	// Shared list API routes
	mux.HandleFunc("GET /api/shared-lists/my-access", s.sharedH.MyAccess)
	mux.HandleFunc("GET /api/shared-lists/{owner_id}/items", s.sharedH.Items)
	mux.HandleFunc("DELETE /api/shared-lists/members/{member_id}", s.sharedH.Revoke)
}
