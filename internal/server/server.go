// Package server wires configuration, storage, and handlers into a ready
// http.Server.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/auth"
	"github.com/fintrack/fintrack-be/internal/config"
	"github.com/fintrack/fintrack-be/internal/http/handlers"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, log *zap.Logger) *Server {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(time.Now()).Register(mux)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authn := middleware.NewAuthenticator(tokens, store, store, log).Require

	handlers.NewUserHandler(store, store, tokens, log).Register(mux, authn)
	handlers.NewAccountHandler(store, log).Register(mux, authn)
	handlers.NewTransactionHandler(store, log).Register(mux, authn)
	handlers.NewBillHandler(store, log).Register(mux, authn)
	handlers.NewGoalHandler(store, log).Register(mux, authn)
	handlers.NewBudgetHandler(store, log).Register(mux, authn)
	handlers.NewDashboardHandler(store, store, store, log).Register(mux, authn)
	handlers.NewReportHandler(store, store, store, log).Register(mux, authn)

	handler := middleware.CORS(cfg.CORSOrigins)(middleware.Logging(log)(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
