package httpserver

import (
	"context"
	"net/http"
	"strings"

	"authjwt/backend/internal/config"
	"authjwt/backend/internal/logging"
	authusecase "authjwt/backend/internal/usecase/auth"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer  *http.Server
	router      *http.ServeMux
	authService *authusecase.Service
	store       Pinger
	logger      logging.Logger
	addr        string
}

// NewServer constructs a new Server with configured dependencies. store may be
// nil when the backend has nothing to ping.
func NewServer(cfg config.Config, authService *authusecase.Service, store Pinger, logger logging.Logger) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	srv := &Server{
		router:      mux,
		authService: authService,
		store:       store,
		logger:      logger.With("component", "http"),
		addr:        addr,
	}
	srv.httpServer = &http.Server{
		Addr:         addr,
		Handler:      srv.withLogging(withCORS(mux, cfg.AllowedOrigins)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
