// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/creative-studio/internal/circuitbreaker"
	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/ratelimit"
	"github.com/creative-studio/internal/service"
	"github.com/creative-studio/internal/types"
)

// Identity headers. Login is simulated, so the client names its user and tier.
const (
	UserIDHeader   = "X-User-ID"
	UserTierHeader = "X-User-Tier"
)

const healthCheckTimeout = 2 * time.Second

// Services are the studio operations the API exposes
type Services struct {
	Users      *service.UserService
	Navigation *service.NavigationService
	Logo       *service.LogoService
	Pixel      *service.PixelService
	Copy       *service.CopyService
	Site       *service.SiteService
	Flyer      *service.FlyerService
	Social     *service.SocialService
	Motion     *service.MotionService
	History    *service.HistoryService
	Usage      *service.UsageService
	Monitor    *service.GenerationMonitor
}

// HealthCheck is one dependency probed by /health
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// BreakerStats reports the provider circuit breakers
type BreakerStats interface {
	Stats() map[string]*circuitbreaker.Stats
}

// BudgetUsage reports the shared generation budget
type BudgetUsage interface {
	GetUsage(ctx context.Context) (*ratelimit.UsageStats, error)
	MethodUsage(ctx context.Context, methods []string) (map[string]int, error)
	IsWarningThreshold(ctx context.Context) (bool, error)
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	handler    http.Handler
	httpServer *http.Server
	services   Services
	config     *ServerConfig

	checks        []HealthCheck
	breakers      BreakerStats
	budget        BudgetUsage
	budgetMethods []string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FreeTierRPS     int // Requests per second for free tier
	ProTierRPS      int // Requests per second for pro tier
}

// Option configures optional server collaborators
type Option func(*Server)

// WithHealthChecks adds dependency probes to /health
func WithHealthChecks(checks ...HealthCheck) Option {
	return func(s *Server) { s.checks = append(s.checks, checks...) }
}

// WithBreakerStats exposes circuit breaker state on /api/stats
func WithBreakerStats(b BreakerStats) Option {
	return func(s *Server) { s.breakers = b }
}

// WithBudget exposes generation budget usage on /api/stats, broken down
// by the given generator methods
func WithBudget(b BudgetUsage, methods []string) Option {
	return func(s *Server) {
		s.budget = b
		s.budgetMethods = methods
	}
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, services Services, opts ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		services: services,
		config:   config,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.FreeTierRPS, s.config.ProTierRPS)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(TimeoutMiddleware(s.config.WriteTimeout))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	// CORS wraps the router so preflight requests never reach route matching
	s.handler = CORSMiddleware(s.router)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Catalog endpoints
	api.HandleFunc("/tools", s.handleListTools).Methods("GET")
	api.HandleFunc("/options", s.handleOptions).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	// User endpoints
	api.HandleFunc("/users/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods("GET")
	api.HandleFunc("/users/{id}/credits/earn", s.handleEarnCredits).Methods("POST")
	api.HandleFunc("/users/{id}/usage", s.handleUsage).Methods("GET")

	// Navigation endpoints
	api.HandleFunc("/navigation", s.handleSelectTool).Methods("PUT")
	api.HandleFunc("/navigation", s.handleActiveTool).Methods("GET")

	// Tool panel endpoints
	api.HandleFunc("/logo/generate", s.handleLogoGenerate).Methods("POST")
	api.HandleFunc("/logo/enhance", s.handleLogoEnhance).Methods("POST")
	api.HandleFunc("/pixel/generate", s.handlePixelGenerate).Methods("POST")
	api.HandleFunc("/pixel/enhance", s.handlePixelEnhance).Methods("POST")
	api.HandleFunc("/copy/generate", s.handleCopyGenerate).Methods("POST")
	api.HandleFunc("/site/generate", s.handleSiteGenerate).Methods("POST")
	api.HandleFunc("/site/refine", s.handleSiteRefine).Methods("POST")
	api.HandleFunc("/site/visual-edit", s.handleSiteVisualEdit).Methods("POST")
	api.HandleFunc("/flyer/generate", s.handleFlyerGenerate).Methods("POST")
	api.HandleFunc("/social/hooks", s.handleSocialHooks).Methods("POST")
	api.HandleFunc("/social/post", s.handleSocialPost).Methods("POST")

	// Video endpoints
	api.HandleFunc("/videos", s.handleSubmitVideo).Methods("POST")
	api.HandleFunc("/videos/{id}", s.handleGetVideo).Methods("GET")
	api.HandleFunc("/videos/{id}/content", s.handleVideoContent).Methods("GET")

	// Panel state endpoints
	api.HandleFunc("/tools/{tool}/history", s.handleListHistory).Methods("GET")
	api.HandleFunc("/tools/{tool}/history", s.handleClearHistory).Methods("DELETE")
	api.HandleFunc("/tools/{tool}/output", s.handleCurrentOutput).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	result := map[string]interface{}{
		"status":  "healthy",
		"service": "creative-studio",
	}

	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		checks := make(map[string]string, len(s.checks))
		for _, c := range s.checks {
			if err := c.Check(ctx); err != nil {
				checks[c.Name] = err.Error()
				status = http.StatusServiceUnavailable
				result["status"] = "degraded"
				continue
			}
			checks[c.Name] = "ok"
		}
		result["checks"] = checks
	}

	respondJSON(w, status, result)
}

// handleListTools handles GET /api/tools
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tools": types.Tools(),
	})
}

// handleOptions handles GET /api/options - the choices each panel form offers
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, service.AllOptions())
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	result := map[string]interface{}{}

	if m := s.services.Monitor; m != nil {
		result["generations"] = m.GetStats()
		result["health"] = m.CheckHealth()
	}
	if s.breakers != nil {
		result["breakers"] = s.breakers.Stats()
	}
	if s.budget != nil {
		budget, err := s.budgetStats(r.Context())
		if err != nil {
			respondError(w, r, errors.NewCacheError("read generation budget", err))
			return
		}
		result["budget"] = budget
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) budgetStats(ctx context.Context) (map[string]interface{}, error) {
	usage, err := s.budget.GetUsage(ctx)
	if err != nil {
		return nil, err
	}
	methods, err := s.budget.MethodUsage(ctx, s.budgetMethods)
	if err != nil {
		return nil, err
	}
	warning, err := s.budget.IsWarningThreshold(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"usage":   usage,
		"methods": methods,
		"warning": warning,
	}, nil
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// requestUser returns the X-User-ID of a studio request
func requestUser(r *http.Request) (string, error) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		return "", errors.NewRequiredFieldError(UserIDHeader)
	}
	return userID, nil
}

// pathTool reads and validates the {tool} route variable
func pathTool(r *http.Request) (types.ToolID, error) {
	tool := types.ToolID(mux.Vars(r)["tool"])
	if !types.IsKnownTool(tool) {
		return "", errors.NewUnknownToolError(string(tool))
	}
	return tool, nil
}
