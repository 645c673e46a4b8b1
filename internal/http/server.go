package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

// Pinger reports whether the data backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Expenses  *services.ExpenseService
	Dashboard *services.DashboardService
	Auth      *auth.Authenticator
	Backend   Pinger
	Snapshots *cache.LRUCache[services.Snapshot]
	Logger    *log.Logger

	// RequestsPerMinute bounds writes per client. Zero uses the limiter default.
	RequestsPerMinute int
	// TrustedProxies are CIDRs, beyond private ranges, allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type Server struct {
	http.Server
	templates *template.Template

	expenses  *services.ExpenseService
	dashboard *services.DashboardService
	auth      *auth.Authenticator
	backend   Pinger
	snapshots *cache.LRUCache[services.Snapshot]

	logger  *log.Logger
	tracer  *trace.Middleware
	limiter *ratelimit.Limiter
	ips     *security.ClientIPResolver

	now          func() time.Time
	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Expenses == nil || deps.Dashboard == nil || deps.Auth == nil {
		return nil, errors.New("expense service, dashboard service and authenticator are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}

	ips, err := security.NewClientIPResolver(deps.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates: t,
		expenses:  deps.Expenses,
		dashboard: deps.Dashboard,
		auth:      deps.Auth,
		backend:   deps.Backend,
		snapshots: deps.Snapshots,
		logger:    logger.WithComponent(log.ComponentHTTP),
		tracer:    trace.NewMiddleware(logger, ips.ClientIP),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RequestsPerMinute,
		}),
		ips:     ips,
		now:     time.Now,
		started: time.Now(),
	}

	mux := http.NewServeMux()

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	pages := s.auth.Middleware(s.htmlAuthError)
	mux.Handle("GET /{$}", pages(http.HandlerFunc(s.handleIndex)))
	mux.Handle("GET /ui/overview", pages(http.HandlerFunc(s.handleOverview)))
	mux.Handle("POST /expenses", pages(http.HandlerFunc(s.handleCreateExpense)))
	mux.Handle("DELETE /expenses/{id}", pages(http.HandlerFunc(s.handleDeleteExpense)))
	mux.Handle("POST /targets", pages(http.HandlerFunc(s.handleSaveTarget)))

	api := s.auth.Middleware(s.jsonAuthError)
	mux.Handle("GET /api/breakdown", api(http.HandlerFunc(s.handleAPIBreakdown)))
	mux.Handle("GET /api/budget", api(http.HandlerFunc(s.handleAPIBudget)))
	mux.Handle("GET /api/tips", api(http.HandlerFunc(s.handleAPITips)))
	mux.Handle("GET /api/expenses", api(http.HandlerFunc(s.handleAPIExpenses)))
	mux.Handle("GET /api/history", api(http.HandlerFunc(s.handleAPIHistory)))

	var h http.Handler = mux
	h = s.limiter.WritesOnly(s.ips.ClientIP, s.rateLimited)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	h = log.Middleware(logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

// Shutdown stops the limiter and drains the HTTP server. It is safe to call twice.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) htmlAuthError(w http.ResponseWriter, _ *http.Request, _ error) {
	ErrorResponse(http.StatusUnauthorized, "Sign in to continue").Write(w)
}

func (s *Server) jsonAuthError(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="fintrack"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.ips.ClientIP(r),
		log.FieldPath, r.URL.Path)
	NewHTMXResponse().
		Status(http.StatusTooManyRequests).
		TriggerErrorNotification("Too many requests, slow down").
		BodyHTML(`<div class="error">Rate limit exceeded. Please try again later.</div>`).
		Write(w)
}
