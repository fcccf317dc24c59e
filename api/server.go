package api

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"sync/atomic"
	"time"

	"oversight/auth"
	"oversight/models"
	"oversight/observability"
	"oversight/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const apiVersion = "1.0.0"

// Pinger reports database reachability for the health check
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the application services the handlers call
type Services struct {
	Entities      service.EntityService
	Programs      service.ProgramService
	Projects      service.ProjectService
	Budget        service.BudgetService
	Reporting     service.ReportingService
	Tickets       service.TicketService
	Users         service.UserService
	Auth          service.AuthService
	Analytics     service.AnalyticsService
	Compliance    service.ComplianceService
	Alerts        service.AlertService
	Workflows     service.WorkflowService
	ProgramStatus service.ProgramStatusService
	Batch         service.BatchService
	Schedules     service.ScheduleService
	Notifications service.NotificationService
	Audit         service.AuditRecorder
}

// Options configure the transport
type Options struct {
	Environment          string
	CORSOrigins          []string
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
	RequestTimeout       time.Duration
	Authenticator        auth.Authenticator
	Metrics              *observability.Metrics
	Gatherer             prometheus.Gatherer
	TrustedProxies       []netip.Prefix // peers allowed to report the client in X-Forwarded-For
	DB                   Pinger
}

// Server is the HTTP API
type Server struct {
	services     Services
	opts         Options
	errors       errorMapper
	limiter      *rateLimiter
	shuttingDown atomic.Bool
	handler      http.Handler
}

// NewServer builds the router and middleware chain
func NewServer(services Services, opts Options) *Server {
	if opts.RateLimitMaxRequests <= 0 {
		opts.RateLimitMaxRequests = 100
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = 15 * time.Minute
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		services: services,
		opts:     opts,
		errors:   errorMapper{exposeDetail: opts.Environment == "development"},
		limiter:  newRateLimiter(opts.RateLimitMaxRequests, opts.RateLimitWindow),
	}

	var handler http.Handler = s.routes()
	handler = corsMiddleware(opts.CORSOrigins)(handler)
	handler = loggingMiddleware(handler)
	handler = recoveryMiddleware(s.errors.exposeDetail)(handler)
	handler = clientIPMiddleware(opts.TrustedProxies)(handler)
	s.handler = requestIDMiddleware(handler)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// StartShutdown makes the health check fail so load balancers stop routing here
func (s *Server) StartShutdown() {
	s.shuttingDown.Store(true)
}

// RunMaintenance prunes idle rate limit buckets until ctx is done
func (s *Server) RunMaintenance(ctx context.Context) {
	s.limiter.run(ctx)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware(s.opts.Metrics))
	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.notFound)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(s.limiter.middleware, timeoutMiddleware(s.opts.RequestTimeout))
	apiRouter.HandleFunc("", s.info).Methods(http.MethodGet)

	authenticated := authenticateMiddleware(s.opts.Authenticator)

	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/login", s.login).Methods(http.MethodPost)
	authRouter.HandleFunc("/register", s.register).Methods(http.MethodPost)
	authRouter.Handle("/me", authenticated(http.HandlerFunc(s.me))).Methods(http.MethodGet)

	dga := apiRouter.PathPrefix("/dga").Subrouter()
	dga.Use(authenticated, auditMiddleware(s.services.Audit))
	s.registerDGARoutes(dga)

	advanced := apiRouter.PathPrefix("/advanced").Subrouter()
	advanced.Use(authenticated)
	s.registerAdvancedRoutes(advanced)

	notifications := apiRouter.PathPrefix("/notifications").Subrouter()
	notifications.Use(authenticated)
	s.registerNotificationRoutes(notifications)

	return r
}

func (s *Server) registerDGARoutes(r *mux.Router) {
	r.HandleFunc("/entities", s.listEntities).Methods(http.MethodGet)
	r.HandleFunc("/entities", s.createEntity).Methods(http.MethodPost)
	r.HandleFunc("/entities/{id}", s.getEntity).Methods(http.MethodGet)
	r.HandleFunc("/entities/{id}", s.updateEntity).Methods(http.MethodPut)
	r.HandleFunc("/entities/{id}", s.deleteEntity).Methods(http.MethodDelete)

	r.HandleFunc("/programs", s.listPrograms).Methods(http.MethodGet)
	r.HandleFunc("/programs", s.createProgram).Methods(http.MethodPost)
	r.HandleFunc("/programs/{id}", s.getProgram).Methods(http.MethodGet)
	r.HandleFunc("/programs/{id}", s.updateProgram).Methods(http.MethodPut)
	r.HandleFunc("/programs/{id}", s.deleteProgram).Methods(http.MethodDelete)

	r.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects", s.createProject).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}", s.getProject).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", s.updateProject).Methods(http.MethodPut)
	r.HandleFunc("/projects/{id}", s.deleteProject).Methods(http.MethodDelete)

	r.HandleFunc("/budget/overview", s.budgetOverview).Methods(http.MethodGet)
	r.HandleFunc("/budget/entity/{entityId}", s.entityBudget).Methods(http.MethodGet)
	r.HandleFunc("/budget", s.createBudget).Methods(http.MethodPost)
	r.HandleFunc("/budget/{id}", s.updateBudget).Methods(http.MethodPut)

	r.HandleFunc("/reporting/overview", s.reportingOverview).Methods(http.MethodGet)
	r.HandleFunc("/reporting/region/{region}", s.regionReport).Methods(http.MethodGet)
	r.HandleFunc("/reporting/kpis", s.latestKPIs).Methods(http.MethodGet)

	r.HandleFunc("/tickets", s.listTickets).Methods(http.MethodGet)
	r.HandleFunc("/tickets", s.createTicket).Methods(http.MethodPost)
	r.HandleFunc("/tickets/{id}", s.updateTicket).Methods(http.MethodPut)

	r.Handle("/users", requireRole(models.RoleAdmin)(http.HandlerFunc(s.listUsers))).Methods(http.MethodGet)
}

func (s *Server) registerAdvancedRoutes(r *mux.Router) {
	finance := requireRole(models.RoleFinancialController)
	compliance := requireRole(models.RoleComplianceAuditor)
	admin := requireRole(models.RoleAdmin)

	r.Handle("/analytics/budget-trends", finance(http.HandlerFunc(s.budgetTrends))).Methods(http.MethodGet)
	r.Handle("/analytics/predict-budget/{entity_id}", finance(http.HandlerFunc(s.predictBudget))).Methods(http.MethodGet)
	r.HandleFunc("/analytics/digital-maturity/{entity_id}", s.digitalMaturity).Methods(http.MethodGet)
	r.Handle("/analytics/risk-analysis", compliance(http.HandlerFunc(s.riskAnalysis))).Methods(http.MethodGet)
	r.Handle("/analytics/benchmarks", admin(http.HandlerFunc(s.benchmarks))).Methods(http.MethodGet)

	r.Handle("/compliance/report", compliance(http.HandlerFunc(s.complianceReport))).Methods(http.MethodGet)
	r.Handle("/compliance/history", compliance(http.HandlerFunc(s.complianceHistory))).Methods(http.MethodGet)
	r.Handle("/compliance/history/{entity_id}", compliance(http.HandlerFunc(s.complianceHistory))).Methods(http.MethodGet)
	r.Handle("/compliance/audit", compliance(http.HandlerFunc(s.auditReport))).Methods(http.MethodGet)

	r.HandleFunc("/workflow/initiate", s.initiateWorkflow).Methods(http.MethodPost)
	r.HandleFunc("/workflow/approve/{workflow_id}", s.processApproval).Methods(http.MethodPost)
	r.HandleFunc("/workflow/resubmit/{workflow_id}", s.resubmitWorkflow).Methods(http.MethodPost)
	r.HandleFunc("/workflow/auto-approve", s.autoApprove).Methods(http.MethodPost)
	r.HandleFunc("/workflows", s.listWorkflows).Methods(http.MethodGet)
	r.HandleFunc("/workflows/{workflow_id}", s.getWorkflow).Methods(http.MethodGet)
	r.Handle("/workflow/budget-alerts", finance(http.HandlerFunc(s.budgetAlerts))).Methods(http.MethodGet)
	r.Handle("/workflow/schedule-report", admin(http.HandlerFunc(s.scheduleReport))).Methods(http.MethodPost)
	r.Handle("/workflow/schedules", admin(http.HandlerFunc(s.listSchedules))).Methods(http.MethodGet)
	r.Handle("/workflow/schedules/{id}", admin(http.HandlerFunc(s.cancelSchedule))).Methods(http.MethodDelete)
	r.Handle("/workflow/update-statuses", admin(http.HandlerFunc(s.updateStatuses))).Methods(http.MethodPost)
	r.Handle("/workflow/batch-operation", admin(http.HandlerFunc(s.batchOperation))).Methods(http.MethodPost)
}

func (s *Server) registerNotificationRoutes(r *mux.Router) {
	r.HandleFunc("", s.listNotifications).Methods(http.MethodGet)
	r.Handle("", requireRole(models.RoleAdmin)(http.HandlerFunc(s.sendNotification))).Methods(http.MethodPost)
	r.HandleFunc("/{id}/read", s.markNotificationRead).Methods(http.MethodPut)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"timestamp":   time.Now().UTC(),
		"environment": s.opts.Environment,
		"version":     apiVersion,
	}

	if s.shuttingDown.Load() {
		respondMessage(w, http.StatusServiceUnavailable, "Server is shutting down", data)
		return
	}
	if s.opts.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.DB.Ping(ctx); err != nil {
			log.WithError(err).Warn("Health check database ping failed")
			data["database"] = "unreachable"
			respondMessage(w, http.StatusServiceUnavailable, "Database unavailable", data)
			return
		}
		data["database"] = "ok"
	}
	respondOK(w, "DGA Oversight API is running", data)
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "DGA Oversight Platform API", map[string]any{
		"version": apiVersion,
		"endpoints": map[string]string{
			"auth":          "/api/auth",
			"entities":      "/api/dga/entities",
			"programs":      "/api/dga/programs",
			"projects":      "/api/dga/projects",
			"budget":        "/api/dga/budget",
			"reporting":     "/api/dga/reporting",
			"tickets":       "/api/dga/tickets",
			"users":         "/api/dga/users",
			"advanced":      "/api/advanced",
			"notifications": "/api/notifications",
			"metrics":       "/metrics",
		},
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.opts.Metrics.ObserveHTTPRequest(r.Method, "unmatched", http.StatusNotFound, 0)
	respondMessage(w, http.StatusNotFound, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.RequestURI()), nil)
}
