package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"oversight/api"
	"oversight/auth"
	"oversight/config"
	"oversight/database"
	"oversight/events"
	"oversight/infrastructure"
	"oversight/observability"
	"oversight/repository"
	"oversight/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

const (
	shutdownTimeout      = 10 * time.Second
	lockoutCleanupPeriod = time.Minute
)

// ConfigureLogging sets the logrus formatter and level for the environment
func ConfigureLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting DGA oversight API...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnectionWithOptions(ctx, cfg.GetDatabaseURL(), database.PoolOptions{
		MinConns: cfg.DBPoolMin,
		MaxConns: cfg.DBPoolMax,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Notification transport
	var publisher service.NotificationPublisher
	if cfg.NATSURL != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSURL, "oversight-api")
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		if err := infrastructure.EnsureNotificationStream(natsClient, cfg.NATSSubjectPrefix); err != nil {
			return fmt.Errorf("failed to ensure notification stream: %w", err)
		}
		publisher = infrastructure.NewNATSNotificationPublisher(natsClient, cfg.NATSSubjectPrefix)
		log.WithField("url", cfg.NATSURL).Info("Notification publishing via NATS enabled")
	} else {
		log.Info("NATS_URL not set, notifications are stored only")
	}

	// Login lockout
	lockout, closeLockout, err := newLockoutStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLockout()

	// Authentication
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpire)
	var authenticator auth.Authenticator = auth.NewJWTAuthenticator(tokens)
	if cfg.AuthMode == config.AuthModeDemo {
		log.WithField("user_email", cfg.DemoUserEmail).Warn("Demo auth mode: every request runs as the demo administrator")
		authenticator = auth.NewFixedIdentityAuthenticator(cfg.DemoUserID, cfg.DemoUserEmail)
	}

	// Initialize services
	workflows := service.NewWorkflowService(uowFactory, metrics)
	notifications := service.NewNotificationService(uowFactory, publisher, metrics)
	programStatus := service.NewProgramStatusService(uowFactory, metrics)
	services := api.Services{
		Entities:      service.NewEntityService(uowFactory),
		Programs:      service.NewProgramService(uowFactory),
		Projects:      service.NewProjectService(uowFactory),
		Budget:        service.NewBudgetService(uowFactory),
		Reporting:     service.NewReportingService(uowFactory),
		Tickets:       service.NewTicketService(uowFactory),
		Users:         service.NewUserService(uowFactory),
		Auth:          service.NewAuthService(uowFactory, lockout, tokens, metrics),
		Analytics:     service.NewAnalyticsService(uowFactory),
		Compliance:    service.NewComplianceService(uowFactory, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
		Alerts:        service.NewAlertService(uowFactory, metrics),
		Workflows:     workflows,
		ProgramStatus: programStatus,
		Batch:         service.NewBatchService(uowFactory, workflows, metrics),
		Schedules:     service.NewScheduleService(uowFactory),
		Notifications: notifications,
		Audit:         service.NewAuditRecorder(uowFactory),
	}
	service.SubscribeNotifications(eventBus, notifications)
	log.Info("Services initialized successfully")

	trustedProxies, err := api.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	server := api.NewServer(services, api.Options{
		Environment:          cfg.Environment,
		CORSOrigins:          cfg.CORSOrigins,
		RateLimitWindow:      cfg.RateLimitWindow,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RequestTimeout:       cfg.DBQueryTimeout,
		Authenticator:        authenticator,
		Metrics:              metrics,
		Gatherer:             registry,
		TrustedProxies:       trustedProxies,
		DB:                   db,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go server.RunMaintenance(ctx)
	if cfg.StatusUpdateInterval > 0 {
		go runStatusUpdates(ctx, programStatus, cfg.StatusUpdateInterval)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down API...")
	server.StartShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}
	if err := eventBus.Wait(shutdownCtx); err != nil {
		log.WithError(err).Warn("Event handlers did not finish before shutdown timeout")
	}

	log.Info("Shutdown completed")
	return nil
}

// newLockoutStore uses Redis when configured so lockouts survive restarts and are shared
// between replicas
func newLockoutStore(ctx context.Context, cfg *config.Config) (service.LockoutStore, func(), error) {
	policy := auth.LockoutPolicy{
		MaxAttempts: cfg.MaxFailedLoginAttempts,
		Duration:    cfg.LockoutDuration,
	}

	if cfg.RedisURL != "" {
		store, err := auth.NewRedisLockoutStore(cfg.RedisURL, policy)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to configure redis lockout store: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		log.Info("Login lockout state kept in Redis")
		return store, func() {
			if err := store.Close(); err != nil {
				log.WithError(err).Warn("Error closing redis client")
			}
		}, nil
	}

	store := auth.NewMemoryLockoutStore(policy)
	go store.RunCleanup(ctx, lockoutCleanupPeriod)
	return store, func() {}, nil
}

func runStatusUpdates(ctx context.Context, programStatus service.ProgramStatusService, interval time.Duration) {
	log.WithField("interval", interval).Info("Automated program status updates enabled")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := programStatus.UpdateStatuses(ctx)
			if err != nil {
				log.WithError(err).Error("Automated program status update failed")
				continue
			}
			log.WithField("updated", result.UpdatedCount).Info("Automated program status update completed")
		}
	}
}
