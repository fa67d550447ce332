package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medflow/theatreops-backend/internal/staffing/client"
	"github.com/medflow/theatreops-backend/internal/staffing/consumers"
	"github.com/medflow/theatreops-backend/internal/staffing/events"
	"github.com/medflow/theatreops-backend/internal/staffing/handler"
	"github.com/medflow/theatreops-backend/internal/staffing/repository"
	"github.com/medflow/theatreops-backend/internal/staffing/service"
	"github.com/medflow/theatreops-backend/pkg/config"
	"github.com/medflow/theatreops-backend/pkg/database"
	"github.com/medflow/theatreops-backend/pkg/httputil"
	"github.com/medflow/theatreops-backend/pkg/i18n"
	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("staffing-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("staffing-service", cfg.Server.Environment)
	log.Info().Msg("starting Staffing Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	if err := rmq.DeclareDeadLetterQueue("staffing-service"); err != nil {
		log.Fatal().Err(err).Msg("failed to declare dead letter queue")
	}

	// Initialize event publisher
	publisher, err := events.NewStaffingEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	poolRepo := repository.NewPoolRepository(db)
	ruleRepo := repository.NewRuleRepository(db)

	// Initialize service
	rules := service.NewRuleCache(ruleRepo, cfg.Staffing.UnitID, log)
	scorer := client.NewScorerClient(cfg.Services.ScorerServiceURL, cfg.Services.ScorerTimeout, log.WithComponent("scorer-client"))
	staffingService := service.NewStaffingService(
		sessionRepo,
		allocationRepo,
		poolRepo,
		rules,
		publisher,
		scorer,
		service.Options{
			HorizonWeeks: cfg.Staffing.HorizonWeeks,
			MaxRangeDays: cfg.Staffing.MaxRangeDays,
		},
		log,
	)

	// Initialize handlers
	staffingHandler := handler.NewStaffingHandler(staffingService, log)

	// Start rule event consumer
	rulesConsumer, err := consumers.NewRulesEventConsumer(rmq, rules, log.WithComponent("rules-consumer"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create rules event consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rulesConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start rules event consumer")
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(i18n.Middleware)
	r.Use(httputil.TenantMiddleware) // Tenant middleware with /health exception
	r.Use(httputil.ActorMiddleware)

	// Health check (no tenant required - handled by middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "staffing-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
			"scorer":   scorer.Enabled(),
		})
	})

	// API routes (tenant required)
	r.Mount("/api/v1/staffing", staffingHandler.Routes())

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
