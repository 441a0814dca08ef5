package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	notifhandler "praxis/internal/notification/handler"
	notifmetrics "praxis/internal/notification/metrics"
	"praxis/internal/notification/readstate"
	notifservice "praxis/internal/notification/service"
	"praxis/internal/platform/config"
	"praxis/internal/platform/httpserver"
	"praxis/internal/platform/logger"
	"praxis/internal/platform/middleware"
	platformredis "praxis/internal/platform/redis"
	vishandler "praxis/internal/visibility/handler"
	vismetrics "praxis/internal/visibility/metrics"
	"praxis/internal/visibility/models"
	"praxis/internal/visibility/principal"
	visservice "praxis/internal/visibility/service"
	"praxis/internal/visibility/store"
	"praxis/internal/visibility/store/records"
	"praxis/internal/visibility/store/roster"
	"praxis/pkg/platform/audit"
	auditkafka "praxis/pkg/platform/audit/kafka"
	auditmemory "praxis/pkg/platform/audit/store/memory"
	auditpostgres "praxis/pkg/platform/audit/store/postgres"
	auditworker "praxis/pkg/platform/audit/worker"
	"praxis/pkg/platform/bus"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := models.ParseFallbackPolicy(cfg.FallbackPolicy)
	if err != nil {
		log.Error("invalid fallback policy", "value", cfg.FallbackPolicy, "error", err)
		os.Exit(1)
	}

	// Audit pipeline: non-blocking publisher, background worker, optional
	// postgres outbox and kafka sink.
	auditPublisher := audit.NewPublisher(log)
	var auditStore audit.Store = auditmemory.New()

	var pool *pgxpool.Pool
	if cfg.PostgresURL != "" {
		pool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		outboxDB, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open audit outbox connection", "error", err)
			os.Exit(1)
		}
		defer outboxDB.Close()
		auditStore = auditpostgres.New(outboxDB)
	}

	var sinks []audit.Sink
	kafkaSink, err := auditkafka.New(cfg.KafkaSeeds, cfg.KafkaTopic)
	if err != nil {
		log.Error("connect kafka", "error", err)
		os.Exit(1)
	}
	if kafkaSink != nil {
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	worker := auditworker.NewWorker(auditStore, auditPublisher.Inbox(), log, sinks...)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go func() {
		if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	// Stores: postgres when configured, in-memory (optionally seeded) in dev.
	var (
		rosterStore visservice.RosterStore
		recordStore visservice.RecordStore
	)
	if pool != nil {
		rosterStore = roster.NewPostgres(pool)
		recordStore = records.NewPostgres(pool)
	} else {
		rs := roster.NewInMemory()
		recs := records.NewInMemory()
		if cfg.DevMode {
			store.SeedDemo(rs, recs)
			log.Info("seeded demo roster and records")
		}
		rosterStore = rs
		recordStore = recs
	}

	notifier := bus.New()

	var seen readstate.Store
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		seen = readstate.NewRedis(redisClient.Client, notifier, readstate.WithLogger(log))
	} else {
		seen = readstate.NewInMemory(notifier)
	}

	visMetrics := vismetrics.New()
	notifMetrics := notifmetrics.New()

	resolver, err := principal.New(rosterStore, policy,
		principal.WithLogger(log),
		principal.WithAuditPublisher(auditPublisher),
		principal.WithMetrics(visMetrics),
	)
	if err != nil {
		log.Error("create principal resolver", "error", err)
		os.Exit(1)
	}

	visSvc, err := visservice.New(rosterStore, recordStore,
		visservice.WithLogger(log),
		visservice.WithMetrics(visMetrics),
		visservice.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("create visibility service", "error", err)
		os.Exit(1)
	}

	notifSvc, err := notifservice.New(visSvc, seen, notifier,
		notifservice.WithLogger(log),
		notifservice.WithAuditPublisher(auditPublisher),
		notifservice.WithMetrics(notifMetrics),
	)
	if err != nil {
		log.Error("create notification service", "error", err)
		os.Exit(1)
	}

	validator := middleware.NewHMACValidator(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.ProfileContext)
		r.Use(middleware.RequireAuth(validator, log))
		r.Use(middleware.ResolvePrincipal(resolver, log))
		vishandler.New(visSvc, log).Register(r)
		notifhandler.New(notifSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting praxis",
		"addr", cfg.Addr,
		"fallback_policy", policy,
		"postgres", pool != nil,
		"redis", redisClient != nil,
		"kafka", kafkaSink != nil,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
