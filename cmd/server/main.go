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

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"muniadmin/internal/audit"
	auditpg "muniadmin/internal/audit/store/postgres"
	"muniadmin/internal/dashboard"
	"muniadmin/internal/directory"
	dirpg "muniadmin/internal/directory/store/postgres"
	"muniadmin/internal/identity"
	idpg "muniadmin/internal/identity/store/postgres"
	jwttoken "muniadmin/internal/jwt_token"
	"muniadmin/internal/platform/config"
	"muniadmin/internal/platform/httpserver"
	"muniadmin/internal/platform/logger"
	"muniadmin/internal/platform/metrics"
	platformredis "muniadmin/internal/platform/redis"
	"muniadmin/internal/platform/tracing"
	httptransport "muniadmin/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		log.Error("tracing init failed", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Error("database unreachable", "error", err)
		os.Exit(1)
	}
	cancel()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.TokenTTL)

	auditStore := auditpg.New(db)
	recorder := audit.NewRecorder(cfg.AuditQueueSize, log, m)
	worker := audit.NewWorker(auditStore, recorder.Inbox(), log, m)

	identitySvc := identity.NewService(idpg.NewStore(db), tokens, log)

	departmentStore := dirpg.NewDepartmentStore(db)
	municipalityStore := dirpg.NewMunicipalityStore(db)
	employeeStore := dirpg.NewEmployeeStore(db)
	directorySvc := directory.NewService(departmentStore, municipalityStore, employeeStore, log)

	var cache dashboard.Cache
	if redisClient != nil {
		cache = dashboard.NewRedisCache(redisClient.Client)
	}
	dashboardSvc := dashboard.NewService(employeeStore, departmentStore, municipalityStore,
		cache, cfg.DashboardCacheTTL, log)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Metrics:        m,
		Verifier:       jwttoken.NewMiddlewareVerifier(tokens),
		Recorder:       recorder,
		Identity:       identitySvc,
		Directory:      directorySvc,
		Audit:          audit.NewService(auditStore),
		Dashboard:      dashboardSvc,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		// Run drains the queue on shutdown before returning.
		err := worker.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	group.Go(func() error {
		log.Info("muniadmin listening", "addr", cfg.Addr, "environment", cfg.Tracing.Environment)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Warn("tracing shutdown failed", "error", err)
	}

	log.Info("muniadmin stopped")
}
