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

	_ "github.com/jackc/pgx/v5/stdlib"

	"hearth/internal/audit"
	"hearth/internal/consent"
	"hearth/internal/consent/adapters"
	consenthandler "hearth/internal/consent/handler"
	consentmetrics "hearth/internal/consent/metrics"
	"hearth/internal/journey"
	journeyhandler "hearth/internal/journey/handler"
	journeymetrics "hearth/internal/journey/metrics"
	jwttoken "hearth/internal/jwt_token"
	"hearth/internal/platform/config"
	"hearth/internal/platform/httpserver"
	"hearth/internal/platform/logger"
	"hearth/internal/platform/metrics"
	"hearth/internal/platform/redis"
	"hearth/internal/publishing"
	publishinghandler "hearth/internal/publishing/handler"
	publishingmetrics "hearth/internal/publishing/metrics"
	"hearth/internal/tenant"
	tenanthandler "hearth/internal/tenant/handler"
	httptransport "hearth/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages; everything here is assembly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage. A configured DSN selects PostgreSQL; otherwise everything runs
	// in memory, which is the dev and test posture.
	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err.Error())
			os.Exit(1)
		}
	}

	var (
		consentStore   consent.Store
		tenantStore    tenant.Store
		profileStore   publishing.ProfileStore
		marketingStore publishing.MarketingStore
		journeyStore   journey.Store
	)
	if db != nil {
		consentStore = consent.NewPostgresStore(db)
		tenantStore = tenant.NewPostgresStore(db)
		pubStore := publishing.NewPostgresStore(db)
		profileStore = pubStore
		marketingStore = pubStore
		journeyStore = journey.NewPostgresStore(db)
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		consentStore = consent.NewInMemoryStore()
		tenantStore = tenant.NewInMemoryStore()
		profileStore = publishing.NewInMemoryProfileStore()
		marketingStore = publishing.NewInMemoryMarketingStore()
		journeyStore = journey.NewInMemoryStore()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		journeyStore = journey.NewCachedStore(journeyStore, redisClient.Client, log)
	}

	// Audit trail. Kafka when brokers are configured, in-memory otherwise.
	// The worker drains the inbox off the request path.
	var auditSink audit.Store = audit.NewInMemoryStore()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("connect kafka audit sink", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
	} else {
		log.Warn("AUDIT_KAFKA_BROKERS not set, audit events stay in memory")
	}

	auditInbox := make(chan audit.Event, 256)
	auditWorker := audit.NewWorker(auditSink, auditInbox)
	go func() {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err.Error())
		}
	}()
	auditor := audit.NewChannelPublisher(auditInbox, log)

	// Services.
	tenantSource := adapters.NewTenantConfigAdapter(tenantStore, cfg.DefaultQuietHoursStart, cfg.DefaultQuietHoursEnd)
	consentService, err := consent.NewService(consentStore, tenantSource,
		consent.WithLogger(log),
		consent.WithMetrics(consentmetrics.New()),
		consent.WithAuditor(auditor),
	)
	if err != nil {
		log.Error("build consent service", "error", err.Error())
		os.Exit(1)
	}

	publishingService, err := publishing.NewService(profileStore, marketingStore,
		publishing.WithLogger(log),
		publishing.WithMetrics(publishingmetrics.New()),
		publishing.WithAuditor(auditor),
	)
	if err != nil {
		log.Error("build publishing service", "error", err.Error())
		os.Exit(1)
	}

	journeyService, err := journey.NewService(journeyStore,
		journey.WithLogger(log),
		journey.WithMetrics(journeymetrics.New()),
		journey.WithAuditor(auditor),
	)
	if err != nil {
		log.Error("build journey service", "error", err.Error())
		os.Exit(1)
	}

	if cfg.JourneyPackPath != "" {
		definitions, err := journey.LoadPack(cfg.JourneyPackPath)
		if err != nil {
			log.Error("load journey pack", "path", cfg.JourneyPackPath, "error", err.Error())
			os.Exit(1)
		}
		if err := journey.Seed(ctx, journeyStore, definitions); err != nil {
			log.Error("seed journey pack", "error", err.Error())
			os.Exit(1)
		}
		log.Info("seeded journey pack", "path", cfg.JourneyPackPath, "journeys", len(definitions))
	}

	// Transport.
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "hearth", "hearth-api")
	health := map[string]httptransport.HealthChecker{}
	if db != nil {
		health["postgres"] = func() error { return db.PingContext(context.Background()) }
	}
	if redisClient != nil {
		health["redis"] = func() error { return redisClient.Health(context.Background()) }
	}

	router := httptransport.NewRouter(
		httptransport.Handlers{
			Consent:    consenthandler.New(consentService, log),
			Publishing: publishinghandler.New(publishingService, log),
			Journeys:   journeyhandler.New(journeyService, log),
			Tenant:     tenanthandler.New(tenantStore, log, cfg.DefaultQuietHoursStart, cfg.DefaultQuietHoursEnd),
		},
		jwttoken.NewMiddlewareAdapter(jwtService),
		log,
		metrics.New(),
		health,
	)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting hearth", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
