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
	"golang.org/x/sync/errgroup"

	"coverline/internal/authz"
	"coverline/internal/claims"
	"coverline/internal/control"
	"coverline/internal/events"
	"coverline/internal/oracle"
	"coverline/internal/platform/config"
	"coverline/internal/platform/httpserver"
	"coverline/internal/platform/logger"
	"coverline/internal/platform/metrics"
	redisplatform "coverline/internal/platform/redis"
	"coverline/internal/policy"
	"coverline/internal/riskpool"
	httptransport "coverline/internal/transport/http"
	id "coverline/pkg/domain"
	authmw "coverline/pkg/platform/middleware/auth"
)

const eventBuffer = 256

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: postgres when configured, in-memory otherwise.
	var (
		policyStore policy.Store
		claimStore  claims.Store
		journal     events.Journal
	)
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		policyStore = policy.NewPostgresStore(db)
		claimStore = claims.NewPostgresStore(db)
		journal = events.NewPostgresJournal(db)
		log.Info("using postgres stores")
	} else {
		policyStore = policy.NewInMemoryStore()
		claimStore = claims.NewInMemoryStore()
		journal = events.NewInMemoryJournal()
		log.Info("using in-memory stores")
	}

	// Optional event sinks.
	var sinks []events.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka sink", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		log.Info("kafka event sink enabled", "topic", cfg.KafkaTopic)
	}
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis client", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sinks = append(sinks, events.NewRedisSink(redisClient.Client, cfg.RedisStream))
		log.Info("redis event sink enabled", "stream", cfg.RedisStream)
	}

	bus := events.NewBus(journal, eventBuffer, log)
	worker := events.NewWorker(bus.Inbox(), log, sinks...)

	// Control plane and collaborators.
	roles := authz.NewRegistry(bus, log)
	admin, err := id.ParseIdentity(cfg.Admin)
	if err != nil {
		log.Error("admin identity", "error", err)
		os.Exit(1)
	}
	if err := roles.Initialize(ctx, admin); err != nil {
		log.Error("initialize role registry", "error", err)
		os.Exit(1)
	}
	pause := control.NewSwitch()
	gate := oracle.NewGate(oracle.NewInMemoryClient(), log)
	pool := riskpool.NewLedger(id.Amount(cfg.InitialLiquidity), log)

	// Engines.
	riskPoolRef, err := id.ParseIdentity(cfg.Policy.RiskPool)
	if err != nil {
		log.Error("risk pool reference", "error", err)
		os.Exit(1)
	}
	policySvc, err := policy.NewService(policyStore, roles, pause, policy.Config{
		RiskPool:        riskPoolRef,
		MinCoverage:     id.Amount(cfg.Policy.MinCoverage),
		MaxCoverage:     id.Amount(cfg.Policy.MaxCoverage),
		MinPremium:      id.Amount(cfg.Policy.MinPremium),
		MaxPremium:      id.Amount(cfg.Policy.MaxPremium),
		MinDurationDays: cfg.Policy.MinDurationDays,
		MaxDurationDays: cfg.Policy.MaxDurationDays,
	}, bus, m, log)
	if err != nil {
		log.Error("policy engine", "error", err)
		os.Exit(1)
	}
	claimsSvc, err := claims.NewService(claimStore, policySvc, roles, pause, gate, pool, claims.NewShardedTx(), bus, m, log)
	if err != nil {
		log.Error("claims engine", "error", err)
		os.Exit(1)
	}
	controlSvc, err := control.NewService(roles, pause, gate, bus, log)
	if err != nil {
		log.Error("control service", "error", err)
		os.Exit(1)
	}

	verifier := authmw.NewVerifier(cfg.JWTSigningKey)
	handler := httptransport.NewHandler(policySvc, claimsSvc, controlSvc, roles, verifier, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting coverline", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("coverline stopped")
}
