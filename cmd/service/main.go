// Binario del servicio de reportes: carga config, arma el wiring por
// driver y sirve la API hasta recibir SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/xenocrypt01/smile-report-dash/internal/config"
	"github.com/xenocrypt01/smile-report-dash/internal/dispatch"
	"github.com/xenocrypt01/smile-report-dash/internal/email"
	"github.com/xenocrypt01/smile-report-dash/internal/http/controllers"
	"github.com/xenocrypt01/smile-report-dash/internal/http/router"
	"github.com/xenocrypt01/smile-report-dash/internal/http/server"
	authsvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/auth"
	healthsvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/health"
	reportssvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/reports"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/metrics"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
	"github.com/xenocrypt01/smile-report-dash/internal/rate"
)

var version = "dev" // -ldflags "-X main.version=..."

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warn: .env no cargado: %v\n", err)
	}

	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al config.yaml (opcional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Identity ----
	var provider identity.Provider
	switch cfg.Identity.Driver {
	case "remote":
		provider = identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey, cfg.IdentityTimeout())
	default:
		stub := identity.NewStub(cfg.Identity.JWTSecret, time.Hour)
		if _, err := stub.Seed("dev@example.test", "devdevdev", "Dev User"); err != nil {
			return fmt.Errorf("seed stub: %w", err)
		}
		log.Warn("identity stub activo: solo para dev",
			logger.String("seed_user", "dev@example.test"))
		provider = stub
	}

	// ---- Shared infra (redis / postgres según drivers) ----
	var (
		redisClient *rdb.Client
		pgPool      *pgxpool.Pool
		checkers    []healthsvc.Checker
	)
	needRedis := cfg.Rate.Driver == "redis" || cfg.Cache.Kind == "redis"
	if needRedis {
		redisClient = rdb.NewClient(&rdb.Options{
			Addr: cfg.Cache.Redis.Addr,
			DB:   cfg.Cache.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()
		checkers = append(checkers, healthsvc.CheckerFunc{
			Label: "redis",
			Fn:    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	if cfg.Rate.Driver == "postgres" {
		poolCfg, err := pgxpool.ParseConfig(cfg.Storage.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("postgres dsn: %w", err)
		}
		if cfg.Storage.Postgres.MaxConns > 0 {
			poolCfg.MaxConns = int32(cfg.Storage.Postgres.MaxConns)
		}
		if cfg.Storage.Postgres.ConnMaxLifetime != "" {
			if d, err := time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime); err == nil {
				poolCfg.MaxConnLifetime = d
			}
		}
		pgPool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("postgres pool: %w", err)
		}
		defer pgPool.Close()
		checkers = append(checkers, healthsvc.CheckerFunc{
			Label: "postgres",
			Fn:    func(ctx context.Context) error { return pgPool.Ping(ctx) },
		})
	}

	// ---- Rate store ----
	var windows rate.Store
	switch cfg.Rate.Driver {
	case "redis":
		windows = rate.NewRedisStore(redisClient, cfg.Rate.Prefix, cfg.RateWindow())
	case "postgres":
		windows = rate.NewPostgresStore(pgPool, cfg.RateWindow())
	default:
		windows = rate.NewMemoryStore(cfg.RateWindow())
	}
	log.Info("rate store listo",
		logger.Driver(cfg.Rate.Driver),
		logger.String("window", cfg.Rate.Window))

	// ---- Mailer ----
	var mailer email.Sender
	if cfg.SMTP.Host != "" {
		s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
		s.TLSMode = cfg.SMTP.TLS
		s.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		mailer = s
	} else {
		log.Warn("sin SMTP configurado: los reportes se loguean, no se entregan")
		mailer = email.LogSender{}
	}

	// ---- Templates ----
	tpls := email.DefaultTemplates()
	if cfg.Report.TemplatesDir != "" {
		tpls, err = email.LoadTemplates(cfg.Report.TemplatesDir)
		if err != nil {
			return fmt.Errorf("templates: %w", err)
		}
	}

	// ---- Dispatch gateway ----
	gw := dispatch.NewGateway(windows, mailer, tpls, cfg.Report.Subject)
	if pgPool != nil {
		gw.Audit = dispatch.NewPostgresAuditor(pgPool)
	}

	// ---- HTTP ----
	ctrls := controllers.New(controllers.Services{
		Auth:    authsvc.NewService(authsvc.Deps{Provider: provider}),
		Reports: reportssvc.NewService(reportssvc.Deps{Gateway: gw}),
		Health:  healthsvc.NewService(version, checkers...),
	})

	handler := router.New(router.Deps{
		Controllers:        ctrls,
		JWTSecret:          cfg.Identity.JWTSecret,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := server.New(cfg.Server.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	log.Info("service up",
		logger.String("addr", cfg.Server.Addr),
		logger.String("env", cfg.App.Env),
		logger.String("version", version))

	return g.Wait()
}
