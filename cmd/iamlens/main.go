package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iamlens/iamlens/modules/inspect"
	"github.com/iamlens/iamlens/pkg/catalog"
	"github.com/iamlens/iamlens/pkg/config"
	"github.com/iamlens/iamlens/pkg/gcpiam"
	"github.com/iamlens/iamlens/pkg/httpserver"
	"github.com/iamlens/iamlens/pkg/logger"
	"github.com/iamlens/iamlens/pkg/requestid"
	"github.com/iamlens/iamlens/pkg/resolve"
)

type appConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	CatalogFile     string        `env:"CATALOG_FILE"`
	Parallelism     int           `env:"RESOLVE_PARALLELISM" envDefault:"1"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithLevel(parseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithService("iamlens"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	slog.SetDefault(log)

	policies, roles, ready, err := buildProviders(ctx, cfg, log)
	if err != nil {
		return err
	}

	svc := resolve.New(policies, roles,
		resolve.WithLogger(log),
		resolve.WithParallelism(cfg.Parallelism),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Get("/healthz", httpserver.HealthCheckHandler(log, ready))
	r.Mount("/v1", inspect.Router(svc, log))

	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithLogger(log),
		httpserver.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	return srv.Run(ctx, r)
}

// buildProviders selects the policy and role sources: a YAML catalog
// file when configured, the live cloud APIs otherwise.
func buildProviders(ctx context.Context, cfg appConfig, log *slog.Logger) (resolve.PolicyProvider, resolve.RoleProvider, func(context.Context) error, error) {
	if cfg.CatalogFile != "" {
		c, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return nil, nil, nil, err
		}
		log.InfoContext(ctx, "using catalog file providers", "path", cfg.CatalogFile)
		ready := func(context.Context) error { return nil }
		return c, c, ready, nil
	}

	client, err := gcpiam.New(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	log.InfoContext(ctx, "using cloud IAM providers")
	ready := func(context.Context) error {
		if !client.Ready() {
			return fmt.Errorf("cloud IAM client not ready")
		}
		return nil
	}
	return client, client, ready, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
