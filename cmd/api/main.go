// Package main is the entry point for the Voyage CMS API server.
// Its sole responsibility is wiring dependencies together and dispatching
// the CLI commands. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/voyagecms/backend/internal/auth"
	"github.com/voyagecms/backend/internal/config"
	"github.com/voyagecms/backend/internal/handler"
	"github.com/voyagecms/backend/internal/i18n"
	"github.com/voyagecms/backend/internal/repo"
	"github.com/voyagecms/backend/internal/service"
	"github.com/voyagecms/backend/migrations"
)

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to an optional YAML config file",
		Sources: cli.EnvVars("CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "voyage-api",
		Usage: "Bilingual trip itinerary CMS backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Flags:  []cli.Flag{configFlag},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Flags:  []cli.Flag{configFlag},
				Action: migrate,
			},
			{
				Name:      "create-admin",
				Usage:     "Create a console account or reset its password",
				ArgsUsage: "<email> <password>",
				Flags:     []cli.Flag{configFlag},
				Action:    createAdmin,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	store := repo.NewStore(pool)
	authSvc := auth.NewService(store.AdminUsers(), []byte(cfg.JWTSecret), cfg.TokenTTL)
	bundles := i18n.NewStore(cfg.I18nDir)

	srv := handler.NewServer(
		service.NewTripService(store),
		service.NewScheduleService(store),
		service.NewItemService(store),
		service.NewExportService(store),
		authSvc,
		bundles,
	)

	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(srv, authSvc, logger, cfg.CORSOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bundles.Watch(ctx, logger)
	})

	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown: on signal or sibling failure, give in-flight
	// requests up to 15 seconds to complete.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}

func createAdmin(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("usage: create-admin <email> <password>")
	}
	email, password := cmd.Args().Get(0), cmd.Args().Get(1)

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user, err := repo.NewStore(pool).AdminUsers().Upsert(ctx, email, hash)
	if err != nil {
		return err
	}
	logger.Info("admin account ready", slog.String("email", user.Email))
	return nil
}

// newLogger builds the process-wide JSON logger and installs it as the
// slog default.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
