package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/npezzotti/go-roomcal/internal/api"
	"github.com/npezzotti/go-roomcal/internal/config"
	"github.com/npezzotti/go-roomcal/internal/database"
	"github.com/npezzotti/go-roomcal/internal/ratelimit"
	"github.com/npezzotti/go-roomcal/internal/service"
	"github.com/npezzotti/go-roomcal/internal/stats"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

var dsnFlag = &cli.StringFlag{
	Name:    "dsn",
	Value:   "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable",
	Usage:   "database connection string",
	EnvVars: []string{"ROOMCAL_DSN", "DATABASE_URL"},
}

var logLevelFlag = &cli.StringFlag{
	Name:    "log-level",
	Value:   "info",
	Usage:   "debug, info, warn or error",
	EnvVars: []string{"ROOMCAL_LOG_LEVEL"},
}

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "roomcal",
		Usage: "Shared calendars for small groups, organized in rooms.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("roomcal failed")
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.String(logLevelFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit.",
		Flags: []cli.Flag{dsnFlag, logLevelFlag},
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}

			store, err := database.NewPgStore(c.String(dsnFlag.Name))
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer store.Close()

			version, err := store.Migrate()
			if err != nil {
				return err
			}

			logger.WithField("version", version).Info("database schema is up to date")
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:8000", Usage: "server address", EnvVars: []string{"ROOMCAL_ADDR"}},
			dsnFlag,
			&cli.StringFlag{Name: "signing-key", Value: defaultSigningKey, Usage: "base64 encoded signing key", EnvVars: []string{"ROOMCAL_SIGNING_KEY"}},
			&cli.StringSliceFlag{Name: "allowed-origins", Usage: "allowed origins for CORS", EnvVars: []string{"ROOMCAL_ALLOWED_ORIGINS"}},
			&cli.DurationFlag{Name: "session-lifetime", Value: config.DefaultSessionLifetime, Usage: "how long a login stays valid", EnvVars: []string{"ROOMCAL_SESSION_LIFETIME"}},
			&cli.StringFlag{Name: "redis-addr", Usage: "redis address; enables rate limiting of register and login", EnvVars: []string{"ROOMCAL_REDIS_ADDR"}},
			&cli.IntFlag{Name: "rate-limit", Value: 10, Usage: "register/login requests allowed per client per window", EnvVars: []string{"ROOMCAL_RATE_LIMIT"}},
			&cli.DurationFlag{Name: "rate-window", Value: config.DefaultRateLimitWindow, Usage: "rate limit window", EnvVars: []string{"ROOMCAL_RATE_WINDOW"}},
			&cli.BoolFlag{Name: "migrate", Usage: "apply database migrations before serving", EnvVars: []string{"ROOMCAL_MIGRATE"}},
			logLevelFlag,
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}

	cfg, err := config.NewConfig(c.String("addr"), c.String(dsnFlag.Name), c.String("signing-key"), c.StringSlice("allowed-origins"))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.SessionLifetime = c.Duration("session-lifetime")
	if addr := c.String("redis-addr"); addr != "" {
		if err := cfg.EnableRateLimit(addr, c.Int("rate-limit"), c.Duration("rate-window")); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	store, err := database.NewPgStore(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Error("db close")
		}
	}()

	if c.Bool("migrate") {
		version, err := store.Migrate()
		if err != nil {
			return err
		}
		logger.WithField("version", version).Info("database schema is up to date")
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimitEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		redisLimiter, err := ratelimit.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateLimitWindow)
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		limiter = redisLimiter
		logger.WithFields(logrus.Fields{
			"redis":  cfg.RedisAddr,
			"limit":  cfg.RateLimit,
			"window": cfg.RateLimitWindow,
		}).Info("rate limiting enabled")
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)
	svc := service.NewRoomCalService(store, logger, statsUpdater)
	srv := api.NewRoomCalApp(mux, logger, svc, limiter, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigs:
		logger.Infof("received signal: %s", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server: %w", err)
		}
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		return errors.Join(serveErr, err)
	}

	logger.Info("shutdown complete")
	return serveErr
}
