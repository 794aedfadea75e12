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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskly/taskly-api/internal/api"
	"github.com/taskly/taskly-api/internal/api/handler"
	"github.com/taskly/taskly-api/internal/core/ports"
	"github.com/taskly/taskly-api/internal/core/service"
	"github.com/taskly/taskly-api/internal/infrastructure/crypto"
	mongostore "github.com/taskly/taskly-api/internal/infrastructure/db/mongo"
	redisstore "github.com/taskly/taskly-api/internal/infrastructure/db/redis"
	"github.com/taskly/taskly-api/internal/infrastructure/db/relational"
	"github.com/taskly/taskly-api/internal/pkg/config"
	"github.com/taskly/taskly-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Taskly API
// @version                     1.0
// @description                 Multi-user task tracking: registration, bearer-token login and owner-scoped task CRUD.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "taskly-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores groups the repositories selected by STORE_DRIVER.
type stores struct {
	users  ports.UserRepository
	tasks  ports.TaskRepository
	checks map[string]handler.Pinger
	close  func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing stores")
		}
	}()

	var idempotency ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idempotency = redisstore.NewIdempotencyStore(rdb)
		st.checks["redis"] = redisstore.NewPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency store enabled")
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	}, log)
	if err != nil {
		return err
	}

	credentials := service.NewCredentialStore(st.users, crypto.NewBcryptHasher(bcrypt.DefaultCost))
	authService := service.NewAuthService(credentials, tokens, log)
	taskService := service.NewTaskService(st.tasks, idempotency, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := api.NewRouter(api.Dependencies{
		AuthService:   authService,
		TaskService:   taskService,
		Tokens:        tokens,
		Checks:        st.checks,
		Logger:        log,
		Registry:      reg,
		CORSOrigins:   cfg.CORSOrigins,
		EnableSwagger: cfg.IsDevelopment(),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &stores{
			users:  mongostore.NewUserRepository(db),
			tasks:  mongostore.NewTaskRepository(db),
			checks: map[string]handler.Pinger{"mongodb": mongostore.NewPinger(client)},
			close:  client.Disconnect,
		}, nil

	default:
		db, err := relational.Connect(ctx, relational.Config{
			DSN:   cfg.SQLite.DSN,
			Debug: logger.ParseLevel(cfg.LogLevel) <= zerolog.DebugLevel,
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		log.Info().Str("dsn", cfg.SQLite.DSN).Msg("sqlite store ready")
		return &stores{
			users:  relational.NewUserRepository(db),
			tasks:  relational.NewTaskRepository(db),
			checks: map[string]handler.Pinger{"sqlite": relational.NewPinger(db)},
			close:  func(context.Context) error { return sqlDB.Close() },
		}, nil
	}
}
