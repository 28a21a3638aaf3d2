// Package bootstrap assembles the service: config, adapters, flows,
// handlers, router, server. Dependencies are injectable for tests.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/taskapp/auth-service/internal/application/auth"
	"github.com/taskapp/auth-service/internal/config"
	"github.com/taskapp/auth-service/internal/infrastructure/db/postgres"
	"github.com/taskapp/auth-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/taskapp/auth-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/taskapp/auth-service/internal/infrastructure/redis"
	"github.com/taskapp/auth-service/internal/infrastructure/security"
	"github.com/taskapp/auth-service/internal/infrastructure/totp"
	"github.com/taskapp/auth-service/internal/logger"
	http_handlers "github.com/taskapp/auth-service/internal/transport/http/handlers"
	"github.com/taskapp/auth-service/internal/transport/http/middleware"
	"github.com/taskapp/auth-service/internal/transport/http/response"
	"github.com/taskapp/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (DBCloser, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL string) (auth.EventPublisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type DBCloser interface {
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db (required)
	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	sqlDB, ok := db.(*sql.DB)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
	}

	userRepo := postgres.NewUserRepo(sqlDB)

	// 2) redis (best-effort): absent or unreachable disables the TOTP
	// replay guard, nothing else.
	var replay auth.ReplayGuard
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; totp replay guard disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			if rc, ok := c.(*redis.Client); ok {
				replay = redis.NewReplayGuard(rc)
			}
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher (best-effort): security events are informational.
	var pub auth.EventPublisher = memory.NewNoopPublisher()
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; security events disabled")
		} else {
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 4) security + totp
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)
	engine := totp.NewEngine(cfg.TOTPIssuer)

	// 5) service
	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		engine,
		replay,
		pub,
		auth.Config{
			SessionTTL:             cfg.AccessTokenTTL,
			TOTPWindow:             cfg.TOTPWindow,
			BackupCodeCount:        cfg.BackupCodeCount,
			StrictTwoFactorDisable: cfg.StrictTwoFactorDisable,
		},
	)

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	twoFactorH := http_handlers.NewTwoFactorHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, response.WriteError)

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:    healthH,
		Auth:      authH,
		TwoFactor: twoFactorH,
		AuthMW:    authMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string, debug bool) (DBCloser, error) {
			return config.NewDB(addr, debug)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url string) (auth.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
