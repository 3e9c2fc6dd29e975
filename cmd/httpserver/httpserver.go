// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/ledgerdelivery"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/persondelivery"
	"github.com/go-petr/pet-ledger/internal/personrepo"
	"github.com/go-petr/pet-ledger/internal/personservice"
	"github.com/go-petr/pet-ledger/internal/sessiondelivery"
	"github.com/go-petr/pet-ledger/internal/sessionrepo"
	"github.com/go-petr/pet-ledger/internal/sessionservice"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/lockpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

const redisPingTimeout = 5 * time.Second

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config

	redis *redis.Client
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Close releases the lock backend connection if there is one.
func (s *Server) Close() error {
	if s.redis == nil {
		return nil
	}

	return s.redis.Close()
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("amount", moneypkg.ValidAmount); err != nil {
		return fmt.Errorf("cannot register amount validator: %w", err)
	}

	if err := v.RegisterValidation("category", accountdelivery.ValidCategory); err != nil {
		return fmt.Errorf("cannot register category validator: %w", err)
	}

	return nil
}

// newLocker returns the withdrawal locker selected by config.
func newLocker(config configpkg.Config) (lockpkg.Locker, *redis.Client, error) {
	switch config.WithdrawalLock {
	case "", configpkg.LockNone:
		return lockpkg.Noop{}, nil, nil
	case configpkg.LockMemory:
		return lockpkg.NewMutex(), nil, nil
	case configpkg.LockRedis:
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddress})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("cannot reach redis at %s: %w", config.RedisAddress, err)
		}

		return lockpkg.NewRedis(client, config.LockTTL, config.LockTTL), client, nil
	}

	return nil, nil, fmt.Errorf("unsupported withdrawal lock %q", config.WithdrawalLock)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	personRepo := personrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	locker, redisClient, err := newLocker(config)
	if err != nil {
		return nil, err
	}

	accountService := accountservice.New(accountRepo, transactionRepo)
	ledgerService := ledgerservice.New(accountRepo, transactionRepo, ledgerservice.WithLocker(locker))
	personService := personservice.New(personRepo)

	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize session service: %w", err)
	}

	accountHandler := accountdelivery.NewHandler(accountService, sessionService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	personHandler := persondelivery.NewHandler(personService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)

	if err := registerValidators(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.POST("/account/login", middleware.RateLimit(config.LoginRateLimit), accountHandler.Login)
	engine.POST("/account/create", accountHandler.Create)
	engine.POST("/person/create", personHandler.Create)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/person/:id", personHandler.Get)
	authRoutes.PATCH("/account/active", accountHandler.SetActive)
	authRoutes.PATCH("/account/block", accountHandler.SetActive)

	gate := middleware.ActiveGate(accountService)

	authRoutes.POST("/account/deposit", gate, ledgerHandler.Deposit)
	authRoutes.POST("/account/withdraw", gate, ledgerHandler.Withdraw)
	authRoutes.GET("/account/balance", gate, accountHandler.Balance)
	authRoutes.GET("/account/statement", gate, accountHandler.Statement)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
		redis:  redisClient,
	}

	return server, nil
}
