// @title                       Chat API
// @version                     1.0
// @description                 Accounts, friends, blocks, bans, servers, channels and messages.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatcord/chat-api/internal/api"
	"github.com/chatcord/chat-api/internal/api/handler"
	"github.com/chatcord/chat-api/internal/infrastructure/db/memory"
	mongodb "github.com/chatcord/chat-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chatcord/chat-api/internal/infrastructure/db/redis"
	"github.com/chatcord/chat-api/internal/pkg/config"
	"github.com/chatcord/chat-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "chat-api",
		Caller:  cfg.IsDevelopment(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := wire(ctx, cfg, log)
	if err != nil {
		cleanup()
		log.Fatal().Err(err).Msg("failed to initialise dependencies")
	}
	defer cleanup()

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// wire connects the configured store and cache and returns the router
// dependencies with a cleanup that releases the connections.
func wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (api.Dependencies, func(), error) {
	deps := api.Dependencies{
		Checks:        map[string]handler.Check{},
		Log:           log,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		BcryptCost:    cfg.BcryptCost,
		AuthRateLimit: cfg.AuthRateLimit,
		AdminEmails:   cfg.AdminEmails,
	}
	storeLog := logger.Component("storage")
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		st := memory.NewStore()
		deps.Repos = api.Repositories{
			Users:          st.Users(),
			FriendRequests: st.FriendRequests(),
			Bans:           st.Bans(),
			Servers:        st.Servers(),
			Members:        st.Members(),
			Channels:       st.Channels(),
			Messages:       st.Messages(),
			Tx:             st,
		}
		storeLog.Warn().Msg("using in-memory store; data is lost on restart")

	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:          cfg.Mongo.URI,
			Database:     cfg.Mongo.Database,
			Transactions: cfg.Mongo.Transactions,
		})
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		})

		st := mongodb.NewStore(client, db, cfg.Mongo.Transactions)
		if err := st.EnsureIndexes(ctx); err != nil {
			return deps, cleanup, err
		}
		deps.Repos = api.Repositories{
			Users:          st.Users(),
			FriendRequests: st.FriendRequests(),
			Bans:           st.Bans(),
			Servers:        st.Servers(),
			Members:        st.Members(),
			Channels:       st.Channels(),
			Messages:       st.Messages(),
			Tx:             st,
		}
		deps.Checks["mongodb"] = st.Ping
		storeLog.Info().Str("database", cfg.Mongo.Database).Bool("transactions", cfg.Mongo.Transactions).Msg("connected to mongodb")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() { _ = rdb.Close() })

		deps.BanCache = redisdb.NewBanCache(rdb)
		deps.Checks["redis"] = redisdb.Checker(rdb)
		storeLog.Info().Str("addr", cfg.Redis.Addr).Msg("ban cache enabled")
	}

	return deps, cleanup, nil
}
