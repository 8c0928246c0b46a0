package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SpaNb4/open-chat/chat-server/internal/config"
	"github.com/SpaNb4/open-chat/chat-server/internal/handler"
	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
	"github.com/SpaNb4/open-chat/chat-server/internal/relay"
	"github.com/SpaNb4/open-chat/chat-server/internal/service"
	"github.com/SpaNb4/open-chat/chat-server/internal/store"
	pkglog "github.com/SpaNb4/open-chat/pkg/log"
	"github.com/SpaNb4/open-chat/pkg/pubsub"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "chat-server",
	})
	logger := pkglog.L()

	instanceID := cfg.Server.InstanceID
	if instanceID == "" {
		instanceID = uuid.New().String()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize hub
	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run(ctx)

	// Initialize roster store and relay
	var (
		roster store.RosterStore
		fanout relay.Relay
	)
	switch cfg.Roster.Driver {
	case config.DriverRedis:
		client, err := pubsub.NewRedisClient(ctx, cfg.Redis.PubSub())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		logger.Info().Str("address", cfg.Redis.Address).Msg("redis connected")

		bus := pubsub.NewRedisPubSub(client)
		defer bus.Close()

		roster = store.NewRedisStore(client, cfg.Redis.RosterKey)
		fanout = relay.NewRedisRelay(wsHub, bus, instanceID, cfg.Redis.Room)
	case config.DriverMemory:
		roster = store.NewMemoryStore()
		fanout = relay.NewLocalRelay(wsHub)
	default:
		logger.Fatal().Str("driver", cfg.Roster.Driver).Msg("unknown roster driver")
	}
	defer roster.Close()

	if err := fanout.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start relay")
	}
	defer fanout.Close()

	// Initialize service and handlers
	chatSvc := service.NewChatService(roster, fanout)
	httpHandler := handler.NewHandler(chatSvc)
	wsHandler := handler.NewWSHandler(wsHub, chatSvc, cfg.WebSocket)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.RequestLogger(logger))
	httpHandler.RegisterRoutes(r)
	wsHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("driver", cfg.Roster.Driver).Str(pkglog.FieldInstance, instanceID).Msg("chat-server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down chat-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("chat-server stopped")
}
