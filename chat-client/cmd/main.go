package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/SpaNb4/open-chat/chat-client/internal/client"
	"github.com/SpaNb4/open-chat/chat-client/internal/config"
	"github.com/SpaNb4/open-chat/chat-client/internal/service"
	"github.com/SpaNb4/open-chat/chat-client/internal/terminal"
	"github.com/SpaNb4/open-chat/chat-client/internal/transport"
	pkglog "github.com/SpaNb4/open-chat/pkg/log"
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
		ServiceName: "chat-client",
		Output:      cfg.Log.Output,
	})
	logger := pkglog.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize auth client
	authClient := client.NewAuthClient(cfg.Auth.BaseURL, cfg.Auth.Timeout)

	// Initialize realtime transport
	ws := transport.NewWebSocket(cfg.Transport.URL, transport.Config{
		DialTimeout:    cfg.Transport.DialTimeout,
		PingInterval:   cfg.WebSocket.PingInterval,
		PongWait:       cfg.WebSocket.PongWait,
		WriteWait:      cfg.WebSocket.WriteWait,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		SendBuffer:     cfg.WebSocket.SendBuffer,
	})
	defer ws.Close()

	// Initialize chat session
	chat := service.NewChatSession(ws, authClient, service.Config{TypingTimeout: cfg.Typing.Timeout})
	go func() {
		if err := chat.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("chat session stopped")
		}
	}()
	defer func() {
		chat.Close()
		chat.Wait()
	}()

	// An unreachable server leaves the session usable in a degraded view.
	if err := ws.Connect(ctx); err != nil {
		logger.Warn().Err(err).Str("url", cfg.Transport.URL).Msg("realtime transport unavailable")
	}

	logger.Info().Str("auth", cfg.Auth.BaseURL).Str("socket", cfg.Transport.URL).Msg("chat-client starting")

	if err := terminal.Run(ctx, chat); err != nil {
		logger.Error().Err(err).Msg("terminal ui stopped")
	}
	logger.Info().Msg("shutting down chat-client")
}
