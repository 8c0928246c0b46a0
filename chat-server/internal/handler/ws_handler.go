package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SpaNb4/open-chat/chat-server/internal/config"
	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
	"github.com/SpaNb4/open-chat/chat-server/internal/service"
	"github.com/SpaNb4/open-chat/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub     *hub.Hub
	service service.ChatService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.ChatService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage, h.handleClose)
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	if err := h.service.HandleMessage(context.Background(), client, message); err != nil {
		l := log.L()
		l.Warn().Err(err).Str(log.FieldClientID, client.ID).Msg("dropping client frame")
	}
}

func (h *WSHandler) handleClose(client *hub.Client) {
	if err := h.service.HandleDisconnect(context.Background(), client); err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldClientID, client.ID).Msg("failed to process disconnect")
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/socket", h.HandleWebSocket)
}
