package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SpaNb4/open-chat/chat-server/internal/service"
	"github.com/SpaNb4/open-chat/pkg/log"
	"github.com/SpaNb4/open-chat/pkg/response"
)

// Response bodies shown to the user verbatim by the client.
const (
	msgUsernameRequired = "Username is required"
	msgUsernameTaken    = "Username is already taken"
	msgLoginFailed      = "Login failed"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse is the data of a successful login.
type LoginResponse struct {
	Username string `json:"username"`
}

// Handler handles HTTP requests for the chat server.
type Handler struct {
	chatService service.ChatService
}

// NewHandler creates a new HTTP handler.
func NewHandler(chatService service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/login", h.Login)
	r.GET("/health", h.Health)
}

// Login admits a username that is not currently on the roster.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind login request")
		response.BadRequest(c, msgUsernameRequired)
		return
	}
	c.Set(log.FieldUsername, req.Username)

	if err := h.chatService.Login(ctx, req.Username); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired):
			response.BadRequest(c, msgUsernameRequired)
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(c, msgUsernameTaken)
		default:
			l.Error().Err(err).Msg("failed to check username")
			response.InternalError(c, msgLoginFailed)
		}
		return
	}

	response.Success(c, LoginResponse{Username: req.Username})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
