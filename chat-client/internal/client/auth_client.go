package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
	"github.com/SpaNb4/open-chat/pkg/log"
)

// maxErrorBody caps how much of a rejection body is kept.
const maxErrorBody = 4 << 10

// AuthClient calls the login endpoint.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

type loginRequest struct {
	Username string `json:"username"`
}

// NewAuthClient creates a client for the endpoint at baseURL.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Login posts the username. A non-2xx answer is returned as
// *domain.AuthRejectedError carrying the response body; failures to reach
// the endpoint or read its answer wrap domain.ErrAuthUnavailable.
func (c *AuthClient) Login(ctx context.Context, username string) error {
	body, err := json.Marshal(loginRequest{Username: username})
	if err != nil {
		return fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	reqID := log.RequestID(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(log.HeaderRequestID, reqID)

	l := log.Ctx(ctx).With().Str(log.FieldRequestID, reqID).Str(log.FieldUsername, username).Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn().Err(err).Msg("login request failed")
		return fmt.Errorf("%w: %v", domain.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	l.Debug().
		Int(log.FieldStatus, resp.StatusCode).
		Float64(log.FieldLatency, float64(time.Since(start).Milliseconds())).
		Msg("login response")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil
	}

	msg, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%w: failed to read login response: %v", domain.ErrAuthUnavailable, err)
	}

	return &domain.AuthRejectedError{
		Status:  resp.StatusCode,
		Message: strings.TrimRight(string(msg), "\r\n"),
	}
}
