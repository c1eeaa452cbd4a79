package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docchat/pkg/ai"
)

// ErrRelayStatus is matched by errors.Is for any non-2xx relay reply.
var ErrRelayStatus = errors.New("relay returned non-success status")

// StatusError describes a non-2xx relay reply.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relay status %d", e.StatusCode)
	}
	return fmt.Sprintf("relay status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrRelayStatus
}

// RelayRequest is the body the widget posts to the relay.
type RelayRequest struct {
	Messages    []ai.Message `json:"messages"`
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
}

// RelayClient sends one request to the relay and returns its message.
type RelayClient interface {
	Send(ctx context.Context, req RelayRequest) (string, error)
}

// HTTPClient posts RelayRequests as JSON to the relay endpoint.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient creates a relay client for url. A non-positive timeout
// leaves the transport default in place.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &HTTPClient{url: url, client: client}
}

type relayReply struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Send posts req and returns the relay's message field.
func (c *HTTPClient) Send(ctx context.Context, req RelayRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	slog.Debug("widget_relay_post", "url", c.url, "message_count", len(req.Messages))
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("post relay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read relay reply: %w", err)
	}

	var reply relayReply
	decodeErr := json.Unmarshal(body, &reply)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := strings.TrimSpace(reply.Error)
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		if reply.Details != "" {
			msg += ": " + reply.Details
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode relay reply: %w", decodeErr)
	}
	return reply.Message, nil
}

var _ RelayClient = (*HTTPClient)(nil)
