// Package widget holds the chat widget's session state and its exchange
// with the relay, independent of how the widget is drawn.
package widget

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"docchat/pkg/ai"
	"docchat/pkg/config"
)

const (
	// EmptyReplyText replaces a successful relay reply with no message.
	EmptyReplyText = "Sorry, I could not generate a response."

	// FallbackText is appended when the relay call fails.
	FallbackText = "Sorry, there was an error. Please make sure your OpenAI API key is configured."
)

// QuickQuestions are offered while the session has no messages.
var QuickQuestions = []string{
	"How do I integrate Payvost payments?",
	"What are the API authentication methods?",
	"How do I handle webhooks?",
	"What payment methods are supported?",
}

// Config holds the fixed parameters of every widget request.
type Config struct {
	// APIKey only gates sending; it is never transmitted.
	APIKey         string
	RelayURL       string
	Model          string
	MaxTokens      int
	Temperature    float64
	SystemPrompt   string
	RequestTimeout time.Duration
}

// DefaultConfig returns the widget defaults without a credential.
func DefaultConfig() Config {
	return ConfigFrom(config.Default().ResolveWidgetModel().Widget)
}

// ConfigFrom converts the file/env configuration section.
func ConfigFrom(cfg config.WidgetConfig) Config {
	prompt := cfg.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = config.DefaultSystemPrompt
	}
	return Config{
		APIKey:         strings.TrimSpace(cfg.APIKey),
		RelayURL:       cfg.RelayURL,
		Model:          cfg.Model,
		MaxTokens:      cfg.MaxTokens,
		Temperature:    cfg.Temperature,
		SystemPrompt:   prompt,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}
}

// Widget drives one Session against a RelayClient.
type Widget struct {
	cfg     Config
	client  RelayClient
	session *Session
}

// New creates a widget with an empty session.
func New(cfg Config, client RelayClient) *Widget {
	return &Widget{
		cfg:     cfg,
		client:  client,
		session: NewSession(),
	}
}

func (w *Widget) Config() Config {
	return w.cfg
}

func (w *Widget) Session() *Session {
	return w.session
}

// Enabled reports whether a credential is configured. Without one every
// submission is silently ignored.
func (w *Widget) Enabled() bool {
	return w.cfg.APIKey != "" && w.client != nil
}

// Begin validates input and, when it can be sent, appends it as a user
// message, marks the session loading and returns the request to post.
// It reports false for blank input, a missing credential or a request
// already in flight; the session is left untouched in those cases.
func (w *Widget) Begin(input string) (RelayRequest, bool) {
	if strings.TrimSpace(input) == "" || !w.Enabled() || w.session.loading {
		return RelayRequest{}, false
	}

	messages := make([]ai.Message, 0, w.session.Len()+2)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: w.cfg.SystemPrompt})
	messages = append(messages, w.session.messages...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: input})

	w.session.append(ai.RoleUser, input)
	w.session.loading = true

	slog.Info("widget_send_start",
		"history_len", w.session.Len(),
		"model", w.cfg.Model,
	)
	return RelayRequest{
		Messages:    messages,
		Model:       w.cfg.Model,
		MaxTokens:   w.cfg.MaxTokens,
		Temperature: w.cfg.Temperature,
	}, true
}

// Complete records the outcome of the request started by Begin and
// clears the loading flag. It is a no-op when nothing is in flight.
func (w *Widget) Complete(reply string, err error) {
	if !w.session.loading {
		return
	}
	defer func() { w.session.loading = false }()

	if err != nil {
		slog.Warn("widget_send_error", "error", err)
		w.session.append(ai.RoleAssistant, FallbackText)
		return
	}
	if reply == "" {
		reply = EmptyReplyText
	}
	slog.Info("widget_send_complete", "reply_len", len(reply))
	w.session.append(ai.RoleAssistant, reply)
}

// Submit runs Begin, the relay call and Complete synchronously. It
// reports whether anything was sent.
func (w *Widget) Submit(ctx context.Context, input string) bool {
	req, ok := w.Begin(input)
	if !ok {
		return false
	}
	reply, err := w.Send(ctx, req)
	w.Complete(reply, err)
	return true
}

// Send performs the relay call for a request returned by Begin.
func (w *Widget) Send(ctx context.Context, req RelayRequest) (string, error) {
	return w.client.Send(ctx, req)
}
