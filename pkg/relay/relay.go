// Package relay forwards chat requests from the documentation widget to the
// configured completion provider and returns a single reply.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"docchat/pkg/ai"
	"docchat/pkg/config"
	"docchat/pkg/logging"
)

const (
	// DefaultModel, DefaultMaxTokens and DefaultTemperature are substituted
	// when a request omits the corresponding parameter.
	DefaultModel       = "gpt-4"
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7

	// NoResponseText replaces an empty provider reply.
	NoResponseText = "No response generated"

	errMethodNotAllowedText = "Method not allowed"
	errInvalidMessagesText  = "Invalid messages format"
	errUpstreamText         = "Failed to get response from OpenAI"
)

var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidInput     = errors.New("invalid messages format")
)

// ChatRequest is a validated relay request.
type ChatRequest struct {
	Messages    []ai.Message
	Model       string
	MaxTokens   *int
	Temperature *float64
}

// MessageResponse is the success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body. Details carries the upstream error
// text and is only set for provider failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Response is a transport-neutral reply: a status code plus a body that
// marshals to JSON.
type Response struct {
	Status int
	Body   any
}

// Defaults are the generation parameters used when a request omits them.
type Defaults struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Relay validates chat requests and performs one provider call per request.
// It holds no per-request state and is safe for concurrent use.
type Relay struct {
	provider ai.Provider
	defaults Defaults
	logger   *slog.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithDefaults overrides the model and token defaults. Zero fields keep
// the package defaults. Temperature is ignored here because zero is a
// valid setting; use WithTemperature.
func WithDefaults(d Defaults) Option {
	return func(r *Relay) {
		if d.Model != "" {
			r.defaults.Model = d.Model
		}
		if d.MaxTokens > 0 {
			r.defaults.MaxTokens = d.MaxTokens
		}
	}
}

// WithTemperature sets the default sampling temperature, including zero.
func WithTemperature(t float64) Option {
	return func(r *Relay) {
		r.defaults.Temperature = t
	}
}

// ProviderOptions derives the relay defaults from the active provider
// section.
func ProviderOptions(p config.ProviderConfig) []Option {
	return []Option{
		WithDefaults(Defaults{Model: p.Model, MaxTokens: p.MaxTokens}),
		WithTemperature(p.Temperature),
	}
}

// WithLogger sets the logger used for request and upstream events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a relay around provider.
func New(provider ai.Provider, opts ...Option) *Relay {
	r := &Relay{
		provider: provider,
		defaults: Defaults{
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Defaults returns the effective generation defaults.
func (r *Relay) Defaults() Defaults {
	return r.defaults
}

type chatRequestBody struct {
	Messages    json.RawMessage `json:"messages"`
	Model       string          `json:"model"`
	MaxTokens   *int            `json:"max_tokens"`
	Temperature *float64        `json:"temperature"`
}

// ParseRequest checks the method and decodes body. Errors wrap
// ErrMethodNotAllowed or ErrInvalidInput.
func ParseRequest(method string, body []byte) (ChatRequest, error) {
	if method != http.MethodPost {
		return ChatRequest{}, fmt.Errorf("%w: %s", ErrMethodNotAllowed, method)
	}

	var raw chatRequestBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return ChatRequest{}, fmt.Errorf("%w: decode body: %v", ErrInvalidInput, err)
	}

	trimmed := bytes.TrimSpace(raw.Messages)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ChatRequest{}, fmt.Errorf("%w: messages must be an array", ErrInvalidInput)
	}

	var messages []ai.Message
	if err := json.Unmarshal(trimmed, &messages); err != nil {
		return ChatRequest{}, fmt.Errorf("%w: decode messages: %v", ErrInvalidInput, err)
	}
	if len(messages) == 0 {
		return ChatRequest{}, fmt.Errorf("%w: messages is empty", ErrInvalidInput)
	}
	for i, msg := range messages {
		role, ok := ai.ParseRole(string(msg.Role))
		if !ok {
			return ChatRequest{}, fmt.Errorf("%w: message %d has role %q", ErrInvalidInput, i, msg.Role)
		}
		messages[i].Role = role
	}

	return ChatRequest{
		Messages:    messages,
		Model:       raw.Model,
		MaxTokens:   raw.MaxTokens,
		Temperature: raw.Temperature,
	}, nil
}

// Handle processes one relay exchange.
func (r *Relay) Handle(ctx context.Context, method string, body []byte) Response {
	req, err := ParseRequest(method, body)
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		r.logger.Debug("relay_method_not_allowed", "method", method)
		return Response{
			Status: http.StatusMethodNotAllowed,
			Body:   ErrorResponse{Error: errMethodNotAllowedText},
		}
	case err != nil:
		r.logger.Debug("relay_invalid_request", "error", err)
		return Response{
			Status: http.StatusBadRequest,
			Body:   ErrorResponse{Error: errInvalidMessagesText},
		}
	}

	reply, err := r.Complete(ctx, req)
	if err != nil {
		r.logger.Error("relay_upstream_error", "error", err)
		return Response{
			Status: http.StatusInternalServerError,
			Body: ErrorResponse{
				Error:   errUpstreamText,
				Details: err.Error(),
			},
		}
	}

	return Response{
		Status: http.StatusOK,
		Body:   MessageResponse{Message: reply},
	}
}

// Complete performs the provider call for an already validated request and
// returns the reply text, substituting NoResponseText for an empty reply.
func (r *Relay) Complete(ctx context.Context, req ChatRequest) (string, error) {
	chatReq := r.withDefaults(req)

	r.logger.Info("relay_request",
		"model", chatReq.Model,
		"message_count", len(chatReq.Messages),
		"max_tokens", *chatReq.MaxTokens,
		"temperature", *chatReq.Temperature,
	)
	if r.logger.Enabled(ctx, logging.LevelTrace) {
		for i, msg := range chatReq.Messages {
			r.logger.Log(ctx, logging.LevelTrace, "relay_request_message",
				"index", i,
				"role", msg.Role,
				"content", msg.Content,
			)
		}
	}

	resp, err := r.provider.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", err
	}

	reply := resp.Content
	if reply == "" {
		reply = NoResponseText
	}
	r.logger.Info("relay_reply",
		"model", resp.Model,
		"reply_len", len(reply),
	)
	return reply, nil
}

func (r *Relay) withDefaults(req ChatRequest) ai.ChatRequest {
	model := req.Model
	if model == "" {
		model = r.defaults.Model
	}
	maxTokens := r.defaults.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	temperature := r.defaults.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	return ai.ChatRequest{
		Model:       model,
		Messages:    req.Messages,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
}
