package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docchat/pkg/ai"
	"docchat/pkg/config"
)

const (
	anthropicDefaultAPIURL    = "https://api.anthropic.com/v1"
	anthropicDefaultModel     = "claude-sonnet-4-5"
	anthropicDefaultTimeout   = 60
	anthropicDefaultMaxTokens = 1024
	anthropicAPIVersion       = "2023-06-01"
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderAnthropic,
		Name:        "Anthropic",
		Description: "Anthropic Messages API (Claude)",
		RequiresKey: true,
		KeyEnv:      config.EnvAnthropicKey,
	}, NewAnthropicProvider)
}

// AnthropicProvider talks to the Anthropic Messages API over plain HTTP.
type AnthropicProvider struct {
	apiKey             string
	apiURL             string
	httpClient         *http.Client
	defaultModel       string
	defaultTemperature float64
	defaultMaxTokens   int
}

// NewAnthropicProvider creates a new Anthropic provider from config.
func NewAnthropicProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	return newAnthropicProviderWithHTTPClient(cfg.Config.Providers.Anthropic, nil)
}

func newAnthropicProviderWithHTTPClient(providerCfg config.ProviderConfig, httpClient *http.Client) (*AnthropicProvider, error) {
	apiKey := strings.TrimSpace(providerCfg.APIKey)
	if apiKey == "" {
		slog.Debug("anthropic_provider_missing_key")
		return nil, fmt.Errorf("anthropic api_key is required")
	}

	apiURL := strings.TrimRight(providerCfg.APIURL, "/")
	if apiURL == "" {
		apiURL = anthropicDefaultAPIURL
	}

	model := providerCfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}

	timeout := providerCfg.APITimeoutSeconds
	if timeout <= 0 {
		timeout = anthropicDefaultTimeout
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	}

	slog.Debug("anthropic_provider_ready",
		"api_url", apiURL,
		"model", model,
		"timeout_seconds", timeout,
	)
	return &AnthropicProvider{
		apiKey:             apiKey,
		apiURL:             apiURL,
		httpClient:         httpClient,
		defaultModel:       model,
		defaultTemperature: providerCfg.Temperature,
		defaultMaxTokens:   providerCfg.MaxTokens,
	}, nil
}

type anthropicMessagesRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicMessagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateChatCompletion sends one Messages API request and joins the text
// blocks of the reply.
func (p *AnthropicProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	payload, err := buildMessagesRequest(req, p.defaultModel, p.defaultTemperature, p.defaultMaxTokens)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	slog.Debug("anthropic_chat_request",
		"model", payload.Model,
		"message_count", len(payload.Messages),
		"has_system", payload.System != "",
	)
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.ChatResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return ai.ChatResponse{}, anthropicStatusError(resp.StatusCode, respBody)
	}

	var parsed anthropicMessagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return ai.ChatResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return ai.ChatResponse{
		Content: sb.String(),
		Model:   parsed.Model,
	}, nil
}

// buildMessagesRequest folds system turns into the top-level system field,
// since the Messages API only accepts user and assistant turns.
func buildMessagesRequest(req ai.ChatRequest, defaultModel string, defaultTemperature float64, defaultMaxTokens int) (anthropicMessagesRequest, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = defaultModel
	}
	if model == "" {
		return anthropicMessagesRequest{}, fmt.Errorf("model is required")
	}
	if len(req.Messages) == 0 {
		return anthropicMessagesRequest{}, fmt.Errorf("messages are required")
	}

	var system []string
	messages := make([]anthropicMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case ai.RoleSystem:
			system = append(system, msg.Content)
		case ai.RoleUser, ai.RoleAssistant:
			messages = append(messages, anthropicMessage{Role: string(msg.Role), Content: msg.Content})
		default:
			return anthropicMessagesRequest{}, fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}
	if len(messages) == 0 {
		return anthropicMessagesRequest{}, fmt.Errorf("at least one user or assistant message is required")
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	// The Messages API caps temperature at 1.
	temperature = min(temperature, 1)

	maxTokens := defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	return anthropicMessagesRequest{
		Model:       model,
		System:      strings.Join(system, "\n\n"),
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}, nil
}

func anthropicStatusError(status int, body []byte) error {
	var apiErr anthropicErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("anthropic API error (status %d, %s): %s", status, apiErr.Error.Type, apiErr.Error.Message)
	}
	return fmt.Errorf("anthropic API error (status %d): %s", status, strings.TrimSpace(string(body)))
}
