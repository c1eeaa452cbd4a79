package providers

import (
	"context"
	"math"
	"net/http"
	"strings"
	"testing"

	"docchat/pkg/ai"
	"docchat/pkg/config"
)

func anthropicPayload(model string, texts ...string) map[string]any {
	blocks := make([]any, 0, len(texts))
	for _, text := range texts {
		blocks = append(blocks, map[string]any{"type": "text", "text": text})
	}
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       model,
		"content":     blocks,
		"stop_reason": "end_turn",
	}
}

func TestAnthropicProvider_CreateChatCompletion(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotPayload map[string]any

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotKey = req.Header.Get("x-api-key")
		gotVersion = req.Header.Get("anthropic-version")
		gotPayload = decodePayload(t, req)
		return newJSONResponse(t, req, http.StatusOK, anthropicPayload("claude-sonnet-4-5", "Use the ", "payments API.")), nil
	})

	provider, err := newAnthropicProviderWithHTTPClient(config.ProviderConfig{
		APIKey:      "ant-test",
		APIURL:      "https://anthropic.test/v1/",
		Model:       "claude-sonnet-4-5",
		Temperature: 0.7,
		MaxTokens:   500,
	}, client)
	if err != nil {
		t.Fatalf("newAnthropicProviderWithHTTPClient() error: %v", err)
	}

	resp, err := provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: "You are a docs assistant."},
			{Role: ai.RoleUser, Content: "How do I integrate?"},
			{Role: ai.RoleAssistant, Content: "With the SDK."},
			{Role: ai.RoleSystem, Content: "Be brief."},
			{Role: ai.RoleUser, Content: "Which one?"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}
	if resp.Content != "Use the payments API." {
		t.Fatalf("Expected joined text blocks, got %q", resp.Content)
	}
	if resp.Model != "claude-sonnet-4-5" {
		t.Fatalf("Expected model claude-sonnet-4-5, got %q", resp.Model)
	}

	if gotPath != "/v1/messages" {
		t.Fatalf("Expected path '/v1/messages', got %q", gotPath)
	}
	if gotKey != "ant-test" {
		t.Fatalf("Expected x-api-key header, got %q", gotKey)
	}
	if gotVersion != anthropicAPIVersion {
		t.Fatalf("Expected anthropic-version %q, got %q", anthropicAPIVersion, gotVersion)
	}

	if gotPayload["system"] != "You are a docs assistant.\n\nBe brief." {
		t.Fatalf("Expected system turns folded, got %v", gotPayload["system"])
	}
	messages, ok := gotPayload["messages"].([]any)
	if !ok || len(messages) != 3 {
		t.Fatalf("Expected 3 conversation messages, got %v", gotPayload["messages"])
	}
	second, _ := messages[1].(map[string]any)
	if second["role"] != "assistant" || second["content"] != "With the SDK." {
		t.Fatalf("Unexpected second message: %v", second)
	}
	if maxTokens, _ := gotPayload["max_tokens"].(float64); int(maxTokens) != 500 {
		t.Fatalf("Expected max_tokens 500, got %v", gotPayload["max_tokens"])
	}
	if temp, _ := gotPayload["temperature"].(float64); math.Abs(temp-0.7) > 0.0001 {
		t.Fatalf("Expected temperature 0.7, got %v", gotPayload["temperature"])
	}
}

func TestAnthropicProvider_ZeroTemperatureIsSent(t *testing.T) {
	var gotPayload map[string]any
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotPayload = decodePayload(t, req)
		return newJSONResponse(t, req, http.StatusOK, anthropicPayload("claude-sonnet-4-5", "ok")), nil
	})

	provider, err := newAnthropicProviderWithHTTPClient(config.ProviderConfig{APIKey: "ant-test"}, client)
	if err != nil {
		t.Fatalf("newAnthropicProviderWithHTTPClient() error: %v", err)
	}

	zero := 0.0
	if _, err := provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		Temperature: &zero,
	}); err != nil {
		t.Fatalf("CreateChatCompletion() error: %v", err)
	}

	temp, ok := gotPayload["temperature"].(float64)
	if !ok || temp != 0 {
		t.Fatalf("Expected explicit temperature 0, got %v", gotPayload["temperature"])
	}
	if gotPayload["model"] != anthropicDefaultModel {
		t.Fatalf("Expected default model, got %v", gotPayload["model"])
	}
	if maxTokens, _ := gotPayload["max_tokens"].(float64); int(maxTokens) != anthropicDefaultMaxTokens {
		t.Fatalf("Expected fallback max_tokens, got %v", gotPayload["max_tokens"])
	}
}

func TestAnthropicProvider_UpstreamError(t *testing.T) {
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		return newJSONResponse(t, req, http.StatusUnauthorized, map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "authentication_error",
				"message": "invalid x-api-key",
			},
		}), nil
	})

	provider, err := newAnthropicProviderWithHTTPClient(config.ProviderConfig{APIKey: "ant-bad"}, client)
	if err != nil {
		t.Fatalf("newAnthropicProviderWithHTTPClient() error: %v", err)
	}

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "invalid x-api-key") || !strings.Contains(err.Error(), "401") {
		t.Fatalf("Expected upstream status and message in error, got %q", err.Error())
	}
	if calls != 1 {
		t.Fatalf("Expected exactly one upstream call, got %d", calls)
	}
}

func TestBuildMessagesRequest_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  ai.ChatRequest
	}{
		{name: "no messages", req: ai.ChatRequest{}},
		{name: "only system", req: ai.ChatRequest{Messages: []ai.Message{{Role: ai.RoleSystem, Content: "docs"}}}},
		{name: "unknown role", req: ai.ChatRequest{Messages: []ai.Message{{Role: "tool", Content: "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildMessagesRequest(tt.req, anthropicDefaultModel, 0.7, 500); err == nil {
				t.Fatal("Expected validation error")
			}
		})
	}
}

func TestAnthropicProvider_RequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLMProvider = "anthropic"

	if _, err := NewAnthropicProvider(ai.ProviderConfig{Type: ai.ProviderAnthropic, Config: cfg}); err == nil {
		t.Fatal("Expected error when Anthropic API key is missing")
	}

	cfg.Providers.Anthropic.APIKey = "ant-test"
	if _, err := ai.GetProviderFromConfig(cfg); err != nil {
		t.Fatalf("GetProviderFromConfig() error: %v", err)
	}
}
