package relay_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"docchat/pkg/ai"
	"docchat/pkg/config"
	"docchat/pkg/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	got   ai.ChatRequest
}

func (f *fakeProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.got = req
	if f.err != nil {
		return ai.ChatResponse{}, f.err
	}
	return ai.ChatResponse{Content: f.reply, Model: req.Model}, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const validBody = `{"messages":[{"role":"system","content":"docs"},{"role":"user","content":"How do I handle webhooks?"}]}`

func TestHandle_Success(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{reply: "Register a webhook endpoint."}
	r := relay.New(provider)

	resp := r.Handle(context.Background(), http.MethodPost, []byte(validBody))

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, relay.MessageResponse{Message: "Register a webhook endpoint."}, resp.Body)
	require.Equal(t, 1, provider.callCount())
	require.Len(t, provider.got.Messages, 2)
	assert.Equal(t, ai.RoleSystem, provider.got.Messages[0].Role)
	assert.Equal(t, "How do I handle webhooks?", provider.got.Messages[1].Content)
}

func TestHandle_AppliesDefaults(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{reply: "ok"}
	r := relay.New(provider)

	resp := r.Handle(context.Background(), http.MethodPost, []byte(validBody))
	require.Equal(t, http.StatusOK, resp.Status)

	assert.Equal(t, "gpt-4", provider.got.Model)
	require.NotNil(t, provider.got.MaxTokens)
	assert.Equal(t, 500, *provider.got.MaxTokens)
	require.NotNil(t, provider.got.Temperature)
	assert.InDelta(t, 0.7, *provider.got.Temperature, 1e-9)
}

func TestHandle_ExplicitParametersWin(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{reply: "ok"}
	r := relay.New(provider)

	body := `{"messages":[{"role":"user","content":"hi"}],"model":"gpt-4o-mini","max_tokens":64,"temperature":0}`
	resp := r.Handle(context.Background(), http.MethodPost, []byte(body))
	require.Equal(t, http.StatusOK, resp.Status)

	assert.Equal(t, "gpt-4o-mini", provider.got.Model)
	assert.Equal(t, 64, *provider.got.MaxTokens)
	assert.Zero(t, *provider.got.Temperature)
}

func TestHandle_CustomDefaults(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{reply: "ok"}
	r := relay.New(provider, relay.WithDefaults(relay.Defaults{Model: "gemini-2.5-flash"}))

	resp := r.Handle(context.Background(), http.MethodPost, []byte(validBody))
	require.Equal(t, http.StatusOK, resp.Status)

	assert.Equal(t, "gemini-2.5-flash", provider.got.Model)
	assert.Equal(t, relay.DefaultMaxTokens, *provider.got.MaxTokens)
	assert.Equal(t, relay.Defaults{Model: "gemini-2.5-flash", MaxTokens: 500, Temperature: 0.7}, r.Defaults())
}

func TestHandle_ZeroTemperatureFromProviderConfig(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{reply: "ok"}
	r := relay.New(provider, relay.ProviderOptions(config.ProviderConfig{
		Model:       "gpt-4o-mini",
		MaxTokens:   256,
		Temperature: 0,
	})...)

	assert.Equal(t, relay.Defaults{Model: "gpt-4o-mini", MaxTokens: 256, Temperature: 0}, r.Defaults())

	resp := r.Handle(context.Background(), http.MethodPost, []byte(validBody))
	require.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, provider.got.Temperature)
	assert.Zero(t, *provider.got.Temperature)
	assert.Equal(t, 256, *provider.got.MaxTokens)
}

func TestHandle_EmptyReplyUsesPlaceholder(t *testing.T) {
	t.Parallel()

	r := relay.New(&fakeProvider{reply: ""})

	resp := r.Handle(context.Background(), http.MethodPost, []byte(validBody))

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, relay.MessageResponse{Message: relay.NoResponseText}, resp.Body)
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{reply: "unused"}
			r := relay.New(provider)

			resp := r.Handle(context.Background(), method, []byte(validBody))

			assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
			assert.Equal(t, relay.ErrorResponse{Error: "Method not allowed"}, resp.Body)
			assert.Zero(t, provider.callCount(), "no upstream call expected")
		})
	}
}

func TestHandle_InvalidMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"not json", `messages=hi`},
		{"missing messages", `{"model":"gpt-4"}`},
		{"null messages", `{"messages":null}`},
		{"string messages", `{"messages":"hello"}`},
		{"object messages", `{"messages":{"role":"user","content":"hi"}}`},
		{"number messages", `{"messages":42}`},
		{"empty array", `{"messages":[]}`},
		{"unknown role", `{"messages":[{"role":"tool","content":"x"}]}`},
		{"malformed element", `{"messages":[1,2]}`},
		{"array body", `[{"role":"user","content":"hi"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{reply: "unused"}
			r := relay.New(provider)

			resp := r.Handle(context.Background(), http.MethodPost, []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, resp.Status)
			assert.Equal(t, relay.ErrorResponse{Error: "Invalid messages format"}, resp.Body)
			assert.Zero(t, provider.callCount())
		})
	}
}

func TestHandle_UpstreamFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: errors.New("401 Unauthorized: invalid api key")}
	r := relay.New(provider)

	resp := r.Handle(context.Background(), http.MethodPost, []byte(validBody))

	require.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, relay.ErrorResponse{
		Error:   "Failed to get response from OpenAI",
		Details: "401 Unauthorized: invalid api key",
	}, resp.Body)
	assert.Equal(t, 1, provider.callCount(), "no retry expected")
}

func TestParseRequest_NormalizesRoles(t *testing.T) {
	t.Parallel()

	req, err := relay.ParseRequest(http.MethodPost, []byte(`{"messages":[{"role":"User","content":"hi"}]}`))
	require.NoError(t, err)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, ai.RoleUser, req.Messages[0].Role)
	assert.Nil(t, req.MaxTokens)
	assert.Nil(t, req.Temperature)
}

func TestParseRequest_Sentinels(t *testing.T) {
	t.Parallel()

	_, err := relay.ParseRequest(http.MethodGet, nil)
	require.ErrorIs(t, err, relay.ErrMethodNotAllowed)

	_, err = relay.ParseRequest(http.MethodPost, []byte(`{}`))
	require.ErrorIs(t, err, relay.ErrInvalidInput)
}
