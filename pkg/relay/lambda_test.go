package relay_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"docchat/pkg/relay"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLambdaHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		request    events.APIGatewayProxyRequest
		wantStatus int
		wantBody   string
		wantCalls  int
	}{
		{
			name:       "post",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: validBody},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"lambda reply"}`,
			wantCalls:  1,
		},
		{
			name: "base64 post",
			request: events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPost,
				Body:            base64.StdEncoding.EncodeToString([]byte(validBody)),
				IsBase64Encoded: true,
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"lambda reply"}`,
			wantCalls:  1,
		},
		{
			name: "bad base64",
			request: events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPost,
				Body:            "%%%",
				IsBase64Encoded: true,
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid messages format"}`,
		},
		{
			name:       "get",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error":"Method not allowed"}`,
		},
		{
			name:       "missing messages",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: `{}`},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid messages format"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{reply: "lambda reply"}
			handler := relay.New(provider).LambdaHandler(nil)

			resp, err := handler(context.Background(), tt.request)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, resp.Body)
			assert.Equal(t, "application/json; charset=utf-8", resp.Headers["content-type"])
			assert.Equal(t, tt.wantCalls, provider.callCount())
		})
	}
}

func TestLambdaHandler_AllowHeader(t *testing.T) {
	t.Parallel()

	handler := relay.New(&fakeProvider{}).LambdaHandler(nil)

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, resp.Headers["allow"])
}

func TestLambdaHandler_CORS(t *testing.T) {
	t.Parallel()

	allowed := []string{"https://docs.example.com"}

	tests := []struct {
		name        string
		origins     []string
		request     events.APIGatewayProxyRequest
		wantStatus  int
		wantOrigin  string
		wantMethods string
		wantCalls   int
	}{
		{
			name:    "allowed origin post",
			origins: allowed,
			request: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"origin": "https://docs.example.com"},
				Body:       validBody,
			},
			wantStatus: http.StatusOK,
			wantOrigin: "https://docs.example.com",
			wantCalls:  1,
		},
		{
			name:    "disallowed origin post",
			origins: allowed,
			request: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Origin": "https://evil.example"},
				Body:       validBody,
			},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:    "wildcard origin post",
			origins: nil,
			request: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Origin": "https://anywhere.example"},
				Body:       validBody,
			},
			wantStatus: http.StatusOK,
			wantOrigin: "*",
			wantCalls:  1,
		},
		{
			name:    "preflight allowed",
			origins: allowed,
			request: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodOptions,
				Headers: map[string]string{
					"Origin":                        "https://docs.example.com",
					"Access-Control-Request-Method": http.MethodPost,
				},
			},
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "https://docs.example.com",
			wantMethods: "POST,OPTIONS",
		},
		{
			name:    "preflight disallowed",
			origins: allowed,
			request: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodOptions,
				Headers: map[string]string{
					"Origin":                        "https://evil.example",
					"Access-Control-Request-Method": http.MethodPost,
				},
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "options without preflight headers",
			origins: allowed,
			request: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodOptions,
			},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{reply: "lambda reply"}
			handler := relay.New(provider).LambdaHandler(tt.origins)

			resp, err := handler(context.Background(), tt.request)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantOrigin, resp.Headers["access-control-allow-origin"])
			assert.Equal(t, tt.wantMethods, resp.Headers["access-control-allow-methods"])
			assert.Equal(t, tt.wantCalls, provider.callCount())
		})
	}
}
