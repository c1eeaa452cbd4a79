package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-contrib/cors"
)

// LambdaHandler adapts the relay to API Gateway proxy events. CORS follows
// the same origin rules as the HTTP router, so a browser widget on an
// allowed docs origin can call the function URL directly.
func (r *Relay) LambdaHandler(allowedOrigins []string) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	policy := corsConfig(allowedOrigins)

	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		origin := headerValue(request.Headers, "Origin")

		if request.HTTPMethod == http.MethodOptions && origin != "" &&
			headerValue(request.Headers, "Access-Control-Request-Method") != "" {
			return preflightResponse(policy, origin), nil
		}

		var result Response
		if body, err := decodeBody(request); err != nil {
			result = Response{
				Status: http.StatusBadRequest,
				Body:   ErrorResponse{Error: errInvalidMessagesText},
			}
		} else {
			result = r.Handle(ctx, request.HTTPMethod, body)
		}

		resp, err := jsonProxyResponse(result)
		if err != nil {
			return resp, err
		}
		if setAllowOrigin(resp.Headers, policy, origin) {
			resp.Headers["access-control-expose-headers"] = strings.Join(policy.ExposeHeaders, ",")
		}
		return resp, nil
	}
}

func decodeBody(request events.APIGatewayProxyRequest) ([]byte, error) {
	if !request.IsBase64Encoded {
		return []byte(request.Body), nil
	}
	return base64.StdEncoding.DecodeString(request.Body)
}

func jsonProxyResponse(resp Response) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(resp.Body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	headers := map[string]string{"content-type": "application/json; charset=utf-8"}
	if resp.Status == http.StatusMethodNotAllowed {
		headers["allow"] = http.MethodPost
	}
	return events.APIGatewayProxyResponse{
		Body:       string(data),
		Headers:    headers,
		StatusCode: resp.Status,
	}, nil
}

func preflightResponse(policy cors.Config, origin string) events.APIGatewayProxyResponse {
	headers := map[string]string{}
	if !setAllowOrigin(headers, policy, origin) {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusForbidden, Headers: headers}
	}
	headers["access-control-allow-methods"] = strings.Join(policy.AllowMethods, ",")
	headers["access-control-allow-headers"] = strings.Join(policy.AllowHeaders, ",")
	headers["access-control-max-age"] = fmt.Sprintf("%.0f", policy.MaxAge.Seconds())
	return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent, Headers: headers}
}

// setAllowOrigin reports whether origin may read the response.
func setAllowOrigin(headers map[string]string, policy cors.Config, origin string) bool {
	if origin == "" {
		return false
	}
	if policy.AllowAllOrigins {
		headers["access-control-allow-origin"] = "*"
		return true
	}
	headers["vary"] = "Origin"
	if slices.Contains(policy.AllowOrigins, origin) {
		headers["access-control-allow-origin"] = origin
		return true
	}
	return false
}

// headerValue looks name up case-insensitively; API Gateway forwards
// headers with whatever casing the client used.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
