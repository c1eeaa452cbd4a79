package relay

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DefaultPath is where the relay is mounted when RouterOptions.Path is empty.
	DefaultPath = "/api/chat"

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 1 << 20

	requestIDKey = "request_id"
)

// RouterOptions configures the HTTP surface of the relay.
type RouterOptions struct {
	Path           string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter returns a gin engine serving the relay at opts.Path and a
// health check at /healthz. The relay route accepts every method so that
// non-POST requests get the relay's 405 body instead of a router 404.
func NewRouter(r *Relay, opts RouterOptions) *gin.Engine {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestID())
	engine.Use(accessLog(logger))
	engine.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.Any(path, chatHandler(r))

	return engine
}

func chatHandler(r *Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Method == http.MethodPost {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
			data, err := c.GetRawData()
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: errInvalidMessagesText})
				return
			}
			body = data
		}

		resp := r.Handle(c.Request.Context(), c.Request.Method, body)
		if resp.Status == http.StatusMethodNotAllowed {
			c.Header("Allow", http.MethodPost)
		}
		c.JSON(resp.Status, resp.Body)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 || (len(cleaned) == 1 && cleaned[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = cleaned
	}
	cfg.AllowMethods = []string{http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	cfg.ExposeHeaders = []string{RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// requestID echoes a caller-supplied X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "relay_http_request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}
