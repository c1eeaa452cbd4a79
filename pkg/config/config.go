package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultRelayAddr = ":3000"
	defaultRelayPath = "/api/chat"
	defaultRelayURL  = "http://localhost:3000/api/chat"

	// DefaultSystemPrompt is the fixed instruction the widget prepends to
	// every relay request.
	DefaultSystemPrompt = `You are a helpful assistant for Payvost payment platform documentation.
Answer questions about payment integration, API usage, authentication, and webhooks.
Be concise and provide code examples when relevant.`
)

// Config represents the application configuration
type Config struct {
	LLMProvider string          `json:"llm_provider"`
	Providers   ProvidersConfig `json:"providers"`
	Relay       RelayConfig     `json:"relay"`
	Widget      WidgetConfig    `json:"widget"`
	LogLevel    string          `json:"log_level"`
	LogFile     string          `json:"log_file"`
	LogFormat   string          `json:"log_format"`
}

// ProvidersConfig groups the per-provider settings.
type ProvidersConfig struct {
	OpenAI     ProviderConfig   `json:"openai"`
	OpenRouter OpenRouterConfig `json:"openrouter"`
	Google     ProviderConfig   `json:"google"`
	Anthropic  ProviderConfig   `json:"anthropic"`
}

// ProviderConfig holds the settings shared by every completion provider.
type ProviderConfig struct {
	APIKey            string  `json:"api_key"`
	APIURL            string  `json:"api_url,omitempty"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// OpenRouterConfig holds the OpenRouter API configuration
type OpenRouterConfig struct {
	ProviderConfig
	HTTPReferer string `json:"http_referer,omitempty"`
	XTitle      string `json:"x_title,omitempty"`
}

// RelayConfig configures the chat relay endpoint.
type RelayConfig struct {
	Addr           string   `json:"addr"`
	Path           string   `json:"path"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// WidgetConfig configures the chat widget. APIKey is only a gate: when it
// is empty the widget's send path is inert.
type WidgetConfig struct {
	APIKey                string  `json:"api_key"`
	RelayURL              string  `json:"relay_url"`
	Model                 string  `json:"model"`
	MaxTokens             int     `json:"max_tokens"`
	Temperature           float64 `json:"temperature"`
	SystemPrompt          string  `json:"system_prompt"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		LLMProvider: "openai",
		Providers: ProvidersConfig{
			OpenAI: ProviderConfig{
				APIURL:            "https://api.openai.com/v1",
				Model:             "gpt-4",
				Temperature:       0.7,
				MaxTokens:         500,
				APITimeoutSeconds: 60,
			},
			OpenRouter: OpenRouterConfig{
				ProviderConfig: ProviderConfig{
					APIURL:            "https://openrouter.ai/api/v1",
					Model:             "openai/gpt-4",
					Temperature:       0.7,
					MaxTokens:         500,
					APITimeoutSeconds: 60,
				},
				XTitle: "docchat",
			},
			Google: ProviderConfig{
				Model:             "gemini-2.5-flash",
				Temperature:       0.7,
				MaxTokens:         500,
				APITimeoutSeconds: 60,
			},
			Anthropic: ProviderConfig{
				APIURL:            "https://api.anthropic.com/v1",
				Model:             "claude-sonnet-4-5",
				Temperature:       0.7,
				MaxTokens:         500,
				APITimeoutSeconds: 60,
			},
		},
		Relay: RelayConfig{
			Addr: defaultRelayAddr,
			Path: defaultRelayPath,
		},
		Widget: WidgetConfig{
			RelayURL:              defaultRelayURL,
			MaxTokens:             500,
			Temperature:           0.7,
			SystemPrompt:          DefaultSystemPrompt,
			RequestTimeoutSeconds: 60,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal over defaults so sections missing from older files keep
	// their default values while explicit zeroes are preserved.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	switch c.LLMProvider {
	case "openai", "openrouter", "google", "anthropic":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}

	pc := c.ActiveProvider()
	if pc.Temperature < 0 || pc.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", pc.Temperature)
	}
	if pc.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got: %d", pc.MaxTokens)
	}
	if pc.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", pc.APITimeoutSeconds)
	}

	if strings.TrimSpace(c.Relay.Path) == "" || !strings.HasPrefix(c.Relay.Path, "/") {
		return fmt.Errorf("relay path must start with '/', got: %q", c.Relay.Path)
	}

	if c.Widget.Temperature < 0 || c.Widget.Temperature > 2 {
		return fmt.Errorf("widget temperature must be between 0 and 2, got: %f", c.Widget.Temperature)
	}
	if c.Widget.MaxTokens <= 0 {
		return fmt.Errorf("widget max_tokens must be positive, got: %d", c.Widget.MaxTokens)
	}
	if c.Widget.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("widget request_timeout_seconds must be positive, got: %d", c.Widget.RequestTimeoutSeconds)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log_format: %q", c.LogFormat)
	}

	return nil
}

// ActiveProvider returns the settings of the configured LLM provider.
func (c Config) ActiveProvider() ProviderConfig {
	switch c.LLMProvider {
	case "openrouter":
		return c.Providers.OpenRouter.ProviderConfig
	case "google":
		return c.Providers.Google
	case "anthropic":
		return c.Providers.Anthropic
	default:
		return c.Providers.OpenAI
	}
}

// ResolveWidgetModel fills an empty widget model with the active
// provider's model, so the widget names a model the relay can serve.
func (c Config) ResolveWidgetModel() Config {
	if strings.TrimSpace(c.Widget.Model) == "" {
		c.Widget.Model = c.ActiveProvider().Model
	}
	return c
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".docchat/config.json"
	}
	return filepath.Join(homeDir, ".docchat", "config.json")
}
