package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvPublicKey     = "DOCCHAT_PUBLIC_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
	EnvGoogleKey     = "GOOGLE_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvProvider      = "DOCCHAT_LLM_PROVIDER"
	EnvRelayAddr     = "DOCCHAT_RELAY_ADDR"
	EnvRelayURL      = "DOCCHAT_RELAY_URL"
	EnvLogLevel      = "DOCCHAT_LOG_LEVEL"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("dotenv_missing", "file", file)
				continue
			}
			return err
		}
		slog.Debug("dotenv_loaded", "file", file)
	}
	return nil
}

// ApplyEnv overlays credentials and deployment settings from the
// environment onto cfg. The widget credential prefers the public variable
// and falls back to the server key, mirroring how the docs site exposes it.
// An unset widget model follows the (possibly overridden) provider.
func ApplyEnv(cfg Config) Config {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg Config, lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	openAIKey := get(EnvOpenAIKey)
	publicKey := get(EnvPublicKey)

	if k := firstNonEmpty(publicKey, openAIKey); k != "" {
		cfg.Providers.OpenAI.APIKey = k
	}
	if k := get(EnvOpenRouterKey); k != "" {
		cfg.Providers.OpenRouter.APIKey = k
	}
	if k := get(EnvGoogleKey); k != "" {
		cfg.Providers.Google.APIKey = k
	}
	if k := get(EnvAnthropicKey); k != "" {
		cfg.Providers.Anthropic.APIKey = k
	}
	if k := firstNonEmpty(publicKey, openAIKey); k != "" {
		cfg.Widget.APIKey = k
	}

	if p := get(EnvProvider); p != "" {
		cfg.LLMProvider = strings.ToLower(p)
	}
	if addr := get(EnvRelayAddr); addr != "" {
		cfg.Relay.Addr = addr
	}
	if u := get(EnvRelayURL); u != "" {
		cfg.Widget.RelayURL = u
	}
	if lvl := get(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg.ResolveWidgetModel()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
