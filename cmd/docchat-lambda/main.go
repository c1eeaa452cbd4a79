// Command docchat-lambda serves the chat relay from AWS Lambda behind API
// Gateway. Configuration comes from the environment only.
package main

import (
	"log/slog"
	"os"

	"docchat/pkg/ai"
	_ "docchat/pkg/ai/providers"
	"docchat/pkg/config"
	"docchat/pkg/logging"
	"docchat/pkg/relay"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg := config.ApplyEnv(config.Default())

	// CloudWatch collects stdout.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("lambda_config_invalid", "error", err)
		os.Exit(1)
	}

	provider, err := ai.GetProviderFromConfig(cfg)
	if err != nil {
		logger.Error("lambda_provider_init_failed", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}

	opts := append(relay.ProviderOptions(cfg.ActiveProvider()), relay.WithLogger(logger))
	r := relay.New(provider, opts...)

	lambda.Start(r.LambdaHandler(cfg.Relay.AllowedOrigins))
}
