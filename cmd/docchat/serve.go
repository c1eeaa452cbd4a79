package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"docchat/pkg/relay"

	"github.com/gin-gonic/gin"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	if c.Addr != "" {
		cfg.Relay.Addr = c.Addr
	}

	provider, err := deps.NewProvider(cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set %s before starting the relay, or pick another provider (%s)\n",
			providerKeyEnv(cfg.LLMProvider), strings.Join(providerNames(), ", "))
		return fmt.Errorf("failed to create %s provider: %w", cfg.LLMProvider, err)
	}

	logger := slog.Default()
	opts := append(relay.ProviderOptions(cfg.ActiveProvider()), relay.WithLogger(logger))
	r := relay.New(provider, opts...)

	gin.SetMode(gin.ReleaseMode)
	router := relay.NewRouter(r, relay.RouterOptions{
		Path:           cfg.Relay.Path,
		AllowedOrigins: cfg.Relay.AllowedOrigins,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(deps.Stdout, "relay listening on %s (POST %s)\n", cfg.Relay.Addr, cfg.Relay.Path)
	return relay.NewServer(cfg.Relay.Addr, router, logger).Run(ctx)
}
