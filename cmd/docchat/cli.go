package main

import (
	"context"
	"io"

	"docchat/pkg/ai"
	"docchat/pkg/config"
	"docchat/pkg/widget"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config config.Config

	NewProvider func(config.Config) (ai.Provider, error)
	// RelayClient replaces the HTTP relay client when set.
	RelayClient widget.RelayClient
	IsTerminal  func() bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"Path to the configuration file" type:"path"`

	Serve     ServeCmd     `cmd:"" help:"Run the chat relay HTTP server"`
	Widget    WidgetCmd    `cmd:"" help:"Open the documentation page with the chat widget"`
	Ask       AskCmd       `cmd:"" help:"Ask the assistant a single question through the relay"`
	Providers ProvidersCmd `cmd:"" help:"List the LLM providers the relay can use"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `help:"Listen address (overrides relay.addr)"`
	LogStderr bool   `name:"log-stderr" help:"Mirror logs to stderr"`
}

// WidgetCmd is the "widget" subcommand.
type WidgetCmd struct {
	RelayURL string `name:"relay-url" help:"Relay endpoint URL (overrides widget.relay_url)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
	RelayURL string `name:"relay-url" help:"Relay endpoint URL (overrides widget.relay_url)"`
}

// ProvidersCmd is the "providers" subcommand.
type ProvidersCmd struct{}

// VersionCmd is the "version" subcommand.
type VersionCmd struct{}

// relayClient returns the injected client or an HTTP client for url.
func (d *Dependencies) relayClient(cfg widget.Config, url string) widget.RelayClient {
	if d.RelayClient != nil {
		return d.RelayClient
	}
	if url == "" {
		url = cfg.RelayURL
	}
	return widget.NewHTTPClient(url, cfg.RequestTimeout)
}
