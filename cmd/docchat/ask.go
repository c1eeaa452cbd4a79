package main

import (
	"errors"
	"fmt"

	"docchat/pkg/config"
	"docchat/pkg/widget"
)

var (
	errNoCredential  = errors.New("no API key configured")
	errEmptyQuestion = errors.New("question is empty")
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	cfg := widget.ConfigFrom(deps.Config.Widget)
	w := widget.New(cfg, deps.relayClient(cfg, c.RelayURL))
	if !w.Enabled() {
		fmt.Fprintf(deps.Stderr, "error: set %s or %s to enable the assistant\n", config.EnvOpenAIKey, config.EnvPublicKey)
		return errNoCredential
	}

	req, ok := w.Begin(c.Question)
	if !ok {
		return errEmptyQuestion
	}
	reply, err := w.Send(deps.Ctx, req)
	w.Complete(reply, err)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	last, _ := w.Session().Last()
	fmt.Fprintln(deps.Stdout, last.Content)
	return nil
}
