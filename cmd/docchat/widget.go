package main

import (
	"errors"
	"fmt"
	"log/slog"

	"docchat/pkg/ui"
	"docchat/pkg/widget"

	tea "charm.land/bubbletea/v2"
)

var errNotTerminal = errors.New("the widget needs an interactive terminal")

// Run executes the widget command.
func (c *WidgetCmd) Run(deps *Dependencies) error {
	if !deps.IsTerminal() {
		return errNotTerminal
	}

	cfg := widget.ConfigFrom(deps.Config.Widget)
	w := widget.New(cfg, deps.relayClient(cfg, c.RelayURL))
	if !w.Enabled() {
		// Submissions stay inert; the page still renders.
		slog.Warn("widget_disabled", "reason", "no api key configured")
	}

	p := tea.NewProgram(ui.NewModel(deps.Ctx, w), tea.WithContext(deps.Ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("widget: %w", err)
	}
	return nil
}
