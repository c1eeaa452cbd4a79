package ui

import (
	"strings"

	"docchat/pkg/ui/render"
	"docchat/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	zPage = iota
	zTrigger
	zDialog
)

func (m Model) renderCanvas() string {
	page := pageView(m.width, m.height)
	open := m.widget.Session().IsOpen()
	if open {
		page = dimmed(page)
	}

	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(page).Z(zPage),
	}

	if !open {
		if r := m.trigger.Rect(); !r.Empty() {
			layers = append(layers, lipgloss.NewLayer(m.trigger.View()).X(r.X).Y(r.Y).Z(zTrigger))
		}
		return lipgloss.NewCompositor(layers...).Render()
	}

	layers = addOverlayLayer(layers, m.dialog.View(), m.width, m.height, zDialog)
	return lipgloss.NewCompositor(layers...).Render()
}

// addOverlayLayer centers view on the screen, clipping it to the screen
// bounds, and appends it at z.
func addOverlayLayer(layers []*lipgloss.Layer, view string, screenW, screenH, z int) []*lipgloss.Layer {
	if view == "" || screenW <= 0 || screenH <= 0 {
		return layers
	}

	lines := strings.Split(view, "\n")
	if len(lines) > screenH {
		lines = lines[:screenH]
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > screenW {
			lines[i] = ansi.Truncate(line, screenW, "")
		}
	}
	view = strings.Join(lines, "\n")

	r := render.CenterRect(lipgloss.Width(view), lipgloss.Height(view), screenW, screenH)
	return append(layers, lipgloss.NewLayer(view).X(r.X).Y(r.Y).Z(z))
}

// dimmed renders the page as a faint backdrop behind the modal.
func dimmed(page string) string {
	lines := strings.Split(ansi.Strip(page), "\n")
	for i, line := range lines {
		lines[i] = styles.DimStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}
