// Package welcome renders the documentation page the chat widget floats over.
package welcome

import (
	"fmt"
	"strings"

	"docchat/pkg/ui/components/utils"
	"docchat/pkg/ui/styles"
	"docchat/pkg/version"

	"github.com/mattn/go-runewidth"
)

const (
	Title    = "Payvost Documentation"
	boxWidth = 53
)

var sections = []struct {
	heading string
	body    string
}{
	{"Getting started", "Create an account, generate API keys from the dashboard and make your first transfer in the sandbox."},
	{"Payments", "Send money to 100+ countries. Quotes are locked for 30 seconds and settle in the recipient currency."},
	{"Webhooks", "Subscribe to transfer.completed and transfer.failed to track payments without polling."},
}

// Page renders the landing page filling width x height. hint is the
// platform shortcut that opens the assistant.
func Page(width, height int, hint string) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, centered(styles.PageHeadingStyle.Render("✨ "+Title+" ✨"), runewidth.StringWidth("✨ "+Title+" ✨"), width))
	lines = append(lines, "")

	textWidth := min(width-4, 72)
	for _, s := range sections {
		lines = append(lines, "  "+styles.TitleStyle.Render(utils.TruncateToWidth(s.heading, textWidth)))
		for _, part := range wrap(s.body, textWidth) {
			lines = append(lines, "  "+styles.TextStyle.Render(part))
		}
		lines = append(lines, "")
	}

	lines = append(lines, shortcutsBox(hint, width)...)

	for i, line := range lines {
		lines[i] = utils.PadStyled(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines[:height], "\n")
}

func shortcutsBox(hint string, width int) []string {
	inner := min(boxWidth, width-2)
	if inner < 10 {
		return nil
	}

	makeLine := func(content string, visualWidth int) string {
		pad := max(inner-visualWidth, 0)
		return styles.PageBorderStyle.Render("│") + content + strings.Repeat(" ", pad) + styles.PageBorderStyle.Render("│")
	}

	top := styles.PageBorderStyle.Render("╭" + strings.Repeat("─", inner) + "╮")
	bottom := styles.PageBorderStyle.Render("╰" + strings.Repeat("─", inner) + "╯")

	lines := []string{top}
	header := "  Shortcuts:"
	lines = append(lines, makeLine(styles.TextBoldStyle.Render(header), runewidth.StringWidth(header)))

	shortcuts := []struct{ key, desc string }{
		{hint, "Ask the documentation assistant"},
		{"Esc", "Close the assistant"},
		{"Enter", "Open the assistant"},
		{"q", "Quit"},
	}
	for _, s := range shortcuts {
		key := fmt.Sprintf("    %-8s", s.key)
		desc := utils.TruncateToWidth(s.desc, max(inner-runewidth.StringWidth(key), 0))
		line := styles.TitleStyle.Render(key) + styles.TextStyle.Render(desc)
		lines = append(lines, makeLine(line, runewidth.StringWidth(key)+runewidth.StringWidth(desc)))
	}

	versionText := utils.TruncateToWidth(version.Summary(), inner-4)
	vw := runewidth.StringWidth(versionText)
	left := (inner - vw) / 2
	lines = append(lines, makeLine(strings.Repeat(" ", left)+styles.TextMutedStyle.Render(versionText), left+vw))
	lines = append(lines, bottom)

	boxW := inner + 2
	for i, line := range lines {
		lines[i] = centered(line, boxW, width)
	}
	return lines
}

func centered(s string, visualWidth, width int) string {
	left := max((width-visualWidth)/2, 0)
	return strings.Repeat(" ", left) + s
}

func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+ww > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(utils.TruncateToWidth(word, width))
		curWidth += min(ww, width)
	}
	if curWidth > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
