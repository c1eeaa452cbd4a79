// Package chat implements the modal chat dialog of the documentation widget.
package chat

import (
	"fmt"
	"io"
	"os"
	"strings"

	"docchat/pkg/ai"
	"docchat/pkg/ui/components/utils"
	"docchat/pkg/ui/styles"
	"docchat/pkg/widget"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

const (
	Title       = "AI Documentation Assistant"
	Subtitle    = "Powered by ChatGPT"
	EmptyPrompt = "Ask me anything about Payvost documentation!"

	footerLabel    = "Enter Send | Tab Suggest | Ctrl+Y Copy | Ctrl+L Clear | Esc Close"
	loadingLabel   = "Thinking..."
	placeholder    = "Ask a question about the docs..."
	suggestLabel   = "Try asking:"
	textareaHeight = 3

	borderSize = 1
	paddingH   = 1
	// header(2) + separator + separator + textarea + footer
	fixedRows = 2 + 1 + 1 + textareaHeight + 1
)

// SendMsg asks the owner to post Request to the relay.
type SendMsg struct {
	Request widget.RelayRequest
}

// ReplyMsg carries the outcome of a relay call back to the dialog.
type ReplyMsg struct {
	Reply string
	Err   error
}

// Dialog is the chat modal. It renders and edits the widget's session but
// never talks to the network itself.
type Dialog struct {
	widget   *widget.Widget
	textarea textarea.Model
	spinner  spinner.Model

	width   int
	height  int
	lines   []string
	scrollY int
	follow  bool

	// index into widget.QuickQuestions selected with tab, -1 when none
	suggestion int

	clipboard io.Writer
}

// New creates a dialog bound to w's session.
func New(w *widget.Widget) *Dialog {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(textareaHeight)

	d := &Dialog{
		widget:     w,
		textarea:   ta,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		follow:     true,
		suggestion: -1,
		clipboard:  os.Stdout,
	}
	d.Refresh()
	return d
}

// SetSize sets the outer dialog size including the border.
func (d *Dialog) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.textarea.SetWidth(d.contentWidth())
	d.Refresh()
}

func (d *Dialog) Size() (int, int) {
	return d.width, d.height
}

// Focus gives keyboard focus to the input.
func (d *Dialog) Focus() tea.Cmd {
	return d.textarea.Focus()
}

func (d *Dialog) Blur() {
	d.textarea.Blur()
}

// Input returns the current input text.
func (d *Dialog) Input() string {
	return d.textarea.Value()
}

// HandlePaste inserts pasted text into the input.
func (d *Dialog) HandlePaste(content string) {
	d.textarea.InsertString(content)
}

// Update handles keys, spinner ticks and relay replies.
func (d *Dialog) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ReplyMsg:
		d.widget.Complete(msg.Reply, msg.Err)
		d.follow = true
		d.Refresh()
		return nil

	case spinner.TickMsg:
		if !d.widget.Session().IsLoading() {
			return nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		d.Refresh()
		return cmd

	case tea.KeyPressMsg:
		return d.handleKey(msg)
	}
	return nil
}

func (d *Dialog) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return d.submit()
	case "tab":
		d.cycleSuggestion()
		return nil
	case "ctrl+y":
		return d.copyLastAnswer()
	case "ctrl+l":
		if d.widget.Session().Reset() {
			d.suggestion = -1
			d.scrollY = 0
			d.follow = true
			d.Refresh()
		}
		return nil
	case "up", "down", "pgup", "pgdown":
		d.scroll(msg.String())
		return nil
	}

	var cmd tea.Cmd
	d.textarea, cmd = d.textarea.Update(msg)
	return cmd
}

func (d *Dialog) submit() tea.Cmd {
	req, ok := d.widget.Begin(d.textarea.Value())
	if !ok {
		return nil
	}
	d.textarea.Reset()
	d.suggestion = -1
	d.follow = true
	d.Refresh()

	return tea.Batch(
		d.spinner.Tick,
		func() tea.Msg { return SendMsg{Request: req} },
	)
}

// cycleSuggestion fills the input with the next quick question. It only
// applies while the conversation is empty.
func (d *Dialog) cycleSuggestion() {
	if d.widget.Session().Len() > 0 || len(widget.QuickQuestions) == 0 {
		return
	}
	d.suggestion = (d.suggestion + 1) % len(widget.QuickQuestions)
	d.textarea.SetValue(widget.QuickQuestions[d.suggestion])
	d.Refresh()
}

func (d *Dialog) copyLastAnswer() tea.Cmd {
	msg, ok := d.widget.Session().LastAssistant()
	if !ok {
		return nil
	}
	out := d.clipboard
	text := msg.Content
	return func() tea.Msg {
		_, _ = fmt.Fprint(out, osc52.New(text))
		return nil
	}
}

func (d *Dialog) scroll(key string) {
	maxScroll := d.maxScroll()
	switch key {
	case "up":
		if d.scrollY > 0 {
			d.scrollY--
		}
	case "down":
		if d.scrollY < maxScroll {
			d.scrollY++
		}
	case "pgup":
		d.scrollY = max(d.scrollY-10, 0)
	case "pgdown":
		d.scrollY = min(d.scrollY+10, maxScroll)
	}
	d.follow = d.scrollY >= maxScroll
}

// Refresh re-renders the message viewport from the session.
func (d *Dialog) Refresh() {
	width := d.contentWidth()
	d.lines = d.renderBody(width)
	if d.follow || d.scrollY > d.maxScroll() {
		d.scrollY = d.maxScroll()
	}
}

func (d *Dialog) renderBody(width int) []string {
	session := d.widget.Session()
	if session.Len() == 0 {
		return d.renderEmptyState(width)
	}

	var lines []string
	for i, msg := range session.Messages() {
		if i > 0 {
			lines = append(lines, "")
			if msg.Role == ai.RoleUser {
				lines = append(lines, styles.TextMutedStyle.Render(strings.Repeat("─", min(width, 23))), "")
			}
		}
		lines = append(lines, renderMessage(msg, width)...)
	}
	if session.IsLoading() {
		lines = append(lines, "", styles.TextMutedStyle.Render(d.spinner.View()+" "+loadingLabel))
	}
	return lines
}

func (d *Dialog) renderEmptyState(width int) []string {
	lines := []string{
		"",
		styles.TextStyle.Render(utils.CenterPlain(utils.TruncateToWidth(EmptyPrompt, width), width)),
		"",
		styles.TextMutedStyle.Render(suggestLabel),
	}
	for i, q := range widget.QuickQuestions {
		item := utils.TruncateToWidth("• "+q, width)
		if i == d.suggestion {
			lines = append(lines, styles.SelectedStyle.Render(item))
		} else {
			lines = append(lines, styles.TextStyle.Render(item))
		}
	}
	return lines
}


// View renders the dialog box at its configured size.
func (d *Dialog) View() string {
	width := d.contentWidth()
	height := d.contentHeight()
	viewportHeight := d.viewportHeight()

	lines := make([]string, 0, height)
	lines = append(lines,
		utils.PadStyled(titleStyle.Render(utils.TruncateToWidth(Title, width)), width),
		utils.PadStyled(styles.TextMutedStyle.Render(utils.TruncateToWidth(Subtitle, width)), width),
		separatorStyle.Render(strings.Repeat("─", width)),
	)

	end := min(d.scrollY+viewportHeight, len(d.lines))
	for i := d.scrollY; i < end; i++ {
		lines = append(lines, utils.PadStyled(d.lines[i], width))
	}
	for len(lines) < 3+viewportHeight {
		lines = append(lines, strings.Repeat(" ", width))
	}

	lines = append(lines, separatorStyle.Render(strings.Repeat("─", width)))

	taLines := strings.Split(d.textarea.View(), "\n")
	for i := 0; i < textareaHeight; i++ {
		line := ""
		if i < len(taLines) {
			line = taLines[i]
		}
		lines = append(lines, utils.PadStyled(line, width))
	}

	lines = append(lines, utils.PadStyled(styles.FooterStyle.Render(utils.TruncateToWidth(footerLabel, width)), width))

	return styles.DialogStyle.
		Padding(0, paddingH).
		Render(strings.Join(lines, "\n"))
}

func (d *Dialog) contentWidth() int {
	return max(d.width-2*(borderSize+paddingH), 1)
}

func (d *Dialog) contentHeight() int {
	return max(d.height-2*borderSize, fixedRows+1)
}

func (d *Dialog) viewportHeight() int {
	return max(d.contentHeight()-fixedRows, 1)
}

func (d *Dialog) maxScroll() int {
	return max(len(d.lines)-d.viewportHeight(), 0)
}

var (
	titleStyle     = styles.TitleStyle
	textStyle      = styles.TextStyle
	boldStyle      = styles.TextBoldStyle
	codeStyle      = styles.CodeStyle
	separatorStyle = lipgloss.NewStyle().Foreground(styles.ColorBorderMuted)
)
