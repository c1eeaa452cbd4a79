package ui

import (
	"context"
	"log/slog"

	"docchat/pkg/ui/components/chat"
	"docchat/pkg/ui/components/trigger"
	"docchat/pkg/ui/components/welcome"
	"docchat/pkg/ui/render"
	"docchat/pkg/widget"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

const (
	maxDialogWidth  = 80
	maxDialogHeight = 30
	windowTitle     = "Payvost Docs"
)

// Model represents the Bubble Tea application state
type Model struct {
	ctx context.Context

	widget  *widget.Widget
	dialog  *chat.Dialog
	trigger *trigger.Trigger

	width  int
	height int
	ready  bool
}

// NewModel creates the docs page with the assistant closed. ctx bounds
// every relay call the model starts.
func NewModel(ctx context.Context, w *widget.Widget) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:     ctx,
		widget:  w,
		dialog:  chat.New(w),
		trigger: trigger.New(),
	}
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.trigger.SetScreenSize(msg.Width, msg.Height)
		m.dialog.SetSize(dialogSize(msg.Width, msg.Height))
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m.handleClick(msg.Mouse())

	case tea.PasteMsg:
		if m.widget.Session().IsOpen() {
			m.dialog.HandlePaste(msg.Content)
		}
		return m, nil

	case chat.SendMsg:
		return m, sendToRelay(m.ctx, m.widget, msg.Request)

	case chat.ReplyMsg, spinner.TickMsg:
		return m, m.dialog.Update(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	open := m.widget.Session().IsOpen()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+k", "super+k":
		if open {
			m.close()
			return m, nil
		}
		return m, m.open()
	}

	if !open {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			return m, m.open()
		}
		return m, nil
	}

	if msg.String() == "esc" {
		m.close()
		return m, nil
	}
	return m, m.dialog.Update(msg)
}

func (m Model) handleClick(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	if mouse.Button != tea.MouseLeft {
		return m, nil
	}

	if m.widget.Session().IsOpen() {
		// Clicks inside the dialog never reach the backdrop.
		if !m.dialogRect().Contains(mouse.X, mouse.Y) {
			m.close()
		}
		return m, nil
	}

	if m.trigger.Hit(mouse.X, mouse.Y) {
		return m, m.open()
	}
	return m, nil
}

func (m Model) open() tea.Cmd {
	m.widget.Session().Open()
	m.trigger.SetHidden(true)
	m.dialog.Refresh()
	slog.Debug("widget_open", "messages", m.widget.Session().Len())
	return m.dialog.Focus()
}

func (m Model) close() {
	m.widget.Session().Close()
	m.trigger.SetHidden(false)
	m.dialog.Blur()
	slog.Debug("widget_close")
}

func (m Model) dialogRect() render.Rect {
	w, h := m.dialog.Size()
	return render.CenterRect(w, h, m.width, m.height)
}

// View renders the page with the trigger or the open dialog on top.
func (m Model) View() tea.View {
	var v tea.View
	if !m.ready {
		v = tea.NewView("")
	} else {
		v = tea.NewView(m.renderCanvas())
	}
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = windowTitle
	return v
}

// sendToRelay performs the relay call off the update loop and reports the
// outcome as a chat.ReplyMsg.
func sendToRelay(ctx context.Context, w *widget.Widget, req widget.RelayRequest) tea.Cmd {
	return func() tea.Msg {
		reply, err := w.Send(ctx, req)
		return chat.ReplyMsg{Reply: reply, Err: err}
	}
}

// dialogSize fits the modal into the screen, capped at 80x30.
func dialogSize(screenW, screenH int) (int, int) {
	w := min(screenW-4, maxDialogWidth)
	h := min(screenH-2, maxDialogHeight)
	return max(w, 20), max(h, 12)
}

func pageView(width, height int) string {
	return welcome.Page(width, height, trigger.ShortcutHint())
}
