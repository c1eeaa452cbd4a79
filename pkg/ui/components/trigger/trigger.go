// Package trigger renders the floating "Ask AI" button that opens the chat.
package trigger

import (
	"docchat/pkg/ui/render"
	"docchat/pkg/ui/styles"

	"charm.land/lipgloss/v2"
)

const (
	label  = "Ask AI"
	margin = 1
)

// Trigger is the floating button pinned to the bottom-right corner.
type Trigger struct {
	screenW int
	screenH int
	hidden  bool
}

func New() *Trigger {
	return &Trigger{}
}

// SetScreenSize records the screen the trigger is anchored to.
func (t *Trigger) SetScreenSize(width, height int) {
	t.screenW = width
	t.screenH = height
}

// SetHidden hides the trigger while the modal is open.
func (t *Trigger) SetHidden(hidden bool) {
	t.hidden = hidden
}

func (t *Trigger) IsHidden() bool {
	return t.hidden
}

// ShortcutHint is the key hint shown on the button. It names ctrl+k on
// every platform since terminals rarely forward cmd+k.
func ShortcutHint() string {
	return "Ctrl+K"
}

// View renders the button without positioning.
func (t *Trigger) View() string {
	return styles.ButtonStyle.Render(label + " " + styles.ButtonKeyStyle.Render(ShortcutHint()))
}

// Rect is the screen rectangle the button occupies. It is empty while
// hidden so clicks fall through.
func (t *Trigger) Rect() render.Rect {
	if t.hidden {
		return render.Rect{}
	}
	view := t.View()
	return render.BottomRightRect(lipgloss.Width(view), lipgloss.Height(view), t.screenW, t.screenH, margin)
}

// Hit reports whether a click at (x, y) lands on the button.
func (t *Trigger) Hit(x, y int) bool {
	return t.Rect().Contains(x, y)
}
