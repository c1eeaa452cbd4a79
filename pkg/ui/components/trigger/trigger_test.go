package trigger

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

func TestTriggerView(t *testing.T) {
	tr := New()
	plain := ansi.Strip(tr.View())
	if !strings.Contains(plain, "Ask AI") {
		t.Fatalf("expected label in view, got %q", plain)
	}
	if !strings.Contains(plain, "Ctrl+K") {
		t.Fatalf("expected Ctrl+K hint in view, got %q", plain)
	}
	if strings.Contains(plain, "⌘") {
		t.Fatalf("expected no command-key glyph, got %q", plain)
	}
}

func TestTriggerRectBottomRight(t *testing.T) {
	tr := New()
	tr.SetScreenSize(80, 24)

	r := tr.Rect()
	w := lipgloss.Width(tr.View())
	if r.W != w || r.H != 1 {
		t.Fatalf("unexpected size: %+v (view width %d)", r, w)
	}
	if r.X+r.W != 79 || r.Y != 22 {
		t.Fatalf("expected bottom-right anchoring with margin, got %+v", r)
	}
}

func TestTriggerHit(t *testing.T) {
	tr := New()
	tr.SetScreenSize(80, 24)
	r := tr.Rect()

	if !tr.Hit(r.X, r.Y) {
		t.Fatal("expected hit at top-left of button")
	}
	if tr.Hit(0, 0) {
		t.Fatal("expected miss far from button")
	}

	tr.SetHidden(true)
	if tr.Hit(r.X, r.Y) {
		t.Fatal("expected hidden trigger to ignore clicks")
	}
}
