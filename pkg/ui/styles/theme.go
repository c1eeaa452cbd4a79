// Package styles provides the shared theme for the docchat terminal UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (purple)
	ColorAccent = lipgloss.Color("141")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text
	ColorTextDim    = lipgloss.Color("240") // Page text behind the backdrop

	ColorError = lipgloss.Color("196")

	// Code/syntax colors
	ColorCode        = lipgloss.Color("213")
	ColorCodeBg      = lipgloss.Color("235")
	ColorPlaceholder = lipgloss.Color("240")

	ColorBorder      = lipgloss.Color("141")
	ColorBorderMuted = lipgloss.Color("62")

	// Trigger button
	ColorButtonFg = lipgloss.Color("#FAFAFA")
	ColorButtonBg = lipgloss.Color("#7D56F4")
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded box for overlays and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// DialogStyle frames the chat modal.
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// DimStyle renders the page behind an open modal.
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Faint(true)
)

// Selection and highlighting
var (
	SelectedStyle = lipgloss.NewStyle().
		Foreground(ColorTextBright).
		Background(ColorAccent).
		Bold(true)
)

// Feedback styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// FooterStyle for footer/help text
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)
)

// Code styles
var (
	CodeStyle = lipgloss.NewStyle().
		Foreground(ColorCode).
		Background(ColorCodeBg)
)

// Transcript styles
var (
	// QuestionStyle is the bubble behind the reader's own questions.
	QuestionStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorBorderMuted)

	QuestionLabelStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	AnswerLabelStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)

// Trigger and page styles
var (
	// ButtonStyle is the floating "Ask AI" trigger.
	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorButtonFg).
			Background(ColorButtonBg).
			Padding(0, 1).
			Bold(true)

	// ButtonKeyStyle renders the shortcut hint inside the trigger.
	ButtonKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")).
			Background(ColorButtonBg).
			Bold(true)

	// PageHeadingStyle for headings on the documentation page.
	PageHeadingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)

	PageBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))
)
