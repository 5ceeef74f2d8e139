package components

import (
	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"

	"github.com/secandoalei/secando/internal/ui/theme"
)

// NewSpinner returns the spinner used while the AI works.
func NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)
}

// Loading renders a spinner and a message centered in the given area.
func Loading(width, height int, spin, text string) string {
	msg := spin + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// ErrorScreen renders an error message with a hint centered in the area.
func ErrorScreen(width, height int, msg, hint string) string {
	body := lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Width(ContentWidth(width)).
		Align(lipgloss.Center).
		Render(msg)
	if hint != "" {
		body += "\n\n" + theme.Hint.Render(hint)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// Notice renders a one-line status message. Errors are red, the rest
// green.
func Notice(msg string, isErr bool) string {
	if msg == "" {
		return ""
	}
	if isErr {
		return theme.ErrorText.Render(msg)
	}
	return lipgloss.NewStyle().Foreground(theme.Success).Render(msg)
}
