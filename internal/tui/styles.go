// Package tui provides the interactive chat interface for samarth.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samarth-qa/samarth/internal/errors"
	"github.com/samarth-qa/samarth/internal/render"
)

// Colors of the active theme
var (
	colorBorder   lipgloss.Color
	colorUser     lipgloss.Color
	colorBot      lipgloss.Color
	colorAccent   lipgloss.Color
	colorWarning  lipgloss.Color
	colorError    lipgloss.Color
	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Styles, rebuilt when the theme changes
var (
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	hintStyle         lipgloss.Style
	messagesAreaStyle lipgloss.Style

	inputPanelStyle    lipgloss.Style
	inputLabelStyle    lipgloss.Style
	inputDisabledStyle lipgloss.Style
	loadingStyle       lipgloss.Style

	chipStyle         lipgloss.Style
	chipSelectedStyle lipgloss.Style
	chipKeyStyle      lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	feedbackStyle   lipgloss.Style

	configPanelStyle    lipgloss.Style
	configItemStyle     lipgloss.Style
	configSelectedStyle lipgloss.Style
	configCursorStyle   lipgloss.Style
	configValueStyle    lipgloss.Style
	configOnStyle       lipgloss.Style
	configOffStyle      lipgloss.Style
	configPathStyle     lipgloss.Style

	errorStyle        lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style
	welcomeStyle      lipgloss.Style
)

// Loading animation colors, independent of the theme
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#8ab17d"),
	lipgloss.Color("#b5c99a"),
	lipgloss.Color("#e9c46a"),
	lipgloss.Color("#f4a261"),
	lipgloss.Color("#e76f51"),
	lipgloss.Color("#2a9d8f"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme rebuilds all styles from the active TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorUser = theme.User
	colorBot = theme.Bot
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorBot).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorUser).
		Bold(true)

	inputDisabledStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	chipStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	chipSelectedStyle = chipStyle.
		Foreground(colorText).
		BorderForeground(colorBot)

	chipKeyStyle = lipgloss.NewStyle().
		Foreground(colorWarning).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	configItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	configSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	configValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	configOnStyle = lipgloss.NewStyle().
		Foreground(colorBot)

	configOffStyle = lipgloss.NewStyle().
		Foreground(colorError)

	configPathStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorBot).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)
}

// FormatError returns a styled error with the details carried by typed errors
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Is the Samarth server running? Check server_url with 'samarth config show'"))
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Raise request_timeout_seconds or set it to 0 to wait indefinitely"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The server did not answer with JSON. Is server_url pointing at Samarth?"))
	}

	return sb.String()
}

// PrintError prints a styled error to stderr
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
