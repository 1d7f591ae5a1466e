package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/samarth-qa/samarth/internal/models"
)

// Speaker labels
const (
	UserLabel = "› You"
	BotLabel  = "◆ Samarth"
)

// Terminal renders messages for a terminal: glamour for answer text,
// lipgloss tables for row data.
type Terminal struct {
	markdown Options
	numbers  *NumberFormatter
	theme    TUITheme
	styles   terminalStyles
}

type terminalStyles struct {
	userLabel lipgloss.Style
	botLabel  lipgloss.Style
	userText  lipgloss.Style
	errorText lipgloss.Style
	notice    lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	number    lipgloss.Style
	border    lipgloss.Style
	loading   lipgloss.Style
}

// NewTerminal returns a renderer using markdown options, a number locale
// and a color theme.
func NewTerminal(opts Options, locale string, theme TUITheme) *Terminal {
	t := &Terminal{
		markdown: opts,
		numbers:  NewNumberFormatter(locale),
		theme:    theme,
	}
	t.styles = terminalStyles{
		userLabel: lipgloss.NewStyle().Foreground(theme.User).Bold(true),
		botLabel:  lipgloss.NewStyle().Foreground(theme.Bot).Bold(true),
		userText:  lipgloss.NewStyle().Foreground(theme.Text).PaddingLeft(2),
		errorText: lipgloss.NewStyle().Foreground(theme.Error).PaddingLeft(2),
		notice:    lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).PaddingLeft(2),
		header:    lipgloss.NewStyle().Foreground(theme.Bot).Bold(true).Padding(0, 1),
		cell:      lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1),
		number:    lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1).Align(lipgloss.Right),
		border:    lipgloss.NewStyle().Foreground(theme.Border),
		loading:   lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
	}
	return t
}

// Numbers returns the formatter used for table cells
func (t *Terminal) Numbers() *NumberFormatter {
	return t.numbers
}

// Label returns the styled speaker label for m
func (t *Terminal) Label(m models.Message) string {
	if m.IsUser() {
		return t.styles.userLabel.Render(UserLabel)
	}
	return t.styles.botLabel.Render(BotLabel)
}

// Body renders the content region of m, wrapped to width
func (t *Terminal) Body(m models.Message, width int) string {
	switch {
	case m.IsTable():
		return t.Table(m.Rows, width)
	case m.Error:
		return t.styles.errorText.Width(width).Render(m.Text)
	case m.IsUser():
		return t.styles.userText.Width(width).Render(m.Text)
	default:
		return MarkdownOrPlain(m.Text, t.markdown.WithWidth(width))
	}
}

// Message renders the label followed by the body
func (t *Terminal) Message(m models.Message, width int) string {
	return t.Label(m) + "\n" + t.Body(m, width)
}

// Transcript renders messages separated by blank lines
func (t *Terminal) Transcript(messages []models.Message, width int) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, t.Message(m, width))
	}
	return strings.Join(parts, "\n\n")
}

// Loading renders the pending-answer line after a spinner frame
func (t *Terminal) Loading(frame string) string {
	return t.styles.botLabel.Render(BotLabel) + "\n  " + frame + " " +
		t.styles.loading.Render("Looking that up...")
}

// Table renders rows as a bordered table, or the no-data notice
func (t *Terminal) Table(rows models.Table, width int) string {
	data := BuildTable(rows, t.numbers)
	if data.Empty() {
		return t.styles.notice.Render(NoDataText)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.styles.border).
		Headers(data.Headers...).
		Rows(data.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.header
			}
			if row >= 0 && row < len(data.Numeric) && col < len(data.Numeric[row]) && data.Numeric[row][col] {
				return t.styles.number
			}
			return t.styles.cell
		})

	out := tbl.String()
	if width > 0 && lipgloss.Width(out) > width {
		out = tbl.Width(width).String()
	}
	return out
}
