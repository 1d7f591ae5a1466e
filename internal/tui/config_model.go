package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samarth-qa/samarth/internal/config"
	"github.com/samarth-qa/samarth/internal/render"
)

// configView is the screen shown by the settings editor
type configView int

const (
	viewMain configView = iota
	viewChoice
)

// setting is one editable line of the settings menu. A setting with
// choices opens a list; one without toggles a boolean.
type setting struct {
	label   string
	key     string
	choices func() []string
	value   func(c config.Config) string
}

var settings = []setting{
	{
		label: "Verbose Logging",
		key:   "verbose",
		value: func(c config.Config) string { return fmt.Sprint(c.Verbose) },
	},
	{
		label: "Copy Answers",
		key:   "copy_to_clipboard",
		value: func(c config.Config) string { return fmt.Sprint(c.CopyToClipboard) },
	},
	{
		label:   "Number Locale",
		key:     "locale",
		choices: func() []string { return []string{"en-IN", "hi-IN", "en-US", "en-GB"} },
		value:   func(c config.Config) string { return c.Locale },
	},
	{
		label:   "Markdown Style",
		key:     "markdown.style",
		choices: render.StyleNames,
		value:   func(c config.Config) string { return c.Markdown.Style },
	},
	{
		label:   "Color Theme",
		key:     "tui_theme",
		choices: render.TUIThemeNames,
		value:   func(c config.Config) string { return c.TUITheme },
	},
}

// feedbackClearMsg clears the feedback line
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings editor
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	view         configView
	cursor       int // index into settings; len(settings) is Exit
	choiceCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings editor for cfg. save persists every change.
func NewConfigModel(cfg config.Config, configPath string, save func(config.Config) error) ConfigModel {
	if save == nil {
		save = config.SaveConfig
	}
	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            save,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the edited configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.view == viewChoice {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	if m.view == viewChoice {
		n := len(settings[m.cursor].choices())
		m.choiceCursor = ((m.choiceCursor+delta)%n + n) % n
		return
	}
	n := len(settings) + 1
	m.cursor = ((m.cursor+delta)%n + n) % n
}

func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewMain && m.cursor == len(settings) {
		return m, tea.Quit
	}

	s := settings[m.cursor]

	if m.view == viewMain && s.choices != nil {
		m.view = viewChoice
		m.choiceCursor = 0
		current := s.value(m.config)
		for i, c := range s.choices() {
			if c == current {
				m.choiceCursor = i
				break
			}
		}
		return m, nil
	}

	var value string
	if s.choices != nil {
		value = s.choices()[m.choiceCursor]
	} else {
		value = fmt.Sprint(s.value(m.config) != "true")
	}

	m.view = viewMain
	m.apply(s, value)
	return m, clearFeedback(m.feedbackTimeout)
}

// apply changes one key and saves, keeping the old config on failure
func (m *ConfigModel) apply(s setting, value string) {
	updated := m.config
	if err := config.Set(&updated, s.key, value); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return
	}
	if err := m.save(updated); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return
	}
	m.config = updated

	if s.key == "tui_theme" && render.SetTUITheme(value) {
		UpdateTheme()
	}
	m.feedback = fmt.Sprintf("%s set to %s", s.label, value)
}

func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections,
		headerStyle.Width(contentWidth).Render(titleStyle.Render("◆ Samarth Settings")),
		configPanelStyle.Width(contentWidth).Render(
			"Config: "+configPathStyle.Render(m.configPath)+"\n"+
				"Server: "+configValueStyle.Render(m.config.ServerURL)),
	)

	var body string
	if m.view == viewChoice {
		body = m.renderChoices()
	} else {
		body = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("  "+m.feedback))
	}

	help := statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate") + "  │  " +
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select") + "  │  " +
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Back/Quit")
	sections = append(sections, statusBarStyle.Width(contentWidth).Align(lipgloss.Center).Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) renderMainMenu() string {
	labelWidth := 0
	for _, s := range settings {
		if len(s.label) > labelWidth {
			labelWidth = len(s.label)
		}
	}

	var lines []string
	for i, s := range settings {
		value := s.value(m.config)
		var rendered string
		switch {
		case s.choices != nil:
			rendered = configValueStyle.Render(value)
		case value == "true":
			rendered = configOnStyle.Render("✓ on")
		default:
			rendered = configOffStyle.Render("✗ off")
		}

		label := s.label + strings.Repeat(" ", labelWidth-len(s.label)+3)
		lines = append(lines, m.cursorPrefix(i == m.cursor)+m.itemStyle(i == m.cursor).Render(label)+rendered)
	}
	lines = append(lines, m.cursorPrefix(m.cursor == len(settings))+m.itemStyle(m.cursor == len(settings)).Render("Exit"))

	return strings.Join(lines, "\n")
}

func (m ConfigModel) renderChoices() string {
	s := settings[m.cursor]
	current := s.value(m.config)

	lines := []string{titleStyle.Render(s.label), ""}
	for i, c := range s.choices() {
		line := m.cursorPrefix(i == m.choiceCursor) + m.itemStyle(i == m.choiceCursor).Render(c)
		if c == current {
			line += configValueStyle.Render("  (current)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m ConfigModel) cursorPrefix(selected bool) string {
	if selected {
		return configCursorStyle.Render("▸ ")
	}
	return "  "
}

func (m ConfigModel) itemStyle(selected bool) lipgloss.Style {
	if selected {
		return configSelectedStyle
	}
	return configItemStyle
}

// RunConfig opens the settings editor
func RunConfig(cfg config.Config, configPath string) error {
	p := tea.NewProgram(NewConfigModel(cfg, configPath, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
