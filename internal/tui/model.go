package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/samarth-qa/samarth/internal/api"
	"github.com/samarth-qa/samarth/internal/chat"
	"github.com/samarth-qa/samarth/internal/models"
	"github.com/samarth-qa/samarth/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// Messages posted by the controller through programView
type (
	appendMsg       struct{ msg models.Message }
	loadingMsg      struct{ visible bool }
	inputEnabledMsg struct{ enabled bool }
	clearInputMsg   struct{}
	focusInputMsg   struct{}
	setInputMsg     struct{ text string }
)

// Messages produced by commands
type (
	submitDoneMsg struct {
		accepted bool
	}
	examplesLoadedMsg struct {
		examples []string
		err      error
	}
	copiedMsg struct {
		err error
	}
)

// maxExampleKeys is the number of examples reachable with alt+1..alt+9
const maxExampleKeys = 9

// programView forwards controller callbacks into the bubbletea event loop,
// so the model is only ever mutated by Update.
type programView struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

var (
	_ chat.View        = (*programView)(nil)
	_ chat.InputSetter = (*programView)(nil)
)

func (v *programView) attach(send func(tea.Msg)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.send = send
}

func (v *programView) post(msg tea.Msg) {
	v.mu.RLock()
	send := v.send
	v.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (v *programView) AppendMessage(msg models.Message) { v.post(appendMsg{msg: msg}) }
func (v *programView) ShowLoading()                     { v.post(loadingMsg{visible: true}) }
func (v *programView) HideLoading()                     { v.post(loadingMsg{visible: false}) }
func (v *programView) SetInputEnabled(enabled bool)     { v.post(inputEnabledMsg{enabled: enabled}) }
func (v *programView) ClearInput()                      { v.post(clearInputMsg{}) }
func (v *programView) FocusInput()                      { v.post(focusInputMsg{}) }
func (v *programView) SetInput(text string)             { v.post(setInputMsg{text: text}) }

// inflight holds the cancel function of the running submission, so that
// quitting does not leave the request goroutine behind
type inflight struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (f *inflight) set(cancel context.CancelFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancel = cancel
}

func (f *inflight) stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel == nil {
		return false
	}
	f.cancel()
	f.cancel = nil
	return true
}

// Options configures the chat model
type Options struct {
	// Examples are shown until the server provides its own list
	Examples []string
	// Renderer draws messages; defaults to the active theme and en-IN
	Renderer *render.Terminal
	Logger   zerolog.Logger
	// Copy writes to the clipboard; defaults to atotto/clipboard
	Copy func(string) error
}

// Model is the bubbletea model of a chat session
type Model struct {
	ctx        context.Context
	client     api.ClientInterface
	controller *chat.Controller
	view       *programView
	flight     *inflight
	renderer   *render.Terminal
	logger     zerolog.Logger
	copy       func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	messages       []models.Message
	rendered       []string
	loading        bool
	inputEnabled   bool
	pending        bool
	examples       []string
	exampleCursor  int
	feedback       string
	ready          bool
	animationFrame int

	width  int
	height int
}

// NewChatModel creates a chat model talking to client
func NewChatModel(ctx context.Context, client api.ClientInterface, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about crops, production or rainfall..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewTerminal(render.DefaultOptions(), render.DefaultLocale, render.GetTUITheme())
	}

	examples := opts.Examples
	if len(examples) == 0 {
		examples = models.DefaultExamples
	}

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	view := &programView{}

	return Model{
		ctx:          ctx,
		client:       client,
		controller:   chat.NewController(client, view, chat.WithLogger(opts.Logger)),
		view:         view,
		flight:       &inflight{},
		renderer:     renderer,
		logger:       opts.Logger,
		copy:         copyFn,
		textarea:     ta,
		spinner:      s,
		inputEnabled: true,
		examples:     append([]string(nil), examples...),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.loadExamples(),
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// acceptingInput reports whether keys go to the input field
func (m Model) acceptingInput() bool {
	return m.inputEnabled && !m.pending
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		m.feedback = ""

		switch msg.String() {
		case "ctrl+c":
			m.flight.stop()
			return m, tea.Quit

		case "esc":
			// A request in flight always runs to completion
			if m.pending {
				return m, nil
			}
			return m, tea.Quit

		case "enter":
			if !m.acceptingInput() {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			switch input {
			case "":
				return m, nil
			case "exit", "quit", "/exit", "/quit":
				return m, tea.Quit
			}
			return m, m.submit(input, false)

		case "ctrl+n":
			m.moveExampleCursor(1)
			return m, nil

		case "ctrl+p":
			m.moveExampleCursor(-1)
			return m, nil

		case "ctrl+e":
			if len(m.examples) == 0 || !m.acceptingInput() {
				return m, nil
			}
			return m, m.submit(m.examples[m.exampleCursor], true)

		case "ctrl+y":
			return m, m.copyLastAnswer()
		}

		if idx, ok := exampleKey(msg.String()); ok {
			if idx >= len(m.examples) || !m.acceptingInput() {
				return m, nil
			}
			m.exampleCursor = idx
			return m, m.submit(m.examples[idx], true)
		}

	case appendMsg:
		m.messages = append(m.messages, msg.msg)
		m.rendered = append(m.rendered, m.renderMessage(msg.msg))
		m.updateViewport()
		m.viewport.GotoBottom()

	case loadingMsg:
		m.loading = msg.visible
		if m.loading {
			m.animationFrame = 0
			cmds = append(cmds, m.spinner.Tick, animationTick())
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case inputEnabledMsg:
		m.inputEnabled = msg.enabled
		if !msg.enabled {
			m.textarea.Blur()
		}

	case clearInputMsg:
		m.textarea.Reset()

	case focusInputMsg:
		if m.inputEnabled {
			cmds = append(cmds, m.textarea.Focus())
		}

	case setInputMsg:
		m.textarea.SetValue(msg.text)

	case submitDoneMsg:
		m.pending = false
		m.flight.stop()

	case examplesLoadedMsg:
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Msg("using built-in examples")
		} else if len(msg.examples) > 0 {
			m.examples = msg.examples
			m.exampleCursor = 0
		}

	case copiedMsg:
		if msg.err != nil {
			m.feedback = "Copy failed: " + msg.err.Error()
		} else {
			m.feedback = "Answer copied to clipboard"
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.updateViewport()
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key presses reach the textarea, to keep escape sequences out of it
	if _, ok := msg.(tea.KeyMsg); ok && m.acceptingInput() {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit runs the controller in a command. The controller reports back
// through programView; submitDoneMsg arrives after its last callback.
func (m *Model) submit(query string, example bool) tea.Cmd {
	m.pending = true
	ctx, cancel := context.WithCancel(m.ctx)
	m.flight.set(cancel)

	controller := m.controller
	return func() tea.Msg {
		defer cancel()
		var accepted bool
		if example {
			accepted = controller.SubmitExample(ctx, query)
		} else {
			accepted = controller.Submit(ctx, query)
		}
		return submitDoneMsg{accepted: accepted}
	}
}

func (m Model) loadExamples() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return examplesLoadedMsg{}
		}
		examples, err := client.Examples(ctx)
		return examplesLoadedMsg{examples: examples, err: err}
	}
}

func (m Model) copyLastAnswer() tea.Cmd {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.IsUser() {
			continue
		}
		text := msg.PlainText()
		copyFn := m.copy
		return func() tea.Msg {
			return copiedMsg{err: copyFn(text)}
		}
	}
	return func() tea.Msg {
		return copiedMsg{err: fmt.Errorf("no answer yet")}
	}
}

func (m *Model) moveExampleCursor(delta int) {
	n := len(m.examples)
	if n == 0 {
		return
	}
	m.exampleCursor = ((m.exampleCursor+delta)%n + n) % n
}

// exampleKey maps alt+1..alt+9 to an example index
func exampleKey(k string) (int, bool) {
	if len(k) != len("alt+1") || !strings.HasPrefix(k, "alt+") {
		return 0, false
	}
	d := k[len(k)-1]
	if d < '1' || d > '0'+maxExampleKeys {
		return 0, false
	}
	return int(d - '1'), true
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3 // Title panel with border
	chipsHeight := 3  // Bordered example chips
	inputHeight := 5  // Label, two-line textarea and border
	statusHeight := 1
	borders := 2 // Messages panel border

	vpHeight := height - headerHeight - chipsHeight - inputHeight - statusHeight - borders
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)

	// Wrapping depends on width
	m.rendered = m.rendered[:0]
	for _, msg := range m.messages {
		m.rendered = append(m.rendered, m.renderMessage(msg))
	}
	m.updateViewport()
}

func (m Model) bubbleWidth() int {
	if m.viewport.Width <= 0 {
		return 76
	}
	return m.viewport.Width - 2
}

func (m Model) renderMessage(msg models.Message) string {
	return m.renderer.Message(msg, m.bubbleWidth())
}

// updateViewport refreshes the message list, including the loading bubble
func (m *Model) updateViewport() {
	parts := append([]string(nil), m.rendered...)
	if m.loading {
		parts = append(parts, m.renderer.Loading(m.spinner.View()))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 2
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(render.BotLabel),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.serverURL()),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	var messagesContent string
	if len(m.messages) == 0 && !m.loading {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	sections = append(sections, m.renderExamples(contentWidth))

	var inputContent string
	if m.acceptingInput() {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render(render.UserLabel),
			m.textarea.View(),
		)
	} else {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			inputDisabledStyle.Render(render.UserLabel),
			m.renderLoadingAnimation(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))
	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("  "+m.feedback))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) serverURL() string {
	if m.client == nil {
		return ""
	}
	return m.client.ServerURL()
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width
	height := m.viewport.Height

	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeIconStyle.Width(width).Render("❦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to Samarth"),
		"",
		welcomeStyle.Width(width).Render("Ask about crop production and rainfall across Indian states"),
		welcomeStyle.Width(width).Render("or pick an example below with alt+1 … alt+9"),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderExamples draws as many example chips as fit on one line
func (m Model) renderExamples(width int) string {
	var chips []string
	used := 0
	for i, ex := range m.examples {
		label := truncate(ex, 32)
		if i < maxExampleKeys {
			label = chipKeyStyle.Render(fmt.Sprintf("%d", i+1)) + " " + label
		}
		style := chipStyle
		if i == m.exampleCursor {
			style = chipSelectedStyle
		}
		chip := style.Render(label)
		w := lipgloss.Width(chip)
		if used+w > width && len(chips) > 0 {
			break
		}
		chips = append(chips, chip)
		used += w
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// renderLoadingAnimation draws the animated indicator shown while input is disabled
func (m Model) renderLoadingAnimation() string {
	frame := m.animationFrame
	barChars := []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	var bar strings.Builder
	for i := 0; i < 16; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Samarth is looking that up ")
	return fmt.Sprintf("%s %s %s", loadingStyle.Render(m.spinner.View()), bar.String(), text)
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+1-9", "Example"},
		{"Ctrl+N/P", "Pick"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the interactive chat and blocks until the user quits
func RunChat(ctx context.Context, client api.ClientInterface, opts Options) error {
	m := NewChatModel(ctx, client, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	m.view.attach(p.Send)
	defer m.flight.stop()

	_, err := p.Run()
	return err
}
