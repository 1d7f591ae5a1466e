package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/samarth-qa/samarth/internal/chat"
	"github.com/samarth-qa/samarth/internal/config"
	apierrors "github.com/samarth-qa/samarth/internal/errors"
	"github.com/samarth-qa/samarth/internal/models"
	"github.com/samarth-qa/samarth/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#e0af68"), // Wheat
	lipgloss.Color("#9ece6a"), // Green
	lipgloss.Color("#73daca"), // Teal
	lipgloss.Color("#7dcfff"), // Sky
	lipgloss.Color("#7aa2f7"), // Blue
	lipgloss.Color("#bb9af7"), // Purple
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#e0af68")
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner drawing on out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// spinnerView shows the spinner while the controller reports loading
type spinnerView struct {
	*chat.Transcript
	out     io.Writer
	enabled bool
	spin    *spinner
}

func (v *spinnerView) ShowLoading() {
	v.Transcript.ShowLoading()
	if v.enabled {
		v.spin = newSpinner(v.out, "Looking that up")
		v.spin.start()
	}
}

func (v *spinnerView) HideLoading() {
	v.Transcript.HideLoading()
	if v.spin != nil {
		v.spin.stopWithError()
		v.spin = nil
	}
}

// runQuery sends one query through the chat controller and prints the turn
func runQuery(ctx context.Context, deps *Dependencies, global *globalFlags, flags *queryFlags, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return apierrors.ErrEmptyQuery
	}

	cfg, err := resolveConfig(deps, global)
	if err != nil {
		return err
	}
	logger := consoleLogger(deps, cfg)

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	interactive := deps.IsTerminal()
	view := &spinnerView{
		Transcript: chat.NewTranscript(),
		out:        deps.Stderr,
		enabled:    interactive && !flags.html,
	}

	var outcome chat.Outcome
	controller := chat.NewController(client, view,
		chat.WithLogger(logger),
		chat.WithSettleHook(func(o chat.Outcome) { outcome = o }),
	)

	start := time.Now()
	controller.Submit(ctx, query)
	logger.Debug().
		Str("server", client.ServerURL()).
		Dur("elapsed", time.Since(start)).
		Msg("query finished")

	answer, ok := view.Last()
	if !ok || answer.IsUser() {
		return fmt.Errorf("no answer recorded for %q", query)
	}

	if err := writeAnswer(deps, cfg, flags, view.Messages(), answer, interactive); err != nil {
		return err
	}

	if flags.copy || cfg.CopyToClipboard {
		copyAnswer(deps, answer)
	}

	if outcome != chat.OutcomeSuccess {
		return errAnswered
	}
	return nil
}

// writeAnswer prints the conversation in the requested format
func writeAnswer(deps *Dependencies, cfg config.Config, flags *queryFlags, messages []models.Message, answer models.Message, interactive bool) error {
	switch {
	case flags.output != "":
		if err := os.WriteFile(flags.output, []byte(answer.PlainText()+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Answer saved to %s", flags.output),
		)
		fmt.Fprintln(deps.Stderr, successMsg)
		return nil

	case flags.html:
		if err := render.NewHTMLRenderer(cfg.Locale).RenderTranscript(deps.Stdout, messages); err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		fmt.Fprintln(deps.Stdout)
		return nil

	case !interactive:
		// Piped output gets the raw answer only
		fmt.Fprintln(deps.Stdout, answer.PlainText())
		return nil
	}

	render.SetTUITheme(cfg.TUITheme)
	terminal := render.NewTerminal(render.OptionsFromConfig(&cfg), cfg.Locale, render.GetTUITheme())

	fmt.Fprintln(deps.Stdout, terminal.Transcript(messages, answerWidth(getTerminalWidth())))
	return nil
}

// copyAnswer copies the bot answer, reporting the result on stderr
func copyAnswer(deps *Dependencies, answer models.Message) {
	if err := deps.Copy(answer.PlainText()); err != nil {
		warnMsg := lipgloss.NewStyle().Foreground(colorWarning).Render(
			fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
		)
		fmt.Fprintln(deps.Stderr, warnMsg)
		return
	}
	clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
	fmt.Fprintln(deps.Stderr, clipMsg)
}

// answerWidth clamps the terminal width to a readable range
func answerWidth(termWidth int) int {
	width := termWidth - 4
	if width < 40 {
		width = 40
	}
	if width > 120 {
		width = 120
	}
	return width
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// stdinPiped returns true if stdin is a pipe or file rather than a terminal
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
