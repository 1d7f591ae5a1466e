package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/samarth-qa/samarth/internal/api"
	"github.com/samarth-qa/samarth/internal/config"
	"github.com/samarth-qa/samarth/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, client api.ClientInterface, opts tui.Options) error
	RunConfig(cfg config.Config, configPath string) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the backend client for a resolved configuration.
	NewClient func(cfg config.Config, logger zerolog.Logger) (api.ClientInterface, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	LoadConfig func() (config.Config, error)
	// LoadFileConfig reads the config file without environment overrides;
	// commands that save start from it.
	LoadFileConfig func() (config.Config, error)
	SaveConfig     func(config.Config) error
	ConfigPath     func() (string, error)

	// Copy writes text to the system clipboard.
	Copy func(string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether stdout is an interactive terminal.
	IsTerminal func() bool
	// StdinPiped reports whether a query is being piped in.
	StdinPiped func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, client api.ClientInterface, opts tui.Options) error {
	return tui.RunChat(ctx, client, opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, configPath string) error {
	return tui.RunConfig(cfg, configPath)
}

// newAPIClient is the production client factory
func newAPIClient(cfg config.Config, logger zerolog.Logger) (api.ClientInterface, error) {
	return api.NewClient(cfg.ServerURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:      newAPIClient,
		TUI:            &DefaultTUI{},
		LoadConfig:     config.LoadConfig,
		LoadFileConfig: config.LoadFileConfig,
		SaveConfig:     config.SaveConfig,
		ConfigPath:     config.GetConfigPath,
		Copy:           clipboard.WriteAll,
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		IsTerminal:     isStdoutTTY,
		StdinPiped:     stdinPiped,
	}
}

// withDefaults fills the nil fields of deps from NewDependencies
func (d *Dependencies) withDefaults() *Dependencies {
	def := NewDependencies()
	if d == nil {
		return def
	}
	out := *d
	if out.NewClient == nil {
		out.NewClient = def.NewClient
	}
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.LoadConfig == nil {
		out.LoadConfig = def.LoadConfig
	}
	if out.LoadFileConfig == nil {
		out.LoadFileConfig = def.LoadFileConfig
	}
	if out.SaveConfig == nil {
		out.SaveConfig = def.SaveConfig
	}
	if out.ConfigPath == nil {
		out.ConfigPath = def.ConfigPath
	}
	if out.Copy == nil {
		out.Copy = def.Copy
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	if out.IsTerminal == nil {
		out.IsTerminal = def.IsTerminal
	}
	if out.StdinPiped == nil {
		out.StdinPiped = func() bool { return false }
	}
	return &out
}
