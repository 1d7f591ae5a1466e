package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samarth-qa/samarth/internal/config"
	"github.com/samarth-qa/samarth/internal/logging"
	"github.com/samarth-qa/samarth/internal/render"
	"github.com/samarth-qa/samarth/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with Samarth.

Example questions are shown below the input; press alt+1 … alt+9 to ask one.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(deps, global)
			if err != nil {
				return err
			}

			logPath, err := config.GetLogPath(cfg)
			if err != nil {
				return err
			}
			logger, closer, err := logging.NewFile(logPath, cfg.Verbose)
			if err != nil {
				return err
			}
			defer closer.Close()

			client, err := deps.NewClient(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			if render.SetTUITheme(cfg.TUITheme) {
				tui.UpdateTheme()
			}

			logger.Info().Str("server", client.ServerURL()).Msg("chat session started")
			defer logger.Info().Msg("chat session ended")

			return deps.TUI.RunChat(cmd.Context(), client, tui.Options{
				Examples: cfg.Examples,
				Renderer: render.NewTerminal(render.OptionsFromConfig(&cfg), cfg.Locale, render.GetTUITheme()),
				Logger:   logger,
				Copy:     deps.Copy,
			})
		},
	}
}
