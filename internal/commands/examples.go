package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/samarth-qa/samarth/internal/models"
)

// NewExamplesCmd creates the command listing preset questions
func NewExamplesCmd(deps *Dependencies, global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List example questions",
		Long: `List the example questions published by the server.

When the server cannot be reached, the examples from the config file
or the built-in list are shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var spin *spinner
			if deps.IsTerminal() {
				spin = newSpinner(deps.Stderr, "Fetching examples")
				spin.start()
			}

			examples, err := client.Examples(cmd.Context())
			if spin != nil {
				if err != nil || len(examples) == 0 {
					spin.stopWithError()
				} else {
					spin.stopWithSuccess(fmt.Sprintf("%d examples from %s", len(examples), client.ServerURL()))
				}
			}
			if err != nil || len(examples) == 0 {
				logger.Debug().Err(err).Msg("using local examples")
				examples = cfg.Examples
			}
			if len(examples) == 0 {
				examples = models.DefaultExamples
			}

			if !deps.IsTerminal() {
				for _, ex := range examples {
					fmt.Fprintln(deps.Stdout, ex)
				}
				return nil
			}

			keyStyle := lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
			for i, ex := range examples {
				fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render(fmt.Sprintf("%2d.", i+1)), ex)
			}
			return nil
		},
	}
}
