// Package commands provides CLI commands for samarth.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/samarth-qa/samarth/internal/config"
	"github.com/samarth-qa/samarth/internal/logging"
	"github.com/samarth-qa/samarth/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// errAnswered marks a run whose failure was already shown to the user
var errAnswered = errors.New("request failed")

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	server  string
	verbose bool
}

// queryFlags are the flags of the one-shot query
type queryFlags struct {
	output string
	file   string
	html   bool
	copy   bool
}

// NewRootCmd creates the samarth command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	global := &globalFlags{}
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "samarth [query]",
		Short: "Ask questions about Indian agriculture and climate data",
		Long: `samarth is a terminal client for the Samarth question answering service.
It sends questions about crop production and rainfall to a Samarth server
and renders the answers as text or tables.

Examples:
  samarth chat                                   Start interactive chat
  samarth "Show top crops in Punjab"             Send a single query
  samarth -f question.txt                        Read the query from file
  echo "Compare rainfall in Kerala" | samarth    Read the query from stdin
  samarth "Top crops in Punjab" --html           Print the answer as HTML
  samarth "Top crops in Punjab" -o answer.tsv    Save the answer to file
  samarth examples                               List example questions
  samarth config set server_url http://10.0.0.5:5000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "samarth %s (built %s)\n", Version, BuildTime)
				return nil
			}

			query, ok, err := readQuery(deps, flags.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			return runQuery(cmd.Context(), deps, global, flags, query)
		},
	}

	cmd.PersistentFlags().StringVar(&global.server, "server", "", "Samarth server URL (overrides server_url)")
	cmd.PersistentFlags().BoolVar(&global.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Save the answer to file")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read the query from file")
	cmd.Flags().BoolVar(&flags.html, "html", false, "Print the conversation as an HTML fragment")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy the answer to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, global))
	cmd.AddCommand(NewExamplesCmd(deps, global))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// readQuery picks the query from -f, then stdin, then the argument
func readQuery(deps *Dependencies, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinPiped() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// resolveConfig loads the configuration and applies the persistent flags
func resolveConfig(deps *Dependencies, global *globalFlags) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if global.server != "" {
		if err := config.Set(&cfg, "server_url", global.server); err != nil {
			return cfg, fmt.Errorf("invalid --server: %w", err)
		}
	}
	if global.verbose {
		cfg.Verbose = true
	}

	return cfg, nil
}

// consoleLogger is the logger of commands that keep the terminal line-oriented
func consoleLogger(deps *Dependencies, cfg config.Config) zerolog.Logger {
	return logging.NewConsole(deps.Stderr, cfg.Verbose)
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(NewDependencies()).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errAnswered) {
			tui.PrintError(err)
		}
		stop()
		os.Exit(1)
	}
}
