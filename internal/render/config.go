package render

import (
	"os"

	"github.com/samarth-qa/samarth/internal/config"
)

// OptionsFromConfig builds render options from the user configuration.
// SAMARTH_MARKDOWN_STYLE, then GLAMOUR_STYLE, override the configured style.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()

	if cfg != nil {
		md := cfg.Markdown
		if md.Style != "" {
			opts.Style = md.Style
		}
		opts.EnableEmoji = md.EnableEmoji
		opts.PreserveNewLines = md.PreserveNewLines
		opts.TableWrap = md.TableWrap
	}

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	if style := os.Getenv("SAMARTH_MARKDOWN_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}
