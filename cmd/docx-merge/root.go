package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/lukasjarosch/docx-merge/merge"
)

// rootOpts holds the flags shared by all commands.
type rootOpts struct {
	configFile string
	debug      bool
	// flag values, only applied on top of the config file if set explicitly
	flags merge.Config

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "docx-merge",
		Short: "Fill {placeholders} of a docx template with parameters from a spreadsheet",
		Long: `docx-merge reads the "Parameter Name" and "Value" columns of an xlsx file and
replaces every {Parameter Name} inside the docx template. The filled document is
written to the output path and made read-only.

Without a subcommand, fill is executed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := newLogger(opts.stderr, opts.debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, opts)

	cmd.AddCommand(
		newFillCmd(opts),
		newInspectCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	defaults := merge.DefaultConfig()
	flags := cmd.PersistentFlags()

	flags.StringVarP(&opts.configFile, "config", "c", "", "config file path (.yaml, .yml or .hcl), defaults to "+merge.DefaultConfigFile+" if it exists")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")

	flags.StringVar(&opts.flags.Template, "template", defaults.Template, "docx template containing the placeholders")
	flags.StringVar(&opts.flags.Params, "params", defaults.Params, "xlsx file containing the parameters")
	flags.StringVar(&opts.flags.Output, "output", defaults.Output, "path of the filled docx")
	flags.StringVar(&opts.flags.Scope, "scope", defaults.Scope, `"simple", "full" or a comma separated list of body, tables, headers-footers, shapes, lists, hyperlinks`)
	flags.StringVar(&opts.flags.Sheet, "sheet", defaults.Sheet, "worksheet containing the parameters, defaults to the first sheet")
	flags.BoolVar(&opts.flags.ReadOnly, "read-only", defaults.ReadOnly, "make the output read-only")
	flags.BoolVar(&opts.flags.Overwrite, "overwrite", defaults.Overwrite, "replace an existing read-only output")
}

// config loads the config file and applies all explicitly set flags on top of it.
func (o *rootOpts) config(cmd *cobra.Command) (merge.Config, error) {
	ctx := cmd.Context()
	cfg := merge.DefaultConfig()

	path := o.configFile
	if path == "" {
		if _, err := os.Stat(merge.DefaultConfigFile); err == nil {
			path = merge.DefaultConfigFile
		}
	}
	if path != "" {
		loaded, err := merge.LoadConfig(ctx, path)
		if err != nil {
			return merge.Config{}, errors.Errorf("loading config: %w", err)
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	overrides := []struct {
		name  string
		apply func()
	}{
		{"template", func() { cfg.Template = o.flags.Template }},
		{"params", func() { cfg.Params = o.flags.Params }},
		{"output", func() { cfg.Output = o.flags.Output }},
		{"scope", func() { cfg.Scope = o.flags.Scope }},
		{"sheet", func() { cfg.Sheet = o.flags.Sheet }},
		{"read-only", func() { cfg.ReadOnly = o.flags.ReadOnly }},
		{"overwrite", func() { cfg.Overwrite = o.flags.Overwrite }},
	}
	for _, override := range overrides {
		if flags.Changed(override.name) {
			override.apply()
		}
	}

	zerolog.Ctx(ctx).Debug().Str("config_file", path).Interface("config", cfg).Msg("resolved config")
	return cfg, nil
}

// newLogger configures a console logger on w.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}
