package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/lukasjarosch/docx-merge/merge"
)

func newFillCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Fill the template and write the output document",
		Long: `Fill loads the parameters, replaces the placeholders of the template and writes
the output. Placeholders without a parameter are left as they are and reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, opts)
		},
	}
}

func runFill(cmd *cobra.Command, opts *rootOpts) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}

	result, err := merge.Run(cmd.Context(), cfg)
	if err != nil {
		return errors.Errorf("filling template: %w", err)
	}

	color.New(color.FgGreen).Fprintf(opts.stdout, "Document with updated content saved to %s\n", result.Output)
	if n := len(result.Report.Unresolved); n > 0 {
		color.New(color.FgYellow).Fprintf(opts.stdout, "%d placeholder(s) without parameter left unchanged, run inspect for details\n", n)
	}
	return nil
}
