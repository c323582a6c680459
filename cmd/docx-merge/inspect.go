package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	docx "github.com/lukasjarosch/docx-merge"
	"github.com/lukasjarosch/docx-merge/merge"
)

func newInspectCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List the placeholders of the template",
		Long: `Inspect lists the placeholders of the template per category. If a parameter file
is configured, placeholders without parameter and unused parameters are listed, too.
Pass --params "" to inspect the template only. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			inspection, err := merge.Inspect(cmd.Context(), cfg)
			if err != nil {
				return errors.Errorf("inspecting template: %w", err)
			}

			printInspection(opts.stdout, inspection)
			return nil
		},
	}
}

func printInspection(w io.Writer, inspection *merge.Inspection) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	bold.Fprintf(w, "%s (scope %s): %d placeholder(s)\n", inspection.Template, inspection.Scope, len(inspection.Occurrences))

	byCategory := inspection.ByCategory()
	for _, category := range docx.Categories {
		keys, ok := byCategory[category]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-16s %s\n", category.String()+":", strings.Join(keys, ", "))
	}

	if !inspection.ParamsLoaded {
		return
	}
	for _, key := range inspection.Missing {
		red.Fprintf(w, "missing parameter %s", docx.AddPlaceholderDelimiter(key))
		if suggestions := inspection.Suggestions[key]; len(suggestions) > 0 {
			fmt.Fprintf(w, " (did you mean %s?)", strings.Join(suggestions, ", "))
		}
		fmt.Fprintln(w)
	}
	for _, name := range inspection.Unused {
		yellow.Fprintf(w, "unused parameter %s\n", name)
	}
}
