// Package merge runs a mail merge: it loads the parameters from a spreadsheet, fills them into
// a docx template and finalizes the written document.
package merge

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	docx "github.com/lukasjarosch/docx-merge"
	"github.com/lukasjarosch/docx-merge/params"
)

// ErrOutputReadOnly is returned if the output exists and is read-only, e.g. from a previous run.
var ErrOutputReadOnly = errors.New("output is read-only")

// Result summarizes a merge run.
type Result struct {
	Output     string
	Parameters int
	Report     *docx.Report
	ReadOnly   bool
}

// FillOptions control how the template is filled.
type FillOptions struct {
	Scope docx.Scope
	// ListStyles overrides docx.DefaultListStyles if not empty.
	ListStyles []string
}

// Run executes the whole pipeline.
// The parameters are loaded first, a broken spreadsheet therefore fails before the template is opened.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set, err := params.Load(ctx, cfg.Params, cfg.paramsOptions())
	if err != nil {
		return nil, errors.Errorf("loading parameters: %w", err)
	}
	logger.Debug().Str("params", cfg.Params).Strs("names", set.Names()).Msg("parameters loaded")

	if err := prepareOutput(ctx, cfg.Output, cfg.Overwrite); err != nil {
		return nil, err
	}

	report, err := Fill(ctx, cfg.Template, cfg.Output, set.PlaceholderMap(), FillOptions{
		Scope:      cfg.scope(),
		ListStyles: cfg.ListStyles,
	})
	if err != nil {
		return nil, err
	}

	if cfg.ReadOnly {
		if err := MakeReadOnly(cfg.Output); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("output", cfg.Output).
		Int("replacements", report.Total()).
		Int("unresolved", len(report.Unresolved)).
		Msg("merge finished")

	return &Result{
		Output:     cfg.Output,
		Parameters: set.Len(),
		Report:     report,
		ReadOnly:   cfg.ReadOnly,
	}, nil
}

// Fill replaces the placeholders of the template and writes the result to output.
// The template itself is never modified. Placeholders without a value are left as they are
// and logged as warning, together with similar parameter names.
func Fill(ctx context.Context, template, output string, placeholderMap docx.PlaceholderMap, opts FillOptions) (*docx.Report, error) {
	logger := zerolog.Ctx(ctx)

	doc, err := docx.Open(template)
	if err != nil {
		return nil, errors.Errorf("opening template: %w", err)
	}
	defer doc.Close()

	if len(opts.ListStyles) > 0 {
		doc.SetListStyles(opts.ListStyles...)
	}
	if opts.Scope == 0 {
		opts.Scope = docx.ScopeFull
	}

	report, err := doc.ReplaceAll(ctx, placeholderMap, opts.Scope)
	if err != nil {
		return nil, errors.Errorf("filling template: %w", err)
	}

	names := make([]string, 0, len(placeholderMap))
	for name := range placeholderMap {
		names = append(names, name)
	}
	for _, key := range report.UnresolvedKeys() {
		logger.Warn().
			Str("placeholder", docx.AddPlaceholderDelimiter(key)).
			Int("occurrences", report.Unresolved[key]).
			Strs("did_you_mean", Suggest(key, names)).
			Msg("placeholder has no parameter")
	}

	for _, category := range opts.Scope.Categories() {
		logger.Debug().
			Stringer("category", category).
			Int("replacements", report.Replacements[category]).
			Msg("filled category")
	}

	if err := doc.WriteToFile(output); err != nil {
		return nil, errors.Errorf("writing output: %w", err)
	}
	return report, nil
}

// prepareOutput makes sure the output can be written.
func prepareOutput(ctx context.Context, output string, overwrite bool) error {
	info, err := os.Stat(output)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Errorf("checking output: %w", err)
	}
	if info.IsDir() {
		return errors.Errorf("output %s is a directory", output)
	}
	if info.Mode().Perm()&0200 != 0 {
		return nil
	}

	if !overwrite {
		return errors.Errorf("%w: %s", ErrOutputReadOnly, output)
	}
	zerolog.Ctx(ctx).Debug().Str("output", output).Msg("making existing output writable")
	if err := os.Chmod(output, 0644); err != nil {
		return errors.Errorf("making %s writable: %w", output, err)
	}
	return nil
}
