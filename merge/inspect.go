package merge

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	docx "github.com/lukasjarosch/docx-merge"
	"github.com/lukasjarosch/docx-merge/params"
)

// Inspection lists the placeholders of a template and how they relate to the parameters.
type Inspection struct {
	Template string
	Scope    docx.Scope
	// Occurrences are all placeholders subject to the scope, in document order.
	Occurrences []docx.Occurrence
	// Keys are the distinct placeholder keys, sorted.
	Keys []string
	// ParamsLoaded is set if a parameter file was configured, only then Missing and Unused are set.
	ParamsLoaded bool
	// Missing are the keys without a parameter.
	Missing []string
	// Unused are the parameters which are not referenced by the template.
	Unused []string
	// Suggestions maps missing keys to similar parameter names.
	Suggestions map[string][]string
}

// ByCategory returns the distinct keys of every category.
func (i *Inspection) ByCategory() map[docx.Category][]string {
	seen := make(map[docx.Category]map[string]bool)
	for _, occurrence := range i.Occurrences {
		if seen[occurrence.Category] == nil {
			seen[occurrence.Category] = make(map[string]bool)
		}
		seen[occurrence.Category][occurrence.Key] = true
	}

	categories := make(map[docx.Category][]string, len(seen))
	for category, keys := range seen {
		categories[category] = sortedKeys(keys)
	}
	return categories
}

// Inspect reads the template and, if configured, the parameters without writing anything.
func Inspect(ctx context.Context, cfg Config) (*Inspection, error) {
	logger := zerolog.Ctx(ctx)

	if cfg.Template == "" {
		return nil, errors.Errorf("%w: template is required", ErrInvalidConfig)
	}
	scope, err := docx.ParseScope(cfg.Scope)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	var set *params.Set
	if cfg.Params != "" {
		set, err = params.Load(ctx, cfg.Params, cfg.paramsOptions())
		if err != nil {
			return nil, errors.Errorf("loading parameters: %w", err)
		}
	}

	doc, err := docx.Open(cfg.Template)
	if err != nil {
		return nil, errors.Errorf("opening template: %w", err)
	}
	defer doc.Close()
	if len(cfg.ListStyles) > 0 {
		doc.SetListStyles(cfg.ListStyles...)
	}

	inspection := &Inspection{
		Template:    cfg.Template,
		Scope:       scope,
		Occurrences: doc.Placeholders(scope),
	}

	keys := make(map[string]bool)
	for _, occurrence := range inspection.Occurrences {
		keys[occurrence.Key] = true
	}
	inspection.Keys = sortedKeys(keys)

	if set != nil {
		inspection.ParamsLoaded = true
		inspection.Suggestions = make(map[string][]string)
		placeholderMap := set.PlaceholderMap()
		for _, key := range inspection.Keys {
			if !placeholderMap.Has(key) {
				inspection.Missing = append(inspection.Missing, key)
				inspection.Suggestions[key] = Suggest(key, set.Names())
			}
		}
		for _, name := range set.Names() {
			if !keys[name] {
				inspection.Unused = append(inspection.Unused, name)
			}
		}
	}

	logger.Debug().
		Str("template", cfg.Template).
		Stringer("scope", scope).
		Int("placeholders", len(inspection.Occurrences)).
		Int("missing", len(inspection.Missing)).
		Msg("inspected template")
	return inspection, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
