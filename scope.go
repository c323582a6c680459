package docx

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Category classifies a paragraph by the document structure it lives in.
type Category uint8

const (
	// CategoryBody is a top-level paragraph of the main document body.
	CategoryBody Category = 1 << iota
	// CategoryTables is a paragraph inside a table cell of the main document.
	CategoryTables
	// CategoryHeadersFooters is any paragraph of a header or footer part.
	CategoryHeadersFooters
	// CategoryShapes is a paragraph inside a text box (<w:txbxContent>) of the main document.
	CategoryShapes
	// CategoryLists is a top-level body paragraph styled as a list item.
	CategoryLists
	// CategoryHyperlinks covers hyperlink runs of top-level body paragraphs.
	// It is never the category of a paragraph, only of single runs.
	CategoryHyperlinks
)

var categoryNames = map[Category]string{
	CategoryBody:           "body",
	CategoryTables:         "tables",
	CategoryHeadersFooters: "headers-footers",
	CategoryShapes:         "shapes",
	CategoryLists:          "lists",
	CategoryHyperlinks:     "hyperlinks",
}

// Categories lists all categories in the order they are reported.
var Categories = []Category{
	CategoryBody,
	CategoryTables,
	CategoryHeadersFooters,
	CategoryShapes,
	CategoryLists,
	CategoryHyperlinks,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Scope is a set of categories which are subject to substitution.
type Scope uint8

const (
	// ScopeSimple only touches top-level body paragraphs (list items included).
	// Tables, headers, footers and text boxes are left unchanged.
	ScopeSimple = Scope(CategoryBody)
	// ScopeFull touches every category.
	ScopeFull = Scope(CategoryBody | CategoryTables | CategoryHeadersFooters |
		CategoryShapes | CategoryLists | CategoryHyperlinks)
)

// ErrInvalidScope is returned by ParseScope for unknown scope names.
var ErrInvalidScope = errors.New("invalid scope")

// NewScope returns a scope containing the given categories.
func NewScope(categories ...Category) Scope {
	var s Scope
	for _, c := range categories {
		s |= Scope(c)
	}
	return s
}

// Has returns true if the category is part of the scope.
func (s Scope) Has(c Category) bool {
	return s&Scope(c) != 0
}

// Categories returns the categories of the scope in reporting order.
func (s Scope) Categories() []Category {
	var categories []Category
	for _, c := range Categories {
		if s.Has(c) {
			categories = append(categories, c)
		}
	}
	return categories
}

func (s Scope) String() string {
	switch s {
	case ScopeSimple:
		return "simple"
	case ScopeFull:
		return "full"
	}
	var names []string
	for _, c := range s.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ",")
}

// ParseScope parses "simple", "full" or a comma separated list of category names,
// e.g. "body,tables,headers-footers".
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return ScopeFull, nil
	case "simple":
		return ScopeSimple, nil
	}

	var scope Scope
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		category, ok := categoryByName(name)
		if !ok {
			return 0, errors.Errorf("%w: unknown category %q, valid are %s", ErrInvalidScope, name, strings.Join(categoryList(), ", "))
		}
		scope |= Scope(category)
	}
	if scope == 0 {
		return 0, errors.Errorf("%w: %q selects no category", ErrInvalidScope, s)
	}
	return scope, nil
}

func categoryByName(name string) (Category, bool) {
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

func categoryList() []string {
	names := make([]string, 0, len(categoryNames))
	for _, name := range categoryNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
