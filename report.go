package docx

import "sort"

// Report summarizes a ReplaceAll call.
type Report struct {
	// Replacements counts the replaced placeholders per category.
	Replacements map[Category]int
	// Unresolved counts the placeholders found in scanned text which have no value.
	// They are left unchanged in the document.
	Unresolved map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Replacements: make(map[Category]int),
		Unresolved:   make(map[string]int),
	}
}

// Total returns the number of replaced placeholders over all categories.
func (r *Report) Total() int {
	total := 0
	for _, n := range r.Replacements {
		total += n
	}
	return total
}

// UnresolvedKeys returns the sorted keys of all unresolved placeholders.
func (r *Report) UnresolvedKeys() []string {
	keys := make([]string, 0, len(r.Unresolved))
	for key := range r.Unresolved {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (r *Report) addUnresolved(placeholders []*Placeholder) {
	for _, placeholder := range placeholders {
		r.Unresolved[placeholder.Key]++
	}
}

// Occurrence is a placeholder found inside a document.
type Occurrence struct {
	Key       string
	Part      string
	Category  Category
	Paragraph int
}
