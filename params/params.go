// Package params loads the parameters of a mail merge from a spreadsheet.
//
// The spreadsheet has a header row with a "Parameter Name" and a "Value" column, every
// following row defines one parameter. Cell types are kept, so numbers, dates and booleans
// are displayed the same way independent of the cell formatting.
package params

import (
	docx "github.com/lukasjarosch/docx-merge"
)

// Entry is a single named parameter.
type Entry struct {
	Name  string
	Value Value
}

// Set is an ordered mapping of parameter names to values.
// A Set is not modified after it has been built.
type Set struct {
	names        []string
	values       map[string]Value
	placeholders docx.PlaceholderMap
}

// NewSet builds a Set from the entries.
// If a name occurs more than once the last value wins, the name keeps the position of its first occurrence.
func NewSet(entries ...Entry) *Set {
	s := &Set{
		values: make(map[string]Value, len(entries)),
	}
	for _, entry := range entries {
		if _, exists := s.values[entry.Name]; !exists {
			s.names = append(s.names, entry.Name)
		}
		s.values[entry.Name] = entry.Value
	}

	s.placeholders = make(docx.PlaceholderMap, len(s.values))
	for name, value := range s.values {
		s.placeholders[name] = value.String()
	}
	return s
}

// Get returns the value of the parameter.
func (s *Set) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns all parameter names in the order of their first occurrence.
func (s *Set) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of distinct parameters.
func (s *Set) Len() int {
	return len(s.names)
}

// PlaceholderMap returns the display text of every parameter keyed by name.
// The map is shared, callers must not modify it.
func (s *Set) PlaceholderMap() docx.PlaceholderMap {
	return s.placeholders
}
