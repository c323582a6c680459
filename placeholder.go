package docx

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// OpenDelimiter defines the opening delimiter for the placeholders used inside a docx-document.
	OpenDelimiter rune = '{'
	// CloseDelimiter defines the closing delimiter for the placeholders used inside a docx-document.
	CloseDelimiter rune = '}'
)

var (
	// PlaceholderRegex matches a delimited placeholder whose key contains no delimiters.
	// The first submatch is the key.
	PlaceholderRegex = regexp.MustCompile(fmt.Sprintf(`%s([^%s%s]+)%s`,
		regexp.QuoteMeta(string(OpenDelimiter)),
		regexp.QuoteMeta(string(OpenDelimiter)), regexp.QuoteMeta(string(CloseDelimiter)),
		regexp.QuoteMeta(string(CloseDelimiter))))
)

// PlaceholderMap is the type used to map the placeholder keys (without delimiters) to the replacement values.
// Values are display text already, no further formatting is applied.
type PlaceholderMap map[string]string

// Has returns true if the key (without delimiters) is part of the map.
func (m PlaceholderMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Placeholder is a single occurrence of a delimited key inside a paragraph.
// Word freely splits text into multiple runs, so a placeholder usually consists of multiple
// PlaceholderFragments, one for every text element it touches.
type Placeholder struct {
	Key       string
	Fragments []*PlaceholderFragment
}

// Text assembles the placeholder fragments and returns the full placeholder literal.
func (p Placeholder) Text() string {
	var b strings.Builder
	for _, fragment := range p.Fragments {
		b.WriteString(fragment.Text())
	}
	return b.String()
}

// Valid determines whether the placeholder can be used.
// A placeholder is considered valid, if all fragments are valid and the text is delimited.
func (p Placeholder) Valid() bool {
	if len(p.Fragments) == 0 {
		return false
	}
	for _, fragment := range p.Fragments {
		if !fragment.Valid() {
			return false
		}
	}
	return IsDelimitedPlaceholder(p.Text())
}

// ParsePlaceholders finds all placeholders inside the given text elements.
// The text elements are treated as one continuous text, placeholders may therefore span
// multiple elements. Tabs and breaks between the elements are part of the text, a placeholder
// cannot span them without containing them in its key. If accept is not nil, only placeholders with an accepted key are returned.
// Matches are leftmost and never overlap.
func ParsePlaceholders(texts []*TextRun, accept func(key string) bool) (placeholders []*Placeholder) {
	// offsets[i] is the position of texts[i] inside the joined text
	offsets := make([]int, len(texts))
	var joined strings.Builder
	for i, text := range texts {
		joined.WriteString(text.Separator)
		offsets[i] = joined.Len()
		joined.WriteString(text.Text)
	}

	full := joined.String()
	for _, match := range PlaceholderRegex.FindAllStringSubmatchIndex(full, -1) {
		start, end := match[0], match[1]
		key := full[match[2]:match[3]]
		if accept != nil && !accept(key) {
			continue
		}

		placeholder := &Placeholder{Key: key}
		for i, text := range texts {
			textStart := offsets[i]
			textEnd := textStart + len(text.Text)
			if textStart == textEnd || textEnd <= start || textStart >= end {
				continue
			}
			pos := Position{
				Start: int64(max(start, textStart) - textStart),
				End:   int64(min(end, textEnd) - textStart),
			}
			placeholder.Fragments = append(placeholder.Fragments,
				NewPlaceholderFragment(len(placeholder.Fragments), pos, text))
		}

		if placeholder.Valid() {
			placeholders = append(placeholders, placeholder)
		}
	}
	return placeholders
}

// AddPlaceholderDelimiter will wrap the given string with OpenDelimiter and CloseDelimiter.
// If the given string is already a delimited placeholder, it is returned unchanged.
func AddPlaceholderDelimiter(s string) string {
	if IsDelimitedPlaceholder(s) {
		return s
	}
	return fmt.Sprintf("%c%s%c", OpenDelimiter, s, CloseDelimiter)
}

// RemovePlaceholderDelimiter removes OpenDelimiter and CloseDelimiter from the given text.
// If the given text is not a delimited placeholder, it is returned unchanged.
func RemovePlaceholderDelimiter(s string) string {
	if !IsDelimitedPlaceholder(s) {
		return s
	}
	return s[1 : len(s)-1]
}

// IsDelimitedPlaceholder returns true if the given string is a delimited placeholder.
// It checks whether the first and last rune in the string is the OpenDelimiter and CloseDelimiter respectively.
// If the string is shorter than both delimiters, false is returned.
func IsDelimitedPlaceholder(s string) bool {
	if len(s) < 2 {
		return false
	}
	first := s[0]
	last := s[len(s)-1]
	return rune(first) == OpenDelimiter && rune(last) == CloseDelimiter
}
