package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textRuns(texts ...string) []*TextRun {
	runs := make([]*TextRun, len(texts))
	for i, text := range texts {
		runs[i] = &TextRun{Text: text}
	}
	return runs
}

func TestParsePlaceholders(t *testing.T) {
	texts := textRuns("Dear {Na", "me}, today is {Date}.")

	placeholders := ParsePlaceholders(texts, nil)
	require.Len(t, placeholders, 2)

	name := placeholders[0]
	assert.Equal(t, "Name", name.Key)
	assert.Equal(t, "{Name}", name.Text())
	require.Len(t, name.Fragments, 2)
	assert.Equal(t, Position{Start: 5, End: 8}, name.Fragments[0].Position)
	assert.Equal(t, "{Na", name.Fragments[0].Text())
	assert.True(t, name.Fragments[0].First())
	assert.Equal(t, Position{Start: 0, End: 3}, name.Fragments[1].Position)
	assert.Equal(t, "me}", name.Fragments[1].Text())
	assert.Same(t, texts[1], name.Fragments[1].Element)

	date := placeholders[1]
	assert.Equal(t, "Date", date.Key)
	require.Len(t, date.Fragments, 1)
	assert.Equal(t, "{Date}", date.Text())
}

func TestParsePlaceholders_Accept(t *testing.T) {
	texts := textRuns("{Name} and {Date} and {Name}")
	accept := PlaceholderMap{"Name": "x"}.Has

	placeholders := ParsePlaceholders(texts, accept)
	require.Len(t, placeholders, 2)
	for _, placeholder := range placeholders {
		assert.Equal(t, "Name", placeholder.Key)
	}
}

func TestParsePlaceholders_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{name: "no_placeholder", texts: []string{"plain text"}, want: nil},
		{name: "unclosed", texts: []string{"{not closed"}, want: nil},
		{name: "empty_key", texts: []string{"{}"}, want: nil},
		{name: "double_delimiters", texts: []string{"{{a}}"}, want: []string{"a"}},
		{name: "nested_open", texts: []string{"{a{b}"}, want: []string{"b"}},
		{name: "adjacent", texts: []string{"{a}{b}"}, want: []string{"a", "b"}},
		{name: "three_fragments", texts: []string{"{foo", "-bar-", "baz}"}, want: []string{"foo-bar-baz"}},
		{name: "key_with_spaces", texts: []string{"{key with space}"}, want: []string{"key with space"}},
		{name: "across_empty_text", texts: []string{"{a", "", "}"}, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var keys []string
			for _, placeholder := range ParsePlaceholders(textRuns(tt.texts...), nil) {
				keys = append(keys, placeholder.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestPlaceholderDelimiter(t *testing.T) {
	tests := []struct {
		in        string
		delimited bool
		added     string
		removed   string
	}{
		{in: "key", delimited: false, added: "{key}", removed: "key"},
		{in: "{key}", delimited: true, added: "{key}", removed: "key"},
		{in: "{key", delimited: false, added: "{{key}", removed: "{key"},
		{in: "", delimited: false, added: "{}", removed: ""},
		{in: "{", delimited: false, added: "{{}", removed: "{"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.delimited, IsDelimitedPlaceholder(tt.in))
			assert.Equal(t, tt.added, AddPlaceholderDelimiter(tt.in))
			assert.Equal(t, tt.removed, RemovePlaceholderDelimiter(tt.in))
		})
	}
}
