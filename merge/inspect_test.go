package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docx "github.com/lukasjarosch/docx-merge"
	"github.com/lukasjarosch/docx-merge/internal/docxtest"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Template = docxtest.WriteFile(t, dir, "template.docx", map[string]string{
		docx.DocumentXml: docxtest.Body(
			docxtest.P("Dear {Name}, {Nmae}"),
			docxtest.Table(docxtest.P("{Date}"), docxtest.P("{Name}")),
		),
	})
	cfg.Params = writeParams(t, dir, defaultHeader,
		[]any{"Name", "Acme Corp"},
		[]any{"Signature", "Bob"},
	)

	inspection, err := Inspect(testContext(t), cfg)
	require.NoError(t, err)

	assert.Equal(t, docx.ScopeFull, inspection.Scope)
	assert.Len(t, inspection.Occurrences, 4)
	assert.Equal(t, []string{"Date", "Name", "Nmae"}, inspection.Keys)
	assert.Equal(t, map[docx.Category][]string{
		docx.CategoryBody:   {"Name", "Nmae"},
		docx.CategoryTables: {"Date", "Name"},
	}, inspection.ByCategory())

	assert.True(t, inspection.ParamsLoaded)
	assert.Equal(t, []string{"Date", "Nmae"}, inspection.Missing)
	assert.Equal(t, []string{"Signature"}, inspection.Unused)
	assert.Equal(t, []string{"Name"}, inspection.Suggestions["Nmae"])
}

func TestInspect_WithoutParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Template = docxtest.WriteFile(t, t.TempDir(), "template.docx", map[string]string{
		docx.DocumentXml: docxtest.Body(docxtest.P("{a}"), docxtest.Table(docxtest.P("{b}"))),
	})
	cfg.Params = ""
	cfg.Scope = "simple"

	inspection, err := Inspect(testContext(t), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, inspection.Keys)
	assert.False(t, inspection.ParamsLoaded)
	assert.Empty(t, inspection.Missing)
	assert.Empty(t, inspection.Unused)
}

func TestInspect_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Template = ""
	_, err := Inspect(testContext(t), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Scope = "nonsense"
	_, err = Inspect(testContext(t), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Params = ""
	_, err = Inspect(testContext(t), cfg)
	assert.Error(t, err)
}
