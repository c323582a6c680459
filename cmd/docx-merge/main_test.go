package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	docx "github.com/lukasjarosch/docx-merge"
	"github.com/lukasjarosch/docx-merge/internal/docxtest"
	"github.com/lukasjarosch/docx-merge/merge"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fixture struct {
	dir      string
	template string
	params   string
	output   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Parameter Name", "Value"},
		{"Name", "Acme Corp"},
		{"Unused", "x"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	params := filepath.Join(dir, "parameters.xlsx")
	require.NoError(t, f.SaveAs(params))

	return fixture{
		dir: dir,
		template: docxtest.WriteFile(t, dir, "template.docx", map[string]string{
			docx.DocumentXml: docxtest.Body(
				docxtest.P("Dear {Name}, {Nmae}"),
				docxtest.Table(docxtest.P("{Name}")),
			),
		}),
		params: params,
		output: filepath.Join(dir, "output.docx"),
	}
}

func (f fixture) args(args ...string) []string {
	return append(args, "--template", f.template, "--params", f.params, "--output", f.output)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func bodyTexts(t *testing.T, path string) []string {
	t.Helper()
	doc, err := docx.Open(path)
	require.NoError(t, err)
	defer doc.Close()

	var texts []string
	for _, paragraph := range doc.Paragraphs(docx.DocumentXml) {
		texts = append(texts, paragraph.Text())
	}
	return texts
}

func TestFill(t *testing.T) {
	for _, command := range [][]string{nil, {"fill"}} {
		f := newFixture(t)

		stdout, stderr, err := execute(t, f.args(command...)...)
		require.NoError(t, err, stderr)

		assert.Contains(t, stdout, "Document with updated content saved to "+f.output)
		assert.Contains(t, stdout, "1 placeholder(s) without parameter")
		assert.Contains(t, stderr, "placeholder has no parameter")
		assert.Equal(t, []string{"Dear Acme Corp, {Nmae}", "Acme Corp"}, bodyTexts(t, f.output))

		info, err := os.Stat(f.output)
		require.NoError(t, err)
		assert.Equal(t, merge.ReadOnlyMode, info.Mode().Perm())
	}
}

func TestFill_ConfigFile(t *testing.T) {
	f := newFixture(t)
	configFile := filepath.Join(f.dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(
		"template: "+f.template+"\n"+
			"params: "+f.params+"\n"+
			"output: "+f.output+"\n"+
			"scope: tables\n"+
			"read_only: false\n",
	), 0644))

	// flags override the file
	_, stderr, err := execute(t, "fill", "-c", configFile, "--scope", "simple", "--debug")
	require.NoError(t, err, stderr)

	assert.Contains(t, stderr, "resolved config")
	assert.Equal(t, []string{"Dear Acme Corp, {Nmae}", "{Name}"}, bodyTexts(t, f.output))

	info, err := os.Stat(f.output)
	require.NoError(t, err)
	assert.NotEqual(t, merge.ReadOnlyMode, info.Mode().Perm())
}

func TestFill_Errors(t *testing.T) {
	f := newFixture(t)

	_, _, err := execute(t, f.args("--scope", "everything")...)
	assert.ErrorIs(t, err, merge.ErrInvalidConfig)

	_, _, err = execute(t, f.args("-c", filepath.Join(f.dir, "missing.yaml"))...)
	assert.Error(t, err)

	_, _, err = execute(t, f.args("fill", "unexpected")...)
	assert.Error(t, err)

	_, _, err = execute(t, f.args()...)
	require.NoError(t, err)
	_, _, err = execute(t, f.args()...)
	assert.ErrorIs(t, err, merge.ErrOutputReadOnly)
	_, _, err = execute(t, f.args("--overwrite")...)
	assert.NoError(t, err)
}

func TestInspect(t *testing.T) {
	f := newFixture(t)

	stdout, stderr, err := execute(t, f.args("inspect")...)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "3 placeholder(s)")
	assert.Contains(t, stdout, "body:")
	assert.Contains(t, stdout, "Name, Nmae")
	assert.Contains(t, stdout, "missing parameter {Nmae} (did you mean Name?)")
	assert.Contains(t, stdout, "unused parameter Unused")

	_, err = os.Stat(f.output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "docx-merge version info:")
	assert.Contains(t, stdout, "Go:")
}
