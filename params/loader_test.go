package params

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	docx "github.com/lukasjarosch/docx-merge"
)

const defaultSheet = "Sheet1"

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

// newWorkbook returns a workbook with the rows written to the default sheet.
func newWorkbook(t *testing.T, rows ...[]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	writeRows(t, f, defaultSheet, rows...)
	return f
}

func writeRows(t *testing.T, f *excelize.File, sheet string, rows ...[]any) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
}

func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parameters.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func setNumFmt(t *testing.T, f *excelize.File, cell string, style *excelize.Style) {
	t.Helper()
	styleID, err := f.NewStyle(style)
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(defaultSheet, cell, cell, styleID))
}

func TestLoad(t *testing.T) {
	f := newWorkbook(t,
		[]any{"Parameter Name", "Value"},
		[]any{"Name", "Acme Corp"},
		[]any{"Date", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		[]any{"Amount", 1234.5},
		[]any{"Count", 42},
		[]any{"Paid", true},
		[]any{"", "skipped"},
		[]any{"Empty"},
		[]any{"Name", "Acme Inc"},
	)

	set, err := Load(testContext(t), saveWorkbook(t, f), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Date", "Amount", "Count", "Paid", "Empty"}, set.Names())
	assert.Equal(t, 6, set.Len())

	tests := []struct {
		name string
		kind Kind
		text string
	}{
		{name: "Name", kind: KindText, text: "Acme Inc"},
		{name: "Date", kind: KindDate, text: "2024-01-01"},
		{name: "Amount", kind: KindNumber, text: "1234.5"},
		{name: "Count", kind: KindNumber, text: "42"},
		{name: "Paid", kind: KindBool, text: "TRUE"},
		{name: "Empty", kind: KindText, text: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := set.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, value.Kind())
			assert.Equal(t, tt.text, value.String())
			assert.Equal(t, tt.text, set.PlaceholderMap()[tt.name])
		})
	}

	_, ok := set.Get("")
	assert.False(t, ok)
}

func TestLoad_Dates(t *testing.T) {
	f := newWorkbook(t,
		[]any{"Parameter Name", "Value"},
		[]any{"WithTime", time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)},
		[]any{"Builtin", 45292},
		[]any{"Custom", 45292},
		[]any{"Currency", 45292},
	)
	setNumFmt(t, f, "B3", &excelize.Style{NumFmt: 14})
	dateFormat := "dd.mm.yyyy"
	setNumFmt(t, f, "B4", &excelize.Style{CustomNumFmt: &dateFormat})
	currencyFormat := `#,##0.00 "EUR"`
	setNumFmt(t, f, "B5", &excelize.Style{CustomNumFmt: &currencyFormat})

	set, err := Load(testContext(t), saveWorkbook(t, f), Options{})
	require.NoError(t, err)

	assert.Equal(t, docx.PlaceholderMap{
		"WithTime": "2024-03-15 13:30:00",
		"Builtin":  "2024-01-01",
		"Custom":   "2024-01-01",
		"Currency": "45292",
	}, set.PlaceholderMap())

	value, _ := set.Get("Builtin")
	date, ok := value.Time()
	require.True(t, ok)
	assert.True(t, date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), "got %s", date)
}

func TestLoad_ColumnOrderAndOptions(t *testing.T) {
	f := newWorkbook(t,
		[]any{"Comment", "Wert", "Name"},
		[]any{"ignored", "Acme Corp", "Company"},
	)
	path := saveWorkbook(t, f)

	set, err := Load(testContext(t), path, Options{NameColumn: "Name", ValueColumn: "Wert"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", set.PlaceholderMap()["Company"])

	_, err = Load(testContext(t), path, Options{})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoad_MissingColumn(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
	}{
		{name: "missing_value", rows: [][]any{{"Parameter Name", "Amount"}, {"Name", "Acme Corp"}}},
		{name: "missing_name", rows: [][]any{{"Parameter", "Value"}, {"Name", "Acme Corp"}}},
		{name: "case_sensitive", rows: [][]any{{"parameter name", "value"}}},
		{name: "empty_sheet", rows: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkbook(t, tt.rows...)
			_, err := Load(testContext(t), saveWorkbook(t, f), Options{})
			assert.ErrorIs(t, err, ErrMissingColumn)
		})
	}
}

func TestLoad_Sheet(t *testing.T) {
	f := newWorkbook(t, []any{"Parameter Name", "Value"}, []any{"Name", "first sheet"})
	_, err := f.NewSheet("Params")
	require.NoError(t, err)
	writeRows(t, f, "Params", []any{"Parameter Name", "Value"}, []any{"Name", "second sheet"})
	path := saveWorkbook(t, f)

	set, err := Load(testContext(t), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "first sheet", set.PlaceholderMap()["Name"])

	set, err = Load(testContext(t), path, Options{Sheet: "Params"})
	require.NoError(t, err)
	assert.Equal(t, "second sheet", set.PlaceholderMap()["Name"])

	_, err = Load(testContext(t), path, Options{Sheet: "Missing"})
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.Error(t, err)
}

func TestLoadReader(t *testing.T) {
	f := newWorkbook(t, []any{"Parameter Name", "Value"}, []any{"Name", "Acme Corp"})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	set, err := LoadReader(testContext(t), bytes.NewReader(buf.Bytes()), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, set.Names())

	_, err = LoadReader(testContext(t), bytes.NewReader([]byte("not a workbook")), Options{})
	assert.Error(t, err)
}
