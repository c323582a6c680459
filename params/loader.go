package params

import (
	"context"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultNameColumn is the header of the column holding the parameter names.
	DefaultNameColumn = "Parameter Name"
	// DefaultValueColumn is the header of the column holding the values.
	DefaultValueColumn = "Value"
)

var (
	// ErrMissingColumn is returned if the header row lacks the name or value column.
	ErrMissingColumn = errors.New("missing column")
	// ErrSheetNotFound is returned if the workbook has no sheet with the requested name.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Options control how the parameter sheet is read.
type Options struct {
	// Sheet is the name of the worksheet, the first sheet is used if empty.
	Sheet string
	// NameColumn is the header of the name column, DefaultNameColumn if empty.
	NameColumn string
	// ValueColumn is the header of the value column, DefaultValueColumn if empty.
	ValueColumn string
}

func (o Options) withDefaults() Options {
	if o.NameColumn == "" {
		o.NameColumn = DefaultNameColumn
	}
	if o.ValueColumn == "" {
		o.ValueColumn = DefaultValueColumn
	}
	return o
}

// Load reads the parameters from the xlsx file at path.
func Load(ctx context.Context, path string, opts Options) (*Set, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	set, err := load(ctx, f, opts)
	if err != nil {
		return nil, errors.Errorf("loading parameters from %s: %w", path, err)
	}
	return set, nil
}

// LoadReader reads the parameters from an xlsx stream.
func LoadReader(ctx context.Context, r io.Reader, opts Options) (*Set, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	return load(ctx, f, opts)
}

func load(ctx context.Context, f *excelize.File, opts Options) (*Set, error) {
	logger := zerolog.Ctx(ctx)
	opts = opts.withDefaults()

	sheet, err := resolveSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheet)
	}

	nameCol := slices.Index(rows[0], opts.NameColumn)
	if nameCol < 0 {
		return nil, errors.Errorf("%w: %q in sheet %q", ErrMissingColumn, opts.NameColumn, sheet)
	}
	valueCol := slices.Index(rows[0], opts.ValueColumn)
	if valueCol < 0 {
		return nil, errors.Errorf("%w: %q in sheet %q", ErrMissingColumn, opts.ValueColumn, sheet)
	}

	reader := &cellReader{file: f, sheet: sheet}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		reader.date1904 = *props.Date1904
	}

	var entries []Entry
	for i, row := range rows[1:] {
		rowNumber := i + 2

		var name string
		if nameCol < len(row) {
			name = row[nameCol]
		}
		if strings.TrimSpace(name) == "" {
			logger.Debug().Int("row", rowNumber).Msg("skipping row without parameter name")
			continue
		}

		cell, err := excelize.CoordinatesToCellName(valueCol+1, rowNumber)
		if err != nil {
			return nil, errors.Errorf("row %d: %w", rowNumber, err)
		}
		value, err := reader.value(cell)
		if err != nil {
			return nil, errors.Errorf("reading value of %q: %w", name, err)
		}

		logger.Debug().
			Str("name", name).
			Stringer("kind", value.Kind()).
			Str("value", value.String()).
			Str("cell", cell).
			Msg("read parameter")
		entries = append(entries, Entry{Name: name, Value: value})
	}

	set := NewSet(entries...)
	logger.Debug().Str("sheet", sheet).Int("parameters", set.Len()).Msg("loaded parameters")
	return set, nil
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return "", errors.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}
		return sheets[0], nil
	}
	if !slices.Contains(sheets, sheet) {
		return "", errors.Errorf("%w: %q, available sheets are %s", ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
	}
	return sheet, nil
}

// cellReader converts single cells into typed values.
type cellReader struct {
	file     *excelize.File
	sheet    string
	date1904 bool
}

func (r *cellReader) value(cell string) (Value, error) {
	typ, err := r.file.GetCellType(r.sheet, cell)
	if err != nil {
		return Value{}, err
	}
	raw, err := r.file.GetCellValue(r.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{}, err
	}
	if raw == "" {
		return Text(""), nil
	}

	switch typ {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "true")), nil

	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", DateLayout} {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t), nil
			}
		}
		return Text(raw), nil

	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		// formula results without a type attribute are numbers, too
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Text(raw), nil
		}
		if r.isDate(cell) {
			t, err := excelize.ExcelDateToTime(f, r.date1904)
			if err != nil {
				return Value{}, errors.Errorf("converting %s to date: %w", cell, err)
			}
			return Date(t), nil
		}
		return Number(f), nil
	}

	return Text(raw), nil
}

// isDate reports whether the number format of the cell displays a date or time.
func (r *cellReader) isDate(cell string) bool {
	styleID, err := r.file.GetCellStyle(r.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := r.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return IsDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

var (
	// literal parts of a number format which never denote a date: quoted text, [colors], [$-locales] and escapes
	numFmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.|_.|\*.`)
	numFmtDateCode = regexp.MustCompile(`[ymdhs]`)
)

// IsDateFormat reports whether the custom number format displays a date or time.
func IsDateFormat(format string) bool {
	format = numFmtLiterals.ReplaceAllString(strings.ToLower(format), "")
	return numFmtDateCode.MatchString(format)
}
