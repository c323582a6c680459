package params

import (
	"strconv"
	"time"
)

// Kind is the type of a parameter value as read from the spreadsheet cell.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
	KindDate
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

const (
	// DateLayout is used for dates without a time of day.
	DateLayout = "2006-01-02"
	// DateTimeLayout is used for dates with a time of day.
	DateTimeLayout = "2006-01-02 15:04:05"

	// significantDigits matches the precision spreadsheets display numbers with.
	significantDigits = 15
)

// Value is a single typed parameter value.
// The display text is computed once on construction.
type Value struct {
	kind   Kind
	text   string
	number float64
	date   time.Time
	b      bool
}

// Text returns a text value, the empty string is the value of an empty cell.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value, displayed in its shortest decimal form.
func Number(f float64) Value {
	return Value{kind: KindNumber, number: f, text: formatNumber(f)}
}

// Date returns a date value. The time of day is only displayed if it is not midnight.
func Date(t time.Time) Value {
	t = t.Round(time.Second)
	layout := DateLayout
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		layout = DateTimeLayout
	}
	return Value{kind: KindDate, date: t, text: t.Format(layout)}
}

// Bool returns a boolean value, displayed as TRUE or FALSE.
func Bool(b bool) Value {
	text := "FALSE"
	if b {
		text = "TRUE"
	}
	return Value{kind: KindBool, b: b, text: text}
}

func (v Value) Kind() Kind {
	return v.kind
}

// String returns the display text which is substituted into documents.
func (v Value) String() string {
	return v.text
}

// Empty reports whether the value came from an empty cell.
func (v Value) Empty() bool {
	return v.kind == KindText && v.text == ""
}

// Float returns the numeric value, ok is false for non-numeric kinds.
func (v Value) Float() (f float64, ok bool) {
	return v.number, v.kind == KindNumber
}

// Time returns the date value, ok is false for non-date kinds.
func (v Value) Time() (t time.Time, ok bool) {
	return v.date, v.kind == KindDate
}

// formatNumber rounds to the displayed precision and drops the exponent and trailing zeros,
// e.g. 0.1+0.2 is "0.3", 42 is "42" and 1e20 is "100000000000000000000".
func formatNumber(f float64) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', significantDigits, 64), 64)
	if err != nil {
		rounded = f
	}
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
