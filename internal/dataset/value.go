package dataset

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Kind identifies the value type held by a cell.
type Kind int

const (
	KindString Kind = iota
	KindDate
	KindNumber
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindNumber:
		return "number"
	case KindMissing:
		return "missing"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single cell: locale text as loaded, or a typed date or number
// after coercion, or the explicit missing marker for cells that failed to
// parse.
type Value struct {
	kind Kind
	str  string
	date civil.Date
	num  decimal.Decimal
}

// Missing is the explicit "no value" marker.
var Missing = Value{kind: KindMissing}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Date(d civil.Date) Value {
	return Value{kind: KindDate, date: d}
}

func Number(n decimal.Decimal) Value {
	return Value{kind: KindNumber, num: n}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the raw text of a string value. Non-string values return the
// display rendering; callers that care should check Kind first.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.str
	}
	return v.String()
}

// Date returns the date held by a date value.
func (v Value) Date() (civil.Date, bool) {
	if v.kind != KindDate {
		return civil.Date{}, false
	}
	return v.date, true
}

// Number returns the decimal held by a number value.
func (v Value) Number() (decimal.Decimal, bool) {
	if v.kind != KindNumber {
		return decimal.Decimal{}, false
	}
	return v.num, true
}

// String renders the value for display and CSV output: dates as DD/MM/YYYY,
// numbers with a "." decimal point, missing as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindDate:
		return fmt.Sprintf("%02d/%02d/%04d", v.date.Day, int(v.date.Month), v.date.Year)
	case KindNumber:
		return v.num.String()
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindDate:
		return v.date == o.date
	case KindNumber:
		return v.num.Equal(o.num)
	default:
		return true
	}
}

// dayFirstLayouts are tried in order when parsing locale date text. The ERP
// export uses DD/MM/YYYY; ISO dates are accepted for round-trips through
// other tooling.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"2006-01-02",
}

// ParseDayFirstDate parses locale date text using the day-first convention.
func ParseDayFirstDate(s string) (civil.Date, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return civil.Date{}, fmt.Errorf("empty date string")
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unrecognized day-first date %q", s)
}

// ParseLocaleNumber parses locale numeric text that uses "." as the
// thousands separator and "," as the decimal separator, e.g. "1.000,50".
func ParseLocaleNumber(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("empty numeric string")
	}
	normalized := strings.ReplaceAll(trimmed, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	n, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unrecognized locale number %q: %w", s, err)
	}
	return n, nil
}
