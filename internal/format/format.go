// Package format turns table cell values into display text.
//
// Every table row carries a Directive that selects the formatter applied at
// render time. Directive values use the names written in report templates
// ("fmt", "fmt_number", "fmt_percent", ...), so a row serialized to JSON keeps
// a stable, template-friendly tag.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Directive selects how a value is turned into text.
type Directive string

const (
	// Plain prints the value as is.
	Plain Directive = "fmt"

	// Number prints a number with thousands separators, e.g. "32,561".
	Number Directive = "fmt_number"

	// Numeric prints a number with up to ten significant digits.
	Numeric Directive = "fmt_numeric"

	// Percent prints a fraction as a percentage, e.g. 0.125 -> "12.5%".
	Percent Directive = "fmt_percent"

	// Bytesize prints a byte count with binary units, e.g. "2.3 KiB".
	Bytesize Directive = "fmt_bytesize"

	// Timespan prints a number of seconds as words, e.g. "1 minute and 5 seconds".
	Timespan Directive = "fmt_timespan"

	// Raw marks a value that is already HTML and must not be escaped.
	Raw Directive = "raw"
)

// numericPrecision is the number of significant digits used by Numeric.
const numericPrecision = 10

// printer formats numbers with English grouping.
var printer = message.NewPrinter(language.English)

// IsRaw reports whether the value is pre-rendered HTML.
func (d Directive) IsRaw() bool {
	return d == Raw
}

// Valid reports whether d is one of the known directives.
func (d Directive) Valid() bool {
	switch d {
	case Plain, Number, Numeric, Percent, Bytesize, Timespan, Raw:
		return true
	default:
		return false
	}
}

// Apply formats v according to the directive. Unknown directives and
// non-numeric values given to numeric directives fall back to Value.
func (d Directive) Apply(v any) string {
	switch d {
	case Number:
		return FormatNumber(v)
	case Numeric:
		return FormatNumeric(v)
	case Percent:
		return FormatPercent(v)
	case Bytesize:
		return FormatBytesize(v)
	case Timespan:
		return FormatTimespan(v)
	default:
		return Value(v)
	}
}

// Value prints v with no formatting. nil prints as the empty string.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// FormatNumber prints v with thousands separators.
func FormatNumber(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return Value(v)
	}
	return printer.Sprint(number.Decimal(f))
}

// FormatNumeric prints v with up to ten significant digits.
func FormatNumeric(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return Value(v)
	}
	return strconv.FormatFloat(f, 'g', numericPrecision, 64)
}

// FormatPercent prints a fraction as a percentage with one decimal.
// Non-zero values that would round to 0.0% or 100.0% print as "< 0.1%" and
// "> 99.9%" so that they are not mistaken for exact bounds.
func FormatPercent(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return Value(v)
	}

	rounded := math.Round(f*1000) / 1000
	switch {
	case rounded == 0 && f > 0:
		return "< 0.1%"
	case rounded == 1 && f < 1:
		return "> 99.9%"
	default:
		return fmt.Sprintf("%.1f%%", f*100)
	}
}

// FormatBytesize prints a byte count with binary (IEC) units.
func FormatBytesize(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return Value(v)
	}

	if math.Abs(f) < 1024 {
		return fmt.Sprintf("%.1f B", f)
	}
	if f < 0 {
		return "-" + humanize.IBytes(uint64(-f))
	}
	return humanize.IBytes(uint64(f))
}

// toFloat converts numeric values (including numeric strings) to float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
