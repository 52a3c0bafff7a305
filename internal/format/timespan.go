package format

import (
	"math"
	"strconv"
	"strings"
)

// timeUnit is one step of the timespan scale.
type timeUnit struct {
	seconds  float64
	singular string
	plural   string
}

// timeUnits lists units from largest to smallest.
var timeUnits = []timeUnit{
	{31536000, "year", "years"},
	{604800, "week", "weeks"},
	{86400, "day", "days"},
	{3600, "hour", "hours"},
	{60, "minute", "minutes"},
	{1, "second", "seconds"},
}

// maxTimespanUnits bounds the number of parts in a timespan.
const maxTimespanUnits = 3

// FormatTimespan prints a number of seconds as words, using at most three
// units: 5 -> "5 seconds", 65.5 -> "1 minute and 5.5 seconds",
// 90061 -> "1 day, 1 hour and 1 minute".
func FormatTimespan(v any) string {
	seconds, ok := toFloat(v)
	if !ok {
		return Value(v)
	}
	// Round before splitting so a carry reaches the larger units.
	seconds = math.Round(seconds*100) / 100

	if seconds < 60 {
		return pluralize(roundNumber(seconds), timeUnits[len(timeUnits)-1])
	}

	var parts []string
	remaining := seconds
	for i, unit := range timeUnits {
		last := i == len(timeUnits)-1
		if last {
			if text := roundNumber(remaining); text != "0" {
				parts = append(parts, pluralize(text, unit))
			}
			break
		}

		count := math.Floor(remaining / unit.seconds)
		remaining = math.Mod(remaining, unit.seconds)
		if count > 0 {
			parts = append(parts, pluralize(strconv.FormatFloat(count, 'f', 0, 64), unit))
		}
	}

	if len(parts) > maxTimespanUnits {
		parts = parts[:maxTimespanUnits]
	}
	return concatenate(parts)
}

// roundNumber prints f with at most two decimals and no trailing zeros.
func roundNumber(f float64) string {
	text := strconv.FormatFloat(f, 'f', 2, 64)
	text = strings.TrimRight(text, "0")
	return strings.TrimSuffix(text, ".")
}

func pluralize(count string, unit timeUnit) string {
	if f, err := strconv.ParseFloat(count, 64); err == nil && f == 1 {
		return count + " " + unit.singular
	}
	return count + " " + unit.plural
}

func concatenate(parts []string) string {
	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
