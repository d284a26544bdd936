// Package dateutils normalizes the dates found in bank statements and
// settlement workbooks.
package dateutils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutSpanish   = "02/01/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
)

// CommonFormats is the list of layouts tried by ParseDate, day-first
// layouts before anything else.
var CommonFormats = []string{
	DateLayoutSpanish,
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutFull,
	DateLayoutISO + "T15:04:05Z",
	DateLayoutWithMonth,
	"02-01-2006",
	"2/1/2006",
	"02/01/06",
	"2006/01/02",
}

// excelEpoch is day zero of spreadsheet serial dates (1900 date system,
// including its phantom leap day).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims a date string and collapses inner whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate attempts to parse a date string using multiple common formats
// Returns the parsed time and the detected format
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// FromExcelSerial converts a spreadsheet serial day number such as "45323"
// or "45323.5" to a date.
func FromExcelSerial(serial string) (time.Time, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(serial), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid serial date %q: %w", serial, err)
	}
	if f < 1 || f > 2958465 {
		return time.Time{}, fmt.Errorf("serial date %q out of range", serial)
	}
	return excelEpoch.AddDate(0, 0, int(math.Floor(f))), nil
}

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutSpanish is used
func FormatDate(date time.Time, layout string) string {
	if date.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DateLayoutSpanish
	}
	return date.Format(layout)
}

// Normalize rewrites a date cell as DD/MM/YYYY. Serial numbers are
// converted; text that is not a date is returned trimmed and unchanged.
func Normalize(dateStr string) string {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return ""
	}
	if t, _, err := ParseDate(clean); err == nil {
		return FormatDate(t, DateLayoutSpanish)
	}
	if t, err := FromExcelSerial(clean); err == nil {
		return FormatDate(t, DateLayoutSpanish)
	}
	return clean
}
