package main

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SheetDate is the canonical calendar date used for all equality and
// ordering in the pipeline. Two dates are equal iff year, month and day all
// match, so the zero value never equals a real date.
type SheetDate struct {
	Year  int
	Month time.Month
	Day   int
}

// serialDateThreshold guards the spreadsheet serial-number heuristic: only
// bare integers above it are treated as days since the sheet epoch
// (30 Dec 1899). 40000 corresponds to mid-2009.
const serialDateThreshold = 40000

var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// sheetDateLayouts is tried in order; the first strict parse wins.
var sheetDateLayouts = []string{
	"02-Jan-2006",
	"02/01/2006",
	"2006-01-02",
	"02-Jan-06",
	"02-Jan-2006 15:04:05",
}

func dateOf(t time.Time) SheetDate {
	return SheetDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d SheetDate) IsZero() bool {
	return d == SheetDate{}
}

func (d SheetDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d SheetDate) Before(other SheetDate) bool {
	return d.Time().Before(other.Time())
}

func (d SheetDate) String() string {
	return d.Time().Format("02-Jan-2006")
}

// monthKey buckets a date by calendar month, e.g. "Feb-2024".
func (d SheetDate) monthKey() string {
	return d.Time().Format("Jan-2006")
}

// normalizeSheetDate converts a raw sheet cell into a canonical date.
// Spreadsheet serial numbers, then the known string layouts, are tried in
// turn; anything else reports false so callers fall through to non-date
// handling.
func normalizeSheetDate(raw string) (SheetDate, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SheetDate{}, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= serialDateThreshold {
			return SheetDate{}, false
		}
		return dateOf(sheetEpoch.AddDate(0, 0, n)), true
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateOf(t), true
		}
	}
	return SheetDate{}, false
}

var queryDateRe = regexp.MustCompile(`(\d{1,2})\s*(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var relativeDayTokens = map[string]int{
	"today": 0, "aj": 0,
	"yesterday": -1, "kal": -1,
	"porshu": -2,
}

// parseQueryDate resolves a date mentioned in a query: the relative
// keywords today/aj, yesterday/kal and porshu (day before yesterday), or a
// "15 feb" style fragment. Relative keywords match as whole tokens only so
// a party named "ajanta" is not read as today. A partial date defaults to
// the current year unless that would land in the future, in which case the
// previous year is used: "5 jan" asked in December means last January,
// not next.
func parseQueryDate(q string, now time.Time) (SheetDate, bool) {
	q = strings.ToLower(q)
	for _, tok := range strings.Fields(q) {
		if offset, ok := relativeDayTokens[tok]; ok {
			return dateOf(now.AddDate(0, 0, offset)), true
		}
	}

	m := queryDateRe.FindStringSubmatch(q)
	if m == nil {
		return SheetDate{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return SheetDate{}, false
	}
	d := SheetDate{Year: now.Year(), Month: monthIndex[m[2]], Day: day}
	if d.Time().After(now) {
		d.Year--
	}
	return d, true
}
