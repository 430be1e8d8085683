// Package period derives canonical `YYYY-MM` / `YYYY-MM-DD` keys from the loosely
// formatted dates found in report labels and filenames.
package period

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognized is wrapped by every ParseError.
var ErrUnrecognized = errors.New("unrecognized period")

type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse period %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrUnrecognized
}

// Key is a reporting period, Day is 0 for monthly periods.
type Key struct {
	Year  int
	Month time.Month
	Day   int
}

func Month(year int, month time.Month) Key {
	return Key{Year: year, Month: month}
}

// LastDayOfMonth returns the day key of the last day in the given month.
func LastDayOfMonth(year int, month time.Month) Key {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return Key{Year: last.Year(), Month: last.Month(), Day: last.Day()}
}

func (k Key) String() string {
	if k.Day == 0 {
		return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Filename is the key followed by an extension, ex. `2022-04.pdf`.
func (k Key) Filename(ext string) string {
	return k.String() + ext
}

// Time is midnight UTC of the period's day, or of the first of the month.
func (k Key) Time() time.Time {
	day := k.Day
	if day == 0 {
		day = 1
	}
	return time.Date(k.Year, k.Month, day, 0, 0, 0, 0, time.UTC)
}

var months = map[string]time.Month{}

func init() {
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		months[name] = m
		months[name[:3]] = m
	}
	// shows up in a handful of historical tcjs filenames
	months["sept"] = time.September
}

// ParseMonthName accepts full names, three letter abbreviations and "Sept", ignoring case.
func ParseMonthName(name string) (time.Month, error) {
	m, ok := months[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, &ParseError{Input: name, Reason: "unknown month name"}
	}
	return m, nil
}

// parseYear reads a 4 digit year.
func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return 0, &ParseError{Input: s, Reason: "year must have 4 digits"}
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "year is not a number"}
	}
	return year, nil
}

// ParseMonthYear parses labels like "April 2022" or "Apr 2022".
func ParseMonthYear(label string) (Key, error) {
	fields := strings.Fields(label)
	if len(fields) != 2 {
		return Key{}, &ParseError{Input: label, Reason: "expected <month> <year>"}
	}
	month, err := ParseMonthName(fields[0])
	if err != nil {
		return Key{}, &ParseError{Input: label, Reason: "unknown month name"}
	}
	year, err := parseYear(fields[1])
	if err != nil {
		return Key{}, &ParseError{Input: label, Reason: "invalid year"}
	}
	return Month(year, month), nil
}

var reportWord = regexp.MustCompile(`(?i)report`)

// ParseReportLabel parses labels like "April 2022 Report".
func ParseReportLabel(label string) (Key, error) {
	key, err := ParseMonthYear(reportWord.ReplaceAllString(label, ""))
	if err != nil {
		return Key{}, &ParseError{Input: label, Reason: "expected <month> <year> report"}
	}
	return key, nil
}

// ParseTCJSHref derives the period from the two url shapes on the tcjs
// historical reports page:
//
//	.../uploads/2019/05/Abbreviated-Pop-Rpt-May-2019.pdf
//	.../uploads/2021/03/AbbreRptCurrent.pdf
func ParseTCJSHref(href string) (Key, error) {
	p := href
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	switch {
	case strings.Contains(p, "Abbreviated"):
		name := strings.TrimSuffix(path.Base(p), ".pdf")
		name = strings.ReplaceAll(name, "_", "-")
		fields := strings.Split(name, "-")
		if len(fields) < 2 {
			return Key{}, &ParseError{Input: href, Reason: "filename has no month and year"}
		}
		month, err := ParseMonthName(fields[len(fields)-2])
		if err != nil {
			return Key{}, &ParseError{Input: href, Reason: "unknown month name in filename"}
		}
		yearPart := fields[len(fields)-1]
		// some historical filenames carry a stray fifth digit, "December-20195"
		if len(yearPart) == 5 {
			yearPart = yearPart[:4]
		}
		year, err := parseYear(yearPart)
		if err != nil {
			return Key{}, &ParseError{Input: href, Reason: "invalid year in filename"}
		}
		return Month(year, month), nil

	case strings.Contains(p, "AbbreRptCurrent"):
		dir := path.Dir(p)
		monthPart := path.Base(dir)
		yearPart := path.Base(path.Dir(dir))
		year, err := parseYear(yearPart)
		if err != nil {
			return Key{}, &ParseError{Input: href, Reason: "invalid year in upload path"}
		}
		month, err := strconv.Atoi(monthPart)
		if err != nil || month < 1 || month > 12 {
			return Key{}, &ParseError{Input: href, Reason: "invalid month in upload path"}
		}
		return Month(year, time.Month(month)), nil
	}

	return Key{}, &ParseError{Input: href, Reason: "unknown report filename"}
}
