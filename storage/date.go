package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the user-facing due date format (dd/mm/yyyy)
	DateLayout = "02/01/2006"
	// ISODateLayout is the calendar date format used by the JSON export
	ISODateLayout = "2006-01-02"
)

var ErrInvalidDate = errors.New("invalid date")

// DateOf truncates t to its calendar date, expressed as midnight UTC.
// The year, month and day are taken in t's own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDueDate parses user-entered due date text in dd/mm/yyyy format.
// Empty (or whitespace-only) text means no due date and returns nil.
func ParseDueDate(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	d, err := time.Parse(DateLayout, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (use dd/mm/yyyy, e.g. 31/12/2026)", ErrInvalidDate, text)
	}
	d = DateOf(d)
	return &d, nil
}

// FormatDueDate renders a due date as dd/mm/yyyy, or "" when absent
func FormatDueDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}
