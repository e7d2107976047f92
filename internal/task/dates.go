package task

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/markusmobius/go-dateparser"
)

// DisplayDate is the layout used when showing due dates.
const DisplayDate = "Jan 02, 2006"

// ParseDueDate turns user input into an ISO date. ISO input is accepted as-is;
// anything else ("tomorrow", "next friday", "12 march") goes through the
// natural-language parser relative to now.
func ParseDueDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", &ValidationError{Kind: MissingDate, Field: "date"}
	}
	if t, err := time.Parse(ISODate, input); err == nil {
		return t.Format(ISODate), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return "", &ValidationError{Kind: InvalidDate, Field: "date", Value: input}
	}
	return result.Time.Format(ISODate), nil
}

// Today returns now as an ISO date in now's location.
func Today(now time.Time) string {
	return now.Format(ISODate)
}

// FormatDisplayDate renders an ISO date as "Jan 02, 2006". Unparseable input
// is returned unchanged.
func FormatDisplayDate(iso string) string {
	t, err := time.Parse(ISODate, iso)
	if err != nil {
		return iso
	}
	return t.Format(DisplayDate)
}

// DueIn describes how far an ISO due date is from now's calendar day.
func DueIn(iso string, now time.Time) string {
	due, err := time.ParseInLocation(ISODate, iso, now.Location())
	if err != nil {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch days := int(due.Sub(today).Hours() / 24); days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	return humanize.RelTime(due, today, "ago", "from now")
}
