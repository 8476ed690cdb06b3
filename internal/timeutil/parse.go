// Package timeutil provides timestamp parsing for heterogeneous date formats
// and period (time bucket) generation for interval queries.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ParseError indicates that no recognized format matched the input.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized time format: %q", e.Input)
}

// isoLayouts are tried first. ISO-8601 strings round-trip to the same
// instant regardless of which variant matched.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// explicitLayouts are tried in order after the ISO variants. Order is the
// tie-break for ambiguous inputs: YMD before DMY before MDY.
var explicitLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006-01-02 15:04:05Z",
}

// Parse parses a timestamp from heterogeneous date/time formats, including
// relative terms ("today", "last week"), resolved against the current moment.
func Parse(text string) (time.Time, error) {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit reference moment for relative terms.
// Match order: ISO-8601, then explicit layouts in listed order, then the
// relative vocabulary. Unmatched input is a hard failure, never a guess.
func ParseAt(text string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, &ParseError{Input: text}
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	for _, layout := range explicitLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	if t, ok := parseRelative(trimmed, now); ok {
		return t, nil
	}

	return time.Time{}, &ParseError{Input: text}
}

// parseRelative resolves the fixed relative vocabulary against midnight of
// the reference moment. "last month"/"next month" approximate a month as
// 30 days.
func parseRelative(text string, now time.Time) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(text) {
	case "today":
		return midnight, true
	case "yesterday":
		return midnight.AddDate(0, 0, -1), true
	case "tomorrow":
		return midnight.AddDate(0, 0, 1), true
	case "last week":
		return midnight.AddDate(0, 0, -7), true
	case "next week":
		return midnight.AddDate(0, 0, 7), true
	case "last month":
		return midnight.AddDate(0, 0, -30), true
	case "next month":
		return midnight.AddDate(0, 0, 30), true
	}
	return time.Time{}, false
}
