package source

import (
	"fmt"
	"strings"
	"time"

	"day-planner-service/internal/domain"
)

// DateParseError reports a deadline value no known format matched.
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unrecognized date value %q", e.Value)
}

// Source rows arrive with whatever date format the spreadsheet produced.
// ISO first, then the locale formats seen in practice.
var deadlineFormats = []string{
	time.DateOnly,
	"02/01/2006",
	"01/02/2006",
	"Monday, January 2, 2006",
}

// ParseDeadline parses a deadline cell into a calendar date. The core only
// ever sees normalized dates; all format tolerance lives here.
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &DateParseError{Value: value}
	}

	for _, layout := range deadlineFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return domain.DateOnly(t), nil
		}
	}
	return time.Time{}, &DateParseError{Value: value}
}
