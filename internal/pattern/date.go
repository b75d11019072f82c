package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taurgis/mcpconform/internal/value"
)

// dateLayouts is the finite list of accepted ISO-8601-ish layouts. The
// cross-field predicate's "is this string date-like" check reuses the
// same set via looksDateShaped.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
}

// ParseDate accepts ISO-8601 strings, epoch seconds (<=1e10), and
// epoch milliseconds.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n <= 1e10 {
			return time.Unix(int64(n), 0).UTC(), true
		}
		ms := int64(n)
		return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)).UTC(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// LooksDateShaped is used by the cross-field operand coercion (in
// internal/validator) to decide whether two operand strings should be
// compared as dates rather than lexically.
func LooksDateShaped(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

func matchDateCompare(tok Token, actual value.Value, cmp func(a, b time.Time) bool) (bool, error) {
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("date pattern missing argument")
	}
	ref, ok := ParseDate(strings.Join(tok.Args, ":"))
	if !ok {
		return false, fmt.Errorf("date pattern malformed reference %q", strings.Join(tok.Args, ":"))
	}
	act, ok := ParseDate(valueAsString(actual))
	if !ok {
		return false, nil
	}
	return cmp(act, ref), nil
}

func matchDateBetween(tok Token, actual value.Value) (bool, error) {
	if len(tok.Args) < 2 {
		return false, fmt.Errorf("dateBetween: requires start:end")
	}
	start, okStart := ParseDate(tok.Args[0])
	end, okEnd := ParseDate(tok.Args[1])
	if !okStart || !okEnd {
		return false, fmt.Errorf("dateBetween: malformed bounds %q:%q", tok.Args[0], tok.Args[1])
	}
	if start.After(end) {
		return false, fmt.Errorf("dateBetween_reversed: %v after %v", start, end)
	}
	act, ok := ParseDate(valueAsString(actual))
	if !ok {
		return false, nil
	}
	return !act.Before(start) && !act.After(end), nil
}

func matchDateAge(tok Token, actual value.Value, opts Options) (bool, error) {
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("dateAge: missing duration")
	}
	dur, err := parseAgeDuration(tok.Args[0])
	if err != nil {
		return false, fmt.Errorf("dateAge: %w", err)
	}
	act, ok := ParseDate(valueAsString(actual))
	if !ok {
		return false, nil
	}
	age := opts.now().Sub(act)
	return age <= dur, nil
}

// parseAgeDuration parses "<int>(ms|s|m|h|d)".
func parseAgeDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	units := []struct {
		suffix string
		unit   time.Duration
	}{
		{"ms", time.Millisecond},
		{"s", time.Second},
		{"m", time.Minute},
		{"h", time.Hour},
		{"d", 24 * time.Hour},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			numStr := strings.TrimSuffix(s, u.suffix)
			n, err := strconv.Atoi(numStr)
			if err != nil {
				return 0, fmt.Errorf("malformed duration %q", s)
			}
			return time.Duration(n) * u.unit, nil
		}
	}
	return 0, fmt.Errorf("unrecognized duration unit in %q", s)
}

func matchDateFormat(tok Token, actual value.Value) (bool, error) {
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("dateFormat: missing token")
	}
	if actual.Kind() != value.KindString {
		return false, nil
	}
	s := actual.String()
	switch tok.Args[0] {
	case "iso":
		_, err := time.Parse(time.RFC3339, s)
		return err == nil, nil
	case "iso-date":
		_, err := time.Parse("2006-01-02", s)
		return err == nil, nil
	case "iso-time":
		_, err := time.Parse("15:04:05", s)
		return err == nil, nil
	case "us-date":
		_, err := time.Parse("01/02/2006", s)
		return err == nil, nil
	case "eu-date":
		_, err := time.Parse("02/01/2006", s)
		return err == nil, nil
	case "timestamp":
		_, err := strconv.ParseFloat(s, 64)
		return err == nil, nil
	default:
		return false, fmt.Errorf("dateFormat: unsupported token %q", tok.Args[0])
	}
}
