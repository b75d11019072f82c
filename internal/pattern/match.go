package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taurgis/mcpconform/internal/value"
)

// Clock returns the current time; the date-age primitive consumes an
// injected clock so validator tests stay deterministic. The zero
// value of Options defaults to time.Now.
type Clock func() time.Time

// Options carries call-scoped configuration for Match, currently just
// the injectable clock. Kept as a struct, not a package global, since
// debug/clock state must be threaded as a parameter.
type Options struct {
	Now Clock
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Match dispatches a parsed Token against an actual Value and reports
// the primitive's boolean result plus an error only when the body is
// malformed in a way that prevents any judgment (callers still receive
// a definite bool for diagnostic purposes — false on malformed input).
// Negation is applied after dispatch, so a malformed
// body's "false" is not flipped to a misleading "true".
func Match(tok Token, actual value.Value, opts Options) (bool, error) {
	result, err := dispatch(tok, actual, opts)
	if tok.Negated {
		return !result, err
	}
	return result, err
}

func dispatch(tok Token, actual value.Value, opts Options) (bool, error) {
	switch tok.Kind {
	case KindType:
		return matchType(tok, actual)
	case KindExists:
		return actual.Kind() != value.KindNull, nil
	case KindCount:
		return matchCount(tok, actual)

	case KindContains:
		return stringOp(tok, actual, func(s, arg string) bool { return strings.Contains(s, arg) })
	case KindStartsWith:
		return stringOp(tok, actual, strings.HasPrefix)
	case KindEndsWith:
		return stringOp(tok, actual, strings.HasSuffix)
	case KindContainsIgnoreCase:
		return stringOp(tok, actual, func(s, arg string) bool {
			return strings.Contains(strings.ToLower(s), strings.ToLower(arg))
		})
	case KindEqualsIgnoreCase:
		return stringOp(tok, actual, func(s, arg string) bool {
			return strings.EqualFold(s, arg)
		})
	case KindRegex:
		return matchRegexOnActual(tok, actual)
	case KindLength:
		return matchLength(tok, actual)

	case KindStringLength:
		return stringLengthCompare(tok, actual, func(n, target int) bool { return n == target })
	case KindStringLengthGT:
		return stringLengthCompare(tok, actual, func(n, target int) bool { return n > target })
	case KindStringLengthLT:
		return stringLengthCompare(tok, actual, func(n, target int) bool { return n < target })
	case KindStringLengthGTE:
		return stringLengthCompare(tok, actual, func(n, target int) bool { return n >= target })
	case KindStringLengthLTE:
		return stringLengthCompare(tok, actual, func(n, target int) bool { return n <= target })
	case KindStringLengthBetween:
		return matchStringLengthBetween(tok, actual)
	case KindStringEmpty:
		return actual.Kind() == value.KindString && len(actual.String()) == 0, nil
	case KindStringNotEmpty:
		return actual.Kind() == value.KindString && len(actual.String()) > 0, nil

	case KindArrayLength:
		return matchArrayLength(tok, actual)
	case KindArrayContains:
		return matchArrayContains(tok, actual)

	case KindGreaterThan:
		return numericCompare(tok, actual, func(a, b float64) bool { return a > b })
	case KindGreaterThanOrEqual:
		return numericCompare(tok, actual, func(a, b float64) bool { return a >= b })
	case KindLessThan:
		return numericCompare(tok, actual, func(a, b float64) bool { return a < b })
	case KindLessThanOrEqual:
		return numericCompare(tok, actual, func(a, b float64) bool { return a <= b })
	case KindEquals:
		return numericCompare(tok, actual, func(a, b float64) bool { return a == b })
	case KindNotEquals:
		return numericCompare(tok, actual, func(a, b float64) bool { return a != b })
	case KindBetween:
		return matchBetween(tok, actual)
	case KindApproximately:
		return matchApproximately(tok, actual)
	case KindMultipleOf:
		return matchMultipleOf(tok, actual)
	case KindDecimalPlaces:
		return matchDecimalPlaces(tok, actual)

	case KindDateValid:
		_, ok := ParseDate(valueAsString(actual))
		return ok, nil
	case KindDateAfter:
		return matchDateCompare(tok, actual, func(a, b time.Time) bool { return a.After(b) })
	case KindDateBefore:
		return matchDateCompare(tok, actual, func(a, b time.Time) bool { return a.Before(b) })
	case KindDateBetween:
		return matchDateBetween(tok, actual)
	case KindDateEquals:
		return matchDateCompare(tok, actual, func(a, b time.Time) bool { return a.Equal(b) })
	case KindDateAge:
		return matchDateAge(tok, actual, opts)
	case KindDateFormat:
		return matchDateFormat(tok, actual)

	case KindDefault:
		return matchDefault(tok, actual)
	}
	return false, fmt.Errorf("unrecognized pattern kind %v", tok.Kind)
}

func valueAsString(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		return v.String()
	case value.KindNumber:
		return strconv.FormatFloat(v.Number(), 'f', -1, 64)
	case value.KindBool:
		return strconv.FormatBool(v.Bool())
	default:
		return ""
	}
}

func matchType(tok Token, actual value.Value) (bool, error) {
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("type: pattern missing type argument")
	}
	want := NormalizeTypeName(tok.Args[0])
	switch want {
	case "array":
		return actual.Kind() == value.KindArray, nil
	case "object":
		return actual.Kind() == value.KindObject, nil
	case "string":
		return actual.Kind() == value.KindString, nil
	case "number":
		return actual.Kind() == value.KindNumber, nil
	case "boolean":
		return actual.Kind() == value.KindBool, nil
	case "null":
		return actual.Kind() == value.KindNull, nil
	default:
		return false, fmt.Errorf("type: unrecognized type name %q", tok.Args[0])
	}
}

func matchCount(tok Token, actual value.Value) (bool, error) {
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("count: missing argument")
	}
	n, err := strconv.Atoi(strings.TrimSpace(tok.Args[0]))
	if err != nil {
		return false, fmt.Errorf("count: malformed argument %q", tok.Args[0])
	}
	return actual.Len() == n, nil
}

func stringOp(tok Token, actual value.Value, op func(s, arg string) bool) (bool, error) {
	if actual.Kind() != value.KindString {
		return false, nil
	}
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("string pattern missing argument")
	}
	arg := strings.Join(tok.Args, ":")
	return op(actual.String(), arg), nil
}

func matchRegexOnActual(tok Token, actual value.Value) (bool, error) {
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("regex: missing pattern")
	}
	re, err := CompileRegex(strings.Join(tok.Args, ":"))
	if err != nil {
		return false, fmt.Errorf("regex: malformed pattern: %w", err)
	}
	if actual.Kind() == value.KindArray {
		for _, el := range actual.Array() {
			if el.Kind() == value.KindString && re.MatchString(el.String()) {
				return true, nil
			}
		}
		return false, nil
	}
	if actual.Kind() != value.KindString {
		return false, nil
	}
	return re.MatchString(actual.String()), nil
}

func matchLength(tok Token, actual value.Value) (bool, error) {
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("length: missing argument")
	}
	n, err := strconv.Atoi(strings.TrimSpace(tok.Args[0]))
	if err != nil {
		return false, fmt.Errorf("length: malformed argument %q", tok.Args[0])
	}
	switch actual.Kind() {
	case value.KindString:
		return len(actual.String()) == n, nil
	case value.KindArray, value.KindObject:
		return actual.Len() == n, nil
	default:
		return false, nil
	}
}

func stringLengthCompare(tok Token, actual value.Value, cmp func(n, target int) bool) (bool, error) {
	if actual.Kind() != value.KindString {
		return false, nil
	}
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("stringLength pattern missing argument")
	}
	target, err := strconv.Atoi(strings.TrimSpace(tok.Args[0]))
	if err != nil {
		return false, fmt.Errorf("stringLength pattern malformed argument %q", tok.Args[0])
	}
	return cmp(len(actual.String()), target), nil
}

func matchStringLengthBetween(tok Token, actual value.Value) (bool, error) {
	if actual.Kind() != value.KindString {
		return false, nil
	}
	if len(tok.Args) < 2 {
		return false, fmt.Errorf("stringLengthBetween: requires min:max")
	}
	min, errMin := strconv.Atoi(strings.TrimSpace(tok.Args[0]))
	max, errMax := strconv.Atoi(strings.TrimSpace(tok.Args[1]))
	if errMin != nil || errMax != nil {
		return false, fmt.Errorf("stringLengthBetween: malformed bounds %q:%q", tok.Args[0], tok.Args[1])
	}
	if min > max {
		return false, fmt.Errorf("stringLengthBetween: reversed bounds %d:%d", min, max)
	}
	n := len(actual.String())
	return n >= min && n <= max, nil
}

func matchArrayLength(tok Token, actual value.Value) (bool, error) {
	if actual.Kind() != value.KindArray {
		return false, nil
	}
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("arrayLength: missing argument")
	}
	n, err := strconv.Atoi(strings.TrimSpace(tok.Args[0]))
	if err != nil {
		return false, fmt.Errorf("arrayLength: malformed argument %q", tok.Args[0])
	}
	return len(actual.Array()) == n, nil
}

// matchArrayContains supports both the simple-scalar form
// (`arrayContains:<v>`) and the `<field-path>:<v>` form for mapping
// elements. The field-path variant is resolved against each element
// with a plain key lookup (single-segment only; the full field-path
// grammar lives in internal/fieldpath and is not re-entered here to
// avoid an import cycle — callers needing wildcard/dotted paths inside
// arrayContains should use match:extractField instead).
func matchArrayContains(tok Token, actual value.Value) (bool, error) {
	if actual.Kind() != value.KindArray {
		return false, nil
	}
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("arrayContains: missing argument")
	}
	if len(tok.Args) >= 2 {
		field := tok.Args[0]
		want := strings.Join(tok.Args[1:], ":")
		for _, el := range actual.Array() {
			if el.Kind() != value.KindObject {
				continue
			}
			fv, ok := el.Object().Get(field)
			if !ok {
				continue
			}
			if valueAsString(fv) == want {
				return true, nil
			}
		}
		return false, nil
	}
	want := tok.Args[0]
	for _, el := range actual.Array() {
		if valueAsString(el) == want {
			return true, nil
		}
	}
	return false, nil
}

func numericActual(actual value.Value) (float64, bool) {
	if actual.Kind() != value.KindNumber {
		return 0, false
	}
	return actual.Number(), true
}

func numericCompare(tok Token, actual value.Value, cmp func(a, b float64) bool) (bool, error) {
	n, ok := numericActual(actual)
	if !ok {
		return false, nil
	}
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("numeric pattern missing argument")
	}
	target, ok := parseFloat(tok.Args[0])
	if !ok {
		return false, fmt.Errorf("numeric pattern malformed argument %q", tok.Args[0])
	}
	return cmp(n, target), nil
}

func matchBetween(tok Token, actual value.Value) (bool, error) {
	n, ok := numericActual(actual)
	if !ok {
		return false, nil
	}
	if len(tok.Args) < 2 {
		return false, fmt.Errorf("between: requires min:max")
	}
	min, okMin := parseFloat(tok.Args[0])
	max, okMax := parseFloat(tok.Args[1])
	if !okMin || !okMax {
		return false, fmt.Errorf("between: malformed bounds %q:%q", tok.Args[0], tok.Args[1])
	}
	if min > max {
		return false, fmt.Errorf("between_reversed: %v > %v", min, max)
	}
	return n >= min && n <= max, nil
}

func matchApproximately(tok Token, actual value.Value) (bool, error) {
	n, ok := numericActual(actual)
	if !ok {
		return false, nil
	}
	if len(tok.Args) < 2 {
		return false, fmt.Errorf("approximately: requires target:tolerance")
	}
	target, okT := parseFloat(tok.Args[0])
	tol, okTol := parseFloat(tok.Args[1])
	if !okT || !okTol {
		return false, fmt.Errorf("approximately: malformed arguments %q:%q", tok.Args[0], tok.Args[1])
	}
	diff := n - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol, nil
}

func matchMultipleOf(tok Token, actual value.Value) (bool, error) {
	n, ok := numericActual(actual)
	if !ok {
		return false, nil
	}
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("multipleOf: missing divisor")
	}
	d, ok := parseFloat(tok.Args[0])
	if !ok {
		return false, fmt.Errorf("multipleOf: malformed divisor %q", tok.Args[0])
	}
	if d == 0 {
		return false, fmt.Errorf("multipleOf_malformed: zero divisor")
	}
	quotient := n / d
	return quotient == float64(int64(quotient)), nil
}

func matchDecimalPlaces(tok Token, actual value.Value) (bool, error) {
	n, ok := numericActual(actual)
	if !ok {
		return false, nil
	}
	if len(tok.Args) == 0 {
		return false, fmt.Errorf("decimalPlaces: missing argument")
	}
	want, err := strconv.Atoi(strings.TrimSpace(tok.Args[0]))
	if err != nil {
		return false, fmt.Errorf("decimalPlaces: malformed argument %q", tok.Args[0])
	}
	s := strconv.FormatFloat(n, 'f', -1, 64)
	idx := strings.IndexByte(s, '.')
	got := 0
	if idx >= 0 {
		got = len(s) - idx - 1
	}
	return got == want, nil
}

func matchDefault(tok Token, actual value.Value) (bool, error) {
	body := strings.Join(tok.Args, ":")
	if actual.Kind() != value.KindString {
		return false, nil
	}
	if looksLikeRegex(body) {
		re, err := CompileRegex(body)
		if err != nil {
			return false, fmt.Errorf("default pattern: malformed regex %q: %w", body, err)
		}
		return re.MatchString(actual.String()), nil
	}
	return strings.Contains(actual.String(), body), nil
}
