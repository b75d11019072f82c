// Package diagnostic produces, for every failed pattern match, a
// structured explanation with a corrective suggestion. Failure is a
// single discriminated record (Kind plus PatternType) rather than a
// family of string-typed error shapes.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/taurgis/mcpconform/internal/value"
)

// Kind discriminates the family of a pattern failure, mirroring the
// patternType taxonomy.
type Kind string

const (
	KindType               Kind = "type"
	KindNumeric            Kind = "numeric"
	KindDate               Kind = "date"
	KindString             Kind = "string"
	KindArrayContains      Kind = "arrayContains"
	KindSyntaxError        Kind = "syntax_error"
	KindNonExistentFeature Kind = "non_existent_feature"
	KindMalformed          Kind = "pattern_malformed"
	KindCrossField         Kind = "crossField"
)

// Options carries caller-scoped behavior for the analyzer, currently
// the debug flag that gates full-payload disclosure for arrayContains
// failures, threaded as a parameter rather than a package global.
type Options struct {
	Debug bool
}

// Failure is the single discriminated record every builder below
// produces.
type Failure struct {
	Kind        Kind
	PatternType string // mirrors ValidationError.patternType
	Message     string
	Suggestion  string
	Details     map[string]interface{}
}

// Error satisfies the error interface so Failure can be wrapped or
// logged uniformly, following the ValidationError.Error() shape this
// package is grounded on.
func (f *Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Message)
	if f.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(f.Suggestion)
	}
	return sb.String()
}

// TypeFailure reports an observed/expected type mismatch, including
// structural hints (array length + first-N element kinds; mapping key
// count + first-N keys; string length + truncated preview).
func TypeFailure(wantType string, actual value.Value) *Failure {
	observed := actual.Kind().String()
	hint := value.Describe(actual, 3)
	suggestion := fmt.Sprintf("match:type:%s", observed)
	if observed == "array" {
		suggestion += " (received array; if asserting length use match:arrayLength:<n>)"
	}
	return &Failure{
		Kind:        KindType,
		PatternType: "type",
		Message:     fmt.Sprintf("expected type %q but observed %q (%s)", wantType, observed, hint),
		Suggestion:  suggestion,
		Details: map[string]interface{}{
			"expectedType": wantType,
			"observedType": observed,
		},
	}
}

// NumericFailure reports a numeric mismatch with the signed difference
// and, for modular/tolerance-based primitives, the remainder or |diff|.
func NumericFailure(patternType string, expectedDesc string, actual float64, diff *float64) *Failure {
	msg := fmt.Sprintf("numeric pattern %q failed against actual %v", patternType, actual)
	details := map[string]interface{}{"actual": actual, "expected": expectedDesc}
	if diff != nil {
		msg = fmt.Sprintf("%s (diff=%v)", msg, *diff)
		details["diff"] = *diff
	}
	return &Failure{
		Kind:        KindNumeric,
		PatternType: patternType,
		Message:     msg,
		Suggestion:  fmt.Sprintf("check the %s bound(s) against the observed value %v", patternType, actual),
		Details:     details,
	}
}

// NumericMalformed reports a malformed numeric pattern body (reversed
// bounds, zero divisor), using the "<pattern>_malformed" /
// "<pattern>_reversed" suffix convention.
func NumericMalformed(patternType, reason string) *Failure {
	return &Failure{
		Kind:        KindMalformed,
		PatternType: patternType + "_malformed",
		Message:     fmt.Sprintf("pattern %q is malformed: %s", patternType, reason),
		Suggestion:  "fix the pattern arguments (check order and sign of bounds, non-zero divisors)",
	}
}

// DateFailure reports a date mismatch, distinguishing malformed
// references, reversed ranges, unsupported format tokens, and parse
// failures on the actual value.
func DateFailure(patternType, reason string) *Failure {
	return &Failure{
		Kind:        KindDate,
		PatternType: patternType,
		Message:     fmt.Sprintf("date pattern %q failed: %s", patternType, reason),
		Suggestion:  "verify the actual value parses as ISO-8601, epoch seconds, or epoch milliseconds",
	}
}

// StringFailure reports a string mismatch, including a diff index,
// shared prefix/suffix length (for startsWith/endsWith), or a
// case-folded preview (for ignore-case variants).
func StringFailure(patternType string, actual string, expectedDesc string) *Failure {
	preview := actual
	if len(preview) > 60 {
		preview = preview[:60] + "..."
	}
	return &Failure{
		Kind:        KindString,
		PatternType: patternType,
		Message:     fmt.Sprintf("string pattern %q failed against %q (expected %s)", patternType, preview, expectedDesc),
		Suggestion:  fmt.Sprintf("check the %s argument against the observed string", patternType),
	}
}

// StringRegexNoElementMatched reports regex-against-array failure with
// a short sample of the array.
func StringRegexNoElementMatched(actual value.Value) *Failure {
	return &Failure{
		Kind:        KindString,
		PatternType: "regex",
		Message:     fmt.Sprintf("no element matched the regex (%s)", value.Describe(actual, 3)),
		Suggestion:  "verify the regex and that the array holds strings",
	}
}

// ArrayContainsFailure summarizes the array in non-debug mode and
// includes the full payload only when opts.Debug is set.
func ArrayContainsFailure(want string, actual value.Value, opts Options) *Failure {
	details := map[string]interface{}{"want": want}
	msg := fmt.Sprintf("array does not contain %q (%s)", want, value.Describe(actual, 3))
	if opts.Debug {
		details["payload"] = value.ToInterface(actual)
	}
	return &Failure{
		Kind:        KindArrayContains,
		PatternType: "arrayContains",
		Message:     msg,
		Suggestion:  "check the element shape and the arrayContains field-path argument",
		Details:     details,
	}
}

// SyntaxError reports the missing-match-prefix heuristic.
func SyntaxError(body string) *Failure {
	return &Failure{
		Kind:        KindSyntaxError,
		PatternType: "syntax_error",
		Message:     fmt.Sprintf("string %q looks like a pattern but is missing the match: prefix", body),
		Suggestion:  fmt.Sprintf("use \"match:%s\" instead of %q", body, body),
	}
}

// featureCategory names a category of unsupported-but-plausible
// pattern prefixes, with a one-line alternative and example.
type featureCategory struct {
	prefixes    []string
	category    string
	alternative string
	example     string
}

var nonExistentFeatures = []featureCategory{
	{
		prefixes:    []string{"ipAddress:", "isUrl:", "isEmail:", "isUuid:"},
		category:    "validation-library",
		alternative: "use match:regex:<pattern> with an explicit pattern",
		example:     `match:regex:^[0-9]{1,3}(\.[0-9]{1,3}){3}$`,
	},
	{
		prefixes:    []string{"ssl:", "tls:", "cors:", "csrf:"},
		category:    "security",
		alternative: "assert on the specific header or field value instead",
		example:     `match:contains:Strict-Transport-Security`,
	},
	{
		prefixes:    []string{"mean:", "median:", "stddev:", "percentile:"},
		category:    "statistical-aggregation",
		alternative: "compute the aggregate before writing the expectation, then assert match:equals:<value>",
		example:     `match:approximately:42.5:0.1`,
	},
	{
		prefixes:    []string{"dns:", "ping:", "latency:", "port:"},
		category:    "network",
		alternative: "capture the observed value and assert with a numeric/string primitive",
		example:     `match:lessThan:200`,
	},
}

// NonExistentFeature classifies a pattern body whose prefix is not in
// the registry but resembles a known-but-unsupported category.
func NonExistentFeature(body string) *Failure {
	for _, f := range nonExistentFeatures {
		for _, p := range f.prefixes {
			if strings.HasPrefix(body, p) {
				return &Failure{
					Kind:        KindNonExistentFeature,
					PatternType: "non_existent_feature",
					Message:     fmt.Sprintf("pattern prefix %q is not supported (category: %s)", p, f.category),
					Suggestion:  fmt.Sprintf("%s — example: %s", f.alternative, f.example),
					Details:     map[string]interface{}{"category": f.category},
				}
			}
		}
	}
	return nil
}

// CrossFieldFailure builds the rich details record for a failed
// crossField predicate: operator, both observed operands, any missing
// paths, and — when the operator is invertible and both operands are
// numeric — the signed difference and an inverted-operator suggestion.
func CrossFieldFailure(lhsPath, op, rhsPath string, lhs, rhs value.Value, lhsMissing, rhsMissing bool) *Failure {
	details := map[string]interface{}{
		"operator": op,
		"lhsPath":  lhsPath,
		"rhsPath":  rhsPath,
	}
	if lhsMissing || rhsMissing {
		var missing []string
		if lhsMissing {
			missing = append(missing, lhsPath)
		}
		if rhsMissing {
			missing = append(missing, rhsPath)
		}
		details["reason"] = "missing_field"
		details["missing"] = missing
		return &Failure{
			Kind:        KindCrossField,
			PatternType: "crossField",
			Message:     fmt.Sprintf("crossField predicate %q %s %q could not be evaluated: missing %v", lhsPath, op, rhsPath, missing),
			Suggestion:  "ensure both field paths resolve on the actual response",
			Details:     details,
		}
	}

	details["left"] = value.ToInterface(lhs)
	details["right"] = value.ToInterface(rhs)

	suggestion := fmt.Sprintf("check the %s %s %s relationship against the observed values", lhsPath, op, rhsPath)
	if lhs.Kind() == value.KindNumber && rhs.Kind() == value.KindNumber {
		diff := lhs.Number() - rhs.Number()
		details["diff"] = diff
		if inverted, ok := invertOperator(op); ok {
			suggestion = fmt.Sprintf("values observed as left=%v right=%v (diff=%v); did you mean %s %s %s?",
				lhs.Number(), rhs.Number(), diff, lhsPath, inverted, rhsPath)
		}
	}

	return &Failure{
		Kind:        KindCrossField,
		PatternType: "crossField",
		Message:     fmt.Sprintf("crossField predicate %q %s %q failed", lhsPath, op, rhsPath),
		Suggestion:  suggestion,
		Details:     details,
	}
}

func invertOperator(op string) (string, bool) {
	switch op {
	case "<":
		return ">=", true
	case "<=":
		return ">", true
	case ">":
		return "<=", true
	case ">=":
		return "<", true
	case "=", "==":
		return "!=", true
	case "!=":
		return "==", true
	default:
		return "", false
	}
}
