package syntax

import (
	"fmt"
	"strings"

	"github.com/taurgis/mcpconform/internal/pattern"
)

// misspellings maps a known-wrong token spelling (the part of a match:
// body up to its first colon, or the whole bare body) to its canonical
// replacement. Entries cover singular/plural slips and common typos
// seen in hand-authored suites.
var misspellings = map[string]string{
	"arrayElement":       "arrayElements",
	"arrayContain":       "arrayContains",
	"arrayContians":      "arrayContains",
	"contain":            "contains",
	"contians":           "contains",
	"startWith":          "startsWith",
	"endWith":            "endsWith",
	"greaterThen":        "greaterThan",
	"lessThen":           "lessThan",
	"greaterThenOrEqual": "greaterThanOrEqual",
	"lessThenOrEqual":    "lessThanOrEqual",
	"stringLenght":       "stringLength",
	"stringLenghts":      "stringLength",
	"aproximately":       "approximately",
	"approximatly":       "approximately",
	"dateValide":         "dateValid",
	"dateBeetween":       "dateBetween",
	"dateBeforee":        "dateBefore",
	"multipleof":         "multipleOf",
	"decimalPlace":       "decimalPlaces",
	"crossfield":         "crossField",
	"extractfield":       "extractField",
	"Exists":             "exists",
	"Contains":           "contains",
}

// operatorAliases maps a shorthand/symbolic comparison operator to the
// canonical pattern name it should resolve to.
var operatorAliases = map[string]string{
	"eq":  "equals",
	"ne":  "notEquals",
	"neq": "notEquals",
	"gt":  "greaterThan",
	"gte": "greaterThanOrEqual",
	"lt":  "lessThan",
	"lte": "lessThanOrEqual",
	"==":  "equals",
	"!=":  "notEquals",
	">":   "greaterThan",
	">=":  "greaterThanOrEqual",
	"<":   "lessThan",
	"<=":  "lessThanOrEqual",
}

// commaDelimited lists canonical prefixes whose arguments are
// positional and colon-separated, so a comma between them is a common
// transcription mistake from languages/tools that use comma-separated
// ranges.
var commaDelimited = map[string]bool{
	"between":             true,
	"range":               true,
	"dateBetween":         true,
	"stringLengthBetween": true,
}

func misspellingSuggestion(body string) (Suggestion, bool) {
	head := body
	if idx := strings.Index(body, ":"); idx >= 0 {
		head = body[:idx]
	}
	canonical, ok := misspellings[head]
	if !ok {
		return Suggestion{}, false
	}
	corrected := canonical + strings.TrimPrefix(body, head)
	return Suggestion{
		Kind:       KindMisspelling,
		Message:    fmt.Sprintf("%q is not a known pattern name; did you mean %q?", head, canonical),
		Correction: pattern.PatternPrefix + corrected,
	}, true
}

func operatorAliasSuggestion(body string) (Suggestion, bool) {
	idx := strings.Index(body, ":")
	if idx < 0 {
		return Suggestion{}, false
	}
	head, rest := body[:idx], body[idx+1:]
	canonical, ok := operatorAliases[head]
	if !ok {
		return Suggestion{}, false
	}
	return Suggestion{
		Kind:       KindOperatorAlias,
		Message:    fmt.Sprintf("operator alias %q should use the canonical pattern name %q", head, canonical),
		Correction: fmt.Sprintf("%s%s:%s", pattern.PatternPrefix, canonical, rest),
	}, true
}

func wrongDelimiterSuggestion(body string) (Suggestion, bool) {
	idx := strings.Index(body, ":")
	if idx < 0 {
		return Suggestion{}, false
	}
	head, rest := body[:idx], body[idx+1:]
	if !commaDelimited[head] {
		return Suggestion{}, false
	}
	if !strings.Contains(rest, ",") || strings.Contains(rest, ":") {
		return Suggestion{}, false
	}
	fixed := strings.ReplaceAll(rest, ",", ":")
	return Suggestion{
		Kind:       KindWrongDelimiter,
		Message:    fmt.Sprintf("%s: takes colon-separated arguments, not comma-separated", head),
		Correction: fmt.Sprintf("%s%s:%s", pattern.PatternPrefix, head, fixed),
	}, true
}

func capitalizedTypeBodySuggestion(body string) (Suggestion, bool) {
	if !strings.HasPrefix(body, "type:") {
		return Suggestion{}, false
	}
	arg := strings.TrimPrefix(body, "type:")
	normalized := pattern.NormalizeTypeName(arg)
	if arg == normalized {
		return Suggestion{}, false
	}
	return Suggestion{
		Kind:       KindCapitalizedType,
		Message:    fmt.Sprintf("type name %q should be written in lowercase canonical form", arg),
		Correction: fmt.Sprintf("%stype:%s", pattern.PatternPrefix, normalized),
	}, true
}
