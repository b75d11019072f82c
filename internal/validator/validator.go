// Package validator implements the structural validator: a nine-step
// expected/actual walk, plus the meta-pattern engine
// of §4.3 (match:partial, match:arrayElements, match:extractField+value,
// match:crossField/not:crossField).
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taurgis/mcpconform/internal/diagnostic"
	"github.com/taurgis/mcpconform/internal/pattern"
	"github.com/taurgis/mcpconform/internal/value"
)

// ErrorType enumerates the ValidationError.type taxonomy.
type ErrorType string

const (
	ErrorMissingField   ErrorType = "missing_field"
	ErrorExtraField     ErrorType = "extra_field"
	ErrorTypeMismatch   ErrorType = "type_mismatch"
	ErrorLengthMismatch ErrorType = "length_mismatch"
	ErrorValueMismatch  ErrorType = "value_mismatch"
	ErrorPatternFailed  ErrorType = "pattern_failed"
)

// ErrorCategory enumerates the ValidationError.category taxonomy.
type ErrorCategory string

const (
	CategoryStructure ErrorCategory = "structure"
	CategoryContent   ErrorCategory = "content"
	CategoryPattern   ErrorCategory = "pattern"
)

// Error is one discrepancy found during validation.
type Error struct {
	Type        ErrorType
	Category    ErrorCategory
	Path        string
	Expected    interface{}
	Actual      interface{}
	Message     string
	Suggestion  string
	PatternType string
	Details     map[string]interface{}
}

// Analysis summarizes a Result's errors for reporting.
type Analysis struct {
	TotalErrors      int
	ErrorsByType     map[ErrorType]int
	ErrorsByCategory map[ErrorCategory]int
	Summary          string
	TopSuggestions   []string
}

// Result is the outcome of one Validate call.
type Result struct {
	Passed   bool
	Errors   []Error
	Analysis Analysis
}

// Options carries call-scoped configuration: the injectable clock for
// date-age determinism and the diagnostic debug flag, threaded as a
// parameter rather than a package global.
type Options struct {
	Now   pattern.Clock
	Debug bool
}

func (o Options) patternOptions() pattern.Options {
	return pattern.Options{Now: o.Now}
}

func (o Options) diagnosticOptions() diagnostic.Options {
	return diagnostic.Options{Debug: o.Debug}
}

// reservedMetaKeys are never compared as ordinary mapping fields.
var reservedMetaKeys = map[string]bool{
	"match:partial":        true,
	"match:arrayElements":  true,
	"match:extractField":   true,
	"match:crossField":     true,
	"match:not:crossField": true,
}

// Validate is the pure entry point: walk expected against actual and
// return every discrepancy found. rootPath is typically "response".
func Validate(expected, actual value.Value, rootPath string) Result {
	return ValidateWithOptions(expected, actual, rootPath, Options{})
}

// ValidateWithOptions is Validate with an explicit Options, used by
// callers that need a deterministic clock or debug-gated diagnostics.
func ValidateWithOptions(expected, actual value.Value, rootPath string, opts Options) Result {
	var errs []Error
	walk(expected, actual, rootPath, opts, &errs, false)
	return Result{
		Passed:   len(errs) == 0,
		Errors:   errs,
		Analysis: analyze(errs),
	}
}

// walk implements the 9-step algorithm. It never short-circuits: every
// discrepancy is appended to errs (step 9). partial, once set by an
// enclosing match:partial, stays set for every descendant so the
// subset-constraint relaxation (extra keys/elements tolerated) applies
// throughout the subtree, not just at its root.
func walk(expected, actual value.Value, path string, opts Options, errs *[]Error, partial bool) {
	// Step 1: fast identity.
	if value.Equal(expected, actual) {
		return
	}

	// Step 2: pattern dispatch happens before the null check, so
	// match:exists can itself decide null-ness.
	if expected.Kind() == value.KindString && pattern.IsPatternToken(expected.String()) {
		validatePatternToken(expected.String(), actual, path, opts, errs)
		return
	}

	// Step 5 (checked before the generic null/type comparison, since it
	// only applies to non-pattern strings): missing match: prefix.
	if expected.Kind() == value.KindString && looksLikeMissingPrefix(expected.String()) {
		f := diagnostic.SyntaxError(expected.String())
		*errs = append(*errs, errorFromFailure(f, path, expected, actual))
		return
	}

	// Step 3: null handling — strict equality required on either side.
	if expected.IsNull() || actual.IsNull() {
		if expected.Kind() != actual.Kind() {
			*errs = append(*errs, Error{
				Type:     ErrorValueMismatch,
				Category: CategoryContent,
				Path:     path,
				Expected: value.ToInterface(expected),
				Actual:   value.ToInterface(actual),
				Message:  fmt.Sprintf("expected %v, got %v", describeLiteral(expected), describeLiteral(actual)),
			})
		}
		return
	}

	// Step 4: meta-key dispatch.
	if expected.Kind() == value.KindObject && hasMetaKey(expected.Object()) {
		validateMetaKeys(expected.Object(), actual, path, opts, errs)
		return
	}

	// Step 6: primitive type/value comparison.
	if expected.Kind() != actual.Kind() {
		*errs = append(*errs, Error{
			Type:       ErrorTypeMismatch,
			Category:   CategoryStructure,
			Path:       path,
			Expected:   value.ToInterface(expected),
			Actual:     value.ToInterface(actual),
			Message:    fmt.Sprintf("expected type %s, got %s", expected.Kind(), actual.Kind()),
			Suggestion: fmt.Sprintf("match:type:%s", actual.Kind()),
		})
		return
	}

	switch expected.Kind() {
	case value.KindArray:
		walkArray(expected, actual, path, opts, errs, partial)
	case value.KindObject:
		walkObject(expected, actual, path, opts, errs, partial)
	default:
		// Non-composite, non-equal, non-null, same-kind: value mismatch.
		*errs = append(*errs, Error{
			Type:     ErrorValueMismatch,
			Category: CategoryContent,
			Path:     path,
			Expected: value.ToInterface(expected),
			Actual:   value.ToInterface(actual),
			Message:  fmt.Sprintf("expected %v, got %v", describeLiteral(expected), describeLiteral(actual)),
		})
	}
}

func describeLiteral(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		return strconv.Quote(v.String())
	case value.KindNumber:
		return strconv.FormatFloat(v.Number(), 'g', -1, 64)
	case value.KindBool:
		return strconv.FormatBool(v.Bool())
	case value.KindNull:
		return "null"
	default:
		return v.Kind().String()
	}
}

// walkArray implements step 7: length must match; walk min(len) pairs
// by index; report extras/misses for the remainder. Under partial
// semantics a length mismatch is only reported when actual has fewer
// elements than expected — extra actual elements are tolerated, per
// the subset-constraint definition of match:partial.
func walkArray(expected, actual value.Value, path string, opts Options, errs *[]Error, partial bool) {
	ea, aa := expected.Array(), actual.Array()
	if !partial && len(ea) != len(aa) {
		*errs = append(*errs, Error{
			Type:       ErrorLengthMismatch,
			Category:   CategoryStructure,
			Path:       path,
			Expected:   len(ea),
			Actual:     len(aa),
			Message:    fmt.Sprintf("expected array length %d, got %d", len(ea), len(aa)),
			Suggestion: lengthMismatchSuggestion(len(ea), len(aa)),
		})
	}
	for i, ev := range ea {
		if i >= len(aa) {
			*errs = append(*errs, Error{
				Type:       ErrorMissingField,
				Category:   CategoryStructure,
				Path:       fmt.Sprintf("%s[%d]", path, i),
				Expected:   value.ToInterface(ev),
				Message:    fmt.Sprintf("missing array element at index %d", i),
				Suggestion: "ensure actual has a corresponding element at this index",
			})
			continue
		}
		walk(ev, aa[i], fmt.Sprintf("%s[%d]", path, i), opts, errs, partial)
	}
}

func lengthMismatchSuggestion(want, got int) string {
	if got > want {
		return fmt.Sprintf("actual has %d extra element(s); adjust match:arrayLength:%d or trim the expected list", got-want, got)
	}
	return fmt.Sprintf("actual is missing %d element(s); adjust match:arrayLength:%d or extend the expected list", want-got, got)
}

// walkObject implements step 8: compute missing/extra/common key sets,
// then recurse into common keys. crossField meta-keys, if present
// alongside normal keys, have already been handled by the meta-key
// dispatch path in walk (step 4 routes the whole mapping there when
// any reserved key is present); this function only runs for mappings
// with zero meta-keys. Under partial semantics, extra actual-only keys
// are tolerated (no extra_field error).
func walkObject(expected, actual value.Value, path string, opts Options, errs *[]Error, partial bool) {
	eo, ao := expected.Object(), actual.Object()
	for _, k := range eo.Keys() {
		if !ao.Has(k) {
			ev, _ := eo.Get(k)
			*errs = append(*errs, Error{
				Type:       ErrorMissingField,
				Category:   CategoryStructure,
				Path:       path + "." + k,
				Expected:   value.ToInterface(ev),
				Message:    fmt.Sprintf("missing field %q", k),
				Suggestion: fmt.Sprintf("add %q to the actual response or remove it from the expectation", k),
			})
		}
	}
	if !partial {
		for _, k := range ao.Keys() {
			if !eo.Has(k) {
				av, _ := ao.Get(k)
				*errs = append(*errs, Error{
					Type:       ErrorExtraField,
					Category:   CategoryStructure,
					Path:       path + "." + k,
					Actual:     value.ToInterface(av),
					Message:    fmt.Sprintf("unexpected field %q", k),
					Suggestion: fmt.Sprintf("add %q to the expectation or use match:partial to tolerate extra fields", k),
				})
			}
		}
	}
	for _, k := range eo.Keys() {
		if !ao.Has(k) {
			continue
		}
		ev, _ := eo.Get(k)
		av, _ := ao.Get(k)
		walk(ev, av, path+"."+k, opts, errs, partial)
	}
}

func hasMetaKey(m *value.OrderedMap) bool {
	for _, k := range m.Keys() {
		if reservedMetaKeys[k] {
			return true
		}
	}
	return false
}

func looksLikeMissingPrefix(s string) bool {
	if pattern.IsPatternToken(s) {
		return false
	}
	for _, p := range pattern.KnownPrefixes() {
		trimmed := strings.TrimSuffix(p, ":")
		if strings.HasPrefix(s, trimmed) {
			// Only treat as a likely-missing-prefix when the string
			// actually continues like the real pattern would (either
			// the bare identifier exactly, or prefix+colon+args).
			if s == trimmed || strings.HasPrefix(s, trimmed+":") {
				return true
			}
		}
	}
	return false
}

func errorFromFailure(f *diagnostic.Failure, path string, expected, actual value.Value) Error {
	return Error{
		Type:        ErrorPatternFailed,
		Category:    CategoryPattern,
		Path:        path,
		Expected:    value.ToInterface(expected),
		Actual:      value.ToInterface(actual),
		Message:     f.Message,
		Suggestion:  f.Suggestion,
		PatternType: f.PatternType,
		Details:     f.Details,
	}
}

// validatePatternToken implements step 2's dispatch once the string
// has been confirmed to start with "match:".
func validatePatternToken(token string, actual value.Value, path string, opts Options, errs *[]Error) {
	body := strings.TrimPrefix(token, pattern.PatternPrefix)
	tok := pattern.Parse(body)

	if tok.Kind == pattern.KindDefault {
		if f := diagnostic.NonExistentFeature(tok.Args[0]); f != nil {
			*errs = append(*errs, errorFromFailure(f, path, value.String(token), actual))
			return
		}
	}

	ok, err := pattern.Match(tok, actual, opts.patternOptions())
	if err != nil {
		*errs = append(*errs, errorFromFailure(diagnostic.NumericMalformed(tok.Raw, err.Error()), path, value.String(token), actual))
		return
	}
	if ok {
		return
	}

	f := buildPatternFailure(tok, actual, opts)
	*errs = append(*errs, errorFromFailure(f, path, value.String(token), actual))
}

func buildPatternFailure(tok pattern.Token, actual value.Value, opts Options) *diagnostic.Failure {
	switch tok.Kind {
	case pattern.KindType:
		want := ""
		if len(tok.Args) > 0 {
			want = tok.Args[0]
		}
		return diagnostic.TypeFailure(want, actual)
	case pattern.KindArrayContains:
		want := strings.Join(tok.Args, ":")
		return diagnostic.ArrayContainsFailure(want, actual, opts.diagnosticOptions())
	case pattern.KindRegex:
		if actual.Kind() == value.KindArray {
			return diagnostic.StringRegexNoElementMatched(actual)
		}
		return diagnostic.StringFailure("regex", actualPreview(actual), strings.Join(tok.Args, ":"))
	case pattern.KindDateValid, pattern.KindDateAfter, pattern.KindDateBefore, pattern.KindDateBetween,
		pattern.KindDateEquals, pattern.KindDateAge, pattern.KindDateFormat:
		patternName := tok.Raw
		if idx := strings.IndexByte(patternName, ':'); idx >= 0 {
			patternName = patternName[:idx]
		}
		return diagnostic.DateFailure(patternName, fmt.Sprintf("actual=%q args=%v", actualPreview(actual), tok.Args))
	case pattern.KindGreaterThan, pattern.KindGreaterThanOrEqual, pattern.KindLessThan, pattern.KindLessThanOrEqual,
		pattern.KindBetween, pattern.KindEquals, pattern.KindNotEquals, pattern.KindApproximately,
		pattern.KindMultipleOf, pattern.KindDecimalPlaces:
		return numericFailureFor(tok, actual)
	default:
		if actual.Kind() == value.KindString {
			return diagnostic.StringFailure(tok.Raw, actual.String(), strings.Join(tok.Args, ":"))
		}
		return diagnostic.TypeFailure("matching value", actual)
	}
}

func actualPreview(v value.Value) string {
	if v.Kind() == value.KindString {
		return v.String()
	}
	return v.Kind().String()
}

func numericFailureFor(tok pattern.Token, actual value.Value) *diagnostic.Failure {
	var n float64
	if actual.Kind() == value.KindNumber {
		n = actual.Number()
	}
	expectedDesc := strings.Join(tok.Args, ":")
	if len(tok.Args) > 0 {
		if target, err := strconv.ParseFloat(tok.Args[0], 64); err == nil {
			diff := n - target
			return diagnostic.NumericFailure(tok.Raw, expectedDesc, n, &diff)
		}
	}
	return diagnostic.NumericFailure(tok.Raw, expectedDesc, n, nil)
}
