// Package pattern implements the pattern registry: a compile-time
// enum of pattern kinds (Kind), a one-time tokenizer that parses a
// `match:` body into a Token{Kind, Args, Negated}, and exhaustive
// switch-based primitive handlers, per the re-architecture guidance to
// replace a string-keyed dispatch table with a tagged union.
package pattern

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind enumerates every recognized pattern family.
type Kind int

const (
	KindUnknown Kind = iota

	// Type
	KindType

	// Existence
	KindExists
	KindCount

	// String
	KindContains
	KindStartsWith
	KindEndsWith
	KindContainsIgnoreCase
	KindEqualsIgnoreCase
	KindRegex
	KindLength

	// String-length family
	KindStringLength
	KindStringLengthGT
	KindStringLengthLT
	KindStringLengthGTE
	KindStringLengthLTE
	KindStringLengthBetween
	KindStringEmpty
	KindStringNotEmpty

	// Array
	KindArrayLength
	KindArrayContains

	// Numeric
	KindGreaterThan
	KindGreaterThanOrEqual
	KindLessThan
	KindLessThanOrEqual
	KindBetween
	KindEquals
	KindNotEquals
	KindApproximately
	KindMultipleOf
	KindDecimalPlaces

	// Date
	KindDateValid
	KindDateAfter
	KindDateBefore
	KindDateBetween
	KindDateEquals
	KindDateAge
	KindDateFormat

	// Default (bare body: regex or substring)
	KindDefault
)

// Token is the parsed form of a `match:` body: a Kind plus its raw
// string arguments and whether a leading `not:` negates the result.
type Token struct {
	Kind    Kind
	Args    []string
	Negated bool
	Raw     string // original body, post "not:" strip, for diagnostics
}

// prefixEntry associates a literal prefix (checked longest-first) with
// the Kind it resolves to. Bare identifiers (no trailing colon) are
// listed with an empty argSep so the whole remainder after the prefix,
// if any, is treated as a single argument slot used only when present.
type prefixEntry struct {
	prefix string
	kind   Kind
	bare   bool // true if this is a colon-less identifier, e.g. "exists"
}

// registry is ordered longest-prefix-first within each literal length
// tier; Parse does an explicit longest-match scan rather than relying
// on map iteration order.
var registry = []prefixEntry{
	{prefix: "type:", kind: KindType},
	{prefix: "exists", kind: KindExists, bare: true},
	{prefix: "count:", kind: KindCount},

	{prefix: "containsIgnoreCase:", kind: KindContainsIgnoreCase},
	{prefix: "equalsIgnoreCase:", kind: KindEqualsIgnoreCase},
	{prefix: "contains:", kind: KindContains},
	{prefix: "startsWith:", kind: KindStartsWith},
	{prefix: "endsWith:", kind: KindEndsWith},
	{prefix: "regex:", kind: KindRegex},
	{prefix: "length:", kind: KindLength},

	{prefix: "stringLengthGreaterThanOrEqual:", kind: KindStringLengthGTE},
	{prefix: "stringLengthLessThanOrEqual:", kind: KindStringLengthLTE},
	{prefix: "stringLengthGreaterThan:", kind: KindStringLengthGT},
	{prefix: "stringLengthLessThan:", kind: KindStringLengthLT},
	{prefix: "stringLengthBetween:", kind: KindStringLengthBetween},
	{prefix: "stringLength:", kind: KindStringLength},
	{prefix: "stringEmpty", kind: KindStringEmpty, bare: true},
	{prefix: "stringNotEmpty", kind: KindStringNotEmpty, bare: true},

	{prefix: "arrayLength:", kind: KindArrayLength},
	{prefix: "arrayContains:", kind: KindArrayContains},

	{prefix: "greaterThanOrEqual:", kind: KindGreaterThanOrEqual},
	{prefix: "lessThanOrEqual:", kind: KindLessThanOrEqual},
	{prefix: "greaterThan:", kind: KindGreaterThan},
	{prefix: "lessThan:", kind: KindLessThan},
	{prefix: "between:", kind: KindBetween},
	{prefix: "range:", kind: KindBetween}, // alias
	{prefix: "notEquals:", kind: KindNotEquals},
	{prefix: "equals:", kind: KindEquals},
	{prefix: "approximately:", kind: KindApproximately},
	{prefix: "multipleOf:", kind: KindMultipleOf},
	{prefix: "divisibleBy:", kind: KindMultipleOf}, // alias
	{prefix: "decimalPlaces:", kind: KindDecimalPlaces},

	{prefix: "dateValid", kind: KindDateValid, bare: true},
	{prefix: "dateAfter:", kind: KindDateAfter},
	{prefix: "dateBefore:", kind: KindDateBefore},
	{prefix: "dateBetween:", kind: KindDateBetween},
	{prefix: "dateEquals:", kind: KindDateEquals},
	{prefix: "dateAge:", kind: KindDateAge},
	{prefix: "dateFormat:", kind: KindDateFormat},
}

// metacharacters is the hardcoded set that triggers regex
// interpretation for the bare "default" handler. This is a
// documented, intentionally kept source of
// surprise on strings that happen to contain dots.
const metacharacters = `.*+?^$()[]{}|\`

// PatternPrefix is the sentinel that marks a string as a pattern
// token.
const PatternPrefix = "match:"

// IsPatternToken reports whether s is an expected-side pattern token.
func IsPatternToken(s string) bool {
	return strings.HasPrefix(s, PatternPrefix)
}

// KnownPrefixes lists every recognized non-bare prefix, used by the
// missing-match-prefix heuristic and the syntax analyzer.
func KnownPrefixes() []string {
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		if !e.bare {
			out = append(out, e.prefix)
		} else {
			out = append(out, e.prefix)
		}
	}
	return out
}

// Parse tokenizes the body of a `match:` string (everything after the
// "match:" prefix has already been stripped by the caller). It honors
// an optional leading "not:" negation, then resolves the remaining
// body against the registry by longest-prefix match. A body matching
// no known prefix, and not looking like a known-but-malformed variant,
// resolves to KindDefault (bare regex-or-substring).
func Parse(body string) Token {
	negated := false
	rest := body
	if strings.HasPrefix(rest, "not:") {
		negated = true
		rest = strings.TrimPrefix(rest, "not:")
	}

	var best prefixEntry
	bestLen := -1
	for _, e := range registry {
		if e.bare {
			if rest == e.prefix || strings.HasPrefix(rest, e.prefix) && len(rest) == len(e.prefix) {
				if len(e.prefix) > bestLen {
					best, bestLen = e, len(e.prefix)
				}
			}
			continue
		}
		if strings.HasPrefix(rest, e.prefix) {
			if len(e.prefix) > bestLen {
				best, bestLen = e, len(e.prefix)
			}
		}
	}

	if bestLen == -1 {
		return Token{Kind: KindDefault, Args: []string{rest}, Negated: negated, Raw: rest}
	}

	argStr := strings.TrimPrefix(rest, best.prefix)
	var args []string
	if argStr != "" {
		args = strings.Split(argStr, ":")
	}
	return Token{Kind: best.kind, Args: args, Negated: negated, Raw: rest}
}

// NormalizeTypeName maps type aliases onto the canonical six JSON
// kinds (string, number, boolean, object, array, null).
func NormalizeTypeName(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "int", "integer", "float", "number":
		return "number"
	case "bool", "boolean":
		return "boolean"
	case "str", "string":
		return "string"
	case "arr", "array", "list":
		return "array"
	case "obj", "object", "dict":
		return "object"
	case "null":
		return "null"
	default:
		return strings.ToLower(strings.TrimSpace(t))
	}
}

// looksLikeRegex applies the hardcoded metacharacter heuristic used by
// the default handler.
func looksLikeRegex(s string) bool {
	return strings.ContainsAny(s, metacharacters)
}

// CompileRegex compiles a pattern argument, honoring looksLikeRegex
// semantics where callers need it directly (e.g. the default handler).
func CompileRegex(s string) (*regexp.Regexp, error) {
	return regexp.Compile(s)
}

// parseFloat is a small helper shared by numeric handlers; returns
// (0, false) rather than an error since callers convert failures into
// "_malformed" diagnostic kinds themselves.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
