// Package syntax implements an offline syntax/anti-pattern analyzer:
// given an expected document it walks the tree and flags
// authoring mistakes — misspelled pattern names, missing match: prefixes,
// wrong delimiters, capitalized type names, operator aliases, malformed
// meta-key usage, and duplicate object keys — each as a Suggestion
// carrying a corrected form. It never mutates the document; AnalyzeSyntax
// is advisory, the same role diagnostic.Analyze plays for a single
// failed match but scoped to an entire document ahead of any run.
package syntax

import (
	"fmt"
	"strings"

	"github.com/taurgis/mcpconform/internal/pattern"
	"github.com/taurgis/mcpconform/internal/value"
)

// Kind discriminates the rule family that produced a Suggestion.
type Kind string

const (
	KindMisspelling      Kind = "misspelling"
	KindMissingPrefix    Kind = "missing_prefix"
	KindWrongDelimiter   Kind = "wrong_delimiter"
	KindCapitalizedType  Kind = "capitalized_type"
	KindOperatorAlias    Kind = "operator_alias"
	KindExtractFieldBare Kind = "extract_field_bare"
	KindDuplicateKey     Kind = "duplicate_key"
	KindArrayElementsUse Kind = "array_elements_misuse"
	KindMixedAssertion   Kind = "mixed_assertion"
	KindSchemaMalformed  Kind = "schema_malformed"
	KindSchemaNormalized Kind = "schema_underspecified"
)

// Suggestion is one flagged authoring mistake.
type Suggestion struct {
	Path       string // field-path-like location within the document
	Kind       Kind
	Message    string
	Correction string // the corrected form, when one can be rendered
}

// AnalyzeExpected walks doc and returns every suggestion the structural
// rules produce, in document order. doc is the expected-side tree
// (pattern tokens as strings, meta-keys as object keys), never the
// actual-side tree a server returns.
func AnalyzeExpected(doc value.Value) []Suggestion {
	var out []Suggestion
	walk(doc, "$", &out)
	return out
}

// AnalyzeDocument is the entry point `mcpconform lint` drives: it scans
// raw for duplicate keys at the token level (before any OrderedMap can
// silently collapse them), parses it as an expected-side tree, then
// runs the structural rules and the tools/list schema checks over it.
func AnalyzeDocument(raw []byte) ([]Suggestion, error) {
	dupes, err := DetectDuplicateKeys(raw)
	if err != nil {
		return nil, err
	}

	doc, err := value.FromExpectedJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing document for analysis: %w", err)
	}

	out := append([]Suggestion{}, dupes...)
	out = append(out, AnalyzeExpected(doc)...)
	out = append(out, AnalyzeToolListingSchemas(doc)...)
	return out, nil
}

func walk(v value.Value, path string, out *[]Suggestion) {
	switch v.Kind() {
	case value.KindString:
		checkString(v.String(), path, out)
	case value.KindArray:
		for i, item := range v.Array() {
			walk(item, fmt.Sprintf("%s[%d]", path, i), out)
		}
	case value.KindObject:
		checkObject(v.Object(), path, out)
		for _, k := range v.Object().Keys() {
			child, _ := v.Object().Get(k)
			walk(child, fmt.Sprintf("%s.%s", path, k), out)
		}
	}
}

// checkString runs every bare-string rule: missing prefix, misspelling,
// wrong delimiter, capitalized type name, operator alias. A string
// already carrying a valid match: prefix with a recognized kind is left
// alone; one that merely looks malformed is flagged with its best
// correction.
func checkString(s string, path string, out *[]Suggestion) {
	if looksLikeCapitalizedTypeLiteral(s) {
		*out = append(*out, Suggestion{
			Path:       path,
			Kind:       KindCapitalizedType,
			Message:    fmt.Sprintf("literal value %q looks like a type name written where a value belongs", s),
			Correction: fmt.Sprintf("match:type:%s", pattern.NormalizeTypeName(s)),
		})
		return
	}

	if !pattern.IsPatternToken(s) {
		if sug, ok := missingPrefixSuggestion(s); ok {
			sug.Path = path
			*out = append(*out, sug)
		}
		return
	}

	body := strings.TrimPrefix(s, pattern.PatternPrefix)
	body = strings.TrimPrefix(body, "not:")

	if sug, ok := misspellingSuggestion(body); ok {
		sug.Path = path
		*out = append(*out, sug)
		return // a misspelled prefix can't also be meaningfully alias/delimiter-checked
	}
	if sug, ok := operatorAliasSuggestion(body); ok {
		sug.Path = path
		*out = append(*out, sug)
		return
	}
	if sug, ok := wrongDelimiterSuggestion(body); ok {
		sug.Path = path
		*out = append(*out, sug)
	}
	if sug, ok := capitalizedTypeBodySuggestion(body); ok {
		sug.Path = path
		*out = append(*out, sug)
	}
}

// checkObject runs every meta-key-shaped rule: extractField without a
// sibling value, arrayElements against a non-mapping, and mixed
// pattern/exact assertions where a meta-key silently shadows sibling
// field keys.
func checkObject(m *value.OrderedMap, path string, out *[]Suggestion) {
	_, hasExtractField := m.Get("match:extractField")
	_, hasValue := m.Get("value")
	if hasExtractField && !hasValue {
		*out = append(*out, Suggestion{
			Path:       path,
			Kind:       KindExtractFieldBare,
			Message:    "match:extractField has no sibling \"value\" key to compare the extracted result against",
			Correction: `add a sibling "value": <expected> alongside match:extractField`,
		})
	}

	if subtree, ok := m.Get("match:arrayElements"); ok && subtree.Kind() != value.KindObject {
		*out = append(*out, Suggestion{
			Path:       path,
			Kind:       KindArrayElementsUse,
			Message:    fmt.Sprintf("match:arrayElements requires an object describing per-element assertions, got %s", subtree.Kind()),
			Correction: `match:arrayElements must map to an object, e.g. {"match:arrayElements": {"field": "match:type:string"}}`,
		})
	}

	metaKeyPresent := hasExtractField
	for _, k := range []string{"match:partial", "match:arrayElements", "match:crossField", "match:not:crossField"} {
		if _, ok := m.Get(k); ok {
			metaKeyPresent = true
		}
	}
	if metaKeyPresent {
		for _, k := range m.Keys() {
			if k == "value" || strings.HasPrefix(k, "match:") {
				continue
			}
			*out = append(*out, Suggestion{
				Path:       fmt.Sprintf("%s.%s", path, k),
				Kind:       KindMixedAssertion,
				Message:    fmt.Sprintf("field %q is a sibling of a match: meta-key and will be ignored by meta-key evaluation order", k),
				Correction: "move this assertion inside the meta-key's own subtree, or drop the meta-key",
			})
		}
	}
}

// missingPrefixSuggestion reports a bare string that reads exactly like
// a known pattern token body but lacks the match: prefix.
func missingPrefixSuggestion(s string) (Suggestion, bool) {
	for _, p := range pattern.KnownPrefixes() {
		trimmed := strings.TrimSuffix(p, ":")
		if s == trimmed || strings.HasPrefix(s, trimmed+":") {
			return Suggestion{
				Kind:       KindMissingPrefix,
				Message:    fmt.Sprintf("%q looks like a pattern token missing its match: prefix", s),
				Correction: pattern.PatternPrefix + s,
			}, true
		}
	}
	return Suggestion{}, false
}

func looksLikeCapitalizedTypeLiteral(s string) bool {
	switch s {
	case "String", "Number", "Boolean", "Object", "Array", "Null", "Integer", "Float":
		return true
	default:
		return false
	}
}
