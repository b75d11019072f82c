package validator

import (
	"fmt"
	"strings"

	"github.com/taurgis/mcpconform/internal/diagnostic"
	"github.com/taurgis/mcpconform/internal/fieldpath"
	"github.com/taurgis/mcpconform/internal/pattern"
	"github.com/taurgis/mcpconform/internal/value"
)

var crossFieldOperators = []string{"<=", ">=", "==", "!=", "<", ">", "="}

// validateMetaKeys evaluates meta-keys first, then regular keys:
// first (partial, arrayElements, extractField), then any remaining
// regular keys in the same mapping are validated against the same
// actual mapping under partial semantics so a meta-key never forces
// structural equality on its siblings. crossField / not:crossField run
// last, after the structural comparison.
func validateMetaKeys(eo *value.OrderedMap, actual value.Value, path string, opts Options, errs *[]Error) {
	if fp, ok := eo.Get("match:extractField"); ok {
		handleExtractField(fp, eo, actual, path, opts, errs)
		return
	}

	if subtree, ok := eo.Get("match:partial"); ok {
		walk(subtree, actual, path, opts, errs, true)
	}

	if subtree, ok := eo.Get("match:arrayElements"); ok {
		handleArrayElements(subtree, actual, path, opts, errs)
	}

	validateSiblingKeys(eo, actual, path, opts, errs)

	if predicate, ok := eo.Get("match:crossField"); ok {
		evaluateCrossField(predicate, actual, path, false, errs)
	}
	if predicate, ok := eo.Get("match:not:crossField"); ok {
		evaluateCrossField(predicate, actual, path, true, errs)
	}
}

// validateSiblingKeys walks every non-meta key in eo against actual
// under partial semantics (the mixed meta-key/regular-key rule).
func validateSiblingKeys(eo *value.OrderedMap, actual value.Value, path string, opts Options, errs *[]Error) {
	var regular []string
	for _, k := range eo.Keys() {
		if !reservedMetaKeys[k] && k != "value" {
			regular = append(regular, k)
		}
	}
	if len(regular) == 0 {
		return
	}
	if actual.Kind() != value.KindObject {
		*errs = append(*errs, Error{
			Type:     ErrorTypeMismatch,
			Category: CategoryStructure,
			Path:     path,
			Message:  fmt.Sprintf("expected an object to validate sibling keys against, got %s", actual.Kind()),
		})
		return
	}
	ao := actual.Object()
	for _, k := range regular {
		ev, _ := eo.Get(k)
		av, ok := ao.Get(k)
		if !ok {
			*errs = append(*errs, Error{
				Type:       ErrorMissingField,
				Category:   CategoryStructure,
				Path:       path + "." + k,
				Expected:   value.ToInterface(ev),
				Message:    fmt.Sprintf("missing field %q", k),
				Suggestion: fmt.Sprintf("add %q to the actual response or remove it from the expectation", k),
			})
			continue
		}
		walk(ev, av, path+"."+k, opts, errs, true)
	}
}

// handleArrayElements requires actual to be an array and validates
// every element against the same expected subtree. An empty actual
// array is vacuously true.
func handleArrayElements(subtree, actual value.Value, path string, opts Options, errs *[]Error) {
	if actual.Kind() != value.KindArray {
		*errs = append(*errs, Error{
			Type:       ErrorTypeMismatch,
			Category:   CategoryStructure,
			Path:       path,
			Message:    fmt.Sprintf("match:arrayElements requires an array, got %s", actual.Kind()),
			Suggestion: "ensure the field resolves to an array before using match:arrayElements",
		})
		return
	}
	for i, el := range actual.Array() {
		walk(subtree, el, fmt.Sprintf("%s[%d]", path, i), opts, errs, false)
	}
}

// handleExtractField resolves the sibling field path over the
// enclosing actual and recurses with the sibling "value" key as the
// new expected. A field path that resolves to undefined is a
// missing_field at "<path>.extractField(<p>)"; a missing sibling
// "value" is a syntax_error.
func handleExtractField(fieldPathVal value.Value, eo *value.OrderedMap, actual value.Value, path string, opts Options, errs *[]Error) {
	if fieldPathVal.Kind() != value.KindString {
		*errs = append(*errs, errorFromFailure(diagnostic.SyntaxError("match:extractField requires a string field path"), path, fieldPathVal, actual))
		return
	}
	argPath := fieldPathVal.String()

	expectedValue, hasValue := eo.Get("value")
	if !hasValue {
		*errs = append(*errs, errorFromFailure(diagnostic.SyntaxError(fmt.Sprintf("match:extractField:%s", argPath)), path, fieldPathVal, actual))
		return
	}

	newPath := fmt.Sprintf("%s.extractField(%s)", path, argPath)
	extracted, ok := fieldpath.Extract(actual, argPath)
	if !ok {
		*errs = append(*errs, Error{
			Type:       ErrorMissingField,
			Category:   CategoryStructure,
			Path:       newPath,
			Expected:   value.ToInterface(expectedValue),
			Message:    fmt.Sprintf("field path %q did not resolve on the actual value", argPath),
			Suggestion: "verify the field path segments and that every intermediate container exists",
		})
		return
	}
	walk(expectedValue, extracted, newPath, opts, errs, false)
}

// evaluateCrossField parses and runs a crossField predicate string of
// the form "<lhs_path> <op> <rhs_path>" against the enclosing actual
// mapping.
func evaluateCrossField(predicate value.Value, actual value.Value, path string, negate bool, errs *[]Error) {
	if predicate.Kind() != value.KindString {
		*errs = append(*errs, errorFromFailure(diagnostic.SyntaxError("crossField requires a predicate string"), path, predicate, actual))
		return
	}

	lhsPath, op, rhsPath, ok := parseCrossFieldPredicate(predicate.String())
	if !ok {
		*errs = append(*errs, errorFromFailure(diagnostic.SyntaxError(predicate.String()), path, predicate, actual))
		return
	}

	lhs, lhsOK := fieldpath.Extract(actual, lhsPath)
	rhs, rhsOK := fieldpath.Extract(actual, rhsPath)

	if !lhsOK || !rhsOK {
		f := diagnostic.CrossFieldFailure(lhsPath, op, rhsPath, lhs, rhs, !lhsOK, !rhsOK)
		*errs = append(*errs, errorFromFailure(f, path, predicate, actual))
		return
	}

	result, err := evalCrossFieldOp(op, lhs, rhs)
	if err != nil {
		*errs = append(*errs, errorFromFailure(diagnostic.NumericMalformed("crossField", err.Error()), path, predicate, actual))
		return
	}
	if negate {
		result = !result
	}
	if result {
		return
	}

	f := diagnostic.CrossFieldFailure(lhsPath, op, rhsPath, lhs, rhs, false, false)
	*errs = append(*errs, errorFromFailure(f, path, predicate, actual))
}

func parseCrossFieldPredicate(s string) (lhs, op, rhs string, ok bool) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return "", "", "", false
	}
	for _, valid := range crossFieldOperators {
		if fields[1] == valid {
			return fields[0], fields[1], fields[2], true
		}
	}
	return "", "", "", false
}

func evalCrossFieldOp(op string, lhs, rhs value.Value) (bool, error) {
	if lhs.Kind() == value.KindNumber && rhs.Kind() == value.KindNumber {
		a, b := lhs.Number(), rhs.Number()
		switch op {
		case "<":
			return a < b, nil
		case "<=":
			return a <= b, nil
		case ">":
			return a > b, nil
		case ">=":
			return a >= b, nil
		case "==", "=":
			return a == b, nil
		case "!=":
			return a != b, nil
		}
	}
	if lhs.Kind() == value.KindString && rhs.Kind() == value.KindString {
		a, b := lhs.String(), rhs.String()
		if pattern.LooksDateShaped(a) && pattern.LooksDateShaped(b) {
			ta, _ := pattern.ParseDate(a)
			tb, _ := pattern.ParseDate(b)
			switch op {
			case "<":
				return ta.Before(tb), nil
			case "<=":
				return !ta.After(tb), nil
			case ">":
				return ta.After(tb), nil
			case ">=":
				return !ta.Before(tb), nil
			case "==", "=":
				return ta.Equal(tb), nil
			case "!=":
				return !ta.Equal(tb), nil
			}
		}
		switch op {
		case "<":
			return a < b, nil
		case "<=":
			return a <= b, nil
		case ">":
			return a > b, nil
		case ">=":
			return a >= b, nil
		case "==", "=":
			return a == b, nil
		case "!=":
			return a != b, nil
		}
	}
	return false, fmt.Errorf("unsupported operand kinds %s/%s for operator %q", lhs.Kind(), rhs.Kind(), op)
}
