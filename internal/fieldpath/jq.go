package fieldpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/taurgis/mcpconform/internal/value"
)

// CompileJQ renders a parsed field path as a gojq filter string, e.g.
// "tools[0].name" -> ".tools[0].name" and "tools.*.name" ->
// ".tools[].name". This mirrors the jq-filter reuse already present in
// this codebase's schema-shape middleware, repurposed here as a second
// extraction strategy consumed by the diagnostic analyzer and the
// `mcpconform query` CLI subcommand.
func CompileJQ(path string) (string, error) {
	segs, err := Parse(path)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case SegmentKey:
			sb.WriteByte('.')
			sb.WriteString(s.Key)
		case SegmentIndex:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteByte(']')
		case SegmentWildcard:
			sb.WriteString("[]")
		}
	}
	if sb.Len() == 0 {
		return ".", nil
	}
	return sb.String(), nil
}

// RunJQ compiles and executes a jq filter string against actual,
// returning every emitted value. Used for ad-hoc query-style
// extraction where the caller already has a jq filter rather than a
// dot/bracket field path.
func RunJQ(filter string, actual value.Value) ([]value.Value, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("fieldpath: parsing jq filter %q: %w", filter, err)
	}

	input := value.ToInterface(actual)
	iter := query.Run(input)

	var results []value.Value
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("fieldpath: evaluating jq filter %q: %w", filter, err)
		}
		results = append(results, fromGoValue(v))
	}
	return results, nil
}

// ExtractViaJQ compiles path as a field path, translates it to jq, and
// runs it, returning the first emitted result (or undefined).
func ExtractViaJQ(actual value.Value, path string) (value.Value, bool) {
	filter, err := CompileJQ(path)
	if err != nil {
		return value.Undefined, false
	}
	results, err := RunJQ(filter, actual)
	if err != nil || len(results) == 0 {
		return value.Undefined, false
	}
	return results[0], true
}

func fromGoValue(v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(x)
	case float64:
		return value.Number(x)
	case int:
		return value.Number(float64(x))
	case string:
		return value.String(x)
	case []interface{}:
		items := make([]value.Value, len(x))
		for i, item := range x {
			items[i] = fromGoValue(item)
		}
		return value.Array(items)
	case map[string]interface{}:
		om := value.NewOrderedMap()
		for k, val := range x {
			om.Set(k, fromGoValue(val))
		}
		return value.Object(om)
	default:
		return value.Undefined
	}
}
