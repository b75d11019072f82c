// Package fieldpath implements the dot/bracket/wildcard field-path
// grammar: parsing into a segment list, a direct
// undefined-safe recursive extractor, and a gojq-backed alternate
// extraction strategy used by the diagnostic analyzer and the
// `mcpconform query` CLI subcommand, reusing gojq as a JSON-transform
// engine the same way a jq-schema middleware would.
package fieldpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taurgis/mcpconform/internal/value"
)

// SegmentKind discriminates a path segment.
type SegmentKind int

const (
	SegmentKey SegmentKind = iota
	SegmentIndex
	SegmentWildcard
)

// Segment is one step of a parsed field path.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// Parse converts a dot/bracket path string into a segment list. Dot
// and bracket forms are interchangeable: "tools.0.name" is equivalent
// to "tools[0].name", and "tools.*.name" to "tools[*].name".
func Parse(path string) ([]Segment, error) {
	var segs []Segment
	i := 0
	n := len(path)
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, keyOrIndexSegment(cur.String()))
			cur.Reset()
		}
	}

	for i < n {
		c := path[i]
		switch c {
		case '.':
			flush()
			i++
		case '[':
			flush()
			j := strings.IndexByte(path[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("fieldpath: unterminated '[' in %q", path)
			}
			inner := path[i+1 : i+j]
			segs = append(segs, keyOrIndexSegment(inner))
			i += j + 1
			// Optional trailing '.' after ']' is consumed by the loop.
			if i < n && path[i] == '.' {
				i++
			}
		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return segs, nil
}

func keyOrIndexSegment(tok string) Segment {
	if tok == "*" {
		return Segment{Kind: SegmentWildcard}
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return Segment{Kind: SegmentIndex, Index: n}
	}
	return Segment{Kind: SegmentKey, Key: tok}
}

// Render renders a segment list back into canonical dot/bracket form
// (keys via dot, indices and wildcards via brackets), used by the
// round-trip property test.
func Render(segs []Segment) string {
	var sb strings.Builder
	for i, s := range segs {
		switch s.Kind {
		case SegmentKey:
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(s.Key)
		case SegmentIndex:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteByte(']')
		case SegmentWildcard:
			sb.WriteString("[*]")
		}
	}
	return sb.String()
}

// Extract walks actual by path, following undefined-safe semantics:
//   - a numeric segment on an array indexes it (undefined out of bounds);
//   - a string segment on a mapping looks it up (undefined if absent);
//   - '*' on an array maps the remainder of the path across every
//     element, producing a sequence — or, if the remainder is empty,
//     yields the array itself;
//   - any segment applied to a non-container yields undefined, never
//     an error.
func Extract(actual value.Value, path string) (value.Value, bool) {
	segs, err := Parse(path)
	if err != nil {
		return value.Undefined, false
	}
	return extractSegs(actual, segs)
}

func extractSegs(v value.Value, segs []Segment) (value.Value, bool) {
	if len(segs) == 0 {
		return v, true
	}
	seg := segs[0]
	rest := segs[1:]

	switch seg.Kind {
	case SegmentKey:
		if v.Kind() != value.KindObject {
			return value.Undefined, false
		}
		next, ok := v.Object().Get(seg.Key)
		if !ok {
			return value.Undefined, false
		}
		return extractSegs(next, rest)

	case SegmentIndex:
		if v.Kind() != value.KindArray {
			return value.Undefined, false
		}
		arr := v.Array()
		if seg.Index < 0 || seg.Index >= len(arr) {
			return value.Undefined, false
		}
		return extractSegs(arr[seg.Index], rest)

	case SegmentWildcard:
		if v.Kind() != value.KindArray {
			return value.Undefined, false
		}
		if len(rest) == 0 {
			return v, true
		}
		arr := v.Array()
		out := make([]value.Value, 0, len(arr))
		for _, el := range arr {
			// An element where the remainder resolves to undefined
			// contributes null to the sequence — there is no JSON
			// "undefined" to place in the array, and the whole
			// wildcard extraction never fails outright.
			elVal, ok := extractSegs(el, rest)
			if !ok {
				elVal = value.Null()
			}
			out = append(out, elVal)
		}
		return value.Array(out), true
	}
	return value.Undefined, false
}
