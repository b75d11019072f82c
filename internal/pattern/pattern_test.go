package pattern_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taurgis/mcpconform/internal/pattern"
	"github.com/taurgis/mcpconform/internal/value"
)

func TestParseBasicPrefix(t *testing.T) {
	tok := pattern.Parse("type:array")
	assert.Equal(t, pattern.KindType, tok.Kind)
	assert.Equal(t, []string{"array"}, tok.Args)
	assert.False(t, tok.Negated)
}

func TestParseNegation(t *testing.T) {
	tok := pattern.Parse("not:exists")
	assert.Equal(t, pattern.KindExists, tok.Kind)
	assert.True(t, tok.Negated)
}

func TestParseBareIdentifier(t *testing.T) {
	tok := pattern.Parse("stringEmpty")
	assert.Equal(t, pattern.KindStringEmpty, tok.Kind)
}

func TestParseUnknownFallsBackToDefault(t *testing.T) {
	tok := pattern.Parse("hello world")
	assert.Equal(t, pattern.KindDefault, tok.Kind)
}

func TestMatchTypeArrayVsObject(t *testing.T) {
	obj := value.Object(value.NewOrderedMap())
	ok, err := pattern.Match(pattern.Parse("type:array"), obj, pattern.Options{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchApproximately(t *testing.T) {
	ok, err := pattern.Match(pattern.Parse("approximately:100:0.5"), value.Number(100.3), pattern.Options{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pattern.Match(pattern.Parse("approximately:100:0.5"), value.Number(101), pattern.Options{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchBetweenInclusive(t *testing.T) {
	ok, _ := pattern.Match(pattern.Parse("between:10:20"), value.Number(20), pattern.Options{})
	assert.True(t, ok)
	ok, _ = pattern.Match(pattern.Parse("between:10:20"), value.Number(21), pattern.Options{})
	assert.False(t, ok)
}

func TestMatchDateBetweenInclusive(t *testing.T) {
	ok, err := pattern.Match(pattern.Parse("dateBetween:2024-01-01:2024-12-31"), value.String("2024-12-31T23:59:59Z"), pattern.Options{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pattern.Match(pattern.Parse("dateBetween:2024-01-01:2024-12-31"), value.String("2025-01-01T00:00:00Z"), pattern.Options{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchDateAgeUsesInjectedClock(t *testing.T) {
	fixedNow := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	opts := pattern.Options{Now: func() time.Time { return fixedNow }}

	ok, err := pattern.Match(pattern.Parse("dateAge:1h"), value.String(fixedNow.Add(-30*time.Minute).Format(time.RFC3339)), opts)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pattern.Match(pattern.Parse("dateAge:1h"), value.String(fixedNow.Add(-2*time.Hour).Format(time.RFC3339)), opts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNegationInvolution(t *testing.T) {
	for _, body := range []string{"exists", "type:string", "between:1:10"} {
		twice := pattern.Parse("not:not:" + body)
		actual := value.String("hello")
		r1, _ := pattern.Match(pattern.Parse(body), actual, pattern.Options{})
		r2, _ := pattern.Match(twice, actual, pattern.Options{})
		assert.Equal(t, r1, r2, "not:not: should be involution of base match for %q", body)
	}
}

func TestArrayContainsFieldPathForm(t *testing.T) {
	nameObj := value.NewOrderedMap()
	nameObj.Set("name", value.String("read_file"))
	arr := value.Array([]value.Value{value.Object(nameObj)})

	ok, err := pattern.Match(pattern.Parse("arrayContains:name:read_file"), arr, pattern.Options{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDefaultHandlerRegexVsSubstring(t *testing.T) {
	ok, err := pattern.Match(pattern.Parse("hello"), value.String("say hello world"), pattern.Options{})
	require.NoError(t, err)
	assert.True(t, ok, "plain substring without metacharacters")

	ok, err = pattern.Match(pattern.Parse("^hello"), value.String("hello world"), pattern.Options{})
	require.NoError(t, err)
	assert.True(t, ok, "caret triggers regex interpretation")
}

func TestMultipleOfMalformedZeroDivisor(t *testing.T) {
	_, err := pattern.Match(pattern.Parse("multipleOf:0"), value.Number(10), pattern.Options{})
	assert.Error(t, err)
}
