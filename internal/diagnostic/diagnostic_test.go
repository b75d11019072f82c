package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taurgis/mcpconform/internal/diagnostic"
	"github.com/taurgis/mcpconform/internal/value"
)

func TestTypeFailureSuggestsInversion(t *testing.T) {
	obj, err := value.FromJSON([]byte(`{"a":1,"b":2}`))
	assert.NoError(t, err)
	f := diagnostic.TypeFailure("array", obj)
	assert.Equal(t, diagnostic.KindType, f.Kind)
	assert.Contains(t, f.Suggestion, "match:type:object")
}

func TestArrayContainsFailureHidesPayloadWithoutDebug(t *testing.T) {
	arr, _ := value.FromJSON([]byte(`[1,2,3]`))
	f := diagnostic.ArrayContainsFailure("4", arr, diagnostic.Options{Debug: false})
	_, hasPayload := f.Details["payload"]
	assert.False(t, hasPayload)

	f = diagnostic.ArrayContainsFailure("4", arr, diagnostic.Options{Debug: true})
	_, hasPayload = f.Details["payload"]
	assert.True(t, hasPayload)
}

func TestNonExistentFeatureClassification(t *testing.T) {
	f := diagnostic.NonExistentFeature("mean:42")
	assert.NotNil(t, f)
	assert.Equal(t, "statistical-aggregation", f.Details["category"])
}

func TestNonExistentFeatureReturnsNilForUnrecognized(t *testing.T) {
	f := diagnostic.NonExistentFeature("totallyUnknownThing:1")
	assert.Nil(t, f)
}

func TestCrossFieldFailureInvertsOperator(t *testing.T) {
	f := diagnostic.CrossFieldFailure("start", "<", "end", value.Number(10), value.Number(3), false, false)
	assert.Contains(t, f.Suggestion, "start >= end")
}

func TestCrossFieldFailureReportsMissingOperand(t *testing.T) {
	f := diagnostic.CrossFieldFailure("start", "<", "end", value.Undefined, value.Number(3), true, false)
	assert.Equal(t, "missing_field", f.Details["reason"])
}

func TestSyntaxErrorSuggestsPrefix(t *testing.T) {
	f := diagnostic.SyntaxError("arrayLength:2")
	assert.Contains(t, f.Suggestion, "match:arrayLength:2")
}
