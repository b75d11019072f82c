package harness_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taurgis/mcpconform/internal/harness"
)

func TestHarnessErrorUnwrapAndIs(t *testing.T) {
	cause := errors.New("boom")
	herr := &harness.HarnessError{Kind: harness.KindSpawnFailed, Err: cause}

	assert.ErrorIs(t, herr, cause)
	assert.Contains(t, herr.Error(), "spawn_failed")
	assert.Contains(t, herr.Error(), "boom")
}
