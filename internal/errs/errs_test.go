package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsRecoversKind(t *testing.T) {
	cause := errors.New("boom")
	err := EmptyAoI("grid.MaskAoI", cause)

	e, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, KindNoZones, e.Kind)
	assert.Equal(t, 3, e.Kind.ExitCode())
	assert.True(t, errors.Is(err, err))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAsFalseForPlainError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, KindOK.ExitCode())
	assert.Equal(t, 1, KindHelp.ExitCode())
	assert.Equal(t, 2, KindCacheCorrupt.ExitCode())
	assert.Equal(t, 3, KindNoZones.ExitCode())
	assert.Equal(t, 4, KindNoPoIs.ExitCode())
	assert.Equal(t, 5, KindMemory.ExitCode())
	assert.Equal(t, 6, KindMissingConfig.ExitCode())
	assert.Equal(t, 7, KindExternalTimeout.ExitCode())
}
