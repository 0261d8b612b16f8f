package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func restore(t *testing.T) {
	t.Helper()
	prev, prevJSON := Logger, JSONOutput
	t.Cleanup(func() { Logger, JSONOutput = prev, prevJSON })
}

func TestLogger_DefaultIsNop(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() { Logger.Infow("ignored", FieldCount, 1) })
}

func TestInitialize_Console(t *testing.T) {
	restore(t)
	require.NoError(t, Initialize(false, "debug"))
	assert.False(t, JSONOutput)
	assert.True(t, Logger.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestInitialize_JSONDefaultsToWarn(t *testing.T) {
	restore(t)
	require.NoError(t, Initialize(true, ""))
	assert.True(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zap.WarnLevel))
}

func TestInitialize_BadLevel(t *testing.T) {
	restore(t)
	before := Logger
	err := Initialize(false, "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
	assert.Same(t, before, Logger, "failed init keeps the previous logger")
}

func TestNamed(t *testing.T) {
	assert.NotNil(t, Named("generator"))
	assert.NotPanics(t, Cleanup)
}
