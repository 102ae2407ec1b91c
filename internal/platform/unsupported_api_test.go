//go:build !windows

package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/infrastructure/errors"
	"taskdeck/internal/testutils"
)

func TestUnsupportedAPI(t *testing.T) {
	logger := testutils.NewRecordingLogger()
	api := NewWindowAPI(logger)

	windows := api.EnumerateWindows()
	assert.NotNil(t, windows)
	assert.Empty(t, windows)

	icon, ok := api.ExtractIcon("/usr/bin/true")
	assert.False(t, ok)
	assert.Empty(t, icon)

	err := api.Listen(context.Background(), func(WindowEvent) {})
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
	assert.Len(t, logger.Calls("WARN"), 1)
}

func TestPowerCommand_Unavailable(t *testing.T) {
	for _, action := range []PowerAction{PowerShutdown, PowerRestart, PowerSleep} {
		_, ok := PowerCommand(action)
		assert.False(t, ok, string(action))
	}
}
