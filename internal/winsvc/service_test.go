package winsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExePath(t *testing.T) {
	p, err := ExePath()
	require.NoError(t, err)
	assert.NotEmpty(t, p)
}

func TestStopPollingFitsStopTimeout(t *testing.T) {
	assert.LessOrEqual(t, stopPollInterval*stopPollAttempts, stopTimeout)
}
