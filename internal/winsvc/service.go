package winsvc

import (
	"fmt"
	"os"
	"time"
)

// Service describes a Windows service registration.
type Service struct {
	Name        string
	DisplayName string
	Description string
	// Args are passed to the executable when the SCM starts it.
	Args []string
}

const (
	// stopTimeout bounds how long a stop request waits for run to return.
	stopTimeout = 30 * time.Second

	stopPollInterval = 500 * time.Millisecond
	stopPollAttempts = 10

	recoveryReset = 24 * time.Hour
)

// restartDelays are the SCM restart delays for the first failures; later
// failures are left alone until the recovery counter resets.
var restartDelays = []time.Duration{10 * time.Second, 30 * time.Second}

// ExePath returns the path to the currently running executable.
func ExePath() (string, error) {
	p, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return p, nil
}
