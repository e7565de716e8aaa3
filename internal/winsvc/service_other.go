//go:build !windows

package winsvc

import (
	"context"
	"errors"
)

var errNotWindows = errors.New("windows services are not supported on this platform")

// IsWindowsService always returns false on non-Windows platforms.
func IsWindowsService() bool { return false }

// RunService is not supported on non-Windows platforms.
func RunService(_ string, _ func(ctx context.Context) error) error {
	return errNotWindows
}

// SetupEventLog is a no-op on non-Windows platforms.
func SetupEventLog(_ string) {}

// Install is not supported on non-Windows platforms.
func Install(_ Service, _ string) error {
	return errNotWindows
}

// Uninstall is not supported on non-Windows platforms.
func Uninstall(_ string) error {
	return errNotWindows
}
