//go:build !windows

package collector

import (
	"context"
	"errors"
)

type noIdentities struct{}

// NativeIdentities returns a source that fails with errors.ErrUnsupported:
// WmiMonitorID is only available on Windows.
func NativeIdentities() IdentitySource { return noIdentities{} }

func (noIdentities) MonitorIdentities(context.Context) ([]MonitorIdentity, error) {
	return nil, errors.ErrUnsupported
}
