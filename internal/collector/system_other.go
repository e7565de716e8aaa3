//go:build !windows

package collector

// Only Windows has a WMI fallback.
var platformSystemInfo func() (SystemInfo, error)
