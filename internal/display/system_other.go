//go:build !windows

package display

import "errors"

type unsupportedSystem struct{}

// NativeSystem returns a System whose calls all fail with
// errors.ErrUnsupported: display enumeration is only implemented on Windows.
func NativeSystem() System { return unsupportedSystem{} }

func (unsupportedSystem) DisplayConfigBufferSizes(uint32) (uint32, uint32, error) {
	return 0, 0, errors.ErrUnsupported
}

func (unsupportedSystem) QueryDisplayConfig(uint32, []PathInfo, []ModeInfo) (uint32, uint32, error) {
	return 0, 0, errors.ErrUnsupported
}

func (unsupportedSystem) TargetDeviceName(*TargetDeviceName) error { return errors.ErrUnsupported }

func (unsupportedSystem) EnumDisplayMonitors(func(HMONITOR)) error { return errors.ErrUnsupported }

func (unsupportedSystem) MonitorInfo(HMONITOR) (MonitorInfoEx, error) {
	return MonitorInfoEx{}, errors.ErrUnsupported
}

func (unsupportedSystem) DisplayDevice([]uint16, uint32, uint32) (DisplayDevice, bool) {
	return DisplayDevice{}, false
}

func (unsupportedSystem) NumberOfPhysicalMonitors(HMONITOR) (uint32, error) {
	return 0, errors.ErrUnsupported
}

func (unsupportedSystem) PhysicalMonitors(HMONITOR, []PhysicalMonitor) error {
	return errors.ErrUnsupported
}

func (unsupportedSystem) DestroyPhysicalMonitor(uintptr) error { return errors.ErrUnsupported }

func (unsupportedSystem) OpenDevice([]uint16) (uintptr, error) { return 0, errors.ErrUnsupported }

func (unsupportedSystem) CloseHandle(uintptr) error { return errors.ErrUnsupported }
