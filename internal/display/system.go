package display

// System is the set of raw display calls the enumerator is built on. Each
// method maps onto one Win32 API and reports failures as the platform error
// code (a syscall.Errno); ERROR_ACCESS_DENIED must stay distinguishable
// because it is branched on.
type System interface {
	// DisplayConfigBufferSizes wraps GetDisplayConfigBufferSizes.
	DisplayConfigBufferSizes(flags uint32) (numPaths, numModes uint32, err error)
	// QueryDisplayConfig fills paths and modes and returns the element
	// counts actually written.
	QueryDisplayConfig(flags uint32, paths []PathInfo, modes []ModeInfo) (numPaths, numModes uint32, err error)
	// TargetDeviceName wraps DisplayConfigGetDeviceInfo for a
	// DISPLAYCONFIG_DEVICE_INFO_GET_TARGET_NAME request; the header of name
	// is already populated.
	TargetDeviceName(name *TargetDeviceName) error

	// EnumDisplayMonitors walks the logical monitors of the desktop. The
	// platform invokes visit once per logical monitor it discovers, in
	// unspecified order.
	EnumDisplayMonitors(visit func(HMONITOR)) error
	// MonitorInfo wraps GetMonitorInfoW with a MONITORINFOEXW.
	MonitorInfo(monitor HMONITOR) (MonitorInfoEx, error)
	// DisplayDevice wraps EnumDisplayDevicesW for the device named by
	// adapter. ok is false once index is past the last device.
	DisplayDevice(adapter []uint16, index uint32, flags uint32) (dev DisplayDevice, ok bool)

	// NumberOfPhysicalMonitors wraps GetNumberOfPhysicalMonitorsFromHMONITOR.
	NumberOfPhysicalMonitors(monitor HMONITOR) (uint32, error)
	// PhysicalMonitors wraps GetPhysicalMonitorsFromHMONITOR.
	PhysicalMonitors(monitor HMONITOR, out []PhysicalMonitor) error
	// DestroyPhysicalMonitor releases a handle from PhysicalMonitors.
	DestroyPhysicalMonitor(handle uintptr) error

	// OpenDevice opens path (null terminated) for read/write with
	// CreateFileW.
	OpenDevice(path []uint16) (uintptr, error)
	// CloseHandle releases a handle from OpenDevice.
	CloseHandle(handle uintptr) error
}
