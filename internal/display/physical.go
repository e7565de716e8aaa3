package display

import "errors"

// physicalMonitors returns the PHYSICAL_MONITOR handles of monitor, each
// already owned by a guard. Non DDC/CI monitors and remote session displays
// still get a handle; connected but inactive monitors do not.
func physicalMonitors(sys System, monitor HMONITOR) ([]*PhysicalMonitorHandle, error) {
	n, err := sys.NumberOfPhysicalMonitors(monitor)
	if err != nil {
		return nil, sysErr(PhysicalMonitorQueryFailed, err)
	}

	raw := make([]PhysicalMonitor, n)
	handles := make([]*PhysicalMonitorHandle, 0, len(raw))
	if err := sys.PhysicalMonitors(monitor, raw); err != nil {
		return nil, sysErr(PhysicalMonitorQueryFailed, err)
	}
	for _, pm := range raw {
		handles = append(handles, newPhysicalMonitorHandle(pm.Handle, sys.DestroyPhysicalMonitor))
	}
	return handles, nil
}

// openControlHandle opens the monitor interface of dev for DeviceIoControl.
// A nil handle with a nil error means the device is not a real monitor
// (remote desktop and other virtual displays) and should be skipped.
func openControlHandle(sys System, dev *DisplayDevice) (*FileHandle, error) {
	path := dev.DeviceID[:]
	h, err := sys.OpenDevice(terminated(path))
	if err != nil {
		if errors.Is(err, errAccessDenied) {
			return nil, nil
		}
		return nil, &SysError{
			Kind:       ControlHandleOpenFailed,
			DeviceName: DecodeWide(dev.DeviceName[:]),
			Err:        err,
		}
	}
	return newFileHandle(h, sys.CloseHandle), nil
}

// terminated returns s cut after its first zero code unit, appending one if
// the buffer is full.
func terminated(s []uint16) []uint16 {
	for i, c := range s {
		if c == 0 {
			return s[:i+1]
		}
	}
	out := make([]uint16, len(s)+1)
	copy(out, s)
	return out
}

func closeAll(handles []*PhysicalMonitorHandle) {
	for _, h := range handles {
		h.Close()
	}
}
