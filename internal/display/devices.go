package display

// monitorDevice is one active display device together with the geometry of
// the logical monitor it belongs to.
type monitorDevice struct {
	info   MonitorInfoEx
	device DisplayDevice
}

// displayDevices returns the active display devices attached to monitor, in
// device index order. The order must be preserved: it is the only link to
// the physical monitor array of the same HMONITOR.
func displayDevices(sys System, monitor HMONITOR) ([]monitorDevice, error) {
	info, err := sys.MonitorInfo(monitor)
	if err != nil {
		return nil, sysErr(MonitorInfoFailed, err)
	}

	var devices []monitorDevice
	for i := uint32(0); ; i++ {
		dev, ok := sys.DisplayDevice(info.Device[:], i, eddGetDeviceInterfaceName)
		if !ok {
			break
		}
		// Connected but disabled monitors are enumerated as well.
		if dev.StateFlags&displayDeviceActive == 0 {
			continue
		}
		devices = append(devices, monitorDevice{info: info, device: dev})
	}
	return devices, nil
}
