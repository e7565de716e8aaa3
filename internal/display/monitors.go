package display

// enumerateMonitors collects every logical monitor of the desktop in the
// order the OS reports them. Mirrored and disabled surfaces are kept if the
// OS enumerates them.
func enumerateMonitors(sys System) ([]HMONITOR, error) {
	var monitors []HMONITOR
	err := sys.EnumDisplayMonitors(func(m HMONITOR) {
		monitors = append(monitors, m)
	})
	if err != nil {
		return nil, sysErr(MonitorEnumerationFailed, err)
	}
	return monitors, nil
}
