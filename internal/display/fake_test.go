package display

import (
	"sync"
	"syscall"
	"unicode/utf16"
)

// fakeSystem is an in-memory System. Monitors are reported in slice order.
type fakeSystem struct {
	mu sync.Mutex

	bufferSizesErr error
	queryErr       error
	modes          []ModeInfo
	// targets is keyed by ModeInfo.ID; targetErrs overrides a target with
	// an error.
	targets    map[uint32]TargetDeviceName
	targetErrs map[uint32]error

	enumErr  error
	monitors []*fakeMonitor

	// openErrs maps a device path to the CreateFileW failure for it.
	openErrs map[string]error

	nextHandle    uintptr
	destroyed     map[uintptr]int
	closed        map[uintptr]int
	opened        []uintptr
	physicalCalls int
	releaseErr    error
}

type fakeMonitor struct {
	handle  HMONITOR
	info    MonitorInfoEx
	infoErr error
	devices []DisplayDevice

	// physicalCount overrides len(devices) for the physical monitor count
	// when non-nil.
	physicalCount *uint32
	countErr      error
	fillErr       error
	issued        []uintptr

	infoCalls  int
	countCalls int
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		targets:    map[uint32]TargetDeviceName{},
		targetErrs: map[uint32]error{},
		openErrs:   map[string]error{},
		destroyed:  map[uintptr]int{},
		closed:     map[uintptr]int{},
		nextHandle: 0x1000,
	}
}

func wide(dst []uint16, s string) {
	copy(dst, utf16.Encode([]rune(s)))
}

// addMonitor registers a logical monitor named adapter (e.g. \\.\DISPLAY1).
func (f *fakeSystem) addMonitor(handle HMONITOR, adapter string, bounds Rect) *fakeMonitor {
	m := &fakeMonitor{handle: handle}
	m.info.Monitor = bounds
	m.info.Work = Rect{Left: bounds.Left, Top: bounds.Top, Right: bounds.Right, Bottom: bounds.Bottom - 40}
	wide(m.info.Device[:], adapter)
	f.monitors = append(f.monitors, m)
	return m
}

// addDevice appends a display device to m and, when tech is non-nil,
// registers a display config target for its path.
func (f *fakeSystem) addDevice(m *fakeMonitor, name, description, path string, active bool, tech *OutputTechnology) DisplayDevice {
	var dev DisplayDevice
	wide(dev.DeviceName[:], name)
	wide(dev.DeviceString[:], description)
	wide(dev.DeviceID[:], path)
	wide(dev.DeviceKey[:], `\Registry\Machine\System\CurrentControlSet\Control\Class\{4d36e96e}\0001`)
	if active {
		dev.StateFlags = displayDeviceActive
	}
	m.devices = append(m.devices, dev)

	if tech != nil {
		f.addTarget(path, *tech)
	}
	return dev
}

func (f *fakeSystem) addTarget(path string, tech OutputTechnology) uint32 {
	id := uint32(len(f.modes) + 100)
	f.modes = append(f.modes,
		ModeInfo{InfoType: 1, ID: id}, // source mode, never queried
		ModeInfo{InfoType: modeInfoTypeTarget, ID: id},
	)
	var t TargetDeviceName
	t.OutputTechnology = tech
	wide(t.MonitorDevicePath[:], path)
	wide(t.MonitorFriendlyDeviceName[:], "Panel "+path)
	t.EdidManufactureID = 0x10ac
	f.targets[id] = t
	return id
}

func (f *fakeSystem) DisplayConfigBufferSizes(flags uint32) (uint32, uint32, error) {
	if f.bufferSizesErr != nil {
		return 0, 0, f.bufferSizesErr
	}
	return uint32(len(f.modes) / 2), uint32(len(f.modes)), nil
}

func (f *fakeSystem) QueryDisplayConfig(flags uint32, paths []PathInfo, modes []ModeInfo) (uint32, uint32, error) {
	if f.queryErr != nil {
		return 0, 0, f.queryErr
	}
	n := copy(modes, f.modes)
	return uint32(len(paths)), uint32(n), nil
}

func (f *fakeSystem) TargetDeviceName(name *TargetDeviceName) error {
	if err, ok := f.targetErrs[name.Header.ID]; ok {
		return err
	}
	t, ok := f.targets[name.Header.ID]
	if !ok {
		return syscall.Errno(87) // ERROR_INVALID_PARAMETER
	}
	header := name.Header
	*name = t
	name.Header = header
	return nil
}

func (f *fakeSystem) EnumDisplayMonitors(visit func(HMONITOR)) error {
	if f.enumErr != nil {
		return f.enumErr
	}
	for _, m := range f.monitors {
		visit(m.handle)
	}
	return nil
}

func (f *fakeSystem) monitor(h HMONITOR) *fakeMonitor {
	for _, m := range f.monitors {
		if m.handle == h {
			return m
		}
	}
	return nil
}

func (f *fakeSystem) MonitorInfo(h HMONITOR) (MonitorInfoEx, error) {
	m := f.monitor(h)
	if m == nil {
		return MonitorInfoEx{}, syscall.Errno(1461) // ERROR_INVALID_MONITOR_HANDLE
	}
	m.infoCalls++
	if m.infoErr != nil {
		return MonitorInfoEx{}, m.infoErr
	}
	return m.info, nil
}

func (f *fakeSystem) DisplayDevice(adapter []uint16, index uint32, flags uint32) (DisplayDevice, bool) {
	name := DecodeWide(adapter)
	for _, m := range f.monitors {
		if DecodeWide(m.info.Device[:]) != name {
			continue
		}
		if int(index) >= len(m.devices) {
			return DisplayDevice{}, false
		}
		return m.devices[index], true
	}
	return DisplayDevice{}, false
}

func (m *fakeMonitor) activeCount() uint32 {
	var n uint32
	for _, d := range m.devices {
		if d.StateFlags&displayDeviceActive != 0 {
			n++
		}
	}
	return n
}

func (f *fakeSystem) NumberOfPhysicalMonitors(h HMONITOR) (uint32, error) {
	m := f.monitor(h)
	m.countCalls++
	if m.countErr != nil {
		return 0, m.countErr
	}
	if m.physicalCount != nil {
		return *m.physicalCount, nil
	}
	return m.activeCount(), nil
}

func (f *fakeSystem) PhysicalMonitors(h HMONITOR, out []PhysicalMonitor) error {
	m := f.monitor(h)
	if m.fillErr != nil {
		return m.fillErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.physicalCalls++
	for i := range out {
		f.nextHandle++
		out[i].Handle = f.nextHandle
		m.issued = append(m.issued, f.nextHandle)
	}
	return nil
}

func (f *fakeSystem) DestroyPhysicalMonitor(h uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed[h]++
	return f.releaseErr
}

func (f *fakeSystem) OpenDevice(path []uint16) (uintptr, error) {
	if len(path) == 0 || path[len(path)-1] != 0 {
		return 0, syscall.Errno(123) // ERROR_INVALID_NAME
	}
	if err, ok := f.openErrs[DecodeWide(path)]; ok {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextHandle++
	f.opened = append(f.opened, f.nextHandle)
	return f.nextHandle, nil
}

func (f *fakeSystem) CloseHandle(h uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed[h]++
	return f.releaseErr
}

// issuedPhysical returns every physical monitor handle handed out so far.
func (f *fakeSystem) issuedPhysical() []uintptr {
	var all []uintptr
	for _, m := range f.monitors {
		all = append(all, m.issued...)
	}
	return all
}

func (f *fakeSystem) destroyCount(h uintptr) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed[h]
}

func (f *fakeSystem) closeCount(h uintptr) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed[h]
}

func tech(t OutputTechnology) *OutputTechnology { return &t }
