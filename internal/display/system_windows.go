//go:build windows

package display

import (
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modUser32 = windows.NewLazySystemDLL("user32.dll")
	modDxva2  = windows.NewLazySystemDLL("dxva2.dll")

	procGetDisplayConfigBufferSizes = modUser32.NewProc("GetDisplayConfigBufferSizes")
	procQueryDisplayConfig          = modUser32.NewProc("QueryDisplayConfig")
	procDisplayConfigGetDeviceInfo  = modUser32.NewProc("DisplayConfigGetDeviceInfo")
	procEnumDisplayMonitors         = modUser32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW             = modUser32.NewProc("GetMonitorInfoW")
	procEnumDisplayDevicesW         = modUser32.NewProc("EnumDisplayDevicesW")

	procGetNumberOfPhysicalMonitorsFromHMONITOR = modDxva2.NewProc("GetNumberOfPhysicalMonitorsFromHMONITOR")
	procGetPhysicalMonitorsFromHMONITOR         = modDxva2.NewProc("GetPhysicalMonitorsFromHMONITOR")
	procDestroyPhysicalMonitor                  = modDxva2.NewProc("DestroyPhysicalMonitor")
)

// EnumDisplayMonitors takes a C callback, and syscall callbacks are a
// limited process-wide resource, so a single callback is created and routed
// to the caller's visitor through the LPARAM.
var (
	visitorsMu  sync.Mutex
	visitors    = map[uintptr]func(HMONITOR){}
	nextVisitor uintptr

	monitorEnumProc = windows.NewCallback(func(hmonitor, hdc, clip, data uintptr) uintptr {
		visitorsMu.Lock()
		visit := visitors[data]
		visitorsMu.Unlock()
		if visit != nil {
			visit(HMONITOR(hmonitor))
		}
		return 1
	})
)

type nativeSystem struct{}

// NativeSystem returns the System backed by user32.dll and dxva2.dll.
func NativeSystem() System { return nativeSystem{} }

// call invokes proc, reporting a missing DLL or export as an error instead
// of the panic LazyProc.Call would raise.
func call(proc *windows.LazyProc, args ...uintptr) (uintptr, syscall.Errno, error) {
	if err := proc.Find(); err != nil {
		return 0, 0, err
	}
	r, _, err := proc.Call(args...)
	errno, _ := err.(syscall.Errno)
	return r, errno, nil
}

// boolResult converts the result of a BOOL API into an error carrying
// GetLastError.
func boolResult(r uintptr, errno syscall.Errno, err error) error {
	switch {
	case err != nil:
		return err
	case r != 0:
		return nil
	case errno != 0:
		return errno
	default:
		return syscall.EINVAL
	}
}

// statusResult converts the result of an API returning a LONG status code
// into an error.
func statusResult(r uintptr, _ syscall.Errno, err error) error {
	if err != nil {
		return err
	}
	if uint32(r) != 0 {
		return syscall.Errno(uint32(r))
	}
	return nil
}

func (nativeSystem) DisplayConfigBufferSizes(flags uint32) (uint32, uint32, error) {
	var numPaths, numModes uint32
	err := statusResult(call(procGetDisplayConfigBufferSizes,
		uintptr(flags),
		uintptr(unsafe.Pointer(&numPaths)),
		uintptr(unsafe.Pointer(&numModes)),
	))
	if err != nil {
		return 0, 0, err
	}
	return numPaths, numModes, nil
}

func (nativeSystem) QueryDisplayConfig(flags uint32, paths []PathInfo, modes []ModeInfo) (uint32, uint32, error) {
	numPaths := uint32(len(paths))
	numModes := uint32(len(modes))
	var pathPtr *PathInfo
	var modePtr *ModeInfo
	if len(paths) > 0 {
		pathPtr = &paths[0]
	}
	if len(modes) > 0 {
		modePtr = &modes[0]
	}
	err := statusResult(call(procQueryDisplayConfig,
		uintptr(flags),
		uintptr(unsafe.Pointer(&numPaths)),
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(unsafe.Pointer(&numModes)),
		uintptr(unsafe.Pointer(modePtr)),
		0,
	))
	if err != nil {
		return 0, 0, err
	}
	return numPaths, numModes, nil
}

func (nativeSystem) TargetDeviceName(name *TargetDeviceName) error {
	return statusResult(call(procDisplayConfigGetDeviceInfo, uintptr(unsafe.Pointer(&name.Header))))
}

func (nativeSystem) EnumDisplayMonitors(visit func(HMONITOR)) error {
	visitorsMu.Lock()
	nextVisitor++
	id := nextVisitor
	visitors[id] = visit
	visitorsMu.Unlock()

	defer func() {
		visitorsMu.Lock()
		delete(visitors, id)
		visitorsMu.Unlock()
	}()

	return boolResult(call(procEnumDisplayMonitors, 0, 0, monitorEnumProc, id))
}

func (nativeSystem) MonitorInfo(monitor HMONITOR) (MonitorInfoEx, error) {
	var info MonitorInfoEx
	info.Size = uint32(unsafe.Sizeof(info))
	if err := boolResult(call(procGetMonitorInfoW, uintptr(monitor), uintptr(unsafe.Pointer(&info)))); err != nil {
		return MonitorInfoEx{}, err
	}
	return info, nil
}

func (nativeSystem) DisplayDevice(adapter []uint16, index uint32, flags uint32) (DisplayDevice, bool) {
	var dev DisplayDevice
	dev.Cb = uint32(unsafe.Sizeof(dev))
	var adapterPtr *uint16
	if len(adapter) > 0 {
		adapterPtr = &adapter[0]
	}
	err := boolResult(call(procEnumDisplayDevicesW,
		uintptr(unsafe.Pointer(adapterPtr)),
		uintptr(index),
		uintptr(unsafe.Pointer(&dev)),
		uintptr(flags),
	))
	return dev, err == nil
}

func (nativeSystem) NumberOfPhysicalMonitors(monitor HMONITOR) (uint32, error) {
	var n uint32
	if err := boolResult(call(procGetNumberOfPhysicalMonitorsFromHMONITOR, uintptr(monitor), uintptr(unsafe.Pointer(&n)))); err != nil {
		return 0, err
	}
	return n, nil
}

func (nativeSystem) PhysicalMonitors(monitor HMONITOR, out []PhysicalMonitor) error {
	// The API rejects a zero-sized array.
	if len(out) == 0 {
		return nil
	}
	return boolResult(call(procGetPhysicalMonitorsFromHMONITOR,
		uintptr(monitor),
		uintptr(uint32(len(out))),
		uintptr(unsafe.Pointer(&out[0])),
	))
}

func (nativeSystem) DestroyPhysicalMonitor(handle uintptr) error {
	return boolResult(call(procDestroyPhysicalMonitor, handle))
}

func (nativeSystem) OpenDevice(path []uint16) (uintptr, error) {
	if len(path) == 0 {
		return 0, syscall.EINVAL
	}
	h, err := windows.CreateFile(
		&path[0],
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

func (nativeSystem) CloseHandle(handle uintptr) error {
	return windows.CloseHandle(windows.Handle(handle))
}
