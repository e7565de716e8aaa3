package display

import (
	"errors"
	"iter"
)

// Enumerator joins the display enumeration APIs of a System into Device
// records. It holds no state between iterations: every range over All or
// Physical is a fresh snapshot.
type Enumerator struct {
	sys System
}

// NewEnumerator returns an Enumerator over sys.
func NewEnumerator(sys System) *Enumerator {
	return &Enumerator{sys: sys}
}

// ListAllDisplays enumerates the active displays of the local desktop.
// Errors are *Error values wrapping a *SysError.
func ListAllDisplays() iter.Seq2[Device, error] {
	return publicSeq(NewEnumerator(NativeSystem()).All())
}

// ListPhysicalDisplays enumerates the active displays of the local desktop
// together with their physical monitor and control handles. The caller owns
// every yielded *PhysicalDevice and must Close it.
func ListPhysicalDisplays() iter.Seq2[*PhysicalDevice, error] {
	return publicSeq(NewEnumerator(NativeSystem()).Physical())
}

// snapshot runs the two whole-desktop queries. Either failing fails the
// snapshot.
func (e *Enumerator) snapshot() (targetInfoIndex, []HMONITOR, error) {
	index, err := buildTargetInfoIndex(e.sys)
	if err != nil {
		return nil, nil, err
	}
	monitors, err := enumerateMonitors(e.sys)
	if err != nil {
		return nil, nil, err
	}
	return index, monitors, nil
}

// All yields one Device per active display device. A failure scoped to the
// whole snapshot is the only element; failures scoped to one monitor or one
// device are yielded in place and enumeration continues.
func (e *Enumerator) All() iter.Seq2[Device, error] {
	return func(yield func(Device, error) bool) {
		index, monitors, err := e.snapshot()
		if err != nil {
			yield(Device{}, err)
			return
		}

		for _, monitor := range monitors {
			devices, err := displayDevices(e.sys, monitor)
			if err != nil {
				if !yield(Device{}, err) {
					return
				}
				continue
			}
			for i := range devices {
				md := &devices[i]
				target, err := index.lookup(&md.device)
				if err != nil {
					if !yield(Device{}, err) {
						return
					}
					continue
				}
				if !yield(newDevice(monitor, md, &target), nil) {
					return
				}
			}
		}
	}
}

// Physical is All with each device paired to its physical monitor handle and
// an open control handle. Devices whose control handle is refused with
// ERROR_ACCESS_DENIED are virtual and are left out.
func (e *Enumerator) Physical() iter.Seq2[*PhysicalDevice, error] {
	return func(yield func(*PhysicalDevice, error) bool) {
		index, monitors, err := e.snapshot()
		if err != nil {
			yield(nil, err)
			return
		}

		for _, monitor := range monitors {
			if !e.physicalMonitor(index, monitor, yield) {
				return
			}
		}
	}
}

// physicalMonitor yields the physical devices of one logical monitor and
// reports whether the consumer wants more. Every handle acquired here is
// either handed to the consumer or released before returning.
func (e *Enumerator) physicalMonitor(index targetInfoIndex, monitor HMONITOR, yield func(*PhysicalDevice, error) bool) bool {
	handles, err := physicalMonitors(e.sys, monitor)
	if err != nil {
		return yield(nil, err)
	}
	devices, err := displayDevices(e.sys, monitor)
	if err != nil {
		closeAll(handles)
		return yield(nil, err)
	}
	// Nothing links a physical monitor handle to its display device other
	// than array position, so differing lengths cannot be correlated.
	if len(handles) != len(devices) {
		closeAll(handles)
		return yield(nil, sysErr(EnumerationMismatch, nil))
	}

	for i := range devices {
		md := &devices[i]
		pm := handles[i]

		file, err := openControlHandle(e.sys, &md.device)
		if err != nil {
			pm.Close()
			if !yield(nil, err) {
				closeAll(handles[i+1:])
				return false
			}
			continue
		}
		if file == nil {
			pm.Close()
			continue
		}

		target, err := index.lookup(&md.device)
		if err != nil {
			file.Close()
			pm.Close()
			if !yield(nil, err) {
				closeAll(handles[i+1:])
				return false
			}
			continue
		}

		dev := &PhysicalDevice{
			Device:          newDevice(monitor, md, &target),
			PhysicalMonitor: pm,
			ControlFile:     file,
		}
		if !yield(dev, nil) {
			closeAll(handles[i+1:])
			return false
		}
	}
	return true
}

// publicSeq converts the internal errors of seq into *Error.
func publicSeq[T any](seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v, err := range seq {
			if !yield(v, publicErr(err)) {
				return
			}
		}
	}
}

// Partition drains seq into its successful values and the join of its
// errors.
func Partition[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var (
		values []T
		errs   []error
	)
	for v, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values = append(values, v)
	}
	return values, errors.Join(errs...)
}
