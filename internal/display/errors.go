package display

import (
	"errors"
	"fmt"
	"syscall"
)

// errAccessDenied is ERROR_ACCESS_DENIED. DisplayConfigGetDeviceInfo and
// CreateFileW return it for remote sessions, locked desktops and virtual
// displays; both call sites treat it as "skip".
const errAccessDenied = syscall.Errno(5)

// ErrorKind classifies a SysError.
type ErrorKind int

const (
	BufferSizeQueryFailed ErrorKind = iota + 1
	ConfigQueryFailed
	DeviceInfoQueryFailed
	MonitorEnumerationFailed
	MonitorInfoFailed
	PhysicalMonitorQueryFailed
	EnumerationMismatch
	DeviceInfoMissing
	ControlHandleOpenFailed
)

var kindMessages = map[ErrorKind]string{
	BufferSizeQueryFailed:      "failed to get display config buffer sizes",
	ConfigQueryFailed:          "failed to query display config",
	DeviceInfoQueryFailed:      "failed to get display config device info",
	MonitorEnumerationFailed:   "failed to enumerate display monitors",
	MonitorInfoFailed:          "failed to get monitor info",
	PhysicalMonitorQueryFailed: "failed to get physical monitors from HMONITOR",
	EnumerationMismatch: "physical monitor and display device counts differ, " +
		"monitors may have been connected or disconnected while enumerating",
	DeviceInfoMissing: "no display config target matches this display device, " +
		"monitors may have been connected while enumerating",
	ControlHandleOpenFailed: "failed to open monitor interface handle",
}

func (k ErrorKind) String() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("display error kind %d", int(k))
}

// SysError is a failure of one internal enumeration step. Err, when set, is
// the platform error code.
type SysError struct {
	Kind       ErrorKind
	DeviceName string
	Err        error
}

func (e *SysError) Error() string {
	msg := e.Kind.String()
	if e.DeviceName != "" {
		msg = fmt.Sprintf("%s (device %s)", msg, e.DeviceName)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *SysError) Unwrap() error { return e.Err }

func sysErr(kind ErrorKind, err error) *SysError {
	return &SysError{Kind: kind, Err: err}
}

// ErrListingDisplaysFailed matches every *Error through errors.Is.
var ErrListingDisplaysFailed = errors.New("listing displays failed")

// Error is the public error yielded by ListAllDisplays and
// ListPhysicalDisplays. The cause chain keeps the *SysError.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return ErrListingDisplaysFailed.Error()
	}
	return ErrListingDisplaysFailed.Error() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool { return target == ErrListingDisplaysFailed }

func publicErr(err error) error {
	if err == nil {
		return nil
	}
	var pub *Error
	if errors.As(err, &pub) {
		return err
	}
	return &Error{Cause: err}
}

// KindOf returns the ErrorKind carried anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var se *SysError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
