package display

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// guard owns one raw OS handle and releases it exactly once. Release errors
// are swallowed: cleanup must never fail the caller.
type guard struct {
	raw     uintptr
	release func(uintptr) error
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

type rawHandle struct {
	value   uintptr
	release func(uintptr) error
}

func releaseRaw(h rawHandle) {
	_ = h.release(h.value)
}

// track arms a cleanup on owner so a guard that is dropped without Close
// still releases its handle once it becomes unreachable.
func track[T any](owner *T, g *guard) {
	g.cleanup = runtime.AddCleanup(owner, releaseRaw, rawHandle{value: g.raw, release: g.release})
}

func (g *guard) close() {
	if !g.closed.CompareAndSwap(false, true) {
		return
	}
	g.cleanup.Stop()
	_ = g.release(g.raw)
}

// PhysicalMonitorHandle owns a PHYSICAL_MONITOR handle, released with
// DestroyPhysicalMonitor.
type PhysicalMonitorHandle struct {
	g guard
}

func newPhysicalMonitorHandle(raw uintptr, release func(uintptr) error) *PhysicalMonitorHandle {
	h := &PhysicalMonitorHandle{g: guard{raw: raw, release: release}}
	track(h, &h.g)
	return h
}

// Close releases the handle. It is safe to call more than once and on nil;
// it always returns nil.
func (h *PhysicalMonitorHandle) Close() error {
	if h != nil {
		h.g.close()
	}
	return nil
}

func (h *PhysicalMonitorHandle) String() string {
	if h == nil {
		return "PhysicalMonitor(nil)"
	}
	return fmt.Sprintf("PhysicalMonitor(%#x)", h.g.raw)
}

// FileHandle owns a file handle from CreateFileW, released with CloseHandle.
type FileHandle struct {
	g guard
}

func newFileHandle(raw uintptr, release func(uintptr) error) *FileHandle {
	h := &FileHandle{g: guard{raw: raw, release: release}}
	track(h, &h.g)
	return h
}

// Close releases the handle. It is safe to call more than once and on nil;
// it always returns nil.
func (h *FileHandle) Close() error {
	if h != nil {
		h.g.close()
	}
	return nil
}

func (h *FileHandle) String() string {
	if h == nil {
		return "File(nil)"
	}
	return fmt.Sprintf("File(%#x)", h.g.raw)
}
