package display

import (
	"errors"
	"unsafe"
)

// targetInfoIndex maps a monitor device path (DOS device path format) to the
// display config target that owns it. Keys are compared as raw code units.
type targetInfoIndex map[[devicePathLen]uint16]TargetDeviceName

// buildTargetInfoIndex queries the active display paths and fetches the
// target name of every target mode. The output technology found here is what
// classifies a monitor as internal or external.
func buildTargetInfoIndex(sys System) (targetInfoIndex, error) {
	numPaths, numModes, err := sys.DisplayConfigBufferSizes(qdcOnlyActivePaths)
	if err != nil {
		return nil, sysErr(BufferSizeQueryFailed, err)
	}

	paths := make([]PathInfo, numPaths)
	modes := make([]ModeInfo, numModes)
	_, numModes, err = sys.QueryDisplayConfig(qdcOnlyActivePaths, paths, modes)
	if err != nil {
		return nil, sysErr(ConfigQueryFailed, err)
	}
	if int(numModes) < len(modes) {
		modes = modes[:numModes]
	}

	index := make(targetInfoIndex)
	for _, mode := range modes {
		if mode.InfoType != modeInfoTypeTarget {
			continue
		}

		var name TargetDeviceName
		name.Header = DeviceInfoHeader{
			Type:      deviceInfoTypeGetTargetName,
			Size:      uint32(unsafe.Sizeof(name)),
			AdapterID: mode.AdapterID,
			ID:        mode.ID,
		}
		switch err := sys.TargetDeviceName(&name); {
		case err == nil:
			// A repeated path overwrites the earlier target.
			index[name.MonitorDevicePath] = name
		case errors.Is(err, errAccessDenied):
			// No access to the current desktop, or running in a remote session.
		default:
			return nil, sysErr(DeviceInfoQueryFailed, err)
		}
	}
	return index, nil
}

func (idx targetInfoIndex) lookup(dev *DisplayDevice) (TargetDeviceName, error) {
	info, ok := idx[dev.DeviceID]
	if !ok {
		return TargetDeviceName{}, &SysError{Kind: DeviceInfoMissing, DeviceName: DecodeWide(dev.DeviceName[:])}
	}
	return info, nil
}
