package display

// HMONITOR identifies a logical monitor surface. The OS owns its lifetime;
// in "Duplicate" mode two physical monitors share one HMONITOR.
type HMONITOR uintptr

// Rect is a Win32 RECT in virtual desktop coordinates.
type Rect struct {
	Left   int32 `json:"left" yaml:"left"`
	Top    int32 `json:"top" yaml:"top"`
	Right  int32 `json:"right" yaml:"right"`
	Bottom int32 `json:"bottom" yaml:"bottom"`
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// LUID identifies a display adapter.
type LUID struct {
	LowPart  uint32
	HighPart int32
}

const (
	cchDeviceName = 32
	devicePathLen = 128
)

// MonitorInfoEx mirrors MONITORINFOEXW.
type MonitorInfoEx struct {
	Size    uint32
	Monitor Rect
	Work    Rect
	Flags   uint32
	Device  [cchDeviceName]uint16
}

const monitorInfoFPrimary = 0x00000001

// DisplayDevice mirrors DISPLAY_DEVICEW. When queried with
// EDD_GET_DEVICE_INTERFACE_NAME, DeviceID holds the DOS device path of the
// monitor interface, which equals TargetDeviceName.MonitorDevicePath.
type DisplayDevice struct {
	Cb           uint32
	DeviceName   [32]uint16
	DeviceString [128]uint16
	StateFlags   uint32
	DeviceID     [devicePathLen]uint16
	DeviceKey    [128]uint16
}

const (
	displayDeviceActive         = 0x00000001
	eddGetDeviceInterfaceName   = 0x00000001
	qdcOnlyActivePaths          = 0x00000002
	modeInfoTypeTarget          = 2
	deviceInfoTypeGetTargetName = 2
)

// PathInfo mirrors DISPLAYCONFIG_PATH_INFO. Its contents are not inspected;
// QueryDisplayConfig only needs correctly sized storage.
type PathInfo struct {
	SourceAdapterID    LUID
	SourceID           uint32
	SourceModeInfoIdx  uint32
	SourceStatusFlags  uint32
	TargetAdapterID    LUID
	TargetID           uint32
	TargetModeInfoIdx  uint32
	OutputTechnology   OutputTechnology
	Rotation           uint32
	Scaling            uint32
	RefreshNumerator   uint32
	RefreshDenominator uint32
	ScanLineOrdering   uint32
	TargetAvailable    int32
	TargetStatusFlags  uint32
	Flags              uint32
}

// ModeInfo mirrors DISPLAYCONFIG_MODE_INFO. The 48-byte union is kept opaque.
type ModeInfo struct {
	InfoType  uint32
	ID        uint32
	AdapterID LUID
	Mode      [48]byte
}

// DeviceInfoHeader mirrors DISPLAYCONFIG_DEVICE_INFO_HEADER.
type DeviceInfoHeader struct {
	Type      uint32
	Size      uint32
	AdapterID LUID
	ID        uint32
}

// TargetDeviceName mirrors DISPLAYCONFIG_TARGET_DEVICE_NAME.
type TargetDeviceName struct {
	Header                    DeviceInfoHeader
	Flags                     uint32
	OutputTechnology          OutputTechnology
	EdidManufactureID         uint16
	EdidProductCodeID         uint16
	ConnectorInstance         uint32
	MonitorFriendlyDeviceName [64]uint16
	MonitorDevicePath         [devicePathLen]uint16
}

// PhysicalMonitor mirrors PHYSICAL_MONITOR.
type PhysicalMonitor struct {
	Handle      uintptr
	Description [128]uint16
}
