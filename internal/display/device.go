package display

import "errors"

// Device describes one active display device. It owns no OS resources and
// may be copied and kept freely.
type Device struct {
	Monitor  HMONITOR `json:"monitor" yaml:"monitor"`
	Bounds   Rect     `json:"bounds" yaml:"bounds"`
	WorkArea Rect     `json:"work_area" yaml:"work_area"`
	Primary  bool     `json:"primary" yaml:"primary"`

	// Name is the adapter output slot, e.g. \\.\DISPLAY1\Monitor0.
	Name string `json:"name" yaml:"name"`
	// Description is the driver supplied friendly name. It is not unique.
	Description string `json:"description" yaml:"description"`
	Key         string `json:"key" yaml:"key"`
	// Path is the DOS device path of the monitor interface and the key
	// that links the device to its display config target.
	Path string `json:"path" yaml:"path"`

	OutputTechnology   OutputTechnology `json:"output_technology" yaml:"output_technology"`
	FriendlyName       string           `json:"friendly_name,omitempty" yaml:"friendly_name,omitempty"`
	EDIDManufacturerID uint16           `json:"edid_manufacturer_id,omitempty" yaml:"edid_manufacturer_id,omitempty"`
	EDIDProductCodeID  uint16           `json:"edid_product_code_id,omitempty" yaml:"edid_product_code_id,omitempty"`
	ConnectorInstance  uint32           `json:"connector_instance" yaml:"connector_instance"`
}

// IsInternal reports whether the device is a built-in panel.
func (d Device) IsInternal() bool {
	return d.OutputTechnology.Internal()
}

func newDevice(monitor HMONITOR, md *monitorDevice, target *TargetDeviceName) Device {
	return Device{
		Monitor:            monitor,
		Bounds:             md.info.Monitor,
		WorkArea:           md.info.Work,
		Primary:            md.info.Flags&monitorInfoFPrimary != 0,
		Name:               DecodeWide(md.device.DeviceName[:]),
		Description:        DecodeWide(md.device.DeviceString[:]),
		Key:                DecodeWide(md.device.DeviceKey[:]),
		Path:               DecodeWide(md.device.DeviceID[:]),
		OutputTechnology:   target.OutputTechnology,
		FriendlyName:       DecodeWide(target.MonitorFriendlyDeviceName[:]),
		EDIDManufacturerID: target.EdidManufactureID,
		EDIDProductCodeID:  target.EdidProductCodeID,
		ConnectorInstance:  target.ConnectorInstance,
	}
}

// PhysicalDevice is a Device that also owns the monitor's physical monitor
// handle and an open handle on its device interface. Both are released by
// Close; once closed, neither handle may be used.
type PhysicalDevice struct {
	Device

	PhysicalMonitor *PhysicalMonitorHandle `json:"-" yaml:"-"`
	ControlFile     *FileHandle            `json:"-" yaml:"-"`
}

// IsInternal reports whether the device is a built-in panel.
func (d *PhysicalDevice) IsInternal() bool {
	return d.Device.IsInternal()
}

// Close releases the physical monitor and file handles.
func (d *PhysicalDevice) Close() error {
	if d == nil {
		return nil
	}
	return errors.Join(d.ControlFile.Close(), d.PhysicalMonitor.Close())
}
