package collector

import (
	"time"

	"github.com/go-tangra/go-tangra-displays/internal/display"
)

// Inventory is one snapshot of the displays attached to a Windows host.
type Inventory struct {
	ID          string        `json:"id,omitempty" yaml:"id,omitempty"`
	CollectedAt time.Time     `json:"collected_at" yaml:"collected_at"`
	Hostname    string        `json:"hostname" yaml:"hostname"`
	System      SystemInfo    `json:"system" yaml:"system"`
	Displays    []DisplayInfo `json:"displays" yaml:"displays"`
}

// SystemInfo holds computer manufacturer, model, serial number and SMBIOS
// UUID.
type SystemInfo struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	SerialNumber string `json:"serial_number" yaml:"serial_number"`
	UUID         string `json:"uuid" yaml:"uuid"`
}

// DisplayInfo is a display device together with the EDID identity Windows
// read from the monitor.
type DisplayInfo struct {
	display.Device `yaml:",inline"`

	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty" yaml:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
}

// MonitorIdentity is one WmiMonitorID instance.
type MonitorIdentity struct {
	InstanceName string
	Manufacturer string
	Model        string
	SerialNumber string
}
