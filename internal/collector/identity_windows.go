//go:build windows

package collector

import (
	"context"

	"github.com/yusufpapurcu/wmi"
)

type wmiMonitorID struct {
	InstanceName     string
	ManufacturerName []int32
	UserFriendlyName []int32
	SerialNumberID   []int32
}

type wmiIdentities struct{}

// NativeIdentities queries WmiMonitorID in root\wmi.
func NativeIdentities() IdentitySource { return wmiIdentities{} }

// MonitorIdentities returns the EDID identity of every active monitor.
func (wmiIdentities) MonitorIdentities(_ context.Context) ([]MonitorIdentity, error) {
	var ids []wmiMonitorID
	q := "SELECT InstanceName, ManufacturerName, UserFriendlyName, SerialNumberID FROM WmiMonitorID WHERE Active = TRUE"
	if err := wmi.QueryNamespace(q, &ids, `root\wmi`); err != nil {
		return nil, err
	}

	result := make([]MonitorIdentity, len(ids))
	for i, id := range ids {
		result[i] = MonitorIdentity{
			InstanceName: id.InstanceName,
			Manufacturer: decodeWMIString(id.ManufacturerName),
			Model:        decodeWMIString(id.UserFriendlyName),
			SerialNumber: decodeWMIString(id.SerialNumberID),
		}
	}
	return result, nil
}
