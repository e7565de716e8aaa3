//go:build windows

package collector

import (
	"fmt"
	"strings"

	"github.com/yusufpapurcu/wmi"
)

type win32ComputerSystem struct {
	Manufacturer string
	Model        string
}

type win32ComputerSystemProduct struct {
	IdentifyingNumber string
	UUID              string
}

var platformSystemInfo = wmiSystemInfo

// wmiSystemInfo queries Win32_ComputerSystem and Win32_ComputerSystemProduct
// for manufacturer, model, serial number and UUID.
func wmiSystemInfo() (SystemInfo, error) {
	var cs []win32ComputerSystem
	if err := wmi.Query("SELECT Manufacturer, Model FROM Win32_ComputerSystem", &cs); err != nil {
		return SystemInfo{}, fmt.Errorf("query Win32_ComputerSystem: %w", err)
	}

	var product []win32ComputerSystemProduct
	if err := wmi.Query("SELECT IdentifyingNumber, UUID FROM Win32_ComputerSystemProduct", &product); err != nil {
		return SystemInfo{}, fmt.Errorf("query Win32_ComputerSystemProduct: %w", err)
	}

	info := SystemInfo{}
	if len(cs) > 0 {
		info.Manufacturer = cs[0].Manufacturer
		info.Model = cs[0].Model
	}
	if len(product) > 0 {
		info.SerialNumber = product[0].IdentifyingNumber
		info.UUID = strings.ToLower(product[0].UUID)
	}
	return info, nil
}
