package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/siderolabs/go-smbios/smbios"
)

// SystemSource identifies the host a snapshot was taken on.
type SystemSource interface {
	SystemInfo(ctx context.Context) (SystemInfo, error)
}

type smbiosSystem struct {
	fallback func() (SystemInfo, error)
}

// NativeSystem reads the SMBIOS system information table, falling back to
// WMI on Windows when the firmware table cannot be read.
func NativeSystem() SystemSource {
	return smbiosSystem{fallback: platformSystemInfo}
}

func (s smbiosSystem) SystemInfo(_ context.Context) (SystemInfo, error) {
	sm, err := smbios.New()
	if err == nil {
		return systemFromSMBIOS(sm.SystemInformation), nil
	}
	err = fmt.Errorf("read smbios: %w", err)
	if s.fallback == nil {
		return SystemInfo{}, err
	}
	info, fbErr := s.fallback()
	if fbErr != nil {
		return SystemInfo{}, errors.Join(err, fbErr)
	}
	return info, nil
}

func systemFromSMBIOS(si smbios.SystemInformation) SystemInfo {
	return SystemInfo{
		Manufacturer: strings.TrimSpace(si.Manufacturer),
		Model:        strings.TrimSpace(si.ProductName),
		SerialNumber: strings.TrimSpace(si.SerialNumber),
		UUID:         strings.ToLower(strings.TrimSpace(si.UUID)),
	}
}
