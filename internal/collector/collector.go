package collector

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/go-tangra/go-tangra-displays/internal/display"
)

// IdentitySource reads the EDID identity of attached monitors.
type IdentitySource interface {
	MonitorIdentities(ctx context.Context) ([]MonitorIdentity, error)
}

// Collector gathers display inventories. The zero value is not usable; use
// New or fill every field.
type Collector struct {
	Displays   func() iter.Seq2[display.Device, error]
	Physical   func() iter.Seq2[*display.PhysicalDevice, error]
	Identities IdentitySource
	System     SystemSource
	Hostname   func() (string, error)
	Now        func() time.Time
}

// New returns a Collector backed by the local desktop.
func New() *Collector {
	return &Collector{
		Displays:   display.ListAllDisplays,
		Physical:   display.ListPhysicalDisplays,
		Identities: NativeIdentities(),
		System:     NativeSystem(),
		Hostname:   os.Hostname,
		Now:        time.Now,
	}
}

// Collect takes a snapshot of the active displays of the local host. It
// attempts every source and returns the partial inventory alongside the
// joined errors.
func (c *Collector) Collect(ctx context.Context) (*Inventory, error) {
	inv, errs := c.begin(ctx)

	for dev, err := range c.Displays() {
		if err != nil {
			errs = append(errs, fmt.Errorf("displays: %w", err))
			continue
		}
		inv.Displays = append(inv.Displays, DisplayInfo{Device: dev})
	}

	errs = append(errs, c.identify(ctx, inv.Displays)...)
	return inv, errors.Join(errs...)
}

// CollectPhysical is Collect over the physical display listing: only
// displays whose monitor interface could be opened are listed, so virtual
// displays are left out. No handle outlives the call.
func (c *Collector) CollectPhysical(ctx context.Context) (*Inventory, error) {
	inv, errs := c.begin(ctx)

	for dev, err := range c.Physical() {
		if err != nil {
			errs = append(errs, fmt.Errorf("displays: %w", err))
			continue
		}
		inv.Displays = append(inv.Displays, DisplayInfo{Device: dev.Device})
		if err := dev.Close(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", dev.Name, err))
		}
	}

	errs = append(errs, c.identify(ctx, inv.Displays)...)
	return inv, errors.Join(errs...)
}

func (c *Collector) begin(ctx context.Context) (*Inventory, []error) {
	var errs []error

	hostname, err := c.Hostname()
	if err != nil {
		errs = append(errs, fmt.Errorf("hostname: %w", err))
	}

	inv := &Inventory{
		ID:          uuid.NewString(),
		CollectedAt: c.Now().UTC(),
		Hostname:    hostname,
	}

	sys, err := c.System.SystemInfo(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("system: %w", err))
	}
	inv.System = sys

	return inv, errs
}

// identify attaches the WMI identity to each display in place. Displays
// WMI does not know about keep an empty identity.
func (c *Collector) identify(ctx context.Context, displays []DisplayInfo) []error {
	if len(displays) == 0 {
		return nil
	}
	ids, err := c.Identities.MonitorIdentities(ctx)
	if err != nil {
		return []error{fmt.Errorf("monitor identities: %w", err)}
	}

	idx := newIdentityIndex(ids)
	for i := range displays {
		id, ok := idx.match(displays[i].Path)
		if !ok {
			continue
		}
		displays[i].Manufacturer = id.Manufacturer
		displays[i].Model = id.Model
		displays[i].SerialNumber = id.SerialNumber
	}
	return nil
}

// FromDevices wraps devices without identity information.
func FromDevices(devices []display.Device) []DisplayInfo {
	out := make([]DisplayInfo, len(devices))
	for i, d := range devices {
		out[i] = DisplayInfo{Device: d}
	}
	return out
}
