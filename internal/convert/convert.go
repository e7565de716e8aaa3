package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-tangra/go-tangra-displays/internal/collector"
	"github.com/go-tangra/go-tangra-displays/internal/store"
)

// InventoryToRecord converts an Inventory to a store record.
func InventoryToRecord(inv *collector.Inventory) (*store.SnapshotRecord, error) {
	jsonBytes, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("marshal inventory to JSON: %w", err)
	}

	collectedAt := inv.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now().UTC()
	}

	displays := make([]store.DisplayRecord, len(inv.Displays))
	for i, d := range inv.Displays {
		displays[i] = store.DisplayRecord{
			Position:         i,
			DevicePath:       d.Path,
			DeviceName:       d.Name,
			Description:      d.Description,
			OutputTechnology: d.OutputTechnology.String(),
			Internal:         d.IsInternal(),
			Width:            d.Bounds.Width(),
			Height:           d.Bounds.Height(),
		}
	}

	return &store.SnapshotRecord{
		ID:            inv.ID,
		Hostname:      inv.Hostname,
		SystemUUID:    inv.System.UUID,
		SystemSerial:  inv.System.SerialNumber,
		CollectedAt:   collectedAt,
		InventoryJSON: string(jsonBytes),
		Displays:      displays,
	}, nil
}

// RecordToInventory converts a store record back to an Inventory. The ID
// always comes from the record.
func RecordToInventory(rec *store.SnapshotRecord) (*collector.Inventory, error) {
	var inv collector.Inventory
	if err := json.Unmarshal([]byte(rec.InventoryJSON), &inv); err != nil {
		return nil, fmt.Errorf("unmarshal inventory JSON: %w", err)
	}
	inv.ID = rec.ID
	return &inv, nil
}

// Summary is the listing form of a snapshot.
type Summary struct {
	ID           string    `json:"id" yaml:"id"`
	Hostname     string    `json:"hostname" yaml:"hostname"`
	SystemUUID   string    `json:"system_uuid" yaml:"system_uuid"`
	SystemSerial string    `json:"system_serial" yaml:"system_serial"`
	CollectedAt  time.Time `json:"collected_at" yaml:"collected_at"`
	StoredAt     time.Time `json:"stored_at" yaml:"stored_at"`
	DisplayCount int       `json:"display_count" yaml:"display_count"`
}

// RecordToSummary converts a store record to a Summary.
func RecordToSummary(rec *store.SnapshotRecord) Summary {
	return Summary{
		ID:           rec.ID,
		Hostname:     rec.Hostname,
		SystemUUID:   rec.SystemUUID,
		SystemSerial: rec.SystemSerial,
		CollectedAt:  rec.CollectedAt,
		StoredAt:     rec.StoredAt,
		DisplayCount: rec.DisplayCount,
	}
}

// Sighting is the listing form of one appearance of a display device.
type Sighting struct {
	SnapshotID       string    `json:"snapshot_id" yaml:"snapshot_id"`
	Hostname         string    `json:"hostname" yaml:"hostname"`
	CollectedAt      time.Time `json:"collected_at" yaml:"collected_at"`
	DevicePath       string    `json:"device_path" yaml:"device_path"`
	DeviceName       string    `json:"device_name" yaml:"device_name"`
	Description      string    `json:"description" yaml:"description"`
	OutputTechnology string    `json:"output_technology" yaml:"output_technology"`
	Internal         bool      `json:"internal" yaml:"internal"`
	Width            int32     `json:"width" yaml:"width"`
	Height           int32     `json:"height" yaml:"height"`
}

// StoreSightingToSighting converts a store sighting to its listing form.
func StoreSightingToSighting(s *store.Sighting) Sighting {
	return Sighting{
		SnapshotID:       s.SnapshotID,
		Hostname:         s.Hostname,
		CollectedAt:      s.CollectedAt,
		DevicePath:       s.DevicePath,
		DeviceName:       s.DeviceName,
		Description:      s.Description,
		OutputTechnology: s.OutputTechnology,
		Internal:         s.Internal,
		Width:            s.Width,
		Height:           s.Height,
	}
}
