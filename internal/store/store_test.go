package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dellPath = `\\?\DISPLAY#DEL4109#5&1e0a7d2&0&UID4352#{e6f07b5f-ee97-4a90-b076-33f57bf4eaa7}`

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "displays.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	s.now = func() time.Time { return base.Add(24 * time.Hour) }
	return s
}

func snapshot(hostname string, at time.Time, displays ...DisplayRecord) *SnapshotRecord {
	return &SnapshotRecord{
		Hostname:      hostname,
		SystemUUID:    "uuid-" + hostname,
		SystemSerial:  "serial-" + hostname,
		CollectedAt:   at,
		InventoryJSON: `{"hostname":"` + hostname + `"}`,
		Displays:      displays,
	}
}

var (
	laptop = DisplayRecord{DevicePath: `\\?\DISPLAY#SHP14C1#1`, DeviceName: `\\.\DISPLAY1\Monitor0`, OutputTechnology: "internal", Internal: true, Width: 1920, Height: 1080}
	dell   = DisplayRecord{DevicePath: dellPath, DeviceName: `\\.\DISPLAY2\Monitor0`, Description: "Dell U2719D", OutputTechnology: "displayport", Width: 2560, Height: 1440}
)

func TestInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, storedAt, err := s.Insert(ctx, snapshot("ws-042", base, laptop, dell))
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.True(t, storedAt.Equal(base.Add(24*time.Hour)))

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "ws-042", rec.Hostname)
	assert.Equal(t, "uuid-ws-042", rec.SystemUUID)
	assert.True(t, rec.CollectedAt.Equal(base))
	assert.True(t, rec.StoredAt.Equal(storedAt))
	assert.Equal(t, 2, rec.DisplayCount)
	assert.Equal(t, `{"hostname":"ws-042"}`, rec.InventoryJSON)

	require.Len(t, rec.Displays, 2)
	assert.Equal(t, 0, rec.Displays[0].Position)
	assert.True(t, rec.Displays[0].Internal)
	assert.Equal(t, dellPath, rec.Displays[1].DevicePath)
	assert.Equal(t, "Dell U2719D", rec.Displays[1].Description)
	assert.Equal(t, int32(2560), rec.Displays[1].Width)
	assert.False(t, rec.Displays[1].Internal)
}

func TestInsertKeepsGivenID(t *testing.T) {
	s := newTestStore(t)
	rec := snapshot("ws-042", base)
	rec.ID = "5f0c6a8e-8f6e-4f5c-9d8e-3a1b2c3d4e5f"

	id, _, err := s.Insert(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)

	_, _, err = s.Insert(context.Background(), rec)
	assert.Error(t, err, "duplicate id")
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Insert(ctx, snapshot("ws-042", base, laptop))
	require.NoError(t, err)
	newest, _, err := s.Insert(ctx, snapshot("ws-042", base.Add(time.Hour), laptop, dell))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, snapshot("ws-007", base.Add(2*time.Hour)))
	require.NoError(t, err)

	rec, err := s.Latest(ctx, "ws-042")
	require.NoError(t, err)
	assert.Equal(t, newest, rec.ID)
	assert.Len(t, rec.Displays, 2)

	_, err = s.Latest(ctx, "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLatestOrdersSubSecondSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Insert(ctx, snapshot("ws-042", base))
	require.NoError(t, err)
	newest, _, err := s.Insert(ctx, snapshot("ws-042", base.Add(500*time.Millisecond)))
	require.NoError(t, err)

	rec, err := s.Latest(ctx, "ws-042")
	require.NoError(t, err)
	assert.Equal(t, newest, rec.ID)
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		_, _, err := s.Insert(ctx, snapshot("ws-042", base.Add(time.Duration(i)*time.Hour), laptop))
		require.NoError(t, err)
	}
	_, _, err := s.Insert(ctx, snapshot("ws-007", base))
	require.NoError(t, err)

	all, total, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Len(t, all, 6)
	assert.Empty(t, all[0].InventoryJSON)

	page, total, err := s.List(ctx, ListFilter{Hostname: "ws-042", PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].CollectedAt.Equal(base.Add(2*time.Hour)))
	assert.True(t, page[1].CollectedAt.Equal(base.Add(time.Hour)))
	assert.Equal(t, 1, page[0].DisplayCount)

	after := base.Add(3 * time.Hour)
	recent, total, err := s.List(ctx, ListFilter{CollectedAfter: &after})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, recent, 2)

	before := base
	early, total, err := s.List(ctx, ListFilter{CollectedBefore: &before, SystemUUID: "uuid-ws-007"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "ws-007", early[0].Hostname)
}

func TestDeviceHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Insert(ctx, snapshot("ws-042", base, laptop, dell))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, snapshot("ws-042", base.Add(time.Hour), laptop))
	require.NoError(t, err)
	last, _, err := s.Insert(ctx, snapshot("ws-007", base.Add(2*time.Hour), dell))
	require.NoError(t, err)

	history, err := s.DeviceHistory(ctx, dellPath, "", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, last, history[0].SnapshotID)
	assert.Equal(t, "ws-007", history[0].Hostname)
	assert.Equal(t, 0, history[0].Position)
	assert.Equal(t, 1, history[1].Position)
	assert.True(t, history[1].CollectedAt.Equal(base))

	history, err = s.DeviceHistory(ctx, dellPath, "ws-042", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Dell U2719D", history[0].Description)

	history, err = s.DeviceHistory(ctx, dellPath, "", 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.Insert(ctx, snapshot("ws-042", base, dell))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), sql.ErrNoRows)

	history, err := s.DeviceHistory(ctx, dellPath, "", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// now is base+24h
	_, _, err := s.Insert(ctx, snapshot("ws-042", base, dell))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, snapshot("ws-042", base.Add(2*time.Hour), dell))
	require.NoError(t, err)
	kept, _, err := s.Insert(ctx, snapshot("ws-042", base.Add(20*time.Hour), dell))
	require.NoError(t, err)

	n, err := s.Purge(ctx, 12*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, total, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	history, err := s.DeviceHistory(ctx, dellPath, "", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, kept, history[0].SnapshotID)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "displays.db")
	s, err := New(path)
	require.NoError(t, err)
	id, _, err := s.Insert(context.Background(), snapshot("ws-042", base))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()
	rec, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ws-042", rec.Hostname)
}
