package recorder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-displays/internal/collector"
	"github.com/go-tangra/go-tangra-displays/internal/display"
	"github.com/go-tangra/go-tangra-displays/internal/store"
)

type fakeCollector struct {
	mu       sync.Mutex
	calls    int
	physical int
	err      error
	nilInv   bool
}

func (f *fakeCollector) inventory() (*collector.Inventory, error) {
	if f.nilInv {
		return nil, f.err
	}
	return &collector.Inventory{
		Hostname:    "ws-042",
		CollectedAt: time.Now().UTC(),
		Displays:    []collector.DisplayInfo{{Device: display.Device{Name: `\\.\DISPLAY1\Monitor0`}}},
	}, f.err
}

func (f *fakeCollector) Collect(context.Context) (*collector.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.inventory()
}

func (f *fakeCollector) CollectPhysical(context.Context) (*collector.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.physical++
	return f.inventory()
}

func (f *fakeCollector) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.physical
}

type fakeStore struct {
	mu        sync.Mutex
	inserted  []*store.SnapshotRecord
	purges    []time.Duration
	insertErr error
}

func (f *fakeStore) Insert(_ context.Context, rec *store.SnapshotRecord) (string, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", time.Time{}, f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return "id", time.Now(), nil
}

func (f *fakeStore) Purge(_ context.Context, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purges = append(f.purges, olderThan)
	return 1, nil
}

func (f *fakeStore) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted), len(f.purges)
}

func TestSnapshotStoresPartialInventory(t *testing.T) {
	c := &fakeCollector{err: errors.New("monitor identities: wmi unavailable")}
	s := &fakeStore{}

	id, err := New(Config{Interval: time.Minute}, c, s).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id", id)

	require.Len(t, s.inserted, 1)
	assert.Equal(t, "ws-042", s.inserted[0].Hostname)
	assert.Len(t, s.inserted[0].Displays, 1)
}

func TestSnapshotUsesPhysicalListing(t *testing.T) {
	c := &fakeCollector{}
	s := &fakeStore{}

	_, err := New(Config{Interval: time.Minute, IncludePhysical: true}, c, s).Snapshot(context.Background())
	require.NoError(t, err)

	calls, physical := c.counts()
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, physical)
}

func TestSnapshotStoreFailure(t *testing.T) {
	s := &fakeStore{insertErr: errors.New("database is locked")}
	_, err := New(Config{Interval: time.Minute}, &fakeCollector{}, s).Snapshot(context.Background())
	assert.EqualError(t, err, "database is locked")
}

func TestSnapshotWithoutInventory(t *testing.T) {
	c := &fakeCollector{nilInv: true, err: errors.New("boom")}
	s := &fakeStore{}

	_, err := New(Config{Interval: time.Minute}, c, s).Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, s.inserted)
}

func TestRunInitialSnapshotFailure(t *testing.T) {
	s := &fakeStore{insertErr: errors.New("disk full")}
	err := New(Config{Interval: time.Minute}, &fakeCollector{}, s).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial snapshot")
}

func TestRunRejectsNonPositiveInterval(t *testing.T) {
	err := New(Config{}, &fakeCollector{}, &fakeStore{}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunSnapshotsAndPurgesUntilCancelled(t *testing.T) {
	c := &fakeCollector{}
	s := &fakeStore{}
	r := New(Config{
		Interval:      10 * time.Millisecond,
		RetentionDays: 7,
		PurgeInterval: 10 * time.Millisecond,
	}, c, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		inserted, purges := s.counts()
		return inserted >= 3 && purges >= 2
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("recorder did not stop")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, 7*24*time.Hour, s.purges[0])
}

func TestRunWithoutRetentionNeverPurges(t *testing.T) {
	s := &fakeStore{}
	r := New(Config{Interval: 5 * time.Millisecond, PurgeInterval: time.Millisecond}, &fakeCollector{}, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		inserted, _ := s.counts()
		return inserted >= 2
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	_, purges := s.counts()
	assert.Zero(t, purges)
}
