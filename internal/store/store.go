package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SnapshotRecord represents a stored snapshot row.
type SnapshotRecord struct {
	ID            string
	Hostname      string
	SystemUUID    string
	SystemSerial  string
	CollectedAt   time.Time
	StoredAt      time.Time
	DisplayCount  int
	InventoryJSON string
	Displays      []DisplayRecord
}

// DisplayRecord is the indexed summary of one display of a snapshot.
type DisplayRecord struct {
	Position         int
	DevicePath       string
	DeviceName       string
	Description      string
	OutputTechnology string
	Internal         bool
	Width            int32
	Height           int32
}

// Sighting is one appearance of a display device in a snapshot.
type Sighting struct {
	SnapshotID  string
	Hostname    string
	CollectedAt time.Time
	DisplayRecord
}

// ListFilter holds optional query parameters for listing snapshots.
type ListFilter struct {
	Hostname        string
	SystemUUID      string
	CollectedAfter  *time.Time
	CollectedBefore *time.Time
	PageSize        int
	Page            int
}

// Store provides CRUD operations for snapshot records.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens the SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a snapshot and its display rows and returns the snapshot ID
// and stored_at time. A record without an ID gets a new UUID.
func (s *Store) Insert(ctx context.Context, rec *SnapshotRecord) (string, time.Time, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	storedAt := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, hostname, system_uuid, system_serial, collected_at, stored_at, display_count, inventory_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.Hostname,
		rec.SystemUUID,
		rec.SystemSerial,
		formatTime(rec.CollectedAt),
		formatTime(storedAt),
		len(rec.Displays),
		rec.InventoryJSON,
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert snapshot: %w", err)
	}

	for i, d := range rec.Displays {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_displays (snapshot_id, position, device_path, device_name, description, output_technology, internal, width, height)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, d.DevicePath, d.DeviceName, d.Description, d.OutputTechnology, d.Internal, d.Width, d.Height,
		)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("insert display %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", time.Time{}, fmt.Errorf("commit insert: %w", err)
	}
	return id, storedAt, nil
}

const snapshotColumns = `id, hostname, system_uuid, system_serial, collected_at, stored_at, display_count`

// Get retrieves a snapshot and its display rows by ID.
func (s *Store) Get(ctx context.Context, id string) (*SnapshotRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+`, inventory_json FROM snapshots WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, err
	}
	if rec.Displays, err = s.displays(ctx, rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Latest retrieves the most recent snapshot for a hostname.
func (s *Store) Latest(ctx context.Context, hostname string) (*SnapshotRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+`, inventory_json
		 FROM snapshots WHERE hostname = ? ORDER BY collected_at DESC LIMIT 1`, hostname)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, err
	}
	if rec.Displays, err = s.displays(ctx, rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) displays(ctx context.Context, snapshotID string) ([]DisplayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, device_path, device_name, description, output_technology, internal, width, height
		 FROM snapshot_displays WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("list displays: %w", err)
	}
	defer rows.Close()

	var out []DisplayRecord
	for rows.Next() {
		var d DisplayRecord
		if err := rows.Scan(&d.Position, &d.DevicePath, &d.DeviceName, &d.Description, &d.OutputTechnology, &d.Internal, &d.Width, &d.Height); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a snapshot and its display rows by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// List returns snapshot summaries matching the given filter, newest first,
// and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter) ([]SnapshotRecord, int, error) {
	where, args := buildWhere(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM snapshots" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + snapshotColumns + `, ''
		FROM snapshots` + where + ` ORDER BY collected_at DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}

	return records, total, rows.Err()
}

// DeviceHistory returns the snapshots a display device appeared in, newest
// first. An empty hostname matches every host.
func (s *Store) DeviceHistory(ctx context.Context, devicePath, hostname string, limit int) ([]Sighting, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT s.id, s.hostname, s.collected_at,
		d.position, d.device_path, d.device_name, d.description, d.output_technology, d.internal, d.width, d.height
		FROM snapshot_displays d JOIN snapshots s ON s.id = d.snapshot_id
		WHERE d.device_path = ?`
	args := []any{devicePath}
	if hostname != "" {
		query += ` AND s.hostname = ?`
		args = append(args, hostname)
	}
	query += ` ORDER BY s.collected_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("device history: %w", err)
	}
	defer rows.Close()

	var out []Sighting
	for rows.Next() {
		var (
			sg          Sighting
			collectedAt string
		)
		err := rows.Scan(&sg.SnapshotID, &sg.Hostname, &collectedAt,
			&sg.Position, &sg.DevicePath, &sg.DeviceName, &sg.Description, &sg.OutputTechnology, &sg.Internal, &sg.Width, &sg.Height)
		if err != nil {
			return nil, err
		}
		sg.CollectedAt = parseTime(collectedAt)
		out = append(out, sg)
	}
	return out, rows.Err()
}

// Purge deletes snapshots collected more than olderThan ago, together with
// their display rows.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := formatTime(s.now().Add(-olderThan))
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE collected_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge snapshots: %w", err)
	}
	return result.RowsAffected()
}

func buildWhere(f ListFilter) (string, []any) {
	var conditions []string
	var args []any

	if f.Hostname != "" {
		conditions = append(conditions, "hostname = ?")
		args = append(args, f.Hostname)
	}
	if f.SystemUUID != "" {
		conditions = append(conditions, "system_uuid = ?")
		args = append(args, f.SystemUUID)
	}
	if f.CollectedAfter != nil {
		conditions = append(conditions, "collected_at >= ?")
		args = append(args, formatTime(*f.CollectedAfter))
	}
	if f.CollectedBefore != nil {
		conditions = append(conditions, "collected_at <= ?")
		args = append(args, formatTime(*f.CollectedBefore))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*SnapshotRecord, error) {
	var rec SnapshotRecord
	var collectedAt, storedAt string
	err := row.Scan(&rec.ID, &rec.Hostname, &rec.SystemUUID, &rec.SystemSerial, &collectedAt, &storedAt, &rec.DisplayCount, &rec.InventoryJSON)
	if err != nil {
		return nil, err
	}

	rec.CollectedAt = parseTime(collectedAt)
	rec.StoredAt = parseTime(storedAt)

	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
