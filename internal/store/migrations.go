package store

const createTableSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id              TEXT PRIMARY KEY,
    hostname        TEXT NOT NULL,
    system_uuid     TEXT NOT NULL DEFAULT '',
    system_serial   TEXT NOT NULL DEFAULT '',
    collected_at    TEXT NOT NULL,
    stored_at       TEXT NOT NULL,
    display_count   INTEGER NOT NULL DEFAULT 0,
    inventory_json  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_hostname ON snapshots(hostname);
CREATE INDEX IF NOT EXISTS idx_snapshots_system_uuid ON snapshots(system_uuid);
CREATE INDEX IF NOT EXISTS idx_snapshots_collected_at ON snapshots(collected_at);

CREATE TABLE IF NOT EXISTS snapshot_displays (
    snapshot_id       TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
    position          INTEGER NOT NULL,
    device_path       TEXT NOT NULL,
    device_name       TEXT NOT NULL,
    description       TEXT NOT NULL DEFAULT '',
    output_technology TEXT NOT NULL DEFAULT '',
    internal          INTEGER NOT NULL DEFAULT 0,
    width             INTEGER NOT NULL DEFAULT 0,
    height            INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (snapshot_id, position)
);

CREATE INDEX IF NOT EXISTS idx_snapshot_displays_device_path ON snapshot_displays(device_path);
`
