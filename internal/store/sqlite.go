package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/insights-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS credentials (
	user_id      TEXT NOT NULL,
	source_id    TEXT NOT NULL,
	access_token TEXT NOT NULL,
	expires_at   DATETIME NOT NULL,
	PRIMARY KEY (user_id, source_id)
);

CREATE TABLE IF NOT EXISTS metric_snapshots (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	source_id  TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS source_connections (
	user_id      TEXT NOT NULL,
	source_id    TEXT NOT NULL,
	source_type  TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'active',
	connected_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (user_id, source_id)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_user_source ON metric_snapshots(user_id, source_id, created_at);
CREATE INDEX IF NOT EXISTS idx_connections_user ON source_connections(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCredential(ctx context.Context, userID, sourceID string) (*model.Credential, error) {
	var cred model.Credential
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, source_id, access_token, expires_at FROM credentials WHERE user_id = ? AND source_id = ?`,
		userID, sourceID,
	).Scan(&cred.UserID, &cred.SourceID, &cred.AccessToken, &cred.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get credential %s/%s", userID, sourceID)
	}
	return &cred, nil
}

func (s *SQLiteStore) PutCredential(ctx context.Context, cred model.Credential) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (user_id, source_id, access_token, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, source_id) DO UPDATE SET access_token = excluded.access_token, expires_at = excluded.expires_at`,
		cred.UserID, cred.SourceID, cred.AccessToken, cred.ExpiresAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: put credential %s/%s", cred.UserID, cred.SourceID)
}

func (s *SQLiteStore) GetLatestSnapshot(ctx context.Context, userID, sourceID string) (*model.MetricSnapshot, error) {
	var (
		snap    model.MetricSnapshot
		payload string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, source_id, payload, created_at FROM metric_snapshots
		 WHERE user_id = ? AND source_id = ? ORDER BY created_at DESC LIMIT 1`,
		userID, sourceID,
	).Scan(&snap.ID, &snap.UserID, &snap.SourceID, &payload, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get latest snapshot %s/%s", userID, sourceID)
	}
	if err := json.Unmarshal([]byte(payload), &snap.Payload); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal snapshot payload %s", snap.ID)
	}
	return &snap, nil
}

func (s *SQLiteStore) PutSnapshot(ctx context.Context, snap model.MetricSnapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(snap.Payload)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal snapshot payload")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO metric_snapshots (id, user_id, source_id, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.UserID, snap.SourceID, string(payload), snap.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: insert snapshot %s/%s", snap.UserID, snap.SourceID)
	}
	return snap.ID, nil
}

func (s *SQLiteStore) PutSnapshots(ctx context.Context, snaps []model.MetricSnapshot) (int64, error) {
	var n int64
	for _, snap := range snaps {
		if _, err := s.PutSnapshot(ctx, snap); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *SQLiteStore) ListConnections(ctx context.Context, userID string) ([]model.SourceConnection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, source_id, source_type, status, connected_at FROM source_connections
		 WHERE user_id = ? ORDER BY source_id`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list connections %s", userID)
	}
	defer rows.Close()

	var conns []model.SourceConnection
	for rows.Next() {
		var c model.SourceConnection
		if err := rows.Scan(&c.UserID, &c.SourceID, &c.SourceType, &c.Status, &c.ConnectedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan connection")
		}
		conns = append(conns, c)
	}
	return conns, eris.Wrap(rows.Err(), "sqlite: iterate connections")
}

func (s *SQLiteStore) PutConnection(ctx context.Context, conn model.SourceConnection) error {
	if conn.ConnectedAt.IsZero() {
		conn.ConnectedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO source_connections (user_id, source_id, source_type, status, connected_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, source_id) DO UPDATE SET source_type = excluded.source_type, status = excluded.status`,
		conn.UserID, conn.SourceID, string(conn.SourceType), string(conn.Status), conn.ConnectedAt,
	)
	return eris.Wrapf(err, "sqlite: put connection %s/%s", conn.UserID, conn.SourceID)
}
