package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/insights-cli/internal/db"
	"github.com/sells-group/insights-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_credential":      `SELECT user_id, source_id, access_token, expires_at FROM credentials WHERE user_id = $1 AND source_id = $2`,
	"get_latest_snapshot": `SELECT id, user_id, source_id, payload, created_at FROM metric_snapshots WHERE user_id = $1 AND source_id = $2 ORDER BY created_at DESC LIMIT 1`,
	"insert_snapshot":     `INSERT INTO metric_snapshots (id, user_id, source_id, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"list_connections":    `SELECT user_id, source_id, source_type, status, connected_at FROM source_connections WHERE user_id = $1 ORDER BY source_id`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS credentials (
	user_id      TEXT NOT NULL,
	source_id    TEXT NOT NULL,
	access_token TEXT NOT NULL,
	expires_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, source_id)
);

CREATE TABLE IF NOT EXISTS metric_snapshots (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id    TEXT NOT NULL,
	source_id  TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS source_connections (
	user_id      TEXT NOT NULL,
	source_id    TEXT NOT NULL,
	source_type  TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'active',
	connected_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, source_id)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_user_source ON metric_snapshots(user_id, source_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_connections_user ON source_connections(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetCredential(ctx context.Context, userID, sourceID string) (*model.Credential, error) {
	var cred model.Credential
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, source_id, access_token, expires_at FROM credentials WHERE user_id = $1 AND source_id = $2`,
		userID, sourceID,
	).Scan(&cred.UserID, &cred.SourceID, &cred.AccessToken, &cred.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get credential %s/%s", userID, sourceID)
	}
	return &cred, nil
}

func (s *PostgresStore) PutCredential(ctx context.Context, cred model.Credential) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO credentials (user_id, source_id, access_token, expires_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, source_id) DO UPDATE SET access_token = EXCLUDED.access_token, expires_at = EXCLUDED.expires_at`,
		cred.UserID, cred.SourceID, cred.AccessToken, cred.ExpiresAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: put credential %s/%s", cred.UserID, cred.SourceID)
}

func (s *PostgresStore) GetLatestSnapshot(ctx context.Context, userID, sourceID string) (*model.MetricSnapshot, error) {
	var (
		snap    model.MetricSnapshot
		payload []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, source_id, payload, created_at FROM metric_snapshots WHERE user_id = $1 AND source_id = $2 ORDER BY created_at DESC LIMIT 1`,
		userID, sourceID,
	).Scan(&snap.ID, &snap.UserID, &snap.SourceID, &payload, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get latest snapshot %s/%s", userID, sourceID)
	}
	if err := json.Unmarshal(payload, &snap.Payload); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal snapshot payload %s", snap.ID)
	}
	return &snap, nil
}

func (s *PostgresStore) PutSnapshot(ctx context.Context, snap model.MetricSnapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(snap.Payload)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal snapshot payload")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO metric_snapshots (id, user_id, source_id, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		snap.ID, snap.UserID, snap.SourceID, payload, snap.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: insert snapshot %s/%s", snap.UserID, snap.SourceID)
	}
	return snap.ID, nil
}

// PutSnapshots bulk-inserts snapshots via the COPY protocol.
func (s *PostgresStore) PutSnapshots(ctx context.Context, snaps []model.MetricSnapshot) (int64, error) {
	rows := make([][]any, 0, len(snaps))
	for _, snap := range snaps {
		if snap.ID == "" {
			snap.ID = uuid.New().String()
		}
		if snap.CreatedAt.IsZero() {
			snap.CreatedAt = time.Now().UTC()
		}
		payload, err := json.Marshal(snap.Payload)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal snapshot payload")
		}
		rows = append(rows, []any{snap.ID, snap.UserID, snap.SourceID, payload, snap.CreatedAt})
	}

	return db.CopyFrom(ctx, s.pool, "metric_snapshots",
		[]string{"id", "user_id", "source_id", "payload", "created_at"}, rows)
}

func (s *PostgresStore) ListConnections(ctx context.Context, userID string) ([]model.SourceConnection, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, source_id, source_type, status, connected_at FROM source_connections WHERE user_id = $1 ORDER BY source_id`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list connections %s", userID)
	}
	defer rows.Close()

	var conns []model.SourceConnection
	for rows.Next() {
		var c model.SourceConnection
		if err := rows.Scan(&c.UserID, &c.SourceID, &c.SourceType, &c.Status, &c.ConnectedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan connection")
		}
		conns = append(conns, c)
	}
	return conns, eris.Wrap(rows.Err(), "postgres: iterate connections")
}

func (s *PostgresStore) PutConnection(ctx context.Context, conn model.SourceConnection) error {
	if conn.ConnectedAt.IsZero() {
		conn.ConnectedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO source_connections (user_id, source_id, source_type, status, connected_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, source_id) DO UPDATE SET source_type = EXCLUDED.source_type, status = EXCLUDED.status`,
		conn.UserID, conn.SourceID, string(conn.SourceType), string(conn.Status), conn.ConnectedAt,
	)
	return eris.Wrapf(err, "postgres: put connection %s/%s", conn.UserID, conn.SourceID)
}
