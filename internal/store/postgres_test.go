package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insights-cli/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresGetCredential(t *testing.T) {
	s, mock := newMockStore(t)
	expires := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT user_id, source_id, access_token, expires_at FROM credentials").
		WithArgs("u1", "meta_ads").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "source_id", "access_token", "expires_at"}).
			AddRow("u1", "meta_ads", "tok-1", expires))

	cred, err := s.GetCredential(context.Background(), "u1", "meta_ads")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "tok-1", cred.AccessToken)
	assert.Equal(t, expires, cred.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetCredentialNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT user_id, source_id, access_token, expires_at FROM credentials").
		WithArgs("u1", "meta_ads").
		WillReturnError(pgx.ErrNoRows)

	cred, err := s.GetCredential(context.Background(), "u1", "meta_ads")
	require.NoError(t, err)
	assert.Nil(t, cred)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLatestSnapshot(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, user_id, source_id, payload, created_at FROM metric_snapshots").
		WithArgs("u1", "meta_ads").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "source_id", "payload", "created_at"}).
			AddRow("snap-1", "u1", "meta_ads", []byte(`{"impressions": 100}`), created))

	snap, err := s.GetLatestSnapshot(context.Background(), "u1", "meta_ads")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "snap-1", snap.ID)
	assert.Equal(t, 100.0, snap.Payload["impressions"])
	assert.Equal(t, created, snap.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLatestSnapshotNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, user_id, source_id, payload, created_at FROM metric_snapshots").
		WithArgs("u1", "meta_ads").
		WillReturnError(pgx.ErrNoRows)

	snap, err := s.GetLatestSnapshot(context.Background(), "u1", "meta_ads")
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutSnapshotGeneratesID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO metric_snapshots").
		WithArgs(pgxmock.AnyArg(), "u1", "meta_ads", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.PutSnapshot(context.Background(), model.MetricSnapshot{
		UserID: "u1", SourceID: "meta_ads",
		Payload: map[string]any{"clicks": 5.0},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutSnapshotsUsesCopy(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"metric_snapshots"},
		[]string{"id", "user_id", "source_id", "payload", "created_at"}).
		WillReturnResult(2)

	n, err := s.PutSnapshots(context.Background(), []model.MetricSnapshot{
		{UserID: "u1", SourceID: "meta_ads", Payload: map[string]any{"clicks": 1.0}},
		{UserID: "u1", SourceID: "google_ads", Payload: map[string]any{"clicks": 2.0}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListConnections(t *testing.T) {
	s, mock := newMockStore(t)
	connected := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT user_id, source_id, source_type, status, connected_at FROM source_connections").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "source_id", "source_type", "status", "connected_at"}).
			AddRow("u1", "meta_ads", "advertising", "active", connected).
			AddRow("u1", "shopify", "commerce", "disconnected", connected))

	conns, err := s.ListConnections(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, model.SourceTypeAdvertising, conns[0].SourceType)
	assert.Equal(t, model.ConnectionDisconnected, conns[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutConnection(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO source_connections").
		WithArgs("u1", "meta_ads", "advertising", "active", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.PutConnection(context.Background(), model.SourceConnection{
		UserID: "u1", SourceID: "meta_ads",
		SourceType: model.SourceTypeAdvertising, Status: model.ConnectionActive,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQueryFailureWrapped(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT user_id, source_id, source_type, status, connected_at FROM source_connections").
		WithArgs("u1").
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := s.ListConnections(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list connections")
	assert.NoError(t, mock.ExpectationsWereMet())
}
