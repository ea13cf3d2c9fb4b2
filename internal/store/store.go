// Package store persists the collaborators the aggregation core reads:
// stored credentials, raw metric snapshots, and source connection status.
package store

import (
	"context"

	"github.com/sells-group/insights-cli/internal/model"
)

// Store defines the persistence interface consumed by the registry and the
// integration bridge. Lookups return (nil, nil) when no row exists.
type Store interface {
	// Credentials
	GetCredential(ctx context.Context, userID, sourceID string) (*model.Credential, error)
	PutCredential(ctx context.Context, cred model.Credential) error

	// Metric snapshots
	GetLatestSnapshot(ctx context.Context, userID, sourceID string) (*model.MetricSnapshot, error)
	PutSnapshot(ctx context.Context, snap model.MetricSnapshot) (string, error)
	PutSnapshots(ctx context.Context, snaps []model.MetricSnapshot) (int64, error)

	// Connection status
	ListConnections(ctx context.Context, userID string) ([]model.SourceConnection, error)
	PutConnection(ctx context.Context, conn model.SourceConnection) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
