package model

import "time"

// Credential is a stored access token for a (user, source) pair. The core
// only reads these; acquisition happens in the OAuth flow upstream.
type Credential struct {
	UserID      string    `json:"user_id"`
	SourceID    string    `json:"source_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the credential's expiry is in the past.
func (c *Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// MetricSnapshot is one persisted raw payload for a (user, source) pair.
// The payload keeps the source's native field names; normalization happens
// at read time.
type MetricSnapshot struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	SourceID  string         `json:"source_id"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// ConnectionStatus is the lifecycle state of a user's source connection.
type ConnectionStatus string

const (
	ConnectionActive       ConnectionStatus = "active"
	ConnectionDisconnected ConnectionStatus = "disconnected"
)

// SourceConnection is a connection-status row: one source a user has linked.
type SourceConnection struct {
	UserID      string           `json:"user_id"`
	SourceID    string           `json:"source_id"`
	SourceType  SourceType       `json:"source_type"`
	Status      ConnectionStatus `json:"status"`
	ConnectedAt time.Time        `json:"connected_at"`
}
