package connector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallbackFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fallback.yaml")
	fixture := `
meta_ads:
  impressions: 42
  clicks: 7
`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	p, err := LoadFallbackFile(path)
	require.NoError(t, err)

	d := p.Dataset(SourceMetaAds)
	assert.Equal(t, 42, d["impressions"])
	assert.Equal(t, 7, d["clicks"])

	// Sources missing from the file fall through to the built-in datasets.
	assert.Equal(t, 18500.0, p.Dataset(SourceMailchimp)["emails_sent"])
}

func TestLoadFallbackFileMissing(t *testing.T) {
	_, err := LoadFallbackFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read fallback fixture")
}

func TestLoadFallbackFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("][not yaml"), 0o644))

	_, err := LoadFallbackFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse fallback fixture")
}
