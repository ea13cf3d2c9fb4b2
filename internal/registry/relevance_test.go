package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insights-cli/internal/connector"
	"github.com/sells-group/insights-cli/internal/model"
)

func relevanceFixture() (*Registry, []connector.Connector) {
	connected := []connector.Connector{
		&fakeConnector{id: connector.SourceMetaAds, name: "Meta Ads", typ: model.SourceTypeAdvertising},
		&fakeConnector{id: connector.SourceGoogleAds, name: "Google Ads", typ: model.SourceTypeAdvertising},
		&fakeConnector{id: connector.SourceShopify, name: "Shopify", typ: model.SourceTypeCommerce},
		&fakeConnector{id: connector.SourceMailchimp, name: "Mailchimp", typ: model.SourceTypeEmail},
	}
	return New(testConfig()), connected
}

func TestSelectRelevantMatchesKeywords(t *testing.T) {
	r, connected := relevanceFixture()

	out := r.SelectRelevant("how is my facebook reach this month", connected)

	require.Len(t, out, 1)
	assert.Equal(t, connector.SourceMetaAds, out[0].Info().ID)
}

func TestSelectRelevantNoMatchReturnsAll(t *testing.T) {
	r, connected := relevanceFixture()

	out := r.SelectRelevant("how are things going", connected)

	require.Len(t, out, len(connected))
	for i := range connected {
		assert.Equal(t, connected[i].Info().ID, out[i].Info().ID)
	}
}

func TestSelectRelevantRanksByScore(t *testing.T) {
	r, connected := relevanceFixture()

	// Shopify matches twice (store, sales), Mailchimp once (email).
	out := r.SelectRelevant("store sales vs email performance", connected)

	require.Len(t, out, 2)
	assert.Equal(t, connector.SourceShopify, out[0].Info().ID)
	assert.Equal(t, connector.SourceMailchimp, out[1].Info().ID)
}

func TestSelectRelevantStableOnTies(t *testing.T) {
	r, connected := relevanceFixture()

	// Both ad platforms score one ("social" for Meta, "ppc" for Google Ads);
	// ties keep the input order.
	out := r.SelectRelevant("compare social against ppc", connected)

	require.Len(t, out, 2)
	assert.Equal(t, connector.SourceMetaAds, out[0].Info().ID)
	assert.Equal(t, connector.SourceGoogleAds, out[1].Info().ID)
}

func TestSelectRelevantEmptyInput(t *testing.T) {
	r, _ := relevanceFixture()
	assert.Empty(t, r.SelectRelevant("facebook", nil))
}

func TestWithKeywordsOverride(t *testing.T) {
	r, connected := relevanceFixture()
	r.WithKeywords(map[string][]string{
		connector.SourceShopify: {"merch"},
	})

	out := r.SelectRelevant("merch numbers", connected)

	require.Len(t, out, 1)
	assert.Equal(t, connector.SourceShopify, out[0].Info().ID)
}

func TestLoadKeywordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	fixture := `
meta_ads:
  - retargeting
shopify:
  - merch
  - catalog
`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	kws, err := LoadKeywordFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"retargeting"}, kws[connector.SourceMetaAds])
	assert.Equal(t, []string{"merch", "catalog"}, kws[connector.SourceShopify])
}

func TestLoadKeywordFileMissing(t *testing.T) {
	_, err := LoadKeywordFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read keyword file")
}
