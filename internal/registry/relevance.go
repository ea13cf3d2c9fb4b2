package registry

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/insights-cli/internal/connector"
)

// builtinKeywords maps each source id to the terms that make it relevant to
// a free-text query. Matching is plain substring containment against the
// lower-cased query; this is a heuristic ranking, not a semantic matcher.
func builtinKeywords() map[string][]string {
	return map[string][]string{
		connector.SourceMetaAds:         {"facebook", "instagram", "meta", "social", "reach"},
		connector.SourceGoogleAds:       {"google ads", "adwords", "ppc", "search ads", "keywords"},
		connector.SourceGoogleAnalytics: {"analytics", "traffic", "website", "visitors", "bounce"},
		connector.SourceShopify:         {"shopify", "store", "orders", "ecommerce", "sales"},
		connector.SourceLinkedInAds:     {"linkedin", "b2b", "sponsored"},
		connector.SourceMailchimp:       {"email", "mailchimp", "newsletter", "subscribers"},
	}
}

// LoadKeywordFile reads a YAML map of source id -> keyword list, used to
// override the built-in relevance tables.
func LoadKeywordFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read keyword file %s", path)
	}

	var keywords map[string][]string
	if err := yaml.Unmarshal(data, &keywords); err != nil {
		return nil, eris.Wrap(err, "registry: parse keyword file")
	}

	return keywords, nil
}

// SelectRelevant ranks the connected connectors against a free-text query
// by keyword match count. A query matching nothing returns the connected
// list unchanged: broad or ambiguous questions mean "show everything".
// The result is never empty when the input isn't.
func (r *Registry) SelectRelevant(query string, connected []connector.Connector) []connector.Connector {
	if len(connected) == 0 {
		return connected
	}

	q := strings.ToLower(query)
	scores := make([]int, len(connected))
	for i, c := range connected {
		for _, kw := range r.keywords[c.Info().ID] {
			if strings.Contains(q, kw) {
				scores[i]++
			}
		}
	}

	// Stable sort keeps the caller's original order on ties.
	idx := make([]int, len(connected))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if scores[idx[0]] == 0 {
		return connected
	}

	var out []connector.Connector
	for _, i := range idx {
		if scores[i] > 0 {
			out = append(out, connected[i])
		}
	}
	if len(out) == 0 {
		out = append(out, connected[idx[0]])
	}
	return out
}
