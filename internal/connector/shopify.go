package connector

import (
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/store"
)

// SourceShopify is the source id for the Shopify connector.
const SourceShopify = "shopify"

// Shopify normalizes Shopify store analytics. Orders map onto the canonical
// conversions field; total sales onto revenue.
type Shopify struct {
	base
}

// NewShopify creates the Shopify connector.
func NewShopify(st store.Store, opts ...Option) *Shopify {
	spec := sourceSpec{
		info: model.ConnectorInfo{
			ID:      SourceShopify,
			Name:    "Shopify",
			Type:    model.SourceTypeCommerce,
			Version: "1.0.3",
		},
		caps: model.Capabilities{
			Historical:  true,
			CrossSource: true,
		},
		dataType: "commerce",
		currency: "USD",
		fields: map[string]fieldSpec{
			"conversions":     {aliases: []string{"orders", "total_orders"}, def: 310},
			"revenue":         {aliases: []string{"total_sales", "gross_sales", "revenue"}, def: 18600},
			"sessions":        {aliases: []string{"sessions", "online_store_sessions"}, def: 12400},
			"conversion_rate": {aliases: []string{"conversion_rate"}, def: 2.5},
		},
		primary:   []string{"revenue", "conversions"},
		supported: []string{"conversions", "revenue", "sessions", "conversion_rate"},
	}
	return &Shopify{base: newBase(spec, st, opts...)}
}
