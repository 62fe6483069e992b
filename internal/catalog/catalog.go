// Package catalog holds the fixed set of connectable data sources and
// delivery channels the demo knows about, along with the canned payloads
// returned when a source is connected.
package catalog

type DataSource struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	MockPayload map[string]any `json:"-"`
}

type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var dataSources = []DataSource{
	{
		ID:          "shopify",
		Name:        "Shopify Store",
		Description: "Orders, products and customer purchase history",
		Icon:        "🛍️",
		MockPayload: map[string]any{
			"orders30d":      1284,
			"revenue30d":     48230.50,
			"topProduct":     "Classic Hoodie",
			"repeatRate":     0.34,
			"avgOrderValue":  37.56,
			"abandonedCarts": 412,
		},
	},
	{
		ID:          "google-analytics",
		Name:        "Google Analytics",
		Description: "Site traffic, conversion funnels and attribution",
		Icon:        "📈",
		MockPayload: map[string]any{
			"sessions30d":    98421,
			"conversionRate": 0.021,
			"topSource":      "organic",
			"bounceRate":     0.47,
			"peakHour":       "20:00",
		},
	},
	{
		ID:          "meta-ads",
		Name:        "Meta Ads Manager",
		Description: "Paid social performance across Facebook and Instagram",
		Icon:        "📣",
		MockPayload: map[string]any{
			"spend30d":    5400.00,
			"impressions": 1820000,
			"ctr":         0.013,
			"roas":        3.2,
			"bestAdSet":   "Lookalike 2% - US",
		},
	},
	{
		ID:          "klaviyo",
		Name:        "Klaviyo",
		Description: "Email and SMS subscriber lists and flows",
		Icon:        "✉️",
		MockPayload: map[string]any{
			"subscribers": 45210,
			"smsOptIns":   8930,
			"openRate":    0.38,
			"clickRate":   0.042,
			"bestFlow":    "Abandoned Cart",
		},
	},
	{
		ID:          "stripe",
		Name:        "Stripe Payments",
		Description: "Payment volume, refunds and subscription revenue",
		Icon:        "💳",
		MockPayload: map[string]any{
			"volume30d":     52110.75,
			"refundRate":    0.018,
			"mrr":           12400.00,
			"failedCharges": 86,
		},
	},
}

var channels = []Channel{
	{ID: "email", Name: "Email", Description: "Newsletter and lifecycle email campaigns"},
	{ID: "sms", Name: "SMS", Description: "Short text messages to opted-in subscribers"},
	{ID: "push", Name: "Push Notification", Description: "Mobile and web push notifications"},
	{ID: "social", Name: "Social Media", Description: "Organic and paid social posts"},
}

// Sources returns all known data sources in display order.
func Sources() []DataSource {
	out := make([]DataSource, len(dataSources))
	copy(out, dataSources)
	return out
}

// Channels returns all known delivery channels in display order.
func Channels() []Channel {
	out := make([]Channel, len(channels))
	copy(out, channels)
	return out
}

func SourceByID(id string) (DataSource, bool) {
	for _, s := range dataSources {
		if s.ID == id {
			return s, true
		}
	}
	return DataSource{}, false
}

func ChannelByID(id string) (Channel, bool) {
	for _, c := range channels {
		if c.ID == id {
			return c, true
		}
	}
	return Channel{}, false
}

// SourceNames maps source ids to display names, skipping unknown ids. Order
// of the input is preserved.
func SourceNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := SourceByID(id); ok {
			names = append(names, s.Name)
		}
	}
	return names
}
