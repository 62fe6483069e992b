// Package campaign produces canned campaign recommendations from whatever
// data sources a session has connected. The rules are static demo content;
// the output is deterministic for a given set of inputs and clock reading.
package campaign

import (
	"fmt"
	"time"

	"github.com/campaignstream/backend/internal/catalog"
)

// Generator turns session state and request parameters into a Document. It
// must not mutate any shared state; implementations are expected to be pure
// apart from reading the clock.
type Generator interface {
	Generate(sourceIDs []string, campaignType string, channelIDs []string) (*Document, error)
}

// typeRules carries the per-campaign-type template content.
type typeRules struct {
	name             string
	defaultPrimary   string
	defaultSecondary string
	sendOffsetDays   int
	sendTime         string
	timingReason     string
	subject          string
	preview          string
	body             string
	cta              string
	segment          string
	budget           float64
}

var rulesByType = map[string]typeRules{
	"general": {
		name:             "Audience Growth Campaign",
		defaultPrimary:   "email",
		defaultSecondary: "social",
		sendOffsetDays:   3,
		sendTime:         "10:00",
		timingReason:     "Mid-morning midweek sends see the highest open rates for general campaigns.",
		subject:          "Something new is waiting for you",
		preview:          "A hand-picked update from our team",
		body:             "We looked at what you love and put together an update we think you'll enjoy. Take a look and tell us what you think.",
		cta:              "See What's New",
		segment:          "Engaged subscribers",
		budget:           1500,
	},
	"flash-sale": {
		name:             "Flash Sale Blitz",
		defaultPrimary:   "sms",
		defaultSecondary: "push",
		sendOffsetDays:   1,
		sendTime:         "18:00",
		timingReason:     "Flash sales convert best in the early evening when purchase intent peaks.",
		subject:          "⚡ 24 hours only: up to 40% off",
		preview:          "Your exclusive flash sale starts now",
		body:             "For the next 24 hours, everything in our bestseller collection is up to 40% off. No code needed, prices are already cut.",
		cta:              "Shop the Sale",
		segment:          "Recent purchasers and cart abandoners",
		budget:           2500,
	},
	"product-launch": {
		name:             "Product Launch Announcement",
		defaultPrimary:   "email",
		defaultSecondary: "social",
		sendOffsetDays:   7,
		sendTime:         "09:00",
		timingReason:     "Launch announcements benefit from a week of teaser lead time and a morning send.",
		subject:          "Introducing our newest arrival",
		preview:          "Be the first to see what we've been building",
		body:             "After months of work, it's finally here. Early access is open to our subscribers before anyone else.",
		cta:              "Get Early Access",
		segment:          "High-intent browsers",
		budget:           4000,
	},
	"re-engagement": {
		name:             "Win-Back Campaign",
		defaultPrimary:   "email",
		defaultSecondary: "sms",
		sendOffsetDays:   2,
		sendTime:         "12:00",
		timingReason:     "Lapsed customers check personal inboxes around lunchtime.",
		subject:          "We miss you — here's 15% off",
		preview:          "It's been a while. Come see what's changed",
		body:             "It's been a while since your last visit. Here's 15% off your next order, plus a look at what's new since you've been gone.",
		cta:              "Claim Your Offer",
		segment:          "Customers inactive 60+ days",
		budget:           1200,
	},
	"seasonal": {
		name:             "Seasonal Promotion",
		defaultPrimary:   "email",
		defaultSecondary: "social",
		sendOffsetDays:   5,
		sendTime:         "11:00",
		timingReason:     "Seasonal campaigns need a few days of runway ahead of the occasion.",
		subject:          "The season's best picks are here",
		preview:          "Curated for this time of year",
		body:             "Our seasonal collection just dropped, curated from this year's most-loved items. Limited quantities while the season lasts.",
		cta:              "Browse the Collection",
		segment:          "Seasonal shoppers",
		budget:           3000,
	},
}

// RuleBased is the canned demo Generator. The zero value is not usable;
// construct with NewRuleBased.
type RuleBased struct {
	now func() time.Time
}

func NewRuleBased() *RuleBased {
	return &RuleBased{now: time.Now}
}

// NewRuleBasedWithClock pins the generator to a fixed clock for tests.
func NewRuleBasedWithClock(now func() time.Time) *RuleBased {
	return &RuleBased{now: now}
}

func (g *RuleBased) Generate(sourceIDs []string, campaignType string, channelIDs []string) (*Document, error) {
	rules, ok := rulesByType[campaignType]
	if !ok {
		campaignType = "general"
		rules = rulesByType["general"]
	}

	now := g.now()

	primary := rules.defaultPrimary
	secondary := rules.defaultSecondary
	reasoning := fmt.Sprintf("%s campaigns perform best on %s with %s follow-up.", rules.name, primary, secondary)
	if len(channelIDs) > 0 {
		primary = channelIDs[0]
		secondary = ""
		if len(channelIDs) > 1 {
			secondary = channelIDs[1]
		}
		reasoning = "Prioritizing the channels you selected, ordered by expected conversion."
	}

	sourceNames := catalog.SourceNames(sourceIDs)

	doc := &Document{
		Campaign: Overview{
			Name:        rules.name,
			Type:        campaignType,
			DataSources: sourceNames,
			GeneratedAt: now.UTC().Format(time.RFC3339),
			Confidence:  confidence(len(sourceIDs)),
		},
		Channel: Channel{
			Primary:   primary,
			Secondary: secondary,
			Reasoning: reasoning,
		},
		Timing: Timing{
			SendDate:  now.AddDate(0, 0, rules.sendOffsetDays).Format("2006-01-02"),
			SendTime:  rules.sendTime,
			Timezone:  "UTC",
			Reasoning: rules.timingReason,
		},
		Message: Message{
			Subject: rules.subject,
			Preview: rules.preview,
			Body:    rules.body,
			CTA:     rules.cta,
		},
		Audience: audienceFor(rules, sourceIDs),
		Budget:   budgetFor(rules, primary, secondary),
	}
	return doc, nil
}

// confidence grows with the number of connected sources, capped below 1.
func confidence(sources int) float64 {
	c := 0.62 + 0.08*float64(sources)
	if c > 0.94 {
		c = 0.94
	}
	return c
}

func audienceFor(rules typeRules, sourceIDs []string) Audience {
	criteria := []string{"Opted in to marketing"}
	size := 12000
	for _, id := range sourceIDs {
		switch id {
		case "shopify":
			criteria = append(criteria, "Has purchase history in the last 90 days")
			size += 8400
		case "google-analytics":
			criteria = append(criteria, "Visited the site in the last 30 days")
			size += 15200
		case "meta-ads":
			criteria = append(criteria, "Engaged with a paid social ad")
			size += 6100
		case "klaviyo":
			criteria = append(criteria, "Active email or SMS subscriber")
			size += 9800
		case "stripe":
			criteria = append(criteria, "Completed at least one payment")
			size += 5300
		}
	}
	return Audience{
		Segment:       rules.segment,
		EstimatedSize: size,
		Criteria:      criteria,
	}
}

func budgetFor(rules typeRules, primary, secondary string) Budget {
	breakdown := map[string]float64{}
	if secondary == "" {
		breakdown[primary] = rules.budget
	} else {
		breakdown[primary] = rules.budget * 0.7
		breakdown[secondary] = rules.budget * 0.3
	}
	return Budget{
		Recommended: rules.budget,
		Currency:    "USD",
		Breakdown:   breakdown,
	}
}
