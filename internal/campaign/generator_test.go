package campaign

import (
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	ts := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestGenerateSelectedChannelsWin(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	doc, err := g.Generate([]string{"shopify"}, "flash-sale", []string{"sms"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if doc.Channel.Primary != "sms" {
		t.Errorf("Channel.Primary = %q, want %q", doc.Channel.Primary, "sms")
	}
	if doc.Channel.Secondary != "" {
		t.Errorf("Channel.Secondary = %q, want empty (single selection)", doc.Channel.Secondary)
	}
}

func TestGenerateDefaultChannels(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	doc, err := g.Generate(nil, "flash-sale", nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Channel.Primary != "sms" || doc.Channel.Secondary != "push" {
		t.Errorf("channels = %q/%q, want sms/push defaults", doc.Channel.Primary, doc.Channel.Secondary)
	}
}

func TestGenerateDataSourceNames(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	doc, err := g.Generate([]string{"shopify", "klaviyo"}, "general", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Shopify Store", "Klaviyo"}
	if len(doc.Campaign.DataSources) != 2 {
		t.Fatalf("DataSources = %v, want %v", doc.Campaign.DataSources, want)
	}
	for i, name := range want {
		if doc.Campaign.DataSources[i] != name {
			t.Errorf("DataSources[%d] = %q, want %q", i, doc.Campaign.DataSources[i], name)
		}
	}
}

func TestGenerateUnknownTypeFallsBack(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	doc, err := g.Generate(nil, "not-a-real-type", nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Campaign.Type != "general" {
		t.Errorf("Campaign.Type = %q, want fallback %q", doc.Campaign.Type, "general")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	a, err := g.Generate([]string{"shopify"}, "seasonal", []string{"email", "sms"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Generate([]string{"shopify"}, "seasonal", []string{"email", "sms"})
	if err != nil {
		t.Fatal(err)
	}

	if a.Campaign.GeneratedAt != b.Campaign.GeneratedAt {
		t.Error("GeneratedAt differs for identical inputs and clock")
	}
	if a.Message != b.Message {
		t.Error("Message differs for identical inputs")
	}
	if a.Timing != b.Timing {
		t.Error("Timing differs for identical inputs")
	}
}

func TestGenerateTiming(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	doc, err := g.Generate(nil, "product-launch", nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Timing.SendDate != "2026-03-21" {
		t.Errorf("SendDate = %q, want 2026-03-21 (7 day offset)", doc.Timing.SendDate)
	}
	if doc.Timing.SendTime != "09:00" {
		t.Errorf("SendTime = %q, want 09:00", doc.Timing.SendTime)
	}
}

func TestGenerateBudgetSplit(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	doc, err := g.Generate(nil, "general", []string{"email", "push"})
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for _, v := range doc.Budget.Breakdown {
		total += v
	}
	if total != doc.Budget.Recommended {
		t.Errorf("breakdown sums to %.2f, want %.2f", total, doc.Budget.Recommended)
	}
	if doc.Budget.Breakdown["email"] <= doc.Budget.Breakdown["push"] {
		t.Error("primary channel should take the larger share")
	}
}

func TestGenerateAudienceGrowsWithSources(t *testing.T) {
	g := NewRuleBasedWithClock(fixedClock())

	none, _ := g.Generate(nil, "general", nil)
	two, _ := g.Generate([]string{"shopify", "stripe"}, "general", nil)

	if two.Audience.EstimatedSize <= none.Audience.EstimatedSize {
		t.Error("audience size should grow with connected sources")
	}
	if len(two.Audience.Criteria) <= len(none.Audience.Criteria) {
		t.Error("criteria should grow with connected sources")
	}
	if two.Campaign.Confidence <= none.Campaign.Confidence {
		t.Error("confidence should grow with connected sources")
	}
}
