package table

import (
	"testing"
	"time"

	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "500", Money(500, ""))
	assert.Equal(t, "499.50 USD", Money(499.5, "USD"))
}

func TestRateCards(t *testing.T) {
	out := RateCards([]models.RateCard{{
		ID:       "rc1",
		Title:    "Travel vlogger",
		Status:   models.StatusPublished,
		Metrics:  models.Metrics{Platforms: []models.PlatformMetrics{{Name: "youtube"}, {Name: "instagram"}}},
		Packages: []models.Package{{ID: "p1"}},
		Version:  models.VersionInfo{Current: 3},
	}})

	for _, want := range []string{"TITLE", "rc1", "Travel vlogger", "published", "youtube, instagram", "v3"} {
		assert.Contains(t, out, want)
	}
}

func TestPricingAndPackages(t *testing.T) {
	card := &models.RateCard{
		Pricing: []models.PlatformPricing{{Platform: "tiktok", Deliverables: []models.Deliverable{
			{Type: "video", Rate: 300, Currency: "EUR", TurnaroundDays: 5},
		}}},
		Packages: []models.Package{{
			ID: "p1", Name: "Bundle", PackagePrice: 500, IndividualTotal: 600, IsPopular: true,
			Deliverables: []models.PackageItem{{Platform: "tiktok", DeliverableType: "video", Quantity: 2}},
		}},
	}

	pricing := Pricing(card)
	assert.Contains(t, pricing, "300 EUR")
	assert.Contains(t, pricing, "5d")

	packages := Packages(card)
	assert.Contains(t, packages, "2x tiktok video")
	assert.Contains(t, packages, "100 (17%)")
}

func TestHistoryAndAnalytics(t *testing.T) {
	when := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	out := History([]models.HistoryEntry{{Version: 2, ChangeType: models.ChangeRestored, EditedBy: models.Editor{ID: "u1"}, CreatedAt: when}})
	assert.Contains(t, out, "restored")
	assert.Contains(t, out, "u1")
	assert.Contains(t, out, "2026-03-01 09:30")

	a := Analytics(&models.Analytics{Views: 10, ConversionRate: 12.5, TopReferrers: []models.ReferrerCount{{Source: "newsletter", Count: 4}}})
	assert.Contains(t, a, "12.5%")
	assert.Contains(t, a, "newsletter")
}

func TestBuilderRowNumbers(t *testing.T) {
	out := NewBuilder().WithHeaders("A").WithRows([]string{"x"}, []string{"y"}).WithRowNumbers(true).Build().String()
	assert.Contains(t, out, "#")
	assert.Contains(t, out, "2")
}
