package models

// Package bundles deliverables at a combined price. IndividualTotal is
// computed by the server from the owning rate card's pricing.
type Package struct {
	ID              string        `json:"_id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Deliverables    []PackageItem `json:"deliverables"`
	PackagePrice    float64       `json:"packagePrice"`
	IndividualTotal float64       `json:"individualTotal"`
	ValidityDays    int           `json:"validityDays,omitempty"`
	IsPopular       bool          `json:"isPopular,omitempty"`
}

// PackageItem references a deliverable of the rate card by platform and type.
type PackageItem struct {
	Platform        string `json:"platform"`
	DeliverableType string `json:"deliverableType"`
	Quantity        int    `json:"quantity"`
}

// Savings is how much cheaper the package is than buying its items individually.
// It is never negative.
func (p Package) Savings() float64 {
	if p.IndividualTotal <= p.PackagePrice {
		return 0
	}
	return p.IndividualTotal - p.PackagePrice
}

// SavingsPercent is Savings as a percentage of IndividualTotal.
func (p Package) SavingsPercent() float64 {
	if p.IndividualTotal <= 0 {
		return 0
	}
	return p.Savings() / p.IndividualTotal * 100
}

// IndividualTotal sums quantity*rate for each item using the rate card's pricing.
// Items referencing unknown deliverables contribute nothing.
func IndividualTotal(card *RateCard, items []PackageItem) float64 {
	var total float64
	for _, item := range items {
		if rate, ok := card.DeliverableRate(item.Platform, item.DeliverableType); ok {
			total += rate * float64(item.Quantity)
		}
	}
	return total
}
