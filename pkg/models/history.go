package models

import "time"

// History change types.
const (
	ChangeCreated      = "created"
	ChangeMetrics      = "metrics_updated"
	ChangePricing      = "pricing_updated"
	ChangePackages     = "packages_updated"
	ChangeProfessional = "professional_updated"
	ChangePublished    = "published"
	ChangeRestored     = "restored"
)

// HistoryEntry is an immutable snapshot of a rate card at a prior version.
type HistoryEntry struct {
	ID         string    `json:"_id"`
	RateCardID string    `json:"rateCardId"`
	Version    int       `json:"version"`
	ChangeType string    `json:"changeType"`
	EditedBy   Editor    `json:"editedBy"`
	Snapshot   RateCard  `json:"snapshot"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Editor identifies who made a change.
type Editor struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Analytics aggregates viewer activity for a shared rate card.
type Analytics struct {
	RateCardID     string          `json:"rateCardId"`
	Views          int             `json:"views"`
	UniqueViewers  int             `json:"uniqueViewers"`
	Downloads      int             `json:"downloads"`
	Inquiries      int             `json:"inquiries"`
	ConversionRate float64         `json:"conversionRate"`
	ViewsByDay     []DailyCount    `json:"viewsByDay"`
	TopReferrers   []ReferrerCount `json:"topReferrers"`
}

// DailyCount is a count for one day (YYYY-MM-DD).
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ReferrerCount is a view count for one referrer.
type ReferrerCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}
