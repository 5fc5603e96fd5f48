package models

import (
	"encoding/json"
	"time"
)

// RateCard statuses as reported by the server.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Known platform identifiers. The server accepts others; these are the ones
// the CLI offers in pickers.
var Platforms = []string{"instagram", "youtube", "tiktok", "linkedin", "twitter", "podcast", "blog"}

// RateCard is a creator's pricing document.
type RateCard struct {
	ID                  string              `json:"_id"`
	Title               string              `json:"title"`
	Description         string              `json:"description,omitempty"`
	Status              string              `json:"status,omitempty"`
	Metrics             Metrics             `json:"metrics"`
	Pricing             []PlatformPricing   `json:"pricing"`
	Packages            []Package           `json:"packages"`
	ProfessionalDetails ProfessionalDetails `json:"professionalDetails"`
	Sharing             Sharing             `json:"sharing"`
	Version             VersionInfo         `json:"version"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// Metrics describes the creator's audience.
type Metrics struct {
	Platforms  []PlatformMetrics `json:"platforms"`
	Niche      string            `json:"niche,omitempty"`
	Location   Location          `json:"location"`
	Languages  []string          `json:"languages"`
	Experience string            `json:"experience,omitempty"`
}

// PlatformMetrics holds audience numbers for one platform.
type PlatformMetrics struct {
	Name           string  `json:"name"`
	Followers      int     `json:"followers"`
	EngagementRate float64 `json:"engagementRate"`
	AvgViews       int     `json:"avgViews,omitempty"`
}

// Location of the creator.
type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// PlatformPricing lists the priced deliverables offered on one platform.
type PlatformPricing struct {
	Platform     string        `json:"platform"`
	Deliverables []Deliverable `json:"deliverables"`
}

// Deliverable is one priced unit of content work, e.g. an Instagram reel.
type Deliverable struct {
	Type           string  `json:"type"`
	Description    string  `json:"description,omitempty"`
	Rate           float64 `json:"rate"`
	Currency       string  `json:"currency,omitempty"`
	TurnaroundDays int     `json:"turnaroundDays,omitempty"`
}

// Sharing carries the publish state of a rate card.
type Sharing struct {
	IsPublic    bool          `json:"isPublic"`
	ShareURL    string        `json:"shareUrl,omitempty"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	ExpiresAt   *time.Time    `json:"expiresAt,omitempty"`
	Settings    ShareSettings `json:"settings"`
}

// ShareSettings control what viewers of a shared rate card can do.
type ShareSettings struct {
	AllowDownload   bool `json:"allowDownload"`
	ShowContactForm bool `json:"showContactForm"`
	RequireEmail    bool `json:"requireEmail"`
}

// VersionInfo is the server-maintained version metadata.
type VersionInfo struct {
	Current      int       `json:"current"`
	LastEditedBy string    `json:"lastEditedBy,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AISuggestions is server-computed pricing advice. The client treats it as
// opaque and only renders it.
type AISuggestions = json.RawMessage

// Pagination metadata returned with list responses.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// Clone returns a deep copy of the rate card. Nil slices stay nil.
func (r *RateCard) Clone() *RateCard {
	if r == nil {
		return nil
	}
	c := *r

	c.Metrics.Platforms = cloneSlice(r.Metrics.Platforms)
	c.Metrics.Languages = cloneSlice(r.Metrics.Languages)

	c.Pricing = cloneSlice(r.Pricing)
	for i := range c.Pricing {
		c.Pricing[i].Deliverables = cloneSlice(r.Pricing[i].Deliverables)
	}
	c.Packages = cloneSlice(r.Packages)
	for i := range c.Packages {
		c.Packages[i].Deliverables = cloneSlice(r.Packages[i].Deliverables)
	}

	pd := &c.ProfessionalDetails
	pd.PaymentTerms.PaymentMethods = cloneSlice(r.ProfessionalDetails.PaymentTerms.PaymentMethods)
	pd.UsageRights.Platforms = cloneSlice(r.ProfessionalDetails.UsageRights.Platforms)
	pd.Inclusions = cloneSlice(r.ProfessionalDetails.Inclusions)
	pd.Exclusions = cloneSlice(r.ProfessionalDetails.Exclusions)

	c.Sharing.PublishedAt = cloneTime(r.Sharing.PublishedAt)
	c.Sharing.ExpiresAt = cloneTime(r.Sharing.ExpiresAt)
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// PackageIndex returns the index of the package with the given ID, or -1.
func (r *RateCard) PackageIndex(id string) int {
	for i, p := range r.Packages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// DeliverableRate looks up the rate of a deliverable type on a platform.
func (r *RateCard) DeliverableRate(platform, deliverableType string) (float64, bool) {
	for _, pp := range r.Pricing {
		if pp.Platform != platform {
			continue
		}
		for _, d := range pp.Deliverables {
			if d.Type == deliverableType {
				return d.Rate, true
			}
		}
	}
	return 0, false
}
