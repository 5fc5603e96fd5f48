package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/grovetools/ratedesk/errors"
)

// Limits enforced before a request is sent.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxListLimit         = 100
	MaxPackageItems      = 20
)

// ListParams filters and paginates the rate card list.
type ListParams struct {
	Page     int
	Limit    int
	Status   string
	Search   string
	Platform string
	Sort     string
}

// Values encodes the params as a query string, omitting zero values.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Platform != "" {
		v.Set("platform", p.Platform)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	return v
}

// Validate checks the params.
func (p ListParams) Validate() error {
	if p.Page < 0 {
		return errors.ValidationFailed("page", "must not be negative")
	}
	if p.Limit < 0 || p.Limit > MaxListLimit {
		return errors.ValidationFailed("limit", "must be between 0 and "+strconv.Itoa(MaxListLimit))
	}
	return nil
}

// CreateInput is the payload for creating a rate card.
type CreateInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Metrics     Metrics           `json:"metrics"`
	Pricing     []PlatformPricing `json:"pricing,omitempty"`
}

// Validate checks required fields and lengths.
func (in CreateInput) Validate() error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return errors.ValidationFailed("title", "is required")
	}
	if len(title) > MaxTitleLength {
		return errors.ValidationFailed("title", "must be at most "+strconv.Itoa(MaxTitleLength)+" characters")
	}
	if len(in.Description) > MaxDescriptionLength {
		return errors.ValidationFailed("description", "must be at most "+strconv.Itoa(MaxDescriptionLength)+" characters")
	}
	if len(in.Metrics.Platforms) == 0 {
		return errors.ValidationFailed("metrics.platforms", "must list at least one platform")
	}
	if err := validatePlatformMetrics(in.Metrics.Platforms); err != nil {
		return err
	}
	return validatePricing(in.Pricing)
}

// MetricsInput is a partial metrics update; empty fields are left to the server.
type MetricsInput struct {
	Platforms  []PlatformMetrics `json:"platforms,omitempty"`
	Niche      string            `json:"niche,omitempty"`
	Location   *Location         `json:"location,omitempty"`
	Languages  []string          `json:"languages,omitempty"`
	Experience string            `json:"experience,omitempty"`
}

// Validate checks numeric ranges.
func (in MetricsInput) Validate() error {
	return validatePlatformMetrics(in.Platforms)
}

// PricingInput replaces the pricing of a rate card.
type PricingInput struct {
	Pricing []PlatformPricing `json:"pricing"`
}

// Validate checks that every deliverable is named and non-negative.
func (in PricingInput) Validate() error {
	if len(in.Pricing) == 0 {
		return errors.ValidationFailed("pricing", "must list at least one platform")
	}
	return validatePricing(in.Pricing)
}

// PackageInput creates or updates a package.
type PackageInput struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Deliverables []PackageItem `json:"deliverables"`
	PackagePrice float64       `json:"packagePrice"`
	ValidityDays int           `json:"validityDays,omitempty"`
	IsPopular    bool          `json:"isPopular,omitempty"`
}

// Validate checks the package shape.
func (in PackageInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.ValidationFailed("name", "is required")
	}
	if len(in.Deliverables) == 0 {
		return errors.ValidationFailed("deliverables", "must include at least one item")
	}
	if len(in.Deliverables) > MaxPackageItems {
		return errors.ValidationFailed("deliverables", "must include at most "+strconv.Itoa(MaxPackageItems)+" items")
	}
	for _, item := range in.Deliverables {
		if item.Platform == "" || item.DeliverableType == "" {
			return errors.ValidationFailed("deliverables", "items need a platform and a type")
		}
		if item.Quantity < 1 {
			return errors.ValidationFailed("deliverables.quantity", "must be at least 1")
		}
	}
	if in.PackagePrice < 0 {
		return errors.ValidationFailed("packagePrice", "must not be negative")
	}
	if in.ValidityDays < 0 {
		return errors.ValidationFailed("validityDays", "must not be negative")
	}
	return nil
}

// ShareInput updates the share settings of a published rate card.
type ShareInput struct {
	Settings  ShareSettings `json:"settings"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
}

// PublishResult is returned by publish.
type PublishResult struct {
	RateCard *RateCard `json:"rateCard"`
	ShareURL string    `json:"shareUrl,omitempty"`
}

func validatePlatformMetrics(platforms []PlatformMetrics) error {
	for _, p := range platforms {
		if p.Name == "" {
			return errors.ValidationFailed("metrics.platforms.name", "is required")
		}
		if p.Followers < 0 {
			return errors.ValidationFailed("metrics.platforms.followers", "must not be negative")
		}
		if p.EngagementRate < 0 || p.EngagementRate > 100 {
			return errors.ValidationFailed("metrics.platforms.engagementRate", "must be between 0 and 100")
		}
	}
	return nil
}

func validatePricing(pricing []PlatformPricing) error {
	for _, pp := range pricing {
		if pp.Platform == "" {
			return errors.ValidationFailed("pricing.platform", "is required")
		}
		for _, d := range pp.Deliverables {
			if d.Type == "" {
				return errors.ValidationFailed("pricing.deliverables.type", "is required")
			}
			if d.Rate < 0 {
				return errors.ValidationFailed("pricing.deliverables.rate", "must not be negative")
			}
		}
	}
	return nil
}
