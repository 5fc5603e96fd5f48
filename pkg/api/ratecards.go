package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/grovetools/ratedesk/pkg/models"
)

// ListRateCards returns one page of rate cards.
func (c *HTTPClient) ListRateCards(ctx context.Context, params models.ListParams) (*ListResult, error) {
	var out ListResult
	if err := c.do(ctx, http.MethodGet, "/api/ratecards", params.Values(), nil, &out); err != nil {
		return nil, err
	}
	if out.RateCards == nil {
		out.RateCards = []models.RateCard{}
	}
	return &out, nil
}

// GetRateCard returns one rate card.
func (c *HTTPClient) GetRateCard(ctx context.Context, id string) (*models.RateCard, error) {
	path := ratecardPath(id)
	var out RateCardResult
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.RateCard == nil {
		return nil, missing(path, "rateCard")
	}
	return out.RateCard, nil
}

// CreateRateCard creates a rate card and returns it with suggested pricing.
func (c *HTTPClient) CreateRateCard(ctx context.Context, in models.CreateInput) (*RateCardResult, error) {
	return c.rateCardCall(ctx, http.MethodPost, "/api/ratecards", in)
}

// DeleteRateCard deletes a rate card.
func (c *HTTPClient) DeleteRateCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, ratecardPath(id), nil, nil, nil)
}

// UpdateMetrics applies a partial metrics update.
func (c *HTTPClient) UpdateMetrics(ctx context.Context, id string, in models.MetricsInput) (*RateCardResult, error) {
	return c.rateCardCall(ctx, http.MethodPut, ratecardPath(id, "metrics"), in)
}

// UpdatePricing replaces the pricing.
func (c *HTTPClient) UpdatePricing(ctx context.Context, id string, in models.PricingInput) (*RateCardResult, error) {
	return c.rateCardCall(ctx, http.MethodPut, ratecardPath(id, "pricing"), in)
}

// UpdateProfessionalDetails replaces the professional details. Callers are
// expected to send a normalised value.
func (c *HTTPClient) UpdateProfessionalDetails(ctx context.Context, id string, details models.ProfessionalDetails) (*RateCardResult, error) {
	return c.rateCardCall(ctx, http.MethodPut, ratecardPath(id, "professional-details"), details)
}

// CreatePackage adds a package.
func (c *HTTPClient) CreatePackage(ctx context.Context, id string, in models.PackageInput) (*RateCardResult, error) {
	return c.rateCardCall(ctx, http.MethodPost, ratecardPath(id, "packages"), in)
}

// UpdatePackage replaces a package.
func (c *HTTPClient) UpdatePackage(ctx context.Context, id, packageID string, in models.PackageInput) (*RateCardResult, error) {
	return c.rateCardCall(ctx, http.MethodPut, ratecardPath(id, "packages", packageID), in)
}

// DeletePackage removes a package.
func (c *HTTPClient) DeletePackage(ctx context.Context, id, packageID string) error {
	return c.do(ctx, http.MethodDelete, ratecardPath(id, "packages", packageID), nil, nil, nil)
}

// Publish makes the rate card public.
func (c *HTTPClient) Publish(ctx context.Context, id string) (*models.PublishResult, error) {
	path := ratecardPath(id, "publish")
	var out models.PublishResult
	if err := c.do(ctx, http.MethodPost, path, nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	if out.RateCard == nil {
		return nil, missing(path, "rateCard")
	}
	return &out, nil
}

// UpdateShareSettings changes share settings and expiry.
func (c *HTTPClient) UpdateShareSettings(ctx context.Context, id string, in models.ShareInput) (*ShareResult, error) {
	var out ShareResult
	if err := c.do(ctx, http.MethodPut, ratecardPath(id, "share"), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHistory returns the version history of a rate card.
func (c *HTTPClient) GetHistory(ctx context.Context, id string) ([]models.HistoryEntry, error) {
	var out struct {
		History []models.HistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, ratecardPath(id, "history"), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.History == nil {
		out.History = []models.HistoryEntry{}
	}
	return out.History, nil
}

// RestoreVersion restores a prior version, creating a new history entry.
func (c *HTTPClient) RestoreVersion(ctx context.Context, id string, version int) (*RateCardResult, error) {
	return c.rateCardCall(ctx, http.MethodPost, ratecardPath(id, "restore", strconv.Itoa(version)), struct{}{})
}

// GetAnalytics returns viewer analytics of a rate card.
func (c *HTTPClient) GetAnalytics(ctx context.Context, id string) (*models.Analytics, error) {
	path := ratecardPath(id, "analytics")
	var out struct {
		Analytics *models.Analytics `json:"analytics"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Analytics == nil {
		return nil, missing(path, "analytics")
	}
	return out.Analytics, nil
}

func (c *HTTPClient) rateCardCall(ctx context.Context, method, path string, body interface{}) (*RateCardResult, error) {
	var out RateCardResult
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	if out.RateCard == nil {
		return nil, missing(path, "rateCard")
	}
	return &out, nil
}

var _ Client = (*HTTPClient)(nil)
