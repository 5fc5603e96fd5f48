// Package api is the HTTP/JSON client for the rate card backend.
//
// Every endpoint answers with the envelope {"success": bool, "data": ...,
// "message": string}. Transport failures, non-2xx statuses and success=false
// bodies all surface as *errors.Error values carrying the server's message
// when one was sent.
package api

import (
	"context"
	"time"

	"github.com/grovetools/ratedesk/pkg/models"
)

// Client defines the rate card endpoints consumed by the store.
type Client interface {
	ListRateCards(ctx context.Context, params models.ListParams) (*ListResult, error)
	GetRateCard(ctx context.Context, id string) (*models.RateCard, error)
	CreateRateCard(ctx context.Context, in models.CreateInput) (*RateCardResult, error)
	DeleteRateCard(ctx context.Context, id string) error

	UpdateMetrics(ctx context.Context, id string, in models.MetricsInput) (*RateCardResult, error)
	UpdatePricing(ctx context.Context, id string, in models.PricingInput) (*RateCardResult, error)
	UpdateProfessionalDetails(ctx context.Context, id string, details models.ProfessionalDetails) (*RateCardResult, error)

	CreatePackage(ctx context.Context, id string, in models.PackageInput) (*RateCardResult, error)
	UpdatePackage(ctx context.Context, id, packageID string, in models.PackageInput) (*RateCardResult, error)
	DeletePackage(ctx context.Context, id, packageID string) error

	Publish(ctx context.Context, id string) (*models.PublishResult, error)
	UpdateShareSettings(ctx context.Context, id string, in models.ShareInput) (*ShareResult, error)

	GetHistory(ctx context.Context, id string) ([]models.HistoryEntry, error)
	RestoreVersion(ctx context.Context, id string, version int) (*RateCardResult, error)

	GetAnalytics(ctx context.Context, id string) (*models.Analytics, error)
}

// ListResult is the data of a list response.
type ListResult struct {
	RateCards  []models.RateCard `json:"rateCards"`
	Pagination models.Pagination `json:"pagination"`
}

// RateCardResult is the data of responses that return the full, authoritative
// rate card. AISuggestions is only present on create and metrics updates.
type RateCardResult struct {
	RateCard      *models.RateCard     `json:"rateCard"`
	AISuggestions models.AISuggestions `json:"aiSuggestions,omitempty"`
}

// ShareResult is the data of a share-settings update.
type ShareResult struct {
	Sharing struct {
		Settings  models.ShareSettings `json:"settings"`
		ExpiresAt *time.Time           `json:"expiresAt,omitempty"`
	} `json:"sharing"`
}
