package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/internal/apitest"
	"github.com/grovetools/ratedesk/pkg/auth"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, token string) (*apitest.Server, *HTTPClient) {
	t.Helper()
	backend := apitest.New(nil, token)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	return backend, New(srv.URL, WithTokenSource(auth.StaticToken(token)))
}

func createInput() models.CreateInput {
	return models.CreateInput{
		Title:   "Travel creator",
		Metrics: models.Metrics{Platforms: []models.PlatformMetrics{{Name: "instagram", Followers: 120000, EngagementRate: 4}}},
		Pricing: []models.PlatformPricing{{Platform: "instagram", Deliverables: []models.Deliverable{
			{Type: "reel", Rate: 800}, {Type: "story", Rate: 200},
		}}},
	}
}

func TestCreateAndGet(t *testing.T) {
	_, client := newTestAPI(t, "secret")
	ctx := context.Background()

	created, err := client.CreateRateCard(ctx, createInput())
	require.NoError(t, err)
	require.NotNil(t, created.RateCard)
	assert.NotEmpty(t, created.RateCard.ID)
	assert.NotEmpty(t, created.AISuggestions)

	got, err := client.GetRateCard(ctx, created.RateCard.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel creator", got.Title)
	assert.Equal(t, 1, got.Version.Current)
}

func TestUnauthorized(t *testing.T) {
	backend := apitest.New(nil, "secret")
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ListRateCards(context.Background(), models.ListParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized))
	assert.Equal(t, "Authentication required", errors.Message(err))
}

func TestNotFoundCarriesServerMessage(t *testing.T) {
	_, client := newTestAPI(t, "")
	_, err := client.GetRateCard(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Equal(t, "Rate card not found", errors.Message(err))
}

func TestSuccessFalseIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"Quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetRateCard(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAPIFailure))
	assert.Equal(t, "Quota exceeded", errors.Message(err))
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetRateCard(context.Background(), "abc")
	assert.True(t, errors.Is(err, errors.ErrCodeDecode))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).GetRateCard(context.Background(), "abc")
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork))
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"success":true,"data":{"rateCards":[],"pagination":{"page":1}}}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, WithTokenSource(auth.StaticToken("tok"))).ListRateCards(context.Background(), models.ListParams{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, res.RateCards)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestPackagesPublishShareHistory(t *testing.T) {
	_, client := newTestAPI(t, "")
	ctx := context.Background()

	created, err := client.CreateRateCard(ctx, createInput())
	require.NoError(t, err)
	id := created.RateCard.ID

	withPkg, err := client.CreatePackage(ctx, id, models.PackageInput{
		Name:         "Launch",
		Deliverables: []models.PackageItem{{Platform: "instagram", DeliverableType: "reel", Quantity: 2}},
		PackagePrice: 1400,
	})
	require.NoError(t, err)
	require.Len(t, withPkg.RateCard.Packages, 1)
	pkg := withPkg.RateCard.Packages[0]
	assert.Equal(t, 1600.0, pkg.IndividualTotal)
	assert.Equal(t, 200.0, pkg.Savings())

	require.NoError(t, client.DeletePackage(ctx, id, pkg.ID))

	published, err := client.Publish(ctx, id)
	require.NoError(t, err)
	assert.True(t, published.RateCard.Sharing.IsPublic)
	assert.NotEmpty(t, published.ShareURL)

	expires := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	shared, err := client.UpdateShareSettings(ctx, id, models.ShareInput{
		Settings:  models.ShareSettings{AllowDownload: true},
		ExpiresAt: &expires,
	})
	require.NoError(t, err)
	assert.True(t, shared.Sharing.Settings.AllowDownload)
	require.NotNil(t, shared.Sharing.ExpiresAt)
	assert.True(t, expires.Equal(*shared.Sharing.ExpiresAt))

	history, err := client.GetHistory(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, models.ChangePublished, history[0].ChangeType)

	restored, err := client.RestoreVersion(ctx, id, 1)
	require.NoError(t, err)
	assert.Empty(t, restored.RateCard.Packages)
	assert.False(t, restored.RateCard.Sharing.IsPublic)

	analytics, err := client.GetAnalytics(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, analytics.RateCardID)
}

func TestRateLimitHonoursContext(t *testing.T) {
	_, client := newTestAPI(t, "")
	limited := New(client.baseURL, WithRateLimit(0.001, 1))
	ctx := context.Background()

	_, err := limited.ListRateCards(ctx, models.ListParams{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = limited.ListRateCards(ctx, models.ListParams{})
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork))
}
