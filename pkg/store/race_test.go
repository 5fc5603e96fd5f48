package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/api"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// stubClient overrides the endpoints a test needs. Calling any other
// endpoint panics on the nil embedded interface.
type stubClient struct {
	api.Client
	get          func(ctx context.Context, id string) (*models.RateCard, error)
	list         func(ctx context.Context, params models.ListParams) (*api.ListResult, error)
	create       func(ctx context.Context, in models.CreateInput) (*api.RateCardResult, error)
	analytics    func(ctx context.Context, id string) (*models.Analytics, error)
	professional func(ctx context.Context, id string, d models.ProfessionalDetails) (*api.RateCardResult, error)
}

func (c *stubClient) GetRateCard(ctx context.Context, id string) (*models.RateCard, error) {
	return c.get(ctx, id)
}

func (c *stubClient) ListRateCards(ctx context.Context, params models.ListParams) (*api.ListResult, error) {
	return c.list(ctx, params)
}

func (c *stubClient) CreateRateCard(ctx context.Context, in models.CreateInput) (*api.RateCardResult, error) {
	return c.create(ctx, in)
}

func (c *stubClient) GetAnalytics(ctx context.Context, id string) (*models.Analytics, error) {
	return c.analytics(ctx, id)
}

func (c *stubClient) UpdateProfessionalDetails(ctx context.Context, id string, d models.ProfessionalDetails) (*api.RateCardResult, error) {
	return c.professional(ctx, id, d)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestStaleDetailResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{get: func(ctx context.Context, id string) (*models.RateCard, error) {
		if id == "slow" {
			<-release
		}
		return &models.RateCard{ID: id, Title: id}, nil
	}}
	rec := &notify.Recorder{}
	s := New(client, WithNotifier(notify.NewHub(rec)))
	defer s.Close()

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = s.FetchRateCard(context.Background(), "slow")
	}()
	waitFor(t, func() bool { return s.Snapshot().Loading(OpDetail) })

	fast, err := s.FetchRateCard(context.Background(), "fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", fast.ID)

	close(release)
	wg.Wait()

	require.Error(t, slowErr)
	assert.True(t, errors.Is(slowErr, errors.ErrCodeStaleResponse))

	snap := s.Snapshot()
	require.NotNil(t, snap.CurrentRateCard)
	assert.Equal(t, "fast", snap.CurrentRateCard.ID)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Error)
	assert.Empty(t, rec.All(), "superseded responses are silent")
}

func TestStaleFailureIsSilent(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{get: func(ctx context.Context, id string) (*models.RateCard, error) {
		if id == "slow" {
			<-release
			return nil, errors.HTTPStatus(500, "boom")
		}
		return &models.RateCard{ID: id}, nil
	}}
	rec := &notify.Recorder{}
	s := New(client, WithNotifier(notify.NewHub(rec)))
	defer s.Close()

	done := make(chan error, 1)
	go func() {
		_, err := s.FetchRateCard(context.Background(), "slow")
		done <- err
	}()
	waitFor(t, func() bool { return s.Snapshot().Loading(OpDetail) })

	_, err := s.FetchRateCard(context.Background(), "fast")
	require.NoError(t, err)
	close(release)

	err = <-done
	assert.True(t, errors.Is(err, errors.ErrCodeStaleResponse))
	assert.Empty(t, s.Snapshot().Error)
	assert.Empty(t, rec.All())
}

func TestLoadingIsPerOperation(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{
		analytics: func(ctx context.Context, id string) (*models.Analytics, error) {
			<-release
			return &models.Analytics{RateCardID: id, Views: 3}, nil
		},
		get: func(ctx context.Context, id string) (*models.RateCard, error) {
			return &models.RateCard{ID: id}, nil
		},
	}
	s := New(client)
	defer s.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.FetchAnalytics(context.Background(), "rc")
	}()
	waitFor(t, func() bool { return s.Snapshot().Loading(OpAnalytics) })

	_, err := s.FetchRateCard(context.Background(), "rc")
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.True(t, snap.IsLoading, "analytics is still pending")
	assert.False(t, snap.Loading(OpDetail))
	assert.Equal(t, PhaseSucceeded, snap.Ops[OpDetail].Phase)

	close(release)
	<-done
	snap = s.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Equal(t, 3, snap.Analytics.Views)
}

func TestProfessionalDetailsAreNormalized(t *testing.T) {
	var sent models.ProfessionalDetails
	client := &stubClient{professional: func(ctx context.Context, id string, d models.ProfessionalDetails) (*api.RateCardResult, error) {
		sent = d
		return &api.RateCardResult{RateCard: &models.RateCard{ID: id, ProfessionalDetails: d}}, nil
	}}
	s := New(client)
	defer s.Close()

	advance := 140
	card, err := s.UpdateProfessionalDetails(context.Background(), "rc", models.ProfessionalDetailsInput{
		PaymentTerms: &models.PaymentTermsInput{AdvancePercentage: &advance},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, sent.PaymentTerms.AdvancePercentage)
	assert.Equal(t, models.DefaultPaymentDueDays, sent.PaymentTerms.PaymentDueDays)
	assert.NotNil(t, sent.PaymentTerms.PaymentMethods)
	assert.NotNil(t, sent.UsageRights.Platforms)
	assert.NotNil(t, sent.Inclusions)
	assert.NotNil(t, sent.Exclusions)
	assert.Equal(t, models.DefaultRevisions, card.ProfessionalDetails.Revisions)
}

func TestSubscribeReceivesPhases(t *testing.T) {
	client := &stubClient{get: func(ctx context.Context, id string) (*models.RateCard, error) {
		return &models.RateCard{ID: id}, nil
	}}
	s := New(client)
	defer s.Close()

	events := s.Subscribe()
	defer s.Unsubscribe(events)

	_, err := s.FetchRateCard(context.Background(), "rc")
	require.NoError(t, err)

	first := <-events
	second := <-events
	assert.Equal(t, Event{Operation: OpDetail, Phase: PhasePending}, first)
	assert.Equal(t, Event{Operation: OpDetail, Phase: PhaseSucceeded}, second)

	s.Unsubscribe(events)
	s.Unsubscribe(events)
}

func TestResetInvalidatesInFlight(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{get: func(ctx context.Context, id string) (*models.RateCard, error) {
		<-release
		return &models.RateCard{ID: id}, nil
	}}
	s := New(client)
	defer s.Close()

	done := make(chan error, 1)
	go func() {
		_, err := s.FetchRateCard(context.Background(), "rc")
		done <- err
	}()
	waitFor(t, func() bool { return s.Snapshot().Loading(OpDetail) })

	s.Reset()
	close(release)

	err := <-done
	assert.True(t, errors.Is(err, errors.ErrCodeStaleResponse))
	snap := s.Snapshot()
	assert.Nil(t, snap.CurrentRateCard)
	assert.False(t, snap.IsLoading)
}

func TestCloseStopsBackgroundRefetch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	client := &stubClient{
		create: func(ctx context.Context, in models.CreateInput) (*api.RateCardResult, error) {
			return &api.RateCardResult{RateCard: &models.RateCard{ID: "new", Title: in.Title}}, nil
		},
		list: func(ctx context.Context, params models.ListParams) (*api.ListResult, error) {
			<-ctx.Done()
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeNetwork, "request cancelled")
		},
	}
	rec := &notify.Recorder{}
	s := New(client, WithNotifier(notify.NewHub(rec)))

	_, _, err := s.Create(context.Background(), models.CreateInput{
		Title:   "Leak check",
		Metrics: models.Metrics{Platforms: []models.PlatformMetrics{{Name: "tiktok", Followers: 10}}},
	})
	require.NoError(t, err)

	s.Close()
	snap := s.Snapshot()
	assert.False(t, snap.Loading(OpList))
	assert.Empty(t, snap.Error)
	assert.NotEqual(t, PhaseFailed, snap.Ops[OpList].Phase)
	for _, n := range rec.All() {
		assert.NotEqual(t, notify.LevelError, n.Level, n.Message)
	}
}
