package store

import (
	"context"
	"fmt"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/api"
	"github.com/grovetools/ratedesk/pkg/models"
)

// FetchRateCards replaces the list and pagination with the page selected by params.
func (s *Store) FetchRateCards(ctx context.Context, params models.ListParams) ([]models.RateCard, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c := s.begin(OpList, resList, true, "Failed to fetch rate cards")
	res, err := s.client.ListRateCards(ctx, params)
	if err != nil {
		return nil, s.fail(c, err)
	}

	if !s.commit(c, func(st *State) {
		st.RateCards = res.RateCards
		st.Pagination = res.Pagination
		s.listParams = params
	}) {
		return nil, errors.StaleResponse(resourceNames[resList])
	}
	return cloneCards(res.RateCards), nil
}

// FetchRateCard loads id as the current rate card. The previous current
// rate card is cleared as soon as the request starts.
func (s *Store) FetchRateCard(ctx context.Context, id string) (*models.RateCard, error) {
	c := s.begin(OpDetail, resDetail, true, "Failed to fetch rate card")
	s.mu.Lock()
	if s.gens[resDetail] == c.gen {
		s.state.CurrentRateCard = nil
	}
	s.mu.Unlock()

	card, err := s.client.GetRateCard(ctx, id)
	if err != nil {
		return nil, s.fail(c, err)
	}

	if !s.commit(c, func(st *State) { st.CurrentRateCard = card }) {
		return nil, errors.StaleResponse(resourceNames[resDetail])
	}
	return card.Clone(), nil
}

// Create creates a rate card, makes it current and refreshes the list in
// the background. It returns the new rate card and the server's pricing
// suggestions.
func (s *Store) Create(ctx context.Context, in models.CreateInput) (*models.RateCard, models.AISuggestions, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	c := s.begin(OpCreate, resDetail, false, "Failed to create rate card")
	res, err := s.client.CreateRateCard(ctx, in)
	if err != nil {
		return nil, nil, s.fail(c, err)
	}

	s.commit(c, func(st *State) {
		st.CurrentRateCard = res.RateCard
		st.AISuggestions = res.AISuggestions
	})
	s.refetchList()
	s.hub.Success(string(OpCreate), "Rate card created")

	return res.RateCard.Clone(), append(models.AISuggestions(nil), res.AISuggestions...), nil
}

// refetchList re-runs the last list query without blocking the caller.
func (s *Store) refetchList() {
	s.mu.RLock()
	params := s.listParams
	s.mu.RUnlock()

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if _, err := s.FetchRateCards(s.bgCtx, params); err != nil {
			s.logger.WithError(err).Debug("Background list refresh failed")
		}
	}()
}

// Delete deletes a rate card and removes it from the list. The current
// rate card is left as is, even when it is the one deleted.
func (s *Store) Delete(ctx context.Context, id string) error {
	c := s.begin(OpDelete, resList, false, "Failed to delete rate card")
	if err := s.client.DeleteRateCard(ctx, id); err != nil {
		return s.fail(c, err)
	}

	s.commit(c, func(st *State) {
		kept := st.RateCards[:0:0]
		for _, rc := range st.RateCards {
			if rc.ID != id {
				kept = append(kept, rc)
			}
		}
		st.RateCards = kept
	})
	s.hub.Success(string(OpDelete), "Rate card deleted")
	return nil
}

// UpdateMetrics replaces the current rate card with the server's copy,
// including regenerated pricing suggestions when the server sends them.
func (s *Store) UpdateMetrics(ctx context.Context, id string, in models.MetricsInput) (*models.RateCard, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.replaceCurrent(OpMetrics, "Failed to update metrics", "Metrics updated", func() (*api.RateCardResult, error) {
		return s.client.UpdateMetrics(ctx, id, in)
	})
}

// UpdatePricing replaces the current rate card with the server's copy.
func (s *Store) UpdatePricing(ctx context.Context, id string, in models.PricingInput) (*models.RateCard, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.replaceCurrent(OpPricing, "Failed to update pricing", "Pricing updated", func() (*api.RateCardResult, error) {
		return s.client.UpdatePricing(ctx, id, in)
	})
}

// UpdateProfessionalDetails normalizes in so every nested field is set,
// sends it and replaces the current rate card.
func (s *Store) UpdateProfessionalDetails(ctx context.Context, id string, in models.ProfessionalDetailsInput) (*models.RateCard, error) {
	details := in.Normalize()
	return s.replaceCurrent(OpProfessional, "Failed to update professional details", "Professional details updated", func() (*api.RateCardResult, error) {
		return s.client.UpdateProfessionalDetails(ctx, id, details)
	})
}

// CreatePackage adds a package; the server recomputes totals and savings.
func (s *Store) CreatePackage(ctx context.Context, id string, in models.PackageInput) (*models.RateCard, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.replaceCurrent(OpPackageCreate, "Failed to create package", "Package created", func() (*api.RateCardResult, error) {
		return s.client.CreatePackage(ctx, id, in)
	})
}

// UpdatePackage updates a package and replaces the current rate card.
func (s *Store) UpdatePackage(ctx context.Context, id, packageID string, in models.PackageInput) (*models.RateCard, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.replaceCurrent(OpPackageUpdate, "Failed to update package", "Package updated", func() (*api.RateCardResult, error) {
		return s.client.UpdatePackage(ctx, id, packageID, in)
	})
}

func (s *Store) replaceCurrent(op Operation, fallback, success string, do func() (*api.RateCardResult, error)) (*models.RateCard, error) {
	c := s.begin(op, resDetail, false, fallback)
	res, err := do()
	if err != nil {
		return nil, s.fail(c, err)
	}

	s.commit(c, func(st *State) {
		st.CurrentRateCard = res.RateCard
		if len(res.AISuggestions) > 0 {
			st.AISuggestions = res.AISuggestions
		}
	})
	s.hub.Success(string(op), success)
	return res.RateCard.Clone(), nil
}

// DeletePackage deletes a package and splices it out of the current rate
// card locally, without re-fetching.
func (s *Store) DeletePackage(ctx context.Context, id, packageID string) error {
	c := s.begin(OpPackageDelete, resDetail, false, "Failed to delete package")
	if err := s.client.DeletePackage(ctx, id, packageID); err != nil {
		return s.fail(c, err)
	}

	s.commit(c, func(st *State) {
		cur := st.CurrentRateCard
		if cur == nil || cur.ID != id {
			return
		}
		next := cur.Clone()
		kept := next.Packages[:0:0]
		for _, p := range next.Packages {
			if p.ID != packageID {
				kept = append(kept, p)
			}
		}
		next.Packages = kept
		st.CurrentRateCard = next
	})
	s.hub.Success(string(OpPackageDelete), "Package deleted")
	return nil
}

// Publish publishes the rate card and replaces the current one with the
// server's copy carrying the sharing metadata.
func (s *Store) Publish(ctx context.Context, id string) (*models.PublishResult, error) {
	c := s.begin(OpPublish, resDetail, false, "Failed to publish rate card")
	res, err := s.client.Publish(ctx, id)
	if err != nil {
		return nil, s.fail(c, err)
	}

	s.commit(c, func(st *State) {
		if res.RateCard != nil {
			st.CurrentRateCard = res.RateCard
		}
	})
	s.hub.Success(string(OpPublish), "Rate card published")
	return &models.PublishResult{RateCard: res.RateCard.Clone(), ShareURL: res.ShareURL}, nil
}

// UpdateShareSettings changes share settings. Only sharing.settings and
// sharing.expiresAt of the current rate card are updated; everything else
// is kept.
func (s *Store) UpdateShareSettings(ctx context.Context, id string, in models.ShareInput) (*api.ShareResult, error) {
	c := s.begin(OpShare, resDetail, false, "Failed to update share settings")
	res, err := s.client.UpdateShareSettings(ctx, id, in)
	if err != nil {
		return nil, s.fail(c, err)
	}

	s.commit(c, func(st *State) {
		cur := st.CurrentRateCard
		if cur == nil || cur.ID != id {
			return
		}
		next := cur.Clone()
		next.Sharing.Settings = res.Sharing.Settings
		next.Sharing.ExpiresAt = res.Sharing.ExpiresAt
		st.CurrentRateCard = next
	})
	s.hub.Success(string(OpShare), "Share settings updated")
	return res, nil
}

// FetchHistory replaces the history slice with the versions of id.
func (s *Store) FetchHistory(ctx context.Context, id string) ([]models.HistoryEntry, error) {
	c := s.begin(OpHistory, resHistory, true, "Failed to fetch history")
	entries, err := s.client.GetHistory(ctx, id)
	if err != nil {
		return nil, s.fail(c, err)
	}

	if !s.commit(c, func(st *State) {
		st.History = entries
		st.HistoryFor = id
	}) {
		return nil, errors.StaleResponse(resourceNames[resHistory])
	}
	return append([]models.HistoryEntry(nil), entries...), nil
}

// RestoreVersion restores a prior version as the current rate card and
// then re-fetches history so the restore entry shows up.
func (s *Store) RestoreVersion(ctx context.Context, id string, version int) (*models.RateCard, error) {
	if version < 1 {
		return nil, errors.ValidationFailed("version", "must be at least 1")
	}

	c := s.begin(OpRestore, resDetail, false, "Failed to restore version")
	res, err := s.client.RestoreVersion(ctx, id, version)
	if err != nil {
		return nil, s.fail(c, err)
	}

	s.commit(c, func(st *State) { st.CurrentRateCard = res.RateCard })
	s.hub.Success(string(OpRestore), fmt.Sprintf("Restored version %d", version))

	if _, err := s.FetchHistory(ctx, id); err != nil {
		s.logger.WithError(err).Debug("History refresh after restore failed")
	}
	return res.RateCard.Clone(), nil
}

// FetchAnalytics replaces the analytics slice. It does not touch the
// current rate card.
func (s *Store) FetchAnalytics(ctx context.Context, id string) (*models.Analytics, error) {
	c := s.begin(OpAnalytics, resAnalytics, true, "Failed to fetch analytics")
	a, err := s.client.GetAnalytics(ctx, id)
	if err != nil {
		return nil, s.fail(c, err)
	}

	if !s.commit(c, func(st *State) { st.Analytics = a }) {
		return nil, errors.StaleResponse(resourceNames[resAnalytics])
	}
	out := *a
	return &out, nil
}

func cloneCards(cards []models.RateCard) []models.RateCard {
	if cards == nil {
		return nil
	}
	out := make([]models.RateCard, len(cards))
	for i := range cards {
		out[i] = *cards[i].Clone()
	}
	return out
}
