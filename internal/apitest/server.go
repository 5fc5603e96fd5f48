// Package apitest provides an in-memory rate card backend that speaks the
// same HTTP/JSON envelope as the real API. It backs the client and store tests
// and the `ratedesk demo-server` command.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/sirupsen/logrus"
)

// Failure is an injected error response.
type Failure struct {
	Status  int
	Message string
}

// Server is the fake backend.
type Server struct {
	mu        sync.Mutex
	logger    *logrus.Entry
	token     string
	cards     map[string]*models.RateCard
	history   map[string][]models.HistoryEntry
	analytics map[string]*models.Analytics
	failures  map[string]Failure
	requests  map[string]int
	now       func() time.Time
}

// New creates an empty Server. If token is non-empty every request must carry
// it as a bearer token.
func New(logger *logrus.Entry, token string) *Server {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		logger = logrus.NewEntry(l)
	}
	return &Server{
		logger:    logger,
		token:     token,
		cards:     make(map[string]*models.RateCard),
		history:   make(map[string][]models.HistoryEntry),
		analytics: make(map[string]*models.Analytics),
		failures:  make(map[string]Failure),
		requests:  make(map[string]int),
		now:       time.Now,
	}
}

// Seed stores rate cards as-is, assigning IDs to those without one.
func (s *Server) Seed(cards ...models.RateCard) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(cards))
	for i := range cards {
		c := cards[i].Clone()
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.now().Add(time.Duration(len(s.cards)) * time.Second)
		}
		if c.Version.Current == 0 {
			c.Version.Current = 1
		}
		s.cards[c.ID] = c
		ids = append(ids, c.ID)
	}
	return ids
}

// SetAnalytics replaces the analytics of a rate card.
func (s *Server) SetAnalytics(id string, a models.Analytics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.RateCardID = id
	s.analytics[id] = &a
}

// FailNext makes the next request matching route (e.g. "PUT pricing") fail.
// Route names are listed in Handler.
func (s *Server) FailNext(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = f
}

// Requests returns how many requests reached route.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.route(mux, "GET /api/ratecards", "list", s.handleList)
	s.route(mux, "POST /api/ratecards", "create", s.handleCreate)
	s.route(mux, "GET /api/ratecards/{id}", "get", s.handleGet)
	s.route(mux, "DELETE /api/ratecards/{id}", "delete", s.handleDelete)
	s.route(mux, "PUT /api/ratecards/{id}/metrics", "metrics", s.handleMetrics)
	s.route(mux, "PUT /api/ratecards/{id}/pricing", "pricing", s.handlePricing)
	s.route(mux, "PUT /api/ratecards/{id}/professional-details", "professional", s.handleProfessional)
	s.route(mux, "POST /api/ratecards/{id}/packages", "package-create", s.handlePackageCreate)
	s.route(mux, "PUT /api/ratecards/{id}/packages/{pid}", "package-update", s.handlePackageUpdate)
	s.route(mux, "DELETE /api/ratecards/{id}/packages/{pid}", "package-delete", s.handlePackageDelete)
	s.route(mux, "POST /api/ratecards/{id}/publish", "publish", s.handlePublish)
	s.route(mux, "PUT /api/ratecards/{id}/share", "share", s.handleShare)
	s.route(mux, "GET /api/ratecards/{id}/history", "history", s.handleHistory)
	s.route(mux, "POST /api/ratecards/{id}/restore/{version}", "restore", s.handleRestore)
	s.route(mux, "GET /api/ratecards/{id}/analytics", "analytics", s.handleAnalytics)

	return mux
}

// ListenAndServe serves the API on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.WithField("addr", addr).Info("Demo API listening")
	return srv.ListenAndServe()
}

type handlerFunc func(r *http.Request) (int, interface{}, string)

func (s *Server) route(mux *http.ServeMux, pattern, name string, h handlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[name]++
		failure, fail := s.failures[name]
		delete(s.failures, name)
		s.mu.Unlock()

		log := s.logger.WithFields(logrus.Fields{"route": name, "request_id": r.Header.Get("X-Request-ID")})

		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, nil, "Authentication required")
			return
		}
		if fail {
			log.WithField("status", failure.Status).Debug("Injected failure")
			writeJSON(w, failure.Status, nil, failure.Message)
			return
		}

		s.mu.Lock()
		status, data, msg := h(r)
		s.mu.Unlock()
		log.WithField("status", status).Debug("Handled request")
		writeJSON(w, status, data, msg)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	body := map[string]interface{}{
		"success": status >= 200 && status < 300,
	}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func notFound() (int, interface{}, string) {
	return http.StatusNotFound, nil, "Rate card not found"
}

func badRequest(msg string) (int, interface{}, string) {
	return http.StatusBadRequest, nil, msg
}

func ok(data interface{}) (int, interface{}, string) {
	return http.StatusOK, data, ""
}

// commit bumps the version and records a history snapshot. Callers hold s.mu.
func (s *Server) commit(card *models.RateCard, changeType string) {
	now := s.now()
	card.Version.Current++
	card.Version.UpdatedAt = now
	card.Version.LastEditedBy = "demo"
	card.UpdatedAt = now
	s.history[card.ID] = append(s.history[card.ID], models.HistoryEntry{
		ID:         uuid.NewString(),
		RateCardID: card.ID,
		Version:    card.Version.Current,
		ChangeType: changeType,
		EditedBy:   models.Editor{ID: "demo", Name: "Demo Creator"},
		Snapshot:   *card.Clone(),
		CreatedAt:  now,
	})
}

func (s *Server) recomputePackages(card *models.RateCard) {
	for i := range card.Packages {
		card.Packages[i].IndividualTotal = models.IndividualTotal(card, card.Packages[i].Deliverables)
	}
}

// suggestions is a deliberately simple pricing heuristic: a base rate per
// thousand engaged followers.
func suggestions(m models.Metrics) json.RawMessage {
	out := make(map[string]map[string]float64)
	for _, p := range m.Platforms {
		engaged := float64(p.Followers) * p.EngagementRate / 100
		base := engaged / 1000 * 25
		if base < 50 {
			base = 50
		}
		out[p.Name] = map[string]float64{
			"min":       float64(int(base * 0.8)),
			"suggested": float64(int(base)),
			"max":       float64(int(base * 1.3)),
		}
	}
	data, _ := json.Marshal(out)
	return data
}

func (s *Server) handleList(r *http.Request) (int, interface{}, string) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	status := q.Get("status")
	search := strings.ToLower(q.Get("search"))
	platform := q.Get("platform")

	var matched []models.RateCard
	for _, c := range s.cards {
		if status != "" && c.Status != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Title), search) {
			continue
		}
		if platform != "" && !hasPlatform(c, platform) {
			continue
		}
		matched = append(matched, *c.Clone())
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := matched[start:end]
	if items == nil {
		items = []models.RateCard{}
	}
	return ok(map[string]interface{}{
		"rateCards": items,
		"pagination": models.Pagination{
			Page: page, Limit: limit, Total: total, Pages: pages,
			HasNext: page < pages, HasPrev: page > 1,
		},
	})
}

func hasPlatform(c *models.RateCard, name string) bool {
	for _, p := range c.Metrics.Platforms {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (s *Server) handleCreate(r *http.Request) (int, interface{}, string) {
	var in models.CreateInput
	if err := decode(r, &in); err != nil {
		return badRequest("Invalid request body")
	}
	if err := in.Validate(); err != nil {
		return badRequest(err.Error())
	}
	now := s.now()
	card := &models.RateCard{
		ID:                  uuid.NewString(),
		Title:               in.Title,
		Description:         in.Description,
		Status:              models.StatusDraft,
		Metrics:             in.Metrics,
		Pricing:             in.Pricing,
		Packages:            []models.Package{},
		ProfessionalDetails: models.ProfessionalDetailsInput{}.Normalize(),
		CreatedAt:           now,
	}
	s.cards[card.ID] = card
	s.commit(card, models.ChangeCreated)
	return http.StatusCreated, map[string]interface{}{
		"rateCard":      card.Clone(),
		"aiSuggestions": suggestions(card.Metrics),
	}, "Rate card created"
}

func (s *Server) handleGet(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	return ok(map[string]interface{}{"rateCard": card.Clone()})
}

func (s *Server) handleDelete(r *http.Request) (int, interface{}, string) {
	id := r.PathValue("id")
	if _, found := s.cards[id]; !found {
		return notFound()
	}
	delete(s.cards, id)
	delete(s.history, id)
	delete(s.analytics, id)
	return ok(nil)
}

func (s *Server) handleMetrics(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	var in models.MetricsInput
	if err := decode(r, &in); err != nil {
		return badRequest("Invalid request body")
	}
	if err := in.Validate(); err != nil {
		return badRequest(err.Error())
	}
	if in.Platforms != nil {
		card.Metrics.Platforms = in.Platforms
	}
	if in.Niche != "" {
		card.Metrics.Niche = in.Niche
	}
	if in.Location != nil {
		card.Metrics.Location = *in.Location
	}
	if in.Languages != nil {
		card.Metrics.Languages = in.Languages
	}
	if in.Experience != "" {
		card.Metrics.Experience = in.Experience
	}
	s.commit(card, models.ChangeMetrics)
	return ok(map[string]interface{}{
		"rateCard":      card.Clone(),
		"aiSuggestions": suggestions(card.Metrics),
	})
}

func (s *Server) handlePricing(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	var in models.PricingInput
	if err := decode(r, &in); err != nil {
		return badRequest("Invalid request body")
	}
	if err := in.Validate(); err != nil {
		return badRequest(err.Error())
	}
	card.Pricing = in.Pricing
	s.recomputePackages(card)
	s.commit(card, models.ChangePricing)
	return ok(map[string]interface{}{"rateCard": card.Clone()})
}

func (s *Server) handleProfessional(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	var in models.ProfessionalDetails
	if err := decode(r, &in); err != nil {
		return badRequest("Invalid request body")
	}
	if in.PaymentTerms.PaymentMethods == nil || in.UsageRights.Platforms == nil {
		return badRequest("Professional details are incomplete")
	}
	card.ProfessionalDetails = in
	s.commit(card, models.ChangeProfessional)
	return ok(map[string]interface{}{"rateCard": card.Clone()})
}

func (s *Server) packageFromInput(r *http.Request, card *models.RateCard, id string) (*models.Package, string) {
	var in models.PackageInput
	if err := decode(r, &in); err != nil {
		return nil, "Invalid request body"
	}
	if err := in.Validate(); err != nil {
		return nil, err.Error()
	}
	return &models.Package{
		ID:              id,
		Name:            in.Name,
		Description:     in.Description,
		Deliverables:    in.Deliverables,
		PackagePrice:    in.PackagePrice,
		IndividualTotal: models.IndividualTotal(card, in.Deliverables),
		ValidityDays:    in.ValidityDays,
		IsPopular:       in.IsPopular,
	}, ""
}

func (s *Server) handlePackageCreate(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	pkg, msg := s.packageFromInput(r, card, uuid.NewString())
	if pkg == nil {
		return badRequest(msg)
	}
	card.Packages = append(card.Packages, *pkg)
	s.commit(card, models.ChangePackages)
	return http.StatusCreated, map[string]interface{}{"rateCard": card.Clone()}, ""
}

func (s *Server) handlePackageUpdate(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	idx := card.PackageIndex(r.PathValue("pid"))
	if idx < 0 {
		return http.StatusNotFound, nil, "Package not found"
	}
	pkg, msg := s.packageFromInput(r, card, card.Packages[idx].ID)
	if pkg == nil {
		return badRequest(msg)
	}
	card.Packages[idx] = *pkg
	s.commit(card, models.ChangePackages)
	return ok(map[string]interface{}{"rateCard": card.Clone()})
}

func (s *Server) handlePackageDelete(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	idx := card.PackageIndex(r.PathValue("pid"))
	if idx < 0 {
		return http.StatusNotFound, nil, "Package not found"
	}
	card.Packages = append(card.Packages[:idx], card.Packages[idx+1:]...)
	s.commit(card, models.ChangePackages)
	return ok(nil)
}

func (s *Server) handlePublish(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	if len(card.Pricing) == 0 {
		return badRequest("Add pricing before publishing")
	}
	now := s.now()
	card.Status = models.StatusPublished
	card.Sharing.IsPublic = true
	card.Sharing.PublishedAt = &now
	card.Sharing.ShareURL = fmt.Sprintf("/share/%s", card.ID)
	s.commit(card, models.ChangePublished)
	return ok(map[string]interface{}{
		"rateCard": card.Clone(),
		"shareUrl": card.Sharing.ShareURL,
	})
}

func (s *Server) handleShare(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	if !card.Sharing.IsPublic {
		return badRequest("Rate card is not published")
	}
	var in models.ShareInput
	if err := decode(r, &in); err != nil {
		return badRequest("Invalid request body")
	}
	card.Sharing.Settings = in.Settings
	card.Sharing.ExpiresAt = in.ExpiresAt
	return ok(map[string]interface{}{
		"sharing": map[string]interface{}{
			"settings":  card.Sharing.Settings,
			"expiresAt": card.Sharing.ExpiresAt,
		},
	})
}

func (s *Server) handleHistory(r *http.Request) (int, interface{}, string) {
	id := r.PathValue("id")
	if _, found := s.cards[id]; !found {
		return notFound()
	}
	entries := s.history[id]
	out := make([]models.HistoryEntry, len(entries))
	for i := range entries {
		// newest first
		out[len(entries)-1-i] = entries[i]
	}
	return ok(map[string]interface{}{"history": out})
}

func (s *Server) handleRestore(r *http.Request) (int, interface{}, string) {
	card, found := s.cards[r.PathValue("id")]
	if !found {
		return notFound()
	}
	version, err := strconv.Atoi(r.PathValue("version"))
	if err != nil {
		return badRequest("Invalid version")
	}
	for _, entry := range s.history[card.ID] {
		if entry.Version != version {
			continue
		}
		restored := entry.Snapshot.Clone()
		restored.ID = card.ID
		restored.Version = card.Version
		restored.CreatedAt = card.CreatedAt
		s.cards[card.ID] = restored
		s.commit(restored, models.ChangeRestored)
		return ok(map[string]interface{}{"rateCard": restored.Clone()})
	}
	return http.StatusNotFound, nil, "Version not found"
}

func (s *Server) handleAnalytics(r *http.Request) (int, interface{}, string) {
	id := r.PathValue("id")
	if _, found := s.cards[id]; !found {
		return notFound()
	}
	a, found := s.analytics[id]
	if !found {
		a = &models.Analytics{RateCardID: id, ViewsByDay: []models.DailyCount{}, TopReferrers: []models.ReferrerCount{}}
	}
	return ok(map[string]interface{}{"analytics": a})
}
