// Package store holds the client-side state for rate cards: the list, the
// current rate card and its history and analytics. Every action wraps one
// API call, records per-operation status, publishes a notification on
// failure and commits the server's response into state.
package store

import (
	"context"
	"sync"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/logging"
	"github.com/grovetools/ratedesk/pkg/api"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/grovetools/ratedesk/pkg/notify"
	"github.com/sirupsen/logrus"
)

// Operation names a store action.
type Operation string

const (
	OpList          Operation = "list"
	OpDetail        Operation = "detail"
	OpCreate        Operation = "create"
	OpDelete        Operation = "delete"
	OpMetrics       Operation = "metrics"
	OpPricing       Operation = "pricing"
	OpProfessional  Operation = "professional"
	OpPackageCreate Operation = "package-create"
	OpPackageUpdate Operation = "package-update"
	OpPackageDelete Operation = "package-delete"
	OpPublish       Operation = "publish"
	OpShare         Operation = "share"
	OpHistory       Operation = "history"
	OpRestore       Operation = "restore"
	OpAnalytics     Operation = "analytics"
)

// Phase is where an operation is in its lifecycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// OpStatus is the loading/error state of one operation. Pending counts
// calls in flight, so overlapping calls of the same operation do not clear
// each other's loading state.
type OpStatus struct {
	Phase   Phase
	Pending int
	Err     string
}

// State is an immutable snapshot of the store.
type State struct {
	RateCards       []models.RateCard
	CurrentRateCard *models.RateCard
	Pagination      models.Pagination
	AISuggestions   models.AISuggestions
	History         []models.HistoryEntry
	// HistoryFor is the rate card the History slice belongs to.
	HistoryFor string
	Analytics  *models.Analytics
	// IsLoading is true while any operation is pending.
	IsLoading bool
	// Error is the message of the most recent failure, cleared when the
	// next action starts.
	Error string
	Ops   map[Operation]OpStatus
}

// Loading reports whether op has calls in flight.
func (s State) Loading(op Operation) bool {
	return s.Ops[op].Pending > 0
}

// Event is broadcast to subscribers on every status change.
type Event struct {
	Operation Operation
	Phase     Phase
	Err       string
}

// resource is a state slice guarded by a generation counter.
type resource int

const (
	resList resource = iota
	resDetail
	resHistory
	resAnalytics
	numResources
)

var resourceNames = [numResources]string{"rate card list", "rate card", "history", "analytics"}

// Store is the rate card state container. It is safe for concurrent use.
type Store struct {
	client api.Client
	hub    *notify.Hub
	logger *logrus.Entry

	mu          sync.RWMutex
	state       State
	ops         map[Operation]*OpStatus
	gens        [numResources]uint64
	listParams  models.ListParams
	subscribers map[chan Event]struct{}

	bg       sync.WaitGroup
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier routes notifications through hub instead of a private one.
func WithNotifier(hub *notify.Hub) Option {
	return func(s *Store) { s.hub = hub }
}

// WithLogger sets the structured logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store backed by client.
func New(client api.Client, opts ...Option) *Store {
	s := &Store{
		client:      client,
		ops:         make(map[Operation]*OpStatus),
		subscribers: make(map[chan Event]struct{}),
	}
	s.bgCtx, s.bgCancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = notify.NewHub()
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("store")
	}
	return s
}

// Notifier returns the hub notifications are published on.
func (s *Store) Notifier() *notify.Hub {
	return s.hub
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := State{
		Pagination: s.state.Pagination,
		HistoryFor: s.state.HistoryFor,
		Error:      s.state.Error,
		Ops:        make(map[Operation]OpStatus, len(s.ops)),
	}
	if s.state.RateCards != nil {
		out.RateCards = make([]models.RateCard, len(s.state.RateCards))
		for i := range s.state.RateCards {
			out.RateCards[i] = *s.state.RateCards[i].Clone()
		}
	}
	out.CurrentRateCard = s.state.CurrentRateCard.Clone()
	if s.state.AISuggestions != nil {
		out.AISuggestions = append(models.AISuggestions(nil), s.state.AISuggestions...)
	}
	if s.state.History != nil {
		out.History = make([]models.HistoryEntry, len(s.state.History))
		for i, h := range s.state.History {
			h.Snapshot = *h.Snapshot.Clone()
			out.History[i] = h
		}
	}
	if s.state.Analytics != nil {
		a := *s.state.Analytics
		a.ViewsByDay = append([]models.DailyCount(nil), a.ViewsByDay...)
		a.TopReferrers = append([]models.ReferrerCount(nil), a.TopReferrers...)
		out.Analytics = &a
	}
	for op, st := range s.ops {
		out.Ops[op] = *st
		if st.Pending > 0 {
			out.IsLoading = true
		}
	}
	return out
}

// Subscribe creates a buffered channel receiving status events.
func (s *Store) Subscribe() chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, 64)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

// Wait blocks until background refetches started by actions have finished.
func (s *Store) Wait() {
	s.bg.Wait()
}

// Close cancels background refetches and waits for them.
func (s *Store) Close() {
	s.bgCancel()
	s.bg.Wait()
}

// Reset clears all cached data and invalidates in-flight responses.
func (s *Store) Reset() {
	s.mu.Lock()
	for r := range s.gens {
		s.gens[r]++
	}
	s.state = State{}
	s.ops = make(map[Operation]*OpStatus)
	s.listParams = models.ListParams{}
	s.mu.Unlock()
}

// call tracks one in-flight action.
type call struct {
	op       Operation
	res      resource
	gen      uint64
	fetch    bool
	fallback string
}

// begin marks op pending. Fetches (bump=true) take a new generation for
// res so older in-flight fetches of the same slice become stale; mutations
// only remember the generation they started under.
func (s *Store) begin(op Operation, res resource, bump bool, fallback string) *call {
	s.mu.Lock()
	if bump {
		s.gens[res]++
	}
	c := &call{op: op, res: res, gen: s.gens[res], fetch: bump, fallback: fallback}
	st := s.status(op)
	st.Pending++
	st.Phase = PhasePending
	st.Err = ""
	s.state.Error = ""
	s.broadcastLocked(Event{Operation: op, Phase: PhasePending})
	s.mu.Unlock()
	return c
}

// commit applies fn if the call is still current. It reports false, and
// applies nothing, when a newer request for the slice has started.
func (s *Store) commit(c *call, fn func(st *State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.finish(c.op)
	if s.gens[c.res] != c.gen {
		if st.Pending == 0 {
			st.Phase = PhaseIdle
		}
		s.logger.WithFields(logrus.Fields{
			"operation": c.op,
			"resource":  resourceNames[c.res],
		}).Debug("Discarding superseded response")
		s.broadcastLocked(Event{Operation: c.op, Phase: st.Phase})
		return false
	}

	if fn != nil {
		fn(&s.state)
	}
	if st.Pending == 0 {
		st.Phase = PhaseSucceeded
	}
	s.broadcastLocked(Event{Operation: c.op, Phase: st.Phase})
	return true
}

// fail records err, publishes an error notification and returns err.
// A superseded fetch fails quietly with a stale-response error instead.
func (s *Store) fail(c *call, err error) error {
	msg := c.fallback
	if server, ok := errors.ServerMessage(err); ok {
		msg = server
	}

	s.mu.Lock()
	st := s.finish(c.op)
	if c.fetch && s.gens[c.res] != c.gen {
		if st.Pending == 0 {
			st.Phase = PhaseIdle
		}
		s.broadcastLocked(Event{Operation: c.op, Phase: st.Phase})
		s.mu.Unlock()
		return errors.StaleResponse(resourceNames[c.res])
	}
	if s.bgCtx.Err() != nil && errors.Canceled(err) {
		// Close canceled the call; nothing failed.
		if st.Pending == 0 {
			st.Phase = PhaseIdle
		}
		s.broadcastLocked(Event{Operation: c.op, Phase: st.Phase})
		s.mu.Unlock()
		s.logger.WithField("operation", c.op).Debug("Call canceled by Close")
		return err
	}
	st.Phase = PhaseFailed
	st.Err = msg
	s.state.Error = msg
	s.broadcastLocked(Event{Operation: c.op, Phase: PhaseFailed, Err: msg})
	s.mu.Unlock()

	s.logger.WithError(err).WithField("operation", c.op).Warn(msg)
	s.hub.Error(string(c.op), msg)
	return err
}

func (s *Store) status(op Operation) *OpStatus {
	st, ok := s.ops[op]
	if !ok {
		st = &OpStatus{Phase: PhaseIdle}
		s.ops[op] = st
	}
	return st
}

// finish decrements the pending count of op. Reset may have dropped the
// status the call started under, so the count never goes below zero.
func (s *Store) finish(op Operation) *OpStatus {
	st := s.status(op)
	if st.Pending > 0 {
		st.Pending--
	}
	return st
}

func (s *Store) broadcastLocked(e Event) {
	for ch := range s.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}
