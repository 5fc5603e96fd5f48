// Package notify delivers transient, user-facing notifications ("toasts")
// for the outcome of store actions.
package notify

import (
	"sync"
	"time"

	"github.com/grovetools/ratedesk/logging"
	"github.com/sirupsen/logrus"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a single toast.
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Operation string    `json:"operation,omitempty"`
	Time      time.Time `json:"time"`
}

// Sink receives every published notification synchronously.
type Sink interface {
	Notify(Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// Hub fans notifications out to sinks and channel subscribers.
type Hub struct {
	mu          sync.RWMutex
	sinks       []Sink
	subscribers map[chan Notification]struct{}
	logger      *logrus.Entry
	now         func() time.Time
}

// NewHub creates a hub that forwards to the given sinks.
func NewHub(sinks ...Sink) *Hub {
	return &Hub{
		sinks:       sinks,
		subscribers: make(map[chan Notification]struct{}),
		logger:      logging.NewLogger("notify"),
		now:         time.Now,
	}
}

// AddSink registers another sink.
func (h *Hub) AddSink(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = append(h.sinks, s)
}

// Publish stamps n and delivers it. Subscribers that are not keeping up
// miss the notification rather than blocking the publisher.
func (h *Hub) Publish(n Notification) {
	if n.Time.IsZero() {
		n.Time = h.now()
	}

	h.logger.WithFields(logrus.Fields{
		"level":     n.Level,
		"operation": n.Operation,
	}).Debug(n.Message)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.sinks {
		s.Notify(n)
	}
	for ch := range h.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
}

func (h *Hub) Info(op, message string) {
	h.Publish(Notification{Level: LevelInfo, Operation: op, Message: message})
}
func (h *Hub) Success(op, message string) {
	h.Publish(Notification{Level: LevelSuccess, Operation: op, Message: message})
}
func (h *Hub) Warn(op, message string) {
	h.Publish(Notification{Level: LevelWarning, Operation: op, Message: message})
}
func (h *Hub) Error(op, message string) {
	h.Publish(Notification{Level: LevelError, Operation: op, Message: message})
}

// Subscribe creates a buffered subscription channel.
func (h *Hub) Subscribe() chan Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan Notification, 32)
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (h *Hub) Unsubscribe(ch chan Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; !ok {
		return
	}
	delete(h.subscribers, ch)
	close(ch)
}
