// Package store holds alert and broadcast-log state in memory. The
// reference deployment keeps no durable persistence; the stores mirror a
// repository API so a database-backed implementation can slot in later.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/coastwatch/broadcast-engine/internal/alert"
)

// AlertStore is a concurrency-safe in-memory alert collection
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]*alert.Alert
}

// NewAlertStore creates an empty alert store
func NewAlertStore() *AlertStore {
	return &AlertStore{alerts: make(map[string]*alert.Alert)}
}

// Create stores a new alert. The stored record is a copy; later mutation
// of the argument does not leak into the store.
func (s *AlertStore) Create(a *alert.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.alerts[a.ID]; exists {
		return fmt.Errorf("alert %s already exists", a.ID)
	}
	s.alerts[a.ID] = cloneAlert(a)
	return nil
}

// Get returns a copy of the alert with the given ID
func (s *AlertStore) Get(id string) (*alert.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, false
	}
	return cloneAlert(a), true
}

// List returns copies of all alerts ordered by creation time, newest first
func (s *AlertStore) List() []*alert.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*alert.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, cloneAlert(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Update applies mutate to the stored alert under the write lock, so
// concurrent status changes and broadcast completion cannot interleave
// half-applied records.
func (s *AlertStore) Update(id string, mutate func(*alert.Alert) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return fmt.Errorf("alert %s not found", id)
	}
	return mutate(a)
}

func cloneAlert(a *alert.Alert) *alert.Alert {
	out := *a

	out.AffectedZones = append([]alert.Zone(nil), a.AffectedZones...)
	out.Languages = append([]alert.Language(nil), a.Languages...)
	out.BroadcastChannels = append([]alert.Channel(nil), a.BroadcastChannels...)

	if a.MessageTemplates != nil {
		out.MessageTemplates = make(map[alert.Language]string, len(a.MessageTemplates))
		for k, v := range a.MessageTemplates {
			out.MessageTemplates[k] = v
		}
	}
	if a.DeliveryStatus.Channels != nil {
		out.DeliveryStatus.Channels = make(map[alert.Channel]alert.ChannelDelivery, len(a.DeliveryStatus.Channels))
		for k, v := range a.DeliveryStatus.Channels {
			out.DeliveryStatus.Channels[k] = v
		}
	}
	if a.ScheduledTime != nil {
		t := *a.ScheduledTime
		out.ScheduledTime = &t
	}
	if a.ExpiryTime != nil {
		t := *a.ExpiryTime
		out.ExpiryTime = &t
	}
	return &out
}

// LogStore is an append-only, concurrency-safe broadcast log
type LogStore struct {
	mu      sync.RWMutex
	entries []*alert.LogEntry
}

// NewLogStore creates an empty log store
func NewLogStore() *LogStore {
	return &LogStore{}
}

// Append records one send attempt. Entries are never mutated afterwards.
func (s *LogStore) Append(e *alert.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := *e
	s.entries = append(s.entries, &entry)
}

// List returns copies of log entries newest first, optionally filtered by
// alert ID (empty alertID returns everything). Entries are appended in
// timestamp order, so reverse insertion order is timestamp-descending.
func (s *LogStore) List(alertID string) []*alert.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*alert.LogEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if alertID != "" && e.AlertID != alertID {
			continue
		}
		entry := *e
		out = append(out, &entry)
	}
	return out
}

// Len returns the number of stored entries
func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
