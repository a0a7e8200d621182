// Package session holds the raw customer identity records the storefront
// reports for live sessions and completed orders. These records feed the
// matching pipeline as-is; normalization happens downstream.
package session

import (
	"sync"

	"github.com/storelink/metabridge/internal/aam"
)

// Store is an in-memory record holder. It implements aam.SessionSource
// and the analogous order lookup.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]aam.RawUserData
	orders   map[string]aam.RawUserData
}

// NewStore allocates an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]aam.RawUserData),
		orders:   make(map[string]aam.RawUserData),
	}
}

// PutSession replaces the identity record for a session.
func (s *Store) PutSession(id string, data aam.RawUserData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = data
}

// UserDataFromSession returns the record for a session. Unknown sessions
// yield an empty record, which the pipeline treats as "no fields present".
func (s *Store) UserDataFromSession(id string) aam.RawUserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// PutOrder replaces the identity record captured from a completed order.
func (s *Store) PutOrder(id string, data aam.RawUserData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[id] = data
}

// UserDataFromOrder returns the record for an order, nil when unknown.
func (s *Store) UserDataFromOrder(id string) aam.RawUserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders[id]
}

// FromWire converts an inbound field map to a RawUserData record, keeping
// registered fields only. Unknown keys are dropped at the boundary so
// nothing outside the closed registry flows into the pipeline.
func FromWire(m map[string]any) aam.RawUserData {
	if m == nil {
		return nil
	}
	out := make(aam.RawUserData, len(m))
	for k, v := range m {
		if aam.Known(k) {
			out[aam.Field(k)] = v
		}
	}
	return out
}
