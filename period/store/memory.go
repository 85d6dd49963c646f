// Package store provides period.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/fleetline/payroll-engine/period"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[string]period.Record
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]period.Record),
	}
}

// Put stores a record, keyed by id.
func (m *Memory) Put(rec period.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
}

// Delete removes a record. Used to simulate stale references in tests.
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
}

// FetchPeriodByID implements period.Store.
func (m *Memory) FetchPeriodByID(_ context.Context, id string) (*period.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, period.ErrPeriodNotFound
	}
	out := rec
	return &out, nil
}

// ListByDriver returns a driver's records ordered by start date ascending.
func (m *Memory) ListByDriver(_ context.Context, driverID string) ([]period.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []period.Record
	for _, rec := range m.records {
		if rec.DriverUserID == driverID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}
