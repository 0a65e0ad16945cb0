package fleetstatus

import (
	"sort"
	"sync"
	"time"
)

// BatteryUsage is the usage snapshot of one battery.
type BatteryUsage struct {
	BatteryID  int64  `json:"battery_id"`
	Type       string `json:"type"`
	UsageCount int    `json:"usage_count"`
}

// SweepSummary records the outcome of the last sweep that touched a boat.
type SweepSummary struct {
	Time     time.Time `json:"time"`
	Assigned int       `json:"assigned"`
}

// Status captures the last known state of a boat and its battery pool.
type Status struct {
	BoatID    int64          `json:"boat_id"`
	Name      string         `json:"name"`
	Available bool           `json:"available"`
	Batteries []BatteryUsage `json:"batteries,omitempty"`
	LastSweep SweepSummary   `json:"last_sweep"`
}

// Filter narrows List results.
type Filter struct {
	OnlyAvailable bool
}

// Store holds boat status snapshots for the fleet admin surface.
type Store interface {
	Set(Status)
	List(Filter) []Status
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[int64]Status
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[int64]Status{}}
}

// Set stores or replaces the snapshot for a boat.
func (s *MemoryStore) Set(st Status) {
	s.mu.Lock()
	s.data[st.BoatID] = st
	s.mu.Unlock()
}

// List returns snapshots ordered by boat id.
func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.OnlyAvailable && !st.Available {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].BoatID < res[j].BoatID })
	return res
}
