package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/tenderdesk/internal/views"
)

// Snapshot represents the latest header data available to the UI.
type Snapshot struct {
	Counts              views.Counts
	HasCounts           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the service has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored counters. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(counts *views.Counts, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if counts != nil {
		s.snapshot.Counts = *counts
		s.snapshot.HasCounts = true
	} else {
		s.snapshot.Counts = views.Counts{}
		s.snapshot.HasCounts = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
