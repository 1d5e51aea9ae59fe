package ledger

import (
	"sync"
	"time"
)

// Store owns the persisted per-wallet lastRealizedAt map with concurrency
// safety. Entries are written only after an externally confirmed claim.
type Store struct {
	mu       sync.Mutex
	state    accrualState
	filePath string
}

// NewStore creates a Store, loading existing state from disk.
func NewStore(filePath string) (*Store, error) {
	state, err := loadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Store{state: state, filePath: filePath}, nil
}

// LastRealizedAt returns the wallet's last realization time, or false when the
// wallet has no entry yet.
func (s *Store) LastRealizedAt(wallet string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.state[wallet]
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// SetLastRealizedAt records the wallet's new realization time and persists
// the full map to disk before returning.
func (s *Store) SetLastRealizedAt(wallet string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[wallet] = t.UnixMilli()
	return saveState(s.filePath, s.state)
}
