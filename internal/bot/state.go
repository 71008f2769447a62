package bot

import (
	"sync"
	"time"
)

// PendingKind tags what the next free-text message from a user should be
// interpreted as. Dispatch on this tag is data-driven; no handler closures
// are stored.
type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingCustomNegative
	PendingSize
	PendingGuidance
	PendingSeed
	PendingBroadcast
)

func (k PendingKind) String() string {
	switch k {
	case PendingCustomNegative:
		return "custom_negative"
	case PendingSize:
		return "size"
	case PendingGuidance:
		return "guidance"
	case PendingSeed:
		return "seed"
	case PendingBroadcast:
		return "broadcast"
	default:
		return "none"
	}
}

// Pending is one registered continuation.
type Pending struct {
	Kind       PendingKind
	Registered time.Time
}

// StateManager is the continuation registry: at most one pending
// continuation per user, last registration wins, consumed exactly once.
type StateManager struct {
	pending map[int64]Pending
	mu      sync.Mutex
}

func NewStateManager() *StateManager {
	return &StateManager{
		pending: make(map[int64]Pending),
	}
}

// Set registers a continuation, silently replacing any existing one.
func (sm *StateManager) Set(userID int64, kind PendingKind) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.pending[userID] = Pending{Kind: kind, Registered: time.Now()}
}

// Take removes and returns the pending continuation, if any. The
// read-and-clear is atomic per user, so a continuation can never fire
// twice.
func (sm *StateManager) Take(userID int64) (Pending, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	p, ok := sm.pending[userID]
	if ok {
		delete(sm.pending, userID)
	}
	return p, ok
}

// Clear drops any pending continuation without consuming it.
func (sm *StateManager) Clear(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.pending, userID)
}
