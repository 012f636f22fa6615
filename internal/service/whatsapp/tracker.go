package whatsapp

import (
	"sync"
	"time"
)

// MessageTracker remembers processed message IDs so webhook retries are applied once.
type MessageTracker struct {
	seen map[string]time.Time
	ttl  time.Duration
	mu   sync.Mutex
}

// NewMessageTracker creates a tracker forgetting IDs after ttl.
func NewMessageTracker(ttl time.Duration) *MessageTracker {
	return &MessageTracker{seen: make(map[string]time.Time), ttl: ttl}
}

// MarkSeen records id and reports whether it was new.
func (t *MessageTracker) MarkSeen(id string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if at, ok := t.seen[id]; ok && now.Sub(at) < t.ttl {
		return false
	}
	t.seen[id] = now
	return true
}

// Prune forgets expired IDs.
func (t *MessageTracker) Prune(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, at := range t.seen {
		if now.Sub(at) >= t.ttl {
			delete(t.seen, id)
		}
	}
}
