package auth

import (
	"sync"
	"time"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

type cachedSession struct {
	user      models.User
	expiresAt time.Time
}

// sessionCache remembers recently verified tokens so every request does not hit the
// identity provider.
type sessionCache struct {
	mu       sync.RWMutex
	sessions map[string]cachedSession
	ttl      time.Duration
}

func newSessionCache(ttl time.Duration) *sessionCache {
	return &sessionCache{sessions: make(map[string]cachedSession), ttl: ttl}
}

func (c *sessionCache) get(token string, now time.Time) (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[token]
	if !ok || !now.Before(s.expiresAt) {
		return models.User{}, false
	}
	return s.user, true
}

func (c *sessionCache) put(token string, user models.User, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[token] = cachedSession{user: user, expiresAt: now.Add(c.ttl)}
}

func (c *sessionCache) drop(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}

// prune removes expired entries.
func (c *sessionCache) prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for token, s := range c.sessions {
		if !now.Before(s.expiresAt) {
			delete(c.sessions, token)
			removed++
		}
	}
	return removed
}
