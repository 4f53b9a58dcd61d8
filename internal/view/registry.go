package view

import (
	"sync"
	"time"

	"golang.org/x/text/language"
)

// Registry keeps one View per session token.
type Registry struct {
	mu          sync.Mutex
	views       map[string]*registryEntry
	newView     func(locale language.Tag) *View
	idleTimeout time.Duration
	now         func() time.Time
}

type registryEntry struct {
	view     *View
	lastSeen time.Time
}

// NewRegistry builds views with newView. Sessions untouched for idleTimeout
// are evicted on the next Acquire; zero keeps them until dropped.
func NewRegistry(newView func(locale language.Tag) *View, idleTimeout time.Duration) *Registry {
	return &Registry{
		views:       map[string]*registryEntry{},
		newView:     newView,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Acquire returns the token's view, creating it in locale when missing.
func (r *Registry) Acquire(token string, locale language.Tag) *View {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictIdleLocked(now)

	entry, ok := r.views[token]
	if !ok {
		entry = &registryEntry{view: r.newView(locale)}
		r.views[token] = entry
	}
	entry.lastSeen = now
	return entry.view
}

func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, token)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry) evictIdleLocked(now time.Time) {
	if r.idleTimeout <= 0 {
		return
	}
	for token, entry := range r.views {
		if now.Sub(entry.lastSeen) > r.idleTimeout {
			delete(r.views, token)
		}
	}
}
