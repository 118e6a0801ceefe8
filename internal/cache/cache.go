// Package cache holds tool results keyed by canonical request so repeated
// read views skip storage until the next write.
package cache

import (
	"log/slog"
	"time"

	"moneyleft/internal/log"
)

// Cache is a keyed store of tool results.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// Purge drops every entry. Writes call it so no view outlives the data it
	// was computed from.
	Purge()
	Size() int
}

// Cleaner is a cache that can drop its expired entries on demand.
type Cleaner interface {
	CleanExpired() int
}

// Manager periodically sweeps expired entries from registered caches.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		caches:      make([]Cleaner, 0),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup sweeps every interval until Stop is called.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) sweep() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	if total > 0 {
		slog.Debug("Expired cache entries removed", log.FieldComponent, log.ComponentCache, "count", total)
	}
	return total
}

// Stop ends the cleanup goroutine and waits for it. It must only be called
// after StartCleanup.
func (m *Manager) Stop() {
	if m.stopCleanup != nil {
		close(m.stopCleanup)
		<-m.cleanupDone
		m.stopCleanup = nil
	}
}
