package netio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const cacheFileName = "responses.json"

// CachedResponse is one stored platform response. Refreshed in place on a 304
// revalidation, replaced when content changes.
type CachedResponse struct {
	Data    []byte    `json:"data"`
	ETag    string    `json:"etag,omitempty"`
	Expires time.Time `json:"expires"`
	Status  int       `json:"status"`
}

// Fresh reports whether the entry can be served without a network call.
func (r CachedResponse) Fresh(now time.Time) bool {
	return now.Before(r.Expires)
}

// ResponseCache is a disk-backed response store shared by all concurrent
// resolution jobs. Reads proceed concurrently; writes are exclusive. The
// whole cache persists as a single JSON document mapping request URL to
// entry.
//
// Cache trouble is never fatal: a corrupt or unreadable file logs a warning
// and the cache restarts empty.
type ResponseCache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]CachedResponse
	logger  *log.Logger
}

// OpenResponseCache loads the cache file under dir, dropping entries that
// expired while on disk. An empty dir disables persistence.
func OpenResponseCache(dir string, logger *log.Logger) *ResponseCache {
	if logger == nil {
		logger = log.Default()
	}
	cache := &ResponseCache{
		entries: make(map[string]CachedResponse),
		logger:  logger,
	}
	if dir == "" {
		return cache
	}
	cache.path = filepath.Join(dir, cacheFileName)

	data, err := os.ReadFile(cache.path)
	if os.IsNotExist(err) {
		return cache
	}
	if err != nil {
		logger.Warn("response cache unreadable, starting empty", "path", cache.path, "err", err)
		return cache
	}

	var stored map[string]CachedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("response cache corrupt, starting empty", "path", cache.path, "err", err)
		return cache
	}

	// Entries that expired while on disk are evicted before becoming visible.
	now := time.Now()
	for url, entry := range stored {
		if entry.Fresh(now) {
			cache.entries[url] = entry
		}
	}
	return cache
}

// Get returns the stored entry for a request URL, fresh or not. Callers
// decide whether a stale entry is revalidatable via its ETag.
func (c *ResponseCache) Get(url string) (CachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[url]
	return entry, ok
}

// Put stores a response and persists the cache.
func (c *ResponseCache) Put(url string, entry CachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = entry
	c.persistLocked()
}

// Touch extends an entry's TTL in place after a not-modified revalidation,
// preserving the original body bytes.
func (c *ResponseCache) Touch(url string, expires time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[url]
	if !ok {
		return
	}
	entry.Expires = expires
	c.entries[url] = entry
	c.persistLocked()
}

// Clear drops every entry and removes the cache file.
func (c *ResponseCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CachedResponse)
	if c.path == "" {
		return nil
	}
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Len reports how many entries are held, for the cache CLI.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResponseCache) persistLocked() {
	if c.path == "" {
		return
	}
	data, err := json.Marshal(c.entries)
	if err != nil {
		c.logger.Warn("failed to encode response cache", "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		c.logger.Warn("failed to create cache directory", "path", filepath.Dir(c.path), "err", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		c.logger.Warn("failed to write response cache", "path", c.path, "err", err)
	}
}
