package speech

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a rendered segment stays reusable.
const DefaultCacheTTL = 60 * time.Second

// Cache holds rendered audio keyed by segment text and voice identity.
// Entries expire after the TTL, checked lazily on Get. Playback clears the
// whole cache once a segment has been spoken, so entries only accumulate up
// to the prefetch depth.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	audio   *Audio
	expires time.Time
}

// NewCache creates a Cache with the given TTL. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached audio for text rendered with voice, or false if
// absent or expired. Expired entries are removed on the way out.
func (c *Cache) Get(text string, voice VoiceConfig) (*Audio, bool) {
	key := voice.CacheKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.audio, true
}

// Put stores audio for text rendered with voice, resetting its TTL.
func (c *Cache) Put(text string, voice VoiceConfig, audio *Audio) {
	key := voice.CacheKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		audio:   audio,
		expires: c.now().Add(c.ttl),
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of live entries, expired ones included until
// their next Get.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
