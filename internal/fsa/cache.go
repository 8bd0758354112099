package fsa

import (
	"errors"
	"sync"
)

// CacheKey identifies a loaded dictionary. The dialect is part of the key so
// two variants never share an instance, even when pointed at the same file.
type CacheKey struct {
	Path    string
	Dialect string
}

// Cache holds dictionaries for the lifetime of the process. The first Load of
// a key opens the file; concurrent callers for the same key wait for that
// load and observe either the complete dictionary or its error. Failed loads
// are forgotten so a later Load retries.
type Cache struct {
	mu      sync.Mutex
	entries map[CacheKey]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	dict *Dictionary
	err  error
}

// Shared is the process-wide dictionary cache.
var Shared = NewCache()

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[CacheKey]*cacheEntry)}
}

// Load returns the dictionary for key, opening key.Path on first use.
func (c *Cache) Load(key CacheKey) (*Dictionary, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.dict, e.err = Open(key.Path)
	})
	if e.err != nil {
		c.mu.Lock()
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, e.err
	}
	return e.dict, nil
}

// Len returns the number of cached dictionaries, including loads in flight.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close unmaps every cached dictionary and empties the cache. It is meant for
// process teardown: it must not run concurrently with Load, and dictionaries
// handed out earlier must not be used afterwards.
func (c *Cache) Close() error {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[CacheKey]*cacheEntry)
	c.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if e.dict != nil {
			errs = append(errs, e.dict.Close())
		}
	}
	return errors.Join(errs...)
}
