// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import "sync"

// cacheKey identifies a rendered page by slug and source modification
// time. A file edit changes the mtime and therefore the key, so stale
// entries are never served.
type cacheKey struct {
	slug    string
	modTime int64
}

// renderCache is an in-process cache of fully rendered pages. It sits in
// front of the optional Valkey page cache and survives only for the
// lifetime of the process.
type renderCache struct {
	mu    sync.RWMutex
	pages map[cacheKey][]byte
}

func newRenderCache() *renderCache {
	return &renderCache{pages: make(map[cacheKey][]byte)}
}

func (c *renderCache) get(slug string, modTime int64) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page, ok := c.pages[cacheKey{slug, modTime}]
	return page, ok
}

// put stores a rendered page and drops any entries for the same slug with
// an older mtime, so edits do not pile up dead entries.
func (c *renderCache) put(slug string, modTime int64, page []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.pages {
		if k.slug == slug && k.modTime != modTime {
			delete(c.pages, k)
		}
	}
	c.pages[cacheKey{slug, modTime}] = page
}

func (c *renderCache) invalidate(slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.pages {
		if k.slug == slug {
			delete(c.pages, k)
		}
	}
}

func (c *renderCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[cacheKey][]byte)
}
