package app

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"sync"

	"yashubustudio/pocketsite/pocketsite"
)

// chartCache keeps rendered PNGs of the current merged table.
type chartCache struct {
	mu    sync.RWMutex
	m     map[string][]byte
	table *pocketsite.MergedTable
}

func newChartCache() *chartCache {
	return &chartCache{m: make(map[string][]byte)}
}

func (c *chartCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// put stores png only while t is still the cached table and reports whether
// it did. Renders started before a reset are dropped.
func (c *chartCache) put(t *pocketsite.MergedTable, key string, png []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table != t {
		return false
	}
	c.m[key] = png
	return true
}

func (c *chartCache) current(t *pocketsite.MergedTable) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table == t
}

// reset drops every entry once the table charts are drawn from changes.
func (c *chartCache) reset(t *pocketsite.MergedTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == t {
		return
	}
	c.table = t
	c.m = make(map[string][]byte)
}

func (c *chartCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func chartKey(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}
