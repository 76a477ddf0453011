package cache

import (
	"sync"
)

// Bodies caches downloaded page bodies in memory. Armor model files are
// shared between hulls and ships, so the same URL is requested many times
// per ingestion run; serving repeats from memory avoids re-reading the disk
// cache.
type Bodies struct {
	m      sync.Mutex
	bodies map[string]string
	hits   int
}

func NewBodies() *Bodies {
	return &Bodies{
		bodies: make(map[string]string),
	}
}

func (c *Bodies) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.bodies = make(map[string]string)
	c.hits = 0
}

func (c *Bodies) Get(key string) (string, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if body, ok := c.bodies[key]; ok {
		c.hits++
		return body, true
	}
	return "", false
}

func (c *Bodies) Add(key, body string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.bodies[key] = body
}

// Hits returns how many lookups were served from memory.
func (c *Bodies) Hits() int {
	c.m.Lock()
	defer c.m.Unlock()
	return c.hits
}

// Len returns the number of cached bodies.
func (c *Bodies) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.bodies)
}
