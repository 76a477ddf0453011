package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodiesAddGet(t *testing.T) {
	c := NewBodies()

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Hits())

	c.Add("a", "body-a")
	body, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "body-a", body)
	assert.Equal(t, 1, c.Hits())
	assert.Equal(t, 1, c.Len())
}

func TestBodiesReset(t *testing.T) {
	c := NewBodies()
	c.Add("a", "body-a")
	c.Get("a")

	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Hits())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestBodiesConcurrentAccess(t *testing.T) {
	c := NewBodies()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Add("shared", "body")
				c.Get("shared")
			}
		}()
	}
	wg.Wait()

	body, ok := c.Get("shared")
	assert.True(t, ok)
	assert.Equal(t, "body", body)
}
