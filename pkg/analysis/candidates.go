package analysis

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Rikcr7/ResuMATE/internal/metrics"
)

const defaultCacheTTL = 10 * time.Minute

// candidateCache holds full candidate records by id.
type candidateCache struct {
	lru *expirable.LRU[string, *Candidate]
}

func newCandidateCache(size int, ttl time.Duration) *candidateCache {
	if size <= 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &candidateCache{lru: expirable.NewLRU[string, *Candidate](size, nil, ttl)}
}

func (c *candidateCache) get(id string) (*Candidate, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.lru.Get(id)
	if ok {
		metrics.CacheHit()
		return val, true
	}
	metrics.CacheMiss()
	return nil, false
}

func (c *candidateCache) add(id string, candidate *Candidate) {
	if c == nil {
		return
	}
	c.lru.Add(id, candidate)
}

// Candidate returns the full record of one candidate, including skill categories.
func (c *Client) Candidate(ctx context.Context, id string) (*Candidate, error) {
	if id == "" {
		return nil, fmt.Errorf("candidate id is required")
	}

	if cached, ok := c.cache.get(id); ok {
		return cached, nil
	}

	u := c.baseURL + fmt.Sprintf(candidatePath, url.PathEscape(id))

	var raw map[string]any
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, fmt.Errorf("get candidate %s: %w", id, err)
	}

	candidate, err := DecodeCandidate(raw)
	if err != nil {
		return nil, err
	}

	c.cache.add(id, candidate)

	return candidate, nil
}
