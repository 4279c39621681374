package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"legacy-modernizer/internal/model"
)

// Cached memoizes successful generations by source text and program name.
// Failed calls are not cached.
type Cached struct {
	next  model.Generator
	cache *lru.Cache[string, string]
}

func NewCached(next model.Generator, size int) (*Cached, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("init generation cache: %w", err)
	}
	return &Cached{next: next, cache: c}, nil
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Generate(ctx context.Context, source string, meta model.GenerationMeta) (string, error) {
	key := cacheKey(c.next.Name(), source, meta)
	if out, ok := c.cache.Get(key); ok {
		return out, nil
	}
	out, err := c.next.Generate(ctx, source, meta)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}

// Len reports the number of cached generations.
func (c *Cached) Len() int { return c.cache.Len() }

func cacheKey(generator, source string, meta model.GenerationMeta) string {
	h := sha256.New()
	h.Write([]byte(generator))
	h.Write([]byte{0})
	h.Write([]byte(meta.Fact.Name))
	h.Write([]byte{0})
	h.Write([]byte(meta.Risk))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}
