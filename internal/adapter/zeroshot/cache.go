package zeroshot

import (
	"context"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
)

// CachedClassifier wraps a Classifier with a bounded in-memory LRU cache.
// Only successful classifications are cached.
type CachedClassifier struct {
	inner   domain.Classifier
	metrics *observability.Metrics

	mu    sync.Mutex
	cache *lru.Cache
}

// NewCachedClassifier creates a cache decorator around a classifier.
func NewCachedClassifier(inner domain.Classifier, maxEntries int, metrics *observability.Metrics) *CachedClassifier {
	return &CachedClassifier{
		inner:   inner,
		metrics: metrics,
		cache:   lru.New(maxEntries),
	}
}

func (c *CachedClassifier) Classify(ctx context.Context, text string, labels []string) ([]domain.LabelScore, error) {
	key := cacheKey(text, labels)

	c.mu.Lock()
	v, ok := c.cache.Get(key)
	c.mu.Unlock()
	if ok {
		c.metrics.ClassifierCache.WithLabelValues("hit").Inc()
		return v.([]domain.LabelScore), nil
	}
	c.metrics.ClassifierCache.WithLabelValues("miss").Inc()

	scores, err := c.inner.Classify(ctx, text, labels)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Add(key, scores)
	c.mu.Unlock()
	return scores, nil
}

// Len returns the number of cached classifications.
func (c *CachedClassifier) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func cacheKey(text string, labels []string) string {
	return strings.Join(labels, "\x1f") + "\x1e" + text
}
