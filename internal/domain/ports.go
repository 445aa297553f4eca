package domain

import (
	"context"
	"time"
)

// TextClassifier is one loaded model: a pure, read-only predictor that maps
// a batch of texts to one label per text, preserving order. Safe for
// concurrent use after loading.
type TextClassifier interface {
	Predict(texts []string) ([]string, error)
}

// ModelRegistry loads the sentiment and aspect classifiers. Implementations
// memoize the load process-wide; Load is cheap after the first call.
type ModelRegistry interface {
	Load() (sentiment TextClassifier, aspect TextClassifier, err error)
}

// ReviewStore reads the raw dataset and reads/writes the classified cache
// artifact.
type ReviewStore interface {
	// LoadRaw returns the raw reviews in dataset order.
	// Fails with ErrDataNotFound when the artifact does not exist.
	LoadRaw(ctx context.Context) ([]Review, error)

	// LoadCached returns the cached classified dataset, nil when no cache
	// artifact exists yet, or ErrCacheCorrupt when it exists but cannot be
	// parsed.
	LoadCached(ctx context.Context) (*CachedDataset, error)

	// Persist overwrites the cache artifact atomically: readers never
	// observe a partially written file.
	Persist(ctx context.Context, reviews []ClassifiedReview) error
}

// Cache is a shared TTL cache for composed reports.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RunEntry is one audit record of an executed pipeline run.
type RunEntry struct {
	ID          string
	Reprocessed bool
	Rows        int
	Duration    time.Duration
	Outcome     string // "ok" | error class
	StartedAt   time.Time
}

// RunLog records pipeline runs for operators. Writes are best effort.
type RunLog interface {
	Record(ctx context.Context, e RunEntry) error
	ListRecent(ctx context.Context, limit int) ([]RunEntry, error)
}
