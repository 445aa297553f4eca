package domain

import "errors"

var (
	// ErrDataNotFound: the raw review dataset artifact is missing. Fatal.
	ErrDataNotFound = errors.New("raw review dataset not found")

	// ErrModelLoad: a model artifact is missing, unreadable, or lacks its
	// vectorizer or predictor member. Fatal; there is no degraded mode.
	ErrModelLoad = errors.New("model load failed")

	// ErrClassification: a predictor failed on the input batch. Fatal for
	// the run; no partial output is persisted.
	ErrClassification = errors.New("classification failed")

	// ErrCacheCorrupt: the cached artifact exists but cannot be parsed.
	// Treated as a cache miss by the pipeline, never surfaced as fatal.
	ErrCacheCorrupt = errors.New("cached dataset unreadable")
)
