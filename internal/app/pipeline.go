package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"vendor_insight/internal/adapters/observability"
	"vendor_insight/internal/domain"
)

const reportCacheKey = "gap:report"

// GapService runs the review gap-analysis pipeline: reuse or rebuild the
// classified dataset, then aggregate it into the composed report.
type GapService struct {
	store    domain.ReviewStore
	models   domain.ModelRegistry
	cache    domain.Cache    // optional: composed-report cache
	runlog   domain.RunLog   // optional: audit log
	cacheTTL time.Duration
	fraction float64
	seed     int64
	sf       singleflight.Group
}

func NewGapService(store domain.ReviewStore, models domain.ModelRegistry, cache domain.Cache, runlog domain.RunLog, ttl time.Duration, fraction float64, seed int64) *GapService {
	return &GapService{
		store:    store,
		models:   models,
		cache:    cache,
		runlog:   runlog,
		cacheTTL: ttl,
		fraction: fraction,
		seed:     seed,
	}
}

// Report returns the composed gap-analysis report. Concurrent callers are
// collapsed onto a single pipeline run; a short-lived cached copy of the
// composed report is served when present.
func (s *GapService) Report(ctx context.Context) (domain.Report, error) {
	if s.cache != nil && s.cacheTTL > 0 {
		var rep domain.Report
		if ok, _ := s.cache.Get(ctx, reportCacheKey, &rep); ok {
			return rep, nil
		}
	}

	v, err, _ := s.sf.Do("gap", func() (any, error) {
		return s.run(ctx)
	})
	if err != nil {
		return domain.Report{}, err
	}
	rep := v.(domain.Report)

	if s.cache != nil && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, reportCacheKey, rep, s.cacheTTL)
	}
	return rep, nil
}

func (s *GapService) run(ctx context.Context) (domain.Report, error) {
	start := time.Now()

	cached, err := s.store.LoadCached(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheCorrupt) {
			s.record(ctx, start, false, 0, "cache_read_failed")
			return domain.Report{}, err
		}
		// Corrupt cache is equivalent to no cache: reprocess.
		log.Warn().Err(err).Msg("cached dataset unreadable, reprocessing")
		cached = nil
	}

	var ds []domain.ClassifiedReview
	reprocessed := NeedsReprocessing(cached)
	if reprocessed {
		ds, err = s.reprocess(ctx)
		if err != nil {
			observability.ObservePipeline("error")
			s.record(ctx, start, true, 0, errClass(err))
			return domain.Report{}, err
		}
		observability.ObservePipeline("reprocessed")
	} else {
		ds = cached.Reviews
		observability.ObservePipeline("cache_reuse")
	}

	sample := SampleFraction(ds, s.fraction, s.seed)
	rep := Compose(
		AggregateOverall(ds),
		domain.StaticTrends(),
		AggregateByCategory(sample),
		AggregateCitywide(ds),
	)

	s.record(ctx, start, reprocessed, len(ds), "ok")
	log.Info().
		Bool("reprocessed", reprocessed).
		Int("rows", len(ds)).
		Dur("duration", time.Since(start)).
		Msg("gap analysis complete")
	return rep, nil
}

// NeedsReprocessing decides from the cached artifact's schema shape whether
// classification must run again. Row content and raw-data freshness are
// deliberately not consulted.
func NeedsReprocessing(cached *domain.CachedDataset) bool {
	if cached == nil {
		return true
	}
	return !cached.HasSentiment || !cached.HasAspect
}

// reprocess loads the models and raw dataset, classifies every review, and
// persists the full snapshot. All-or-nothing: any failure leaves the cache
// artifact untouched.
func (s *GapService) reprocess(ctx context.Context) ([]domain.ClassifiedReview, error) {
	sentiment, aspect, err := s.models.Load()
	if err != nil {
		return nil, err
	}
	raw, err := s.store.LoadRaw(ctx)
	if err != nil {
		return nil, err
	}

	clsStart := time.Now()
	ds, err := Classify(raw, sentiment, aspect)
	if err != nil {
		return nil, err
	}
	observability.ObserveClassification(time.Since(clsStart))

	if err := s.store.Persist(ctx, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// Classify runs the two classifiers as independent passes over the comment
// texts and attaches both labels to each review, preserving input order.
func Classify(reviews []domain.Review, sentiment, aspect domain.TextClassifier) ([]domain.ClassifiedReview, error) {
	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Comment
	}

	sentiments, err := sentiment.Predict(texts)
	if err != nil {
		return nil, fmt.Errorf("%w: sentiment predict: %v", domain.ErrClassification, err)
	}
	aspects, err := aspect.Predict(texts)
	if err != nil {
		return nil, fmt.Errorf("%w: aspect predict: %v", domain.ErrClassification, err)
	}
	if len(sentiments) != len(reviews) || len(aspects) != len(reviews) {
		return nil, fmt.Errorf("%w: label count mismatch (%d reviews, %d sentiments, %d aspects)",
			domain.ErrClassification, len(reviews), len(sentiments), len(aspects))
	}

	out := make([]domain.ClassifiedReview, len(reviews))
	for i, r := range reviews {
		out[i] = domain.ClassifiedReview{
			Review:    r,
			Sentiment: sentiments[i],
			Aspect:    aspects[i],
		}
	}
	return out, nil
}

func (s *GapService) record(ctx context.Context, start time.Time, reprocessed bool, rows int, outcome string) {
	if s.runlog == nil {
		return
	}
	e := domain.RunEntry{
		ID:          uuid.NewString(),
		Reprocessed: reprocessed,
		Rows:        rows,
		Duration:    time.Since(start),
		Outcome:     outcome,
		StartedAt:   start.UTC(),
	}
	if err := s.runlog.Record(ctx, e); err != nil {
		log.Warn().Err(err).Msg("run log write failed")
	}
}

func errClass(err error) string {
	switch {
	case errors.Is(err, domain.ErrDataNotFound):
		return "data_not_found"
	case errors.Is(err, domain.ErrModelLoad):
		return "model_load"
	case errors.Is(err, domain.ErrClassification):
		return "classification"
	default:
		return "error"
	}
}
