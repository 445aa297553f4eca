package app

import (
	"math"
	"math/rand"
	"sort"

	"vendor_insight/internal/domain"
)

// pct is the shared percentage rule: round(100*part/total), ties to even.
// Ties-to-even keeps positive+negative <= 100 when both land on .5 (e.g.
// 3 and 5 of 8). Empty groups report 0 rather than dividing by zero.
func pct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(100 * float64(part) / float64(total)))
}

// SampleFraction draws a fixed-fraction sample without replacement using a
// seeded source, so the vendor-level category view is reproducible for a
// given dataset snapshot. Sampled rows keep dataset order.
func SampleFraction(ds []domain.ClassifiedReview, fraction float64, seed int64) []domain.ClassifiedReview {
	n := len(ds)
	k := int(math.Round(fraction * float64(n)))
	if k <= 0 {
		return nil
	}
	if k >= n {
		return ds
	}
	idx := rand.New(rand.NewSource(seed)).Perm(n)[:k]
	sort.Ints(idx)
	out := make([]domain.ClassifiedReview, 0, k)
	for _, i := range idx {
		out = append(out, ds[i])
	}
	return out
}

// AggregateByCategory computes the vendor (category) view: one entry per
// fixed category in vocabulary order. Neutral is tracked as a label but
// deliberately reported as 0. Trend is a placeholder until the trend
// pipeline lands.
func AggregateByCategory(ds []domain.ClassifiedReview) []domain.CategoryGap {
	out := make([]domain.CategoryGap, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		pos, neg, total := countSentiments(ds, cat)
		out = append(out, domain.CategoryGap{
			Name:     cat,
			Positive: pct(pos, total),
			Neutral:  0,
			Negative: pct(neg, total),
			Trend:    0,
		})
	}
	return out
}

// AggregateCitywide computes the same per-category grouping over the full
// dataset, reporting raw totals instead of a trend.
func AggregateCitywide(ds []domain.ClassifiedReview) []domain.CitywideGap {
	out := make([]domain.CitywideGap, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		pos, neg, total := countSentiments(ds, cat)
		out = append(out, domain.CitywideGap{
			Category: cat,
			Positive: pct(pos, total),
			Neutral:  0,
			Negative: pct(neg, total),
			Total:    total,
		})
	}
	return out
}

// AggregateOverall summarizes the whole dataset. AverageRating is the mean
// of present ratings rounded to 2dp, or nil when the dataset is empty or no
// row carries a rating.
func AggregateOverall(ds []domain.ClassifiedReview) domain.OverallSummary {
	var pos, neg int
	var ratingSum float64
	var rated int
	for _, r := range ds {
		switch r.Sentiment {
		case domain.SentimentPositive:
			pos++
		case domain.SentimentNegative:
			neg++
		}
		if r.Rating != nil {
			ratingSum += *r.Rating
			rated++
		}
	}
	total := len(ds)
	sum := domain.OverallSummary{
		Positive: pct(pos, total),
		Neutral:  0,
		Negative: pct(neg, total),
		Total:    total,
	}
	if total > 0 && rated > 0 {
		avg := math.Round(ratingSum/float64(rated)*100) / 100
		sum.AverageRating = &avg
	}
	return sum
}

// Compose assembles the four report blocks into the response payload.
func Compose(overall domain.OverallSummary, trends domain.TrendBlock, categories []domain.CategoryGap, citywide []domain.CitywideGap) domain.Report {
	return domain.Report{
		Overall:      overall,
		Trends:       trends,
		Categories:   categories,
		CitywideData: citywide,
	}
}

func countSentiments(ds []domain.ClassifiedReview, category string) (pos, neg, total int) {
	for _, r := range ds {
		if r.Aspect != category {
			continue
		}
		total++
		switch r.Sentiment {
		case domain.SentimentPositive:
			pos++
		case domain.SentimentNegative:
			neg++
		}
	}
	return pos, neg, total
}
