package domain

// Sentiment labels as emitted by the sentiment classifier.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Categories is the fixed aspect vocabulary. Aggregates are always reported
// in this order, one entry per category, even when a category has no rows.
var Categories = []string{
	"Food",
	"Service",
	"Price",
	"Ambience",
	"Hygiene",
	"Staff Behavior",
	"Delivery",
	"Location",
	"Other",
}

type Review struct {
	Comment string
	Rating  *float64
}

// ClassifiedReview is a Review plus the two derived labels. A persisted
// record always carries both labels or is not persisted at all.
type ClassifiedReview struct {
	Review
	Sentiment string
	Aspect    string
}

// CachedDataset is the previously classified artifact as read back from
// storage. The Has* flags reflect column presence in the artifact's schema,
// which is the only freshness signal the pipeline uses.
type CachedDataset struct {
	HasSentiment bool
	HasAspect    bool
	Reviews      []ClassifiedReview
}
