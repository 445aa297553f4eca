package domain

// CategoryGap is the vendor-facing per-category breakdown, computed over a
// seeded sample of the classified dataset.
type CategoryGap struct {
	Name     string `json:"name"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
	Trend    int    `json:"trend"`
}

// CitywideGap is the per-category breakdown over the full dataset.
type CitywideGap struct {
	Category string `json:"category"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
	Total    int    `json:"total"`
}

type OverallSummary struct {
	Positive      int      `json:"positive"`
	Neutral       int      `json:"neutral"`
	Negative      int      `json:"negative"`
	Total         int      `json:"total"`
	AverageRating *float64 `json:"averageRating"`
}

type TrendBlock struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// StaticTrends is the hand-authored time-series delta block. It is not
// computed from data; the trend pipeline is not wired in yet.
func StaticTrends() TrendBlock {
	return TrendBlock{Positive: 12, Neutral: -3, Negative: -9}
}

type Report struct {
	Overall      OverallSummary `json:"overall"`
	Trends       TrendBlock     `json:"trends"`
	Categories   []CategoryGap  `json:"categories"`
	CitywideData []CitywideGap  `json:"citywideData"`
}
