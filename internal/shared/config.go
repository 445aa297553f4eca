package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN string // empty disables the run log

	RedisAddr string
	RedisDB   int
	RedisPass string

	RawReviewsPath string
	ClassifiedPath string
	SentimentModel string
	AspectModel    string

	SampleFraction float64
	SampleSeed     int64

	CacheTTL       time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		RawReviewsPath: env("RAW_REVIEWS_PATH", "data/raw_reviews.csv"),
		ClassifiedPath: env("GAP_OUTPUT_PATH", "data/gap_output.csv"),
		SentimentModel: env("SENTIMENT_MODEL_PATH", "models/sentiment_model.gob"),
		AspectModel:    env("ASPECT_MODEL_PATH", "models/aspect_model.gob"),
		SampleFraction: atof("SAMPLE_FRACTION", 0.10),
		SampleSeed:     int64(atoi("SAMPLE_SEED", 42)),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		RateLimitRPS:   atoi("RATE_LIMIT_RPS", 10),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 20),
	}
	if c.SampleFraction <= 0 || c.SampleFraction > 1 {
		log.Warn().Float64("fraction", c.SampleFraction).Msg("SAMPLE_FRACTION out of (0,1], using 0.10")
		c.SampleFraction = 0.10
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
