// cmd/seeder builds demo model bundles and a demo raw review dataset at the
// configured paths, standing in for the out-of-band training pipeline so the
// service can run end to end locally.
package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"vendor_insight/internal/adapters/model"
	"vendor_insight/internal/adapters/observability"
	"vendor_insight/internal/domain"
	"vendor_insight/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	writeBundle(cfg.SentimentModel, sentimentBundle())
	writeBundle(cfg.AspectModel, aspectBundle())

	if _, err := os.Stat(cfg.RawReviewsPath); err == nil {
		log.Info().Str("path", cfg.RawReviewsPath).Msg("raw dataset exists, leaving as-is")
	} else {
		writeRawDataset(cfg.RawReviewsPath)
	}

	log.Info().Msg("seeding completed")
}

func writeBundle(path string, b model.Bundle) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("mkdir failed")
	}
	if err := model.WriteBundle(path, b); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("write bundle failed")
	}
	log.Info().Str("path", path).Strs("classes", model.ClassesOf(b)).Msg("bundle written")
}

// buildBundle turns per-class token lists into a vocabulary plus sparse
// unit weights. Neutral/fallback classes carry a small bias so they win
// when no weighted token appears.
func buildBundle(classes []string, tokens map[string][]string, fallback string) model.Bundle {
	vocab := map[string]int{}
	weights := make([]map[int]float64, len(classes))
	bias := make([]float64, len(classes))
	for ci, class := range classes {
		weights[ci] = map[int]float64{}
		if class == fallback {
			bias[ci] = 0.1
		}
		for _, tok := range tokens[class] {
			tok = strings.ToLower(tok)
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
			}
			weights[ci][idx] = 1
		}
	}
	return model.Bundle{
		Vectorizer: model.Vectorizer{Vocabulary: vocab},
		Predictor:  model.Predictor{Classes: classes, Bias: bias, Weights: weights},
	}
}

func sentimentBundle() model.Bundle {
	classes := []string{domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative}
	return buildBundle(classes, map[string][]string{
		domain.SentimentPositive: {"good", "great", "tasty", "delicious", "fresh", "friendly", "love", "excellent", "amazing"},
		domain.SentimentNegative: {"bad", "cold", "stale", "rude", "slow", "dirty", "awful", "overpriced", "terrible"},
	}, domain.SentimentNeutral)
}

func aspectBundle() model.Bundle {
	return buildBundle(domain.Categories, map[string][]string{
		"Food":           {"food", "dish", "taste", "tasty", "curry", "meal", "delicious", "stale"},
		"Service":        {"service", "wait", "waiter", "order", "slow"},
		"Price":          {"price", "expensive", "cheap", "overpriced", "value"},
		"Ambience":       {"ambience", "music", "decor", "atmosphere", "noisy"},
		"Hygiene":        {"hygiene", "clean", "dirty", "smell"},
		"Staff Behavior": {"staff", "rude", "behavior", "polite"},
		"Delivery":       {"delivery", "late", "rider", "packaging"},
		"Location":       {"location", "parking", "far", "reach"},
	}, "Other")
}

func writeRawDataset(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("mkdir failed")
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("create raw dataset failed")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"comment", "rating"},
		{"the food was delicious and fresh", "5"},
		{"service was slow, long wait for the order", "2"},
		{"great taste, will come again", "5"},
		{"too expensive for the portion size", "2"},
		{"staff was rude at the counter", "1"},
		{"delivery arrived late and cold", "2"},
		{"love the ambience and the music", "4"},
		{"tables were dirty, hygiene needs work", "1"},
		{"good value and friendly staff", "4"},
		{"hard to reach, no parking nearby", "3"},
		{"tasty curry, excellent meal", "5"},
		{"nothing special", ""},
	}
	if err := w.WriteAll(rows); err != nil {
		log.Fatal().Err(err).Msg("write raw dataset failed")
	}
	log.Info().Str("path", path).Int("rows", len(rows)-1).Msg("raw dataset written")
}
