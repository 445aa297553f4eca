package model_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendor_insight/internal/adapters/model"
	"vendor_insight/internal/domain"
)

func demoSentimentBundle() model.Bundle {
	return model.Bundle{
		Vectorizer: model.Vectorizer{Vocabulary: map[string]int{"good": 0, "bad": 1}},
		Predictor: model.Predictor{
			Classes: []string{"neutral", "positive", "negative"},
			Bias:    []float64{0.1, 0, 0},
			Weights: []map[int]float64{
				{},
				{0: 1},
				{1: 1},
			},
		},
	}
}

func writeBundle(t *testing.T, b model.Bundle) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.gob")
	require.NoError(t, model.WriteBundle(path, b))
	return path
}

func TestRegistry_LoadAndPredict(t *testing.T) {
	path := writeBundle(t, demoSentimentBundle())
	reg := model.New(path, path)

	sentiment, aspect, err := reg.Load()
	require.NoError(t, err)
	require.NotNil(t, sentiment)
	require.NotNil(t, aspect)

	labels, err := sentiment.Predict([]string{
		"Good food, really GOOD!", // token matching is case-insensitive
		"bad service",
		"just okay",
		"",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"positive", "negative", "neutral", "neutral"}, labels)
}

func TestRegistry_PredictPreservesOrderAndLength(t *testing.T) {
	path := writeBundle(t, demoSentimentBundle())
	reg := model.New(path, path)
	sentiment, _, err := reg.Load()
	require.NoError(t, err)

	texts := []string{"bad", "good", "bad", "good", "meh"}
	labels, err := sentiment.Predict(texts)
	require.NoError(t, err)
	require.Len(t, labels, len(texts))
	assert.Equal(t, []string{"negative", "positive", "negative", "positive", "neutral"}, labels)
}

func TestRegistry_MissingArtifact(t *testing.T) {
	reg := model.New(filepath.Join(t.TempDir(), "nope.gob"), filepath.Join(t.TempDir(), "nope.gob"))
	_, _, err := reg.Load()
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestRegistry_UndecodableArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.gob")
	require.NoError(t, os.WriteFile(path, []byte("this is not gob"), 0o644))
	reg := model.New(path, path)
	_, _, err := reg.Load()
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestRegistry_StructurallyIncompatibleBundles(t *testing.T) {
	noVectorizer := demoSentimentBundle()
	noVectorizer.Vectorizer.Vocabulary = nil

	noPredictor := demoSentimentBundle()
	noPredictor.Predictor.Classes = nil
	noPredictor.Predictor.Weights = nil

	for name, b := range map[string]model.Bundle{
		"missing vectorizer": noVectorizer,
		"missing predictor":  noPredictor,
	} {
		path := writeBundle(t, b)
		reg := model.New(path, path)
		_, _, err := reg.Load()
		assert.ErrorIs(t, err, domain.ErrModelLoad, name)
	}
}

func TestRegistry_LoadIsMemoized(t *testing.T) {
	path := writeBundle(t, demoSentimentBundle())
	reg := model.New(path, path)

	s1, a1, err := reg.Load()
	require.NoError(t, err)

	// Deleting the artifact after the first load must not matter.
	require.NoError(t, os.Remove(path))

	s2, a2, err := reg.Load()
	require.NoError(t, err)
	assert.Same(t, s1, s2)
	assert.Same(t, a1, a2)
}

func TestRegistry_FailedLoadIsMemoizedToo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.gob")
	reg := model.New(path, path)

	_, _, err := reg.Load()
	require.Error(t, err)

	// Artifacts are fixed for the process lifetime; a late file does not
	// un-fail the registry.
	require.NoError(t, model.WriteBundle(path, demoSentimentBundle()))
	_, _, err = reg.Load()
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestClassifier_ConcurrentPredict(t *testing.T) {
	path := writeBundle(t, demoSentimentBundle())
	reg := model.New(path, path)
	sentiment, _, err := reg.Load()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			labels, err := sentiment.Predict([]string{"good", "bad"})
			if err != nil || len(labels) != 2 || labels[0] != "positive" {
				t.Errorf("concurrent predict: labels=%v err=%v", labels, err)
			}
		}()
	}
	wg.Wait()
}
