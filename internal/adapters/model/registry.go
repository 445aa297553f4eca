// internal/adapters/model/registry.go
package model

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"vendor_insight/internal/domain"
)

// Bundle is the serialized classifier artifact: a bag-of-words vectorizer
// paired with a linear one-vs-rest predictor. Bundles are produced by the
// offline training pipeline and consumed read-only here.
type Bundle struct {
	Vectorizer Vectorizer
	Predictor  Predictor
}

type Vectorizer struct {
	// Vocabulary maps a token to its feature index.
	Vocabulary map[string]int
}

type Predictor struct {
	// Classes in scoring order; ties resolve to the earliest class.
	Classes []string
	// Bias per class, parallel to Classes. May be empty (all zero).
	Bias []float64
	// Weights per class: sparse feature-index -> weight, parallel to Classes.
	Weights []map[int]float64
}

// Classifier is one loaded bundle. Read-only after load; safe for
// concurrent Predict calls.
type Classifier struct {
	bundle Bundle
}

func (c *Classifier) Predict(texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = c.classify(t)
	}
	return out, nil
}

func (c *Classifier) classify(text string) string {
	counts := map[int]float64{}
	for _, tok := range tokenize(text) {
		if idx, ok := c.bundle.Vectorizer.Vocabulary[tok]; ok {
			counts[idx]++
		}
	}

	p := c.bundle.Predictor
	best, bestScore := 0, scoreClass(p, 0, counts)
	for ci := 1; ci < len(p.Classes); ci++ {
		if s := scoreClass(p, ci, counts); s > bestScore {
			best, bestScore = ci, s
		}
	}
	return p.Classes[best]
}

func scoreClass(p Predictor, ci int, counts map[int]float64) float64 {
	var s float64
	if ci < len(p.Bias) {
		s = p.Bias[ci]
	}
	for idx, n := range counts {
		s += p.Weights[ci][idx] * n
	}
	return s
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Registry loads the sentiment and aspect bundles from disk, once per
// process. A failed load is memoized too: the artifacts are fixed for the
// process lifetime, so retrying cannot succeed.
type Registry struct {
	sentimentPath string
	aspectPath    string

	once      sync.Once
	sentiment *Classifier
	aspect    *Classifier
	err       error
}

func New(sentimentPath, aspectPath string) *Registry {
	return &Registry{sentimentPath: sentimentPath, aspectPath: aspectPath}
}

func (r *Registry) Load() (domain.TextClassifier, domain.TextClassifier, error) {
	r.once.Do(func() {
		r.sentiment, r.err = loadBundle(r.sentimentPath)
		if r.err != nil {
			return
		}
		r.aspect, r.err = loadBundle(r.aspectPath)
	})
	if r.err != nil {
		return nil, nil, r.err
	}
	return r.sentiment, r.aspect, nil
}

func loadBundle(path string) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrModelLoad, path, err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrModelLoad, path, err)
	}
	if len(b.Vectorizer.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: %s: bundle has no vectorizer", domain.ErrModelLoad, path)
	}
	if len(b.Predictor.Classes) == 0 || len(b.Predictor.Weights) != len(b.Predictor.Classes) {
		return nil, fmt.Errorf("%w: %s: bundle has no usable predictor", domain.ErrModelLoad, path)
	}
	return &Classifier{bundle: b}, nil
}

// WriteBundle serializes a bundle to path. Used by the seeder and by tests;
// the service itself never writes model artifacts.
func WriteBundle(path string, b Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ClassesOf reports a bundle's classes in a stable order, mainly for the
// seeder's logging.
func ClassesOf(b Bundle) []string {
	out := append([]string(nil), b.Predictor.Classes...)
	sort.Strings(out)
	return out
}
