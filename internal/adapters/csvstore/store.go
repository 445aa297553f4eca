// internal/adapters/csvstore/store.go
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vendor_insight/internal/domain"
)

const (
	colComment   = "comment"
	colRating    = "rating"
	colSentiment = "predicted_sentiment"
	colAspect    = "predicted_aspect"
)

// Store reads the raw review dataset and reads/writes the classified cache
// artifact, both flat CSV files with a header row.
type Store struct {
	rawPath    string
	cachedPath string
}

func New(rawPath, cachedPath string) *Store {
	return &Store{rawPath: rawPath, cachedPath: cachedPath}
}

func (s *Store) LoadRaw(ctx context.Context) ([]domain.Review, error) {
	header, rows, err := readTable(s.rawPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDataNotFound, s.rawPath)
		}
		return nil, fmt.Errorf("read raw dataset %s: %w", s.rawPath, err)
	}
	ci, ok := header[colComment]
	if !ok {
		return nil, fmt.Errorf("raw dataset %s has no %q column", s.rawPath, colComment)
	}
	ri, hasRating := header[colRating]

	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		r := domain.Review{Comment: cell(row, ci)}
		if hasRating {
			r.Rating = parseRating(cell(row, ri))
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) LoadCached(ctx context.Context) (*domain.CachedDataset, error) {
	header, rows, err := readTable(s.cachedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // no cache yet; not an error
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCacheCorrupt, s.cachedPath, err)
	}

	si, hasSentiment := header[colSentiment]
	ai, hasAspect := header[colAspect]
	ci := header[colComment]
	ri, hasRating := header[colRating]

	ds := &domain.CachedDataset{HasSentiment: hasSentiment, HasAspect: hasAspect}
	ds.Reviews = make([]domain.ClassifiedReview, 0, len(rows))
	for _, row := range rows {
		cr := domain.ClassifiedReview{Review: domain.Review{Comment: cell(row, ci)}}
		if hasRating {
			cr.Rating = parseRating(cell(row, ri))
		}
		if hasSentiment {
			cr.Sentiment = cell(row, si)
		}
		if hasAspect {
			cr.Aspect = cell(row, ai)
		}
		ds.Reviews = append(ds.Reviews, cr)
	}
	return ds, nil
}

// Persist regenerates the cache artifact wholesale. The snapshot is written
// to a temp file in the destination directory and swapped in with a rename,
// so concurrent readers only ever see a complete artifact.
func (s *Store) Persist(ctx context.Context, reviews []domain.ClassifiedReview) error {
	dir := filepath.Dir(s.cachedPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gap_output-*.csv")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{colComment, colRating, colSentiment, colAspect}); err != nil {
		return err
	}
	for _, r := range reviews {
		rating := ""
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
		}
		if err := w.Write([]string{r.Comment, rating, r.Sentiment, r.Aspect}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.cachedPath); err != nil {
		os.Remove(tmp.Name())
		tmp = nil
		return fmt.Errorf("replace cache artifact: %w", err)
	}
	tmp = nil
	return nil
}

// readTable reads a CSV file into a header index and data rows.
func readTable(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1 // header defines the schema; tolerate ragged rows
	recs, err := rd.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(recs) == 0 {
		return nil, nil, errors.New("empty file, no header row")
	}
	header := make(map[string]int, len(recs[0]))
	for i, name := range recs[0] {
		header[strings.TrimSpace(name)] = i
	}
	return header, recs[1:], nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
