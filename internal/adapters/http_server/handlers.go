// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"vendor_insight/internal/app"
	"vendor_insight/internal/domain"
)

type Handlers struct {
	Gap    *app.GapService
	RunLog domain.RunLog // optional
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/gap-analysis", h.gapAnalysis)
	s.mux.Get("/v1/runs", h.listRuns)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Status: "error", Message: message}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) gapAnalysis(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Gap.Report(r.Context())
	if err != nil {
		// All pipeline failures are fatal for the request; the reason is
		// surfaced as the message, retries are the caller's call.
		log.Error().Err(err).Msg("gap analysis failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	etag, body := calcETagAndBody(rep)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write gap-analysis body")
	}
}

func (h *Handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	if h.RunLog == nil {
		writeError(w, http.StatusNotFound, "run log is not configured")
		return
	}

	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	runs, err := h.RunLog.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list runs failed")
		writeError(w, http.StatusInternalServerError, "could not read run log")
		return
	}

	type runView struct {
		ID          string `json:"id"`
		Reprocessed bool   `json:"reprocessed"`
		Rows        int    `json:"rows"`
		DurationMS  int64  `json:"durationMs"`
		Outcome     string `json:"outcome"`
		StartedAt   string `json:"startedAt"`
	}
	out := make([]runView, 0, len(runs))
	for _, e := range runs {
		out = append(out, runView{
			ID:          e.ID,
			Reprocessed: e.Reprocessed,
			Rows:        e.Rows,
			DurationMS:  e.Duration.Milliseconds(),
			Outcome:     e.Outcome,
			StartedAt:   e.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("failed to write runs body")
	}
}
