package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	applog "paytrack/internal/log"
)

// streamKeepAlive is how often an idle event stream gets a comment line.
const streamKeepAlive = 30 * time.Second

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	params, err := ParseViewParams(r.URL.Query(), s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := s.deps.Dashboard.Summary(r.Context(), s.userID(r), params.View, params.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	date, err := ParseDateParam(r.URL.Query(), "date", s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.deps.Dashboard.Periods(r.Context(), s.userID(r), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Dashboard.History(r.Context(), s.userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleExportCSV renders the whole file before sending so a failure can
// still produce a JSON error.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	params, err := ParseViewParams(r.URL.Query(), s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := s.deps.Dashboard.ExportCSV(r.Context(), &buf, s.userID(r), params.View, params.Date); err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("paytrack-%s-%s.csv", params.View, params.Date)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleStream sends the user's snapshot as a server-sent event on connect
// and again after every change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported"})
		return
	}
	ctx := r.Context()
	updates, cancel, err := s.deps.Streamer.Subscribe(ctx, s.userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logger := applog.FromContext(ctx)
	logger.Debug("Stream opened")
	ping := time.NewTicker(streamKeepAlive)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Stream closed")
			return
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case snap, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				logger.Error("Failed to encode snapshot", applog.FieldError, err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
