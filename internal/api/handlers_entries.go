package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"moonwave/internal/diagfmt"
	"moonwave/internal/driver"
	"moonwave/internal/emit"
	"moonwave/internal/stream"
	"moonwave/internal/trace"
)

type entriesResponse struct {
	Entries     []emit.Record            `json:"entries"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
}

// handleEntries builds the entries of one posted stream document. Each
// comment is independent, so entries that built are returned even when
// others failed; the status is 422 whenever an error diagnostic exists.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	doc, err := stream.Read(r.Body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "document exceeds max size ("+strconv.FormatInt(tooLarge.Limit, 10)+" bytes)", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Source paths come from the caller; only inline content or the
	// comment texts may back the document.
	res, err := driver.Extract(r.Context(), []*stream.Document{doc}, driver.Options{
		Jobs:           s.opts.Jobs,
		MaxDiagnostics: s.opts.MaxDiagnostics,
		Decode: []stream.Option{
			stream.WithoutDiskSources(),
			stream.WithMaxSourceSize(s.maxSourceSize()),
		},
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	records, err := emit.Records(res.Entries)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := diagfmt.BuildDiagnosticsOutput(res.Bag.Items(), res.Files, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.opts.PathMode,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})

	status := http.StatusOK
	if res.Failed() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, entriesResponse{Entries: records, Diagnostics: out.Diagnostics})
}

func (s *Server) handleTraceDump(ring *trace.RingTracer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		last := 0
		if v := r.URL.Query().Get("last"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				jsonError(w, "last must be a non-negative integer", http.StatusBadRequest)
				return
			}
			last = n
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		_ = ring.Dump(w, trace.FormatNDJSON, last)
	}
}

// requestFormat maps the Content-Type header to a stream format. A missing
// header means JSON.
func requestFormat(r *http.Request) (stream.Format, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return stream.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", err
	}
	switch mt {
	case "application/json":
		return stream.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return stream.FormatYAML, nil
	case "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
		return stream.FormatMsgpack, nil
	}
	return "", errors.New("unsupported content type " + mt)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
