package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mhersch/treeline/pkg/buildinfo"
	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/pipeline"
)

// LayoutRequest is the body for the layout endpoint. The document may be
// inlined or referenced by URL.
type LayoutRequest struct {
	Document  json.RawMessage `json:"document,omitempty"`
	SourceURL string          `json:"source_url,omitempty"`
	Collapsed []string        `json:"collapsed,omitempty"`
}

// LayoutResponse carries the positioned frame.
type LayoutResponse struct {
	DocHash string          `json:"doc_hash"`
	Frame   json.RawMessage `json:"frame"`
	Stats   layoutStats     `json:"stats"`
}

type layoutStats struct {
	NodeCount    int  `json:"node_count"`
	VisibleCount int  `json:"visible_count"`
	LayoutCached bool `json:"layout_cached"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		DocHash: result.DocHash,
		Frame:   result.Artifacts[pipeline.FormatJSON],
		Stats: layoutStats{
			NodeCount:    result.Stats.NodeCount,
			VisibleCount: result.Stats.VisibleCount,
			LayoutCached: result.CacheInfo.LayoutHit,
		},
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{format}
	if opts.Width, ok = s.queryDimension(w, r, "width"); !ok {
		return
	}
	if opts.Height, ok = s.queryDimension(w, r, "height"); !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// queryDimension parses an optional pixel dimension query parameter.
// A missing parameter yields zero, which the pipeline replaces with its
// default.
func (s *Server) queryDimension(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", name))
		return 0, false
	}
	return v, true
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var req LayoutRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return pipeline.Options{}, false
	}

	opts := pipeline.Options{
		Source:    req.SourceURL,
		Raw:       req.Document,
		Collapsed: req.Collapsed,
		Logger:    s.logger,
	}
	return opts, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed",
			"error", err,
			"request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidTree),
		errors.Is(err, errors.ErrCodeInvalidFormat),
		errors.Is(err, errors.ErrCodeInvalidViewport):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound),
		errors.Is(err, errors.ErrCodeFileNotFound),
		errors.Is(err, errors.ErrCodeNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
