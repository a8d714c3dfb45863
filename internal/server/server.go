// Package server exposes a frame collection over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"apviz/internal/core"
	"apviz/internal/export"
	"apviz/internal/frame"
	"apviz/internal/render"
)

// Service serves frames and, when a store is attached, stored exports.
type Service struct {
	frames *frame.Collection
	store  *export.Store
	render render.Options
	logger *slog.Logger
}

// New returns a service over frames. store may be nil.
func New(frames *frame.Collection, store *export.Store, opts render.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{frames: frames, store: store, render: opts, logger: logger}
}

// Router builds a chi router with the service mounted at the root.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP adds the frame endpoints to r.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Get("/frames", s.handleList)
	r.Get("/frames/named/{name}", s.handleNamed)
	r.Get("/frames/{index}", s.handleFrame)
	r.Get("/frames/{index}/png", s.handlePNG)
	r.Get("/frames/{index}/params", s.handleParams)
	if s.store != nil {
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}/frames", s.handleRunFrames)
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type frameSummary struct {
	Index       int    `json:"index"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	out := struct {
		Count  int            `json:"count"`
		Frames []frameSummary `json:"frames"`
	}{Count: s.frames.Len(), Frames: make([]frameSummary, 0, s.frames.Len())}
	for i := range s.frames.Len() {
		f := s.frames.ByIndex(i)
		out.Frames = append(out.Frames, frameSummary{Index: i, Name: f.Name(), Description: f.Description()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// lookup resolves the {index} parameter, writing the error response itself.
func (s *Service) lookup(w http.ResponseWriter, r *http.Request) (*frame.Frame, bool) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid frame index %q", raw))
		return nil, false
	}
	f := s.frames.ByIndex(i)
	if f == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("frame %d out of range [0, %d)", i, s.frames.Len()))
		return nil, false
	}
	return f, true
}

func (s *Service) handleFrame(w http.ResponseWriter, r *http.Request) {
	if f, ok := s.lookup(w, r); ok {
		s.writeFrame(w, f)
	}
}

func (s *Service) handleNamed(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f := s.frames.ByName(name)
	if f == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no frame named %q", name))
		return
	}
	s.writeFrame(w, f)
}

func (s *Service) writeFrame(w http.ResponseWriter, f *frame.Frame) {
	snap, err := f.Data()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	out := struct {
		frameSummary
		Frame *core.Snapshot `json:"frame"`
	}{frameSummary{Index: f.Index(), Name: f.Name(), Description: f.Description()}, snap}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Service) handlePNG(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snap, err := f.Data()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	opts := s.render
	if r.URL.Query().Has("caption") {
		opts.Caption = fmt.Sprintf("%d %s", f.Index(), f.Name())
	}
	if opts.Bounds(snap).Empty() {
		s.writeError(w, http.StatusUnprocessableEntity, errors.New("frame has no cells"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.EncodePNG(w, snap, opts); err != nil {
		s.logger.Warn("png write failed", "index", f.Index(), "error", err)
	}
}

type paramJSON struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

type groupJSON struct {
	Name    string      `json:"name"`
	Summary string      `json:"summary,omitempty"`
	Params  []paramJSON `json:"params"`
}

func (s *Service) handleParams(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	params, err := f.Parameters()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	out := make([]groupJSON, 0, len(params.Groups))
	for _, g := range params.Groups {
		gj := groupJSON{Name: g.Name, Summary: g.Summary, Params: make([]paramJSON, 0, len(g.Params))}
		for _, p := range g.Params {
			gj.Params = append(gj.Params, paramJSON{p.Key, p.Label, string(p.Type), p.Value, p.Description})
		}
		out = append(out, gj)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.Runs(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	type runJSON struct {
		ID         string    `json:"id"`
		Source     string    `json:"source"`
		FrameCount int       `json:"frame_count"`
		CreatedAt  time.Time `json:"created_at"`
	}
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, runJSON{run.ID, run.Source, run.FrameCount, run.CreatedAt})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleRunFrames(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.Frames(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(recs) == 0 {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no frames for run %q", chi.URLParam(r, "id")))
		return
	}
	type recordJSON struct {
		Index int             `json:"index"`
		Tag   *string         `json:"gif"`
		Name  string          `json:"name,omitempty"`
		Frame json.RawMessage `json:"frame"`
	}
	out := make([]recordJSON, 0, len(recs))
	for _, rec := range recs {
		rj := recordJSON{Index: rec.Index, Name: rec.Name, Frame: rec.Data}
		if rec.Tagged {
			rj.Tag = &rec.Tag
		}
		out = append(out, rj)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// statusFor maps evaluation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrReference), errors.Is(err, core.ErrState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Service) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("json write failed", "status", code, "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}
