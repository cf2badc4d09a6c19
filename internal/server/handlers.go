package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/agentscape/pkg/buildinfo"
	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/pipeline"
	"github.com/matzehuels/agentscape/pkg/plot"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// HitResponse is the body of a successful GET /api/hit.
type HitResponse struct {
	Name   string         `json:"name"`
	Entity dataset.Record `json:"entity"`
	Point  plot.Point     `json:"point"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version, Commit: buildinfo.Commit})
}

func (s *Server) listEntities(w http.ResponseWriter, r *http.Request) {
	opts, records, err := s.records(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records = opts.Filter().Apply(records)
	if records == nil {
		records = []dataset.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid entity name"))
		return
	}
	_, records, err := s.records(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, ok := dataset.Find(records, name)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeEntityNotFound, "no entity named %q", name))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	_, _, l, err := s.buildLayout(r, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) plot(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format == pipeline.FormatJSON {
		s.layout(w, r)
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, "", format)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, plot.VizTypeNodelink, pipeline.FormatSVG)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, vizType, format string) {
	opts, _, l, err := s.buildLayout(r, vizType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) hit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	px, err := requireFloat(q, "px")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	py, err := requireFloat(q, "py")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_, records, l, err := s.buildLayout(r, plot.VizTypeScatter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, ok := s.runner.HitTest(r.Context(), l, px, py)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeEntityNotFound, "no entity at (%g, %g)", px, py))
		return
	}
	rec, _ := dataset.Find(records, p.Name)
	writeJSON(w, http.StatusOK, HitResponse{Name: p.Name, Entity: rec, Point: p})
}

// records loads the dataset with the request's options.
func (s *Server) records(r *http.Request) (pipeline.Options, []dataset.Record, error) {
	opts, err := s.options(r.URL.Query())
	if err != nil {
		return opts, nil, err
	}
	records, err := s.runner.Load(r.Context(), opts)
	return opts, records, err
}

// buildLayout loads, filters and lays out the dataset. A non-empty vizType
// overrides the configured one.
func (s *Server) buildLayout(r *http.Request, vizType string) (pipeline.Options, []dataset.Record, plot.Layout, error) {
	opts, records, err := s.records(r)
	if err != nil {
		return opts, nil, plot.Layout{}, err
	}
	if vizType != "" {
		opts.VizType = vizType
	}
	records = s.runner.Filter(records, opts)
	l, err := s.runner.GenerateLayout(r.Context(), records, opts)
	if err != nil {
		return opts, nil, plot.Layout{}, err
	}
	return opts, records, l, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError && errors.GetCode(err) == "" {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
		msg = "internal server error"
	} else if cause := unwrapCause(err); cause != "" {
		msg = fmt.Sprintf("%s: %s", msg, cause)
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: string(errors.GetCode(err))})
}

// unwrapCause returns the message of the cause of a coded error.
func unwrapCause(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
