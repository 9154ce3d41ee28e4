package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scynet/scynet/pkg/buildinfo"
	"github.com/scynet/scynet/pkg/cache"
	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/graph"
	"github.com/scynet/scynet/pkg/layout"
	"github.com/scynet/scynet/pkg/pipeline"
)

// HeaderWarnings lists the codes of non-fatal warnings raised while
// collapsing or annotating.
const HeaderWarnings = "X-Scynet-Warnings"

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string         `json:"status"`
	Version buildinfo.Info `json:"version"`
}

// AnnotateRequest is the body of POST /v1/annotate.
type AnnotateRequest struct {
	Network json.RawMessage `json:"network"`
	Flux    string          `json:"flux"`
	pipeline.Options
}

// FilterRequest is the body of POST /v1/filter.
type FilterRequest struct {
	Network json.RawMessage `json:"network"`
	pipeline.Filters
}

// FilterResponse is the body returned by POST /v1/filter.
type FilterResponse struct {
	Graph  json.RawMessage       `json:"graph"`
	Result pipeline.FilterResult `json:"result"`
}

// RunRequest is the body of POST /v1/run. A missing flux field skips
// annotation; an empty one annotates with an empty table.
type RunRequest struct {
	Network json.RawMessage `json:"network"`
	Flux    *string         `json:"flux,omitempty"`
	pipeline.Options
}

// RunResponse is the body returned by POST /v1/run and GET /v1/runs/{id}.
type RunResponse struct {
	RunID    string             `json:"run_id"`
	Graph    json.RawMessage    `json:"graph"`
	Warnings []Problem          `json:"warnings"`
	Flux     *flux.Summary      `json:"flux,omitempty"`
	Layout   *layout.Result     `json:"layout,omitempty"`
	Stats    pipeline.Stats     `json:"stats"`
	Cache    pipeline.CacheInfo `json:"cache"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Get()})
}

func (s *Server) collapse(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := graph.UnmarshalNetwork(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts := s.options(pipeline.Options{
		Delimiter:         r.URL.Query().Get("delimiter"),
		SharedCompartment: r.URL.Query().Get("shared_compartment"),
	})
	out, err := s.runner.Collapse(r.Context(), n, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setWarnings(w, out.Warnings)
	s.writeGraph(w, r, out.Graph)
}

func (s *Server) annotate(w http.ResponseWriter, r *http.Request) {
	var req AnnotateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := decodeCommunity(req.Network)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, warnings, err := parseFlux(req.Flux)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts := s.options(req.Options)
	out, err := s.runner.Annotate(r.Context(), g, t, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if f := opts.FilterOptions(); f != (pipeline.Filters{}) {
		if _, err := pipeline.Filter(out.Graph, f); err != nil {
			writeError(w, r, err)
			return
		}
	}
	setWarnings(w, warnings)
	s.writeGraph(w, r, out.Graph)
}

func (s *Server) filter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := decodeCommunity(req.Network)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := pipeline.Filter(g, req.Filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	raw, err := graph.MarshalCommunity(g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FilterResponse{Graph: raw, Result: res})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := decodeCommunity(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req pipeline.Options
	q := r.URL.Query()
	if req.OrganismSize, err = floatParam(q.Get("org_size")); err != nil {
		writeError(w, r, errBadRequest(err, "org_size"))
		return
	}
	if req.MetaboliteSize, err = floatParam(q.Get("met_size")); err != nil {
		writeError(w, r, errBadRequest(err, "met_size"))
		return
	}
	out, err := s.runner.Layout(r.Context(), g, s.options(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeGraph(w, r, out.Graph)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Network) == 0 {
		writeError(w, r, errBadRequest(nil, "missing network"))
		return
	}
	n, err := graph.UnmarshalNetwork(req.Network)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var (
		t        *flux.Table
		warnings []error
	)
	if req.Flux != nil {
		if t, warnings, err = parseFlux(*req.Flux); err != nil {
			writeError(w, r, err)
			return
		}
	}

	result, err := s.runner.Execute(r.Context(), n, t, s.options(req.Options))
	if err != nil {
		writeError(w, r, err)
		return
	}
	raw, err := graph.MarshalCommunity(result.Graph)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := RunResponse{
		RunID:    RunID(r.Context()),
		Graph:    raw,
		Warnings: problems(append(warnings, result.Warnings...)),
		Flux:     result.Flux,
		Layout:   result.Layout,
		Stats:    result.Stats,
		Cache:    result.CacheInfo,
	}
	s.storeRun(r, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, ok, err := s.runs.Get(r.Context(), s.runner.Keyer.RunKey(id))
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "load run %s", id))
		return
	}
	if !ok {
		writeError(w, r, errNotFound("run %s not found", id))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Internal Helpers
// =============================================================================

// storeRun keeps a run for TTLRun. Failures are logged; the caller still
// gets the result.
func (s *Server) storeRun(r *http.Request, resp RunResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("encode run", "run_id", resp.RunID, "error", err)
		return
	}
	if err := s.runs.Set(r.Context(), s.runner.Keyer.RunKey(resp.RunID), data, cache.TTLRun); err != nil {
		s.logger.Warn("store run", "run_id", resp.RunID, "error", err)
	}
}

// options fills fields req leaves unset from the server defaults.
func (s *Server) options(req pipeline.Options) pipeline.Options {
	d := s.defaults
	if req.Delimiter == "" {
		req.Delimiter = d.Delimiter
	}
	if req.SharedCompartment == "" {
		req.SharedCompartment = d.SharedCompartment
	}
	if req.OrganismSize == 0 {
		req.OrganismSize = d.OrganismSize
	}
	if req.MetaboliteSize == 0 {
		req.MetaboliteSize = d.MetaboliteSize
	}
	req.OnlyCrossFed = req.OnlyCrossFed || d.OnlyCrossFed
	req.ShowZeroFlux = req.ShowZeroFlux || d.ShowZeroFlux
	req.Logger = s.logger
	return req
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errBadRequest(nil, "empty request body")
	}
	return body, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

func (s *Server) writeGraph(w http.ResponseWriter, r *http.Request, g *community.Graph) {
	raw, err := graph.MarshalCommunity(g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// parseFlux reads a flux table from a request. A malformed table degrades to
// an empty one and comes back as a warning.
func parseFlux(src string) (*flux.Table, []error, error) {
	t, err := flux.Parse(strings.NewReader(src))
	if err == nil {
		return t, nil, nil
	}
	if errors.IsFatal(err) {
		return nil, nil, err
	}
	return t, []error{err}, nil
}

// setWarnings lists the codes of warnings in the HeaderWarnings header.
func setWarnings(w http.ResponseWriter, warnings []error) {
	if len(warnings) == 0 {
		return
	}
	codes := make([]string, 0, len(warnings))
	for _, p := range problems(warnings) {
		codes = append(codes, string(p.Code))
	}
	w.Header().Set(HeaderWarnings, strings.Join(codes, ","))
}

func decodeCommunity(raw json.RawMessage) (*community.Graph, error) {
	if len(raw) == 0 {
		return nil, errBadRequest(nil, "missing network")
	}
	return graph.UnmarshalCommunity(raw)
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
