package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stackdraw/pkg/buildinfo"
	"github.com/matzehuels/stackdraw/pkg/diagram"
	"github.com/matzehuels/stackdraw/pkg/errors"
	"github.com/matzehuels/stackdraw/pkg/pipeline"
	"github.com/matzehuels/stackdraw/pkg/store"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderSource(w, r, body, inputFormat(r))
}

func (s *Server) renderDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderSource(w, r, []byte(d.Source), d.Format)
}

// renderSource runs the pipeline for one output format given by ?format=.
func (s *Server) renderSource(w http.ResponseWriter, r *http.Request, src []byte, format diagram.Format) {
	out := strings.ToLower(r.URL.Query().Get("format"))
	if out == "" {
		out = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Format:   format,
		Formats:  []string{out},
		Metadata: r.URL.Query().Get("metadata") == "true",
		TTL:      s.opts.CacheTTL,
		Logger:   s.logger,
	}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidArgument, err, "scale"))
			return
		}
		opts.PNGScale = scale
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.RenderTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, src, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[out])
	w.Header().Set("ETag", strconv.Quote(res.DocHash))
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[out])
}

func (s *Server) createDiagram(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := inputFormat(r)
	if _, err := diagram.Parse(body, format); err != nil {
		s.writeError(w, r, err)
		return
	}

	d := store.NewDiagram(r.URL.Query().Get("name"), body, format)
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/diagrams/"+d.ID)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) listDiagrams(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	ds, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ds == nil {
		ds = []*store.Diagram{}
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) deleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readBody reads at most MaxBodyBytes of the request body.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "empty request body")
	}
	return body, nil
}

// inputFormat picks the document encoding from ?input= or the
// Content-Type header.
func inputFormat(r *http.Request) diagram.Format {
	switch strings.ToLower(r.URL.Query().Get("input")) {
	case "json":
		return diagram.FormatJSON
	case "toml":
		return diagram.FormatTOML
	}
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "application/json" {
		return diagram.FormatJSON
	}
	return diagram.FormatTOML
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}
