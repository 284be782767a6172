package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"estimate-service/internal/config"
	"estimate-service/internal/estimate/export"
	"estimate-service/internal/estimate/material"
	"estimate-service/internal/estimate/model"
	"estimate-service/internal/estimate/service"
	"estimate-service/internal/fileio"
	"estimate-service/internal/pricedb"
	"estimate-service/internal/session"
)

type Handler struct {
	cfg      config.Config
	log      zerolog.Logger
	sessions *session.Registry
	prices   *pricedb.Store
}

func New(cfg config.Config, log zerolog.Logger, sessions *session.Registry, prices *pricedb.Store) *Handler {
	return &Handler{cfg: cfg, log: log, sessions: sessions, prices: prices}
}

type estimateResponse struct {
	SessionID string `json:"sessionId"`
	Source    string `json:"source"`
	model.Result
}

// Create handles POST /estimate: multipart upload plus optional column/
// loading overrides. Seeds a new session with the persisted price tables.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer r.Body.Close()

	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	mapping := mappingFromForm(r)
	headers, records, err := fileio.ReadTable(file, header.Filename, mapping.HeaderRow)
	if err != nil {
		http.Error(w, "failed to read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}

	lines, err := service.BuildLines(headers, records, mapping)
	if err != nil {
		var mc *service.MissingColumnsError
		if errors.As(err, &mc) {
			http.Error(w, mc.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := h.sessions.Create(material.Classify)
	var res model.Result
	s.With(func(s *session.Session) {
		s.Source = header.Filename
		s.Headers = headers
		s.Lines = lines
		s.Tables = h.prices.Load()
		s.LoadingPct = toFloat(r.FormValue("loading"), h.cfg.SidedLoadingPct)
		res = service.Compute(s.Lines, s.Store, s.Tables, s.LoadingPct)
	})

	h.log.Info().
		Str("session", s.ID).
		Str("file", header.Filename).
		Int("lines", len(lines)).
		Dur("elapsed", time.Since(start)).
		Msg("estimate created")
	writeJSON(w, http.StatusCreated, estimateResponse{SessionID: s.ID, Source: s.Source, Result: res})
}

// Get handles GET /estimate/{id}: recompute and return the current state.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *session.Session) any {
		res := service.Compute(s.Lines, s.Store, s.Tables, s.LoadingPct)
		return estimateResponse{SessionID: s.ID, Source: s.Source, Result: res}
	})
}

// Upload handles POST /estimate/{id}/upload: replace the dataset, keep the
// grouping store so reconciliation preserves manual overrides.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	mapping := mappingFromForm(r)
	headers, records, err := fileio.ReadTable(file, header.Filename, mapping.HeaderRow)
	if err != nil {
		http.Error(w, "failed to read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}
	lines, err := service.BuildLines(headers, records, mapping)
	if err != nil {
		var mc *service.MissingColumnsError
		if errors.As(err, &mc) {
			http.Error(w, mc.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withSession(w, r, func(s *session.Session) any {
		s.Source = header.Filename
		s.Headers = headers
		s.Lines = lines
		res := service.Compute(s.Lines, s.Store, s.Tables, s.LoadingPct)
		return estimateResponse{SessionID: s.ID, Source: s.Source, Result: res}
	})
}

type reassignRequest struct {
	Material string `json:"material"`
	Group    string `json:"group"`
}

// Reassign handles POST /estimate/{id}/reassign.
func (h *Handler) Reassign(w http.ResponseWriter, r *http.Request) {
	var req reassignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *session.Session) any {
		if !s.Store.Reassign(req.Material, req.Group) {
			h.log.Warn().Str("material", req.Material).Msg("reassign ignored")
		}
		res := service.Compute(s.Lines, s.Store, s.Tables, s.LoadingPct)
		return estimateResponse{SessionID: s.ID, Source: s.Source, Result: res}
	})
}

type mergeRequest struct {
	Groups []string `json:"groups"`
	Target string   `json:"target"`
}

type mergeResponse struct {
	Merged int `json:"merged"`
	estimateResponse
}

// Merge handles POST /estimate/{id}/merge. An empty group set or blank
// target is a no-op, reported as merged: 0, never an error.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *session.Session) any {
		n := s.Store.Merge(req.Groups, req.Target)
		res := service.Compute(s.Lines, s.Store, s.Tables, s.LoadingPct)
		return mergeResponse{
			Merged:           n,
			estimateResponse: estimateResponse{SessionID: s.ID, Source: s.Source, Result: res},
		}
	})
}

type pricesRequest struct {
	Groups    map[string]float64 `json:"groups"`
	Materials map[string]float64 `json:"materials"`
	Loading   *float64           `json:"loading"`
}

// Prices handles PUT /estimate/{id}/prices: update the working tables,
// recompute, and persist the strictly-positive entries.
func (h *Handler) Prices(w http.ResponseWriter, r *http.Request) {
	var req pricesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *session.Session) any {
		for g, p := range req.Groups {
			s.Tables.Group[g] = p
		}
		for m, p := range req.Materials {
			s.Tables.Material[m] = p
		}
		if req.Loading != nil {
			s.LoadingPct = *req.Loading
		}
		res := service.Compute(s.Lines, s.Store, s.Tables, s.LoadingPct)
		h.prices.Save(s.Tables)
		return estimateResponse{SessionID: s.ID, Source: s.Source, Result: res}
	})
}

// Export handles GET /estimate/{id}/export: stream the annotated workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.sessions.Get(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	var exportErr error
	s.With(func(s *session.Session) {
		res := service.Compute(s.Lines, s.Store, s.Tables, s.LoadingPct)
		wb, err := export.Workbook(s.Headers, res)
		if err != nil {
			exportErr = err
			return
		}
		w.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(s.Source)+`"`)
		if err := wb.Write(w); err != nil {
			h.log.Error().Err(err).Msg("write workbook")
		}
	})
	if exportErr != nil {
		http.Error(w, "export failed: "+exportErr.Error(), http.StatusInternalServerError)
	}
}

// withSession locates the session, runs fn under its lock and writes the
// returned payload as JSON.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) any) {
	id := chi.URLParam(r, "id")
	s, ok := h.sessions.Get(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	var out any
	s.With(func(s *session.Session) { out = fn(s) })
	writeJSON(w, http.StatusOK, out)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
