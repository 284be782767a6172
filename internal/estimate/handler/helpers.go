package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"estimate-service/internal/estimate/model"
)

// mappingFromForm reads optional column overrides; blanks fall back to the
// service defaults.
func mappingFromForm(r *http.Request) model.Mapping {
	return model.Mapping{
		DimKey:      strings.TrimSpace(r.FormValue("dim_col")),
		MaterialKey: strings.TrimSpace(r.FormValue("material_col")),
		VolumeKey:   strings.TrimSpace(r.FormValue("volume_col")),
		LotKey:      strings.TrimSpace(r.FormValue("lot_col")),
		ItemKey:     strings.TrimSpace(r.FormValue("item_col")),
		RunsKey:     strings.TrimSpace(r.FormValue("runs_col_name")),
		RunsCol:     atoi(r.FormValue("runs_col"), 0),
		HeaderRow:   atoi(r.FormValue("header_row"), 1),
		ForceSides:  strings.TrimSpace(r.FormValue("sides")),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
