package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dom/league-damage-calc/internal/export"
	"github.com/dom/league-damage-calc/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DamageHandler struct {
	damageService *service.DamageService
}

func NewDamageHandler(damageService *service.DamageService) *DamageHandler {
	return &DamageHandler{damageService: damageService}
}

func (h *DamageHandler) Burst(w http.ResponseWriter, r *http.Request) {
	var req service.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Champion) == "" {
		http.Error(w, "Champion is required", http.StatusBadRequest)
		return
	}

	result, err := h.damageService.Burst(r.Context(), req)
	if err != nil {
		writeServiceError(w, "damage.Burst", req.Champion, err)
		return
	}

	writeJSON(w, result)
}

func (h *DamageHandler) DPS(w http.ResponseWriter, r *http.Request) {
	var req service.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Champion) == "" {
		http.Error(w, "Champion is required", http.StatusBadRequest)
		return
	}

	result, err := h.damageService.SustainedDPS(r.Context(), req)
	if err != nil {
		writeServiceError(w, "damage.DPS", req.Champion, err)
		return
	}

	writeJSON(w, result)
}

func (h *DamageHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, ok := h.search(w, r, "damage.Search")
	if !ok {
		return
	}

	writeJSON(w, result)
}

// SearchXLSX runs a search and returns the ranking as a spreadsheet.
func (h *DamageHandler) SearchXLSX(w http.ResponseWriter, r *http.Request) {
	result, ok := h.search(w, r, "damage.SearchXLSX")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Champion+`-builds.xlsx"`)
	if err := export.WriteBuildsXLSX(w, []*service.SearchResult{result}); err != nil {
		writeServiceError(w, "damage.SearchXLSX", result.Champion, err)
	}
}

func (h *DamageHandler) search(w http.ResponseWriter, r *http.Request, op string) (*service.SearchResult, bool) {
	var req service.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if strings.TrimSpace(req.Champion) == "" {
		http.Error(w, "Champion is required", http.StatusBadRequest)
		return nil, false
	}
	if req.BuildSize < 0 || req.TopN < 0 {
		http.Error(w, "buildSize and top must not be negative", http.StatusBadRequest)
		return nil, false
	}

	result, err := h.damageService.Search(r.Context(), req, nil)
	if err != nil {
		writeServiceError(w, op, req.Champion, err)
		return nil, false
	}
	return result, true
}
