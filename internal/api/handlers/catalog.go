package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxImportBytes = 16 << 20

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type ChampionSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Abilities []string `json:"abilities"`
}

type ChampionsResponse struct {
	Champions []ChampionSummary `json:"champions"`
}

type SourceResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Stats    map[string]float64 `json:"stats"`
	Passives []string           `json:"passives"`
}

type ItemsResponse struct {
	Items []SourceResponse `json:"items"`
}

type RunesResponse struct {
	Runes []SourceResponse `json:"runes"`
}

func (h *CatalogHandler) ListChampions(w http.ResponseWriter, r *http.Request) {
	champions, err := h.catalogService.ListChampions(r.Context())
	if err != nil {
		writeServiceError(w, "catalog.ListChampions", "", err)
		return
	}

	resp := ChampionsResponse{Champions: make([]ChampionSummary, len(champions))}
	for i, c := range champions {
		resp.Champions[i] = ChampionSummary{
			ID:        c.ID,
			Name:      c.Name,
			Role:      c.Role,
			Abilities: c.AbilityKeys(),
		}
	}

	writeJSON(w, resp)
}

func (h *CatalogHandler) GetChampion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	champion, err := h.catalogService.GetChampion(r.Context(), id)
	if err != nil {
		writeServiceError(w, "catalog.GetChampion", id, err)
		return
	}

	writeJSON(w, champion)
}

func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, "catalog.ListItems", "", err)
		return
	}

	resp := ItemsResponse{Items: make([]SourceResponse, len(items))}
	for i, item := range items {
		resp.Items[i] = sourceResponse(item.Source(), item.Name)
	}

	writeJSON(w, resp)
}

func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.catalogService.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, "catalog.GetItem", id, err)
		return
	}

	writeJSON(w, sourceResponse(item.Source(), item.Name))
}

func (h *CatalogHandler) ListRunes(w http.ResponseWriter, r *http.Request) {
	runes, err := h.catalogService.ListRunes(r.Context())
	if err != nil {
		writeServiceError(w, "catalog.ListRunes", "", err)
		return
	}

	resp := RunesResponse{Runes: make([]SourceResponse, len(runes))}
	for i, rn := range runes {
		resp.Runes[i] = sourceResponse(rn.Source(), rn.Name)
	}

	writeJSON(w, resp)
}

func (h *CatalogHandler) GetRune(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rn, err := h.catalogService.GetRune(r.Context(), id)
	if err != nil {
		writeServiceError(w, "catalog.GetRune", id, err)
		return
	}

	writeJSON(w, sourceResponse(rn.Source(), rn.Name))
}

// Import replaces or adds catalog records from a dataset document of the form
// {"champions": {...}, "items": {...}, "runes": {...}}.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var ds dataset.Dataset
	if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.catalogService.Import(r.Context(), &ds)
	if err != nil {
		writeServiceError(w, "catalog.Import", "", err)
		return
	}

	writeJSON(w, result)
}

// Sync imports the dataset published at the configured sync URL.
func (h *CatalogHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogService.Sync(r.Context())
	if err != nil {
		writeServiceError(w, "catalog.Sync", "", err)
		return
	}

	writeJSON(w, result)
}

func sourceResponse(src domain.StatSource, name string) SourceResponse {
	passives := make([]string, len(src.Passives))
	for i, p := range src.Passives {
		passives[i] = passiveLabel(p)
	}

	stats := src.Stats
	if stats == nil {
		stats = map[string]float64{}
	}

	return SourceResponse{
		ID:       src.ID,
		Name:     name,
		Stats:    stats,
		Passives: passives,
	}
}

func passiveLabel(p domain.Passive) string {
	switch v := p.(type) {
	case domain.OnHit:
		return v.Tag
	case domain.UnknownPassive:
		return v.Type
	default:
		return string(p.Kind())
	}
}
