package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/service"
)

// writeServiceError logs err under op and maps it to an HTTP status.
func writeServiceError(w http.ResponseWriter, op, key string, err error) {
	log.Printf("ERROR [%s] key=%s: %v", op, key, err)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrUnsupportedMetric),
		errors.Is(err, domain.ErrUnknownAbility),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrSearchTooLarge),
		errors.Is(err, domain.ErrInvalidDataset):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrReadOnlyCatalog):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrMissingRepository),
		errors.Is(err, service.ErrSyncDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
