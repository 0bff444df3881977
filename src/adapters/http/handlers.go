package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"accountgraph/src/domain"
)

func parseAccountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	accountIDStr := r.PathValue("id")
	if accountIDStr == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return 0, false
	}

	accountID, err := strconv.ParseInt(accountIDStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid Account ID format", http.StatusBadRequest)
		return 0, false
	}

	return accountID, true
}

// writeDomainError traduz a taxonomia de erros do engine para HTTP.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrRelationshipNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, domain.ErrCircularReference):
		var circular *domain.CircularReferenceError
		if errors.As(err, &circular) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":             circular.Error(),
				"parent_account_id": circular.ParentAccountID,
				"child_account_id":  circular.ChildAccountID,
				"path":              circular.Path,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)

	case errors.Is(err, domain.ErrDuplicateRelationship):
		http.Error(w, err.Error(), http.StatusConflict)

	case errors.Is(err, domain.ErrInvalidOperation):
		http.Error(w, err.Error(), http.StatusBadRequest)

	default:
		log.Printf("ERROR: unexpected failure: %v", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: Failed to write JSON response: %v", err)
	}
}
