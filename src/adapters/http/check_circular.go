package http

import (
	"net/http"
	"strconv"
)

func (s *Server) CheckCircular(w http.ResponseWriter, r *http.Request) {
	parentID, err := strconv.ParseInt(r.URL.Query().Get("parent_id"), 10, 64)
	if err != nil {
		http.Error(w, "Query parameter 'parent_id' is required", http.StatusBadRequest)
		return
	}

	childID, err := strconv.ParseInt(r.URL.Query().Get("child_id"), 10, 64)
	if err != nil {
		http.Error(w, "Query parameter 'child_id' is required", http.StatusBadRequest)
		return
	}

	result, err := s.relationshipService.CheckCircular(r.Context(), parentID, childID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CircularCheckResultDTO{
		WouldCreateCircular: result.WouldCreateCircular,
		Path:                result.Path,
	})
}
