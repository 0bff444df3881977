package http

import (
	"net/http"
	"strconv"
)

// Profundidade padrão quando o caller não informa ?depth=.
const defaultHierarchyDepth = 3

func (s *Server) GetHierarchy(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	depth := defaultHierarchyDepth
	if depthStr := r.URL.Query().Get("depth"); depthStr != "" {
		val, err := strconv.Atoi(depthStr)
		if err != nil {
			http.Error(w, "Invalid depth format", http.StatusBadRequest)
			return
		}
		depth = val
	}

	root, err := s.relationshipService.GetHierarchy(r.Context(), accountID, depth)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MapHierarchyToDTO(root))
}
