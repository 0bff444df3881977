package http

import (
	"net/http"
	"strconv"
)

func (s *Server) RemoveRelationship(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	relationshipIDStr := r.PathValue("relationshipId")
	relationshipID, err := strconv.ParseInt(relationshipIDStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid Relationship ID format", http.StatusBadRequest)
		return
	}

	actorID := r.URL.Query().Get("actor_id")

	snapshot, err := s.relationshipService.RemoveRelationship(r.Context(), accountID, relationshipID, actorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MapSnapshotToDTO(snapshot))
}

// RemoveAccountRelationships é o cascade exposto para o fluxo de deleção de
// conta: remove toda aresta tocando a conta.
func (s *Server) RemoveAccountRelationships(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	removed, err := s.relationshipService.RemoveAccountRelationships(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
