package http

import (
	"encoding/json"
	"net/http"

	"accountgraph/src/domain"
)

func (s *Server) AddRelationship(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	var body AddRelationshipRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	request := domain.AddRelationshipRequest{
		OwnerAccountID:   accountID,
		TargetAccountID:  body.TargetAccountID,
		Type:             body.RelationshipType,
		IsParentOfTarget: body.IsParentOfTarget,
		ActorID:          body.ActorID,
	}

	snapshot, err := s.relationshipService.AddRelationship(r.Context(), request)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MapSnapshotToDTO(snapshot))
}
