package http

import (
	"net/http"
	"strconv"
)

func (s *Server) GetRelationships(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	snapshot, err := s.relationshipService.GetRelationships(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MapSnapshotToDTO(snapshot))
}

func (s *Server) GetAncestors(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	page, perPage := parsePagination(r)

	result, err := s.relationshipService.GetAncestors(r.Context(), accountID, page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MapAccountPageToDTO(result))
}

func (s *Server) GetDescendants(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}

	page, perPage := parsePagination(r)

	result, err := s.relationshipService.GetDescendants(r.Context(), accountID, page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MapAccountPageToDTO(result))
}

func parsePagination(r *http.Request) (int, int) {
	page := 1
	perPage := 20

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if val, err := strconv.Atoi(pageStr); err == nil && val > 0 {
			page = val
		}
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if val, err := strconv.Atoi(perPageStr); err == nil && val > 0 {
			perPage = val
		}
	}

	return page, perPage
}
