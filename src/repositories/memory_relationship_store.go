package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
)

// MemoryRelationshipStore guarda as arestas como uma lista plana indexada,
// e não como um grafo de ponteiros: o mapa canônico edges mais dois índices
// derivados (byParent, byChild) mantidos em conjunto. Evita estrutura de
// referências cíclicas em memória e mantém lookups O(1).
type MemoryRelationshipStore struct {
	mu sync.RWMutex

	edges    map[int64]entities.Relationship
	byParent map[int64]map[int64]int64 // parentID -> childID -> edgeID
	byChild  map[int64]map[int64]int64 // childID -> parentID -> edgeID

	nextID int64
}

func NewMemoryRelationshipStore() *MemoryRelationshipStore {
	return &MemoryRelationshipStore{
		edges:    make(map[int64]entities.Relationship),
		byParent: make(map[int64]map[int64]int64),
		byChild:  make(map[int64]map[int64]int64),
		nextID:   1,
	}
}

func (s *MemoryRelationshipStore) AddEdge(ctx context.Context, parentID, childID int64, relType entities.RelationshipType, actorID string) (*entities.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byParent[parentID][childID]; exists {
		return nil, fmt.Errorf("MemoryRelationshipStore.AddEdge - pair (%d, %d): %w", parentID, childID, domain.ErrDuplicateRelationship)
	}

	now := time.Now().UTC()
	edge := entities.Relationship{
		ID:              s.nextID,
		ParentAccountID: parentID,
		ChildAccountID:  childID,
		Type:            relType,
		CreatedBy:       actorID,
		CreatedAt:       now,
		UpdatedBy:       actorID,
		UpdatedAt:       now,
	}
	s.nextID++

	s.edges[edge.ID] = edge
	s.indexEdge(edge)

	return &edge, nil
}

func (s *MemoryRelationshipStore) GetEdge(ctx context.Context, relationshipID int64) (*entities.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, ok := s.edges[relationshipID]
	if !ok {
		return nil, fmt.Errorf("MemoryRelationshipStore.GetEdge - id %d: %w", relationshipID, domain.ErrRelationshipNotFound)
	}

	return &edge, nil
}

func (s *MemoryRelationshipStore) RemoveEdge(ctx context.Context, relationshipID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	edge, ok := s.edges[relationshipID]
	if !ok {
		return fmt.Errorf("MemoryRelationshipStore.RemoveEdge - id %d: %w", relationshipID, domain.ErrRelationshipNotFound)
	}

	delete(s.edges, relationshipID)
	s.unindexEdge(edge)

	return nil
}

// EdgesWhereParent devolve uma cópia das arestas onde a conta é parent.
// Leituras operam sobre o retrato do momento, nunca sobre a visão viva.
func (s *MemoryRelationshipStore) EdgesWhereParent(ctx context.Context, accountID int64) ([]entities.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Relationship, 0, len(s.byParent[accountID]))
	for _, edgeID := range s.byParent[accountID] {
		result = append(result, s.edges[edgeID])
	}

	return result, nil
}

func (s *MemoryRelationshipStore) EdgesWhereChild(ctx context.Context, accountID int64) ([]entities.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Relationship, 0, len(s.byChild[accountID]))
	for _, edgeID := range s.byChild[accountID] {
		result = append(result, s.edges[edgeID])
	}

	return result, nil
}

func (s *MemoryRelationshipStore) RemoveAllEdgesTouching(ctx context.Context, accountID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make([]entities.Relationship, 0)
	for _, edgeID := range s.byParent[accountID] {
		touched = append(touched, s.edges[edgeID])
	}
	for _, edgeID := range s.byChild[accountID] {
		touched = append(touched, s.edges[edgeID])
	}

	for _, edge := range touched {
		delete(s.edges, edge.ID)
		s.unindexEdge(edge)
	}

	return len(touched), nil
}

func (s *MemoryRelationshipStore) indexEdge(edge entities.Relationship) {
	if s.byParent[edge.ParentAccountID] == nil {
		s.byParent[edge.ParentAccountID] = make(map[int64]int64)
	}
	s.byParent[edge.ParentAccountID][edge.ChildAccountID] = edge.ID

	if s.byChild[edge.ChildAccountID] == nil {
		s.byChild[edge.ChildAccountID] = make(map[int64]int64)
	}
	s.byChild[edge.ChildAccountID][edge.ParentAccountID] = edge.ID
}

func (s *MemoryRelationshipStore) unindexEdge(edge entities.Relationship) {
	delete(s.byParent[edge.ParentAccountID], edge.ChildAccountID)
	if len(s.byParent[edge.ParentAccountID]) == 0 {
		delete(s.byParent, edge.ParentAccountID)
	}

	delete(s.byChild[edge.ChildAccountID], edge.ParentAccountID)
	if len(s.byChild[edge.ChildAccountID]) == 0 {
		delete(s.byChild, edge.ChildAccountID)
	}
}
