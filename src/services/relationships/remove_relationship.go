package relationships

import (
	"context"
	"errors"
	"fmt"

	"accountgraph/src/domain"
)

// RemoveRelationship deleta a aresta em nome da conta dona e devolve o
// snapshot atualizado. A aresta precisa tocar a conta dona; remover a aresta
// de outra conta é uso estrutural indevido.
func (s *RelationshipService) RemoveRelationship(ctx context.Context, ownerAccountID int64, relationshipID int64, actorID string) (*domain.RelationshipSnapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	edge, err := s.relationshipStore.GetEdge(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, domain.ErrRelationshipNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("RelationshipService.RemoveRelationship - failed to load edge: %w", err)
	}

	if !edge.Touches(ownerAccountID) {
		return nil, fmt.Errorf("RelationshipService.RemoveRelationship - relationship %d does not involve account %d: %w", relationshipID, ownerAccountID, domain.ErrInvalidOperation)
	}

	if err := s.relationshipStore.RemoveEdge(ctx, relationshipID); err != nil {
		return nil, fmt.Errorf("RelationshipService.RemoveRelationship - failed to remove edge: %w", err)
	}

	// A aresta foi lida antes da deleção, então as duas pontas são
	// conhecidas e a invalidação pode ser direcionada.
	s.invalidateAccounts(ctx, []int64{edge.ParentAccountID, edge.ChildAccountID})

	return s.cachedRepository.QuerySnapshot(ctx, ownerAccountID)
}
