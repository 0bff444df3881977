package relationships

import (
	"context"
	"fmt"

	"accountgraph/src/domain"
)

// GetRelationships devolve o snapshot de arestas diretas da conta: arestas
// onde ela é child (parents) e arestas onde ela é parent (children).
func (s *RelationshipService) GetRelationships(ctx context.Context, accountID int64) (*domain.RelationshipSnapshot, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	snapshot, err := s.cachedRepository.QuerySnapshot(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("RelationshipService.GetRelationships - failed to query snapshot: %w", err)
	}

	return snapshot, nil
}
