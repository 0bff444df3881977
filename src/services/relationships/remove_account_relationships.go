package relationships

import (
	"context"
	"fmt"
)

// RemoveAccountRelationships é o cascade da deleção de conta: remove toda
// aresta onde a conta aparece como parent ou child e devolve a contagem.
// Idempotente: zero arestas removidas não é erro. É o que torna segura a
// deleção da conta pelo caller sem deixar arestas penduradas.
func (s *RelationshipService) RemoveAccountRelationships(ctx context.Context, accountID int64) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	removed, err := s.relationshipStore.RemoveAllEdgesTouching(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("RelationshipService.RemoveAccountRelationships - cascade failed: %w", err)
	}

	// As pontas opostas das arestas removidas não foram enumeradas antes da
	// mutação; o fallback conservador invalida todas as entradas.
	if err := s.cachedRepository.InvalidateAll(ctx); err != nil {
		return removed, fmt.Errorf("RelationshipService.RemoveAccountRelationships - cache invalidation failed: %w", err)
	}

	return removed, nil
}
