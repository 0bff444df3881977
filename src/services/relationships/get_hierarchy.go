package relationships

import (
	"context"
	"fmt"
	"log"
	"time"

	"accountgraph/src/domain"
)

// GetHierarchy renderiza a árvore de relacionamentos da conta até a
// profundidade pedida. Depth é validado aqui para o intervalo [1, 5];
// fora dele é uso indevido, não erro de grafo.
func (s *RelationshipService) GetHierarchy(ctx context.Context, accountID int64, depth int) (*domain.HierarchyNode, error) {
	if depth < MinHierarchyDepth || depth > MaxHierarchyDepth {
		return nil, fmt.Errorf("RelationshipService.GetHierarchy - depth %d outside [%d, %d]: %w", depth, MinHierarchyDepth, MaxHierarchyDepth, domain.ErrInvalidOperation)
	}

	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	if cached, found := s.cachedRepository.GetHierarchy(ctx, accountID, depth); found {
		log.Printf("Cache HIT for hierarchy of account %d (depth %d)", accountID, depth)
		return cached, nil
	}

	// Época capturada antes da montagem: se uma mutação invalidar no meio,
	// o preenchimento em background desiste em vez de gravar a árvore velha.
	epoch := s.cachedRepository.FillEpoch()

	builder := NewHierarchyBuilder(s.accountStore, s.relationshipStore)

	root, err := builder.Build(ctx, accountID, depth)
	if err != nil {
		return nil, fmt.Errorf("RelationshipService.GetHierarchy - failed to build hierarchy: %w", err)
	}

	go func() {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.cachedRepository.SetHierarchy(ctxWithTimeout, accountID, depth, root, MemberIDs(root), epoch)
	}()

	return root, nil
}
