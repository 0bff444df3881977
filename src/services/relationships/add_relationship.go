package relationships

import (
	"context"
	"fmt"
	"log"

	"accountgraph/src/domain"
)

// AddRelationship cria a aresta descrita pelo request e devolve o snapshot
// atualizado da conta dona. O cycle check e o commit acontecem sob o mesmo
// lock de escrita; em rejeição, o store não é tocado.
func (s *RelationshipService) AddRelationship(ctx context.Context, request domain.AddRelationshipRequest) (*domain.RelationshipSnapshot, error) {
	if !request.Type.IsValid() {
		return nil, fmt.Errorf("RelationshipService.AddRelationship - unknown relationship type %q: %w", request.Type, domain.ErrInvalidOperation)
	}

	parentID, childID := request.Resolve()

	if err := s.requireAccount(ctx, parentID); err != nil {
		return nil, err
	}
	if err := s.requireAccount(ctx, childID); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	wouldCycle, path, err := s.cycleGuard.WouldCreateCycle(ctx, parentID, childID)
	if err != nil {
		return nil, fmt.Errorf("RelationshipService.AddRelationship - cycle check failed: %w", err)
	}

	if wouldCycle {
		return nil, &domain.CircularReferenceError{
			ParentAccountID: parentID,
			ChildAccountID:  childID,
			Path:            path,
		}
	}

	edge, err := s.relationshipStore.AddEdge(ctx, parentID, childID, request.Type, request.ActorID)
	if err != nil {
		return nil, fmt.Errorf("RelationshipService.AddRelationship - failed to add edge: %w", err)
	}

	// As duas pontas da aresta são conhecidas: invalida as duas, de forma
	// síncrona, para que a próxima leitura já reflita a mutação.
	s.invalidateAccounts(ctx, []int64{edge.ParentAccountID, edge.ChildAccountID})

	return s.cachedRepository.QuerySnapshot(ctx, request.OwnerAccountID)
}

func (s *RelationshipService) requireAccount(ctx context.Context, accountID int64) error {
	exists, err := s.accountStore.Exists(ctx, accountID)
	if err != nil {
		return fmt.Errorf("RelationshipService.requireAccount - existence check for %d failed: %w", accountID, err)
	}

	if !exists {
		return fmt.Errorf("RelationshipService.requireAccount - account %d: %w", accountID, domain.ErrAccountNotFound)
	}

	return nil
}

func (s *RelationshipService) invalidateAccounts(ctx context.Context, accountIDs []int64) {
	if err := s.cachedRepository.InvalidateAccounts(ctx, accountIDs); err != nil {
		log.Printf("RelationshipService - targeted invalidation failed, falling back to full invalidation: %v", err)

		if err := s.cachedRepository.InvalidateAll(ctx); err != nil {
			log.Printf("RelationshipService - full cache invalidation failed: %v", err)
		}
	}
}
