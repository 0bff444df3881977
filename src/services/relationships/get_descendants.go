package relationships

import (
	"context"
	"fmt"

	"accountgraph/src/domain"
	"accountgraph/src/repositories"
)

// GetDescendants devolve os children diretos da conta, resolvidos contra o
// account store e paginados, com o mesmo cache por shape de consulta de
// GetAncestors.
func (s *RelationshipService) GetDescendants(ctx context.Context, accountID int64, page, perPage int) (*domain.AccountPage, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	page, perPage = normalizePagination(page, perPage)

	if cached, found := s.cachedRepository.GetAccountPage(ctx, repositories.ListKindDescendants, accountID, page, perPage); found {
		return cached, nil
	}

	epoch := s.cachedRepository.FillEpoch()

	edges, err := s.relationshipStore.EdgesWhereParent(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("RelationshipService.GetDescendants - failed to load child edges: %w", err)
	}

	ids := make([]int64, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.ChildAccountID)
	}

	result, err := s.resolvePage(ctx, ids, page, perPage)
	if err != nil {
		return nil, err
	}

	s.setAccountPageInBackground(repositories.ListKindDescendants, accountID, page, perPage, result, epoch)

	return result, nil
}
