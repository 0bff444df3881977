package relationships

import (
	"context"
	"fmt"
	"sort"
	"time"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
	"accountgraph/src/repositories"
)

// GetAncestors devolve os parents diretos da conta, resolvidos contra o
// account store e paginados. Não é fecho transitivo: travessia profunda é
// papel do hierarchy builder. A listagem resolvida é cacheada pelo shape da
// consulta e registrada sob a conta, então as invalidações existentes cobrem.
func (s *RelationshipService) GetAncestors(ctx context.Context, accountID int64, page, perPage int) (*domain.AccountPage, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	page, perPage = normalizePagination(page, perPage)

	if cached, found := s.cachedRepository.GetAccountPage(ctx, repositories.ListKindAncestors, accountID, page, perPage); found {
		return cached, nil
	}

	epoch := s.cachedRepository.FillEpoch()

	edges, err := s.relationshipStore.EdgesWhereChild(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("RelationshipService.GetAncestors - failed to load parent edges: %w", err)
	}

	ids := make([]int64, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.ParentAccountID)
	}

	result, err := s.resolvePage(ctx, ids, page, perPage)
	if err != nil {
		return nil, err
	}

	s.setAccountPageInBackground(repositories.ListKindAncestors, accountID, page, perPage, result, epoch)

	return result, nil
}

// normalizePagination aplica os defaults ANTES da chave de cache ser montada,
// para que "page=0" e "page=1" compartilhem a mesma entrada.
func normalizePagination(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return page, perPage
}

func (s *RelationshipService) setAccountPageInBackground(listKind string, accountID int64, page, perPage int, result *domain.AccountPage, epoch int64) {
	go func() {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.cachedRepository.SetAccountPage(ctxWithTimeout, listKind, accountID, page, perPage, result, epoch)
	}()
}

// resolvePage ordena os ids para paginação determinística, recorta a página
// e resolve as contas restantes.
func (s *RelationshipService) resolvePage(ctx context.Context, ids []int64, page, perPage int) (*domain.AccountPage, error) {
	page, perPage = normalizePagination(page, perPage)

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := len(ids)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	pageIDs := ids[start:end]

	accounts := []entities.Account{}
	if len(pageIDs) > 0 {
		resolved, err := s.accountStore.GetByIDs(ctx, pageIDs)
		if err != nil {
			return nil, fmt.Errorf("RelationshipService.resolvePage - failed to resolve accounts: %w", err)
		}
		accounts = resolved
	}

	return &domain.AccountPage{
		Accounts: accounts,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}
