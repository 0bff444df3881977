package relationships

import (
	"context"
	"fmt"

	"accountgraph/src/domain"
)

// CheckCircular é o probe somente-leitura que o caller usa antes de tentar um
// add. Usa exatamente o mesmo CycleGuard do caminho de mutação, então os dois
// sempre concordam.
func (s *RelationshipService) CheckCircular(ctx context.Context, parentAccountID, childAccountID int64) (*domain.CircularCheckResult, error) {
	wouldCycle, path, err := s.cycleGuard.WouldCreateCycle(ctx, parentAccountID, childAccountID)
	if err != nil {
		return nil, fmt.Errorf("RelationshipService.CheckCircular - cycle check failed: %w", err)
	}

	return &domain.CircularCheckResult{
		WouldCreateCircular: wouldCycle,
		Path:                path,
	}, nil
}
