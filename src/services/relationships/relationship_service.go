package relationships

import (
	"sync"

	"accountgraph/src/repositories"
)

const (
	// Limites de profundidade da hierarquia. Proteção de recurso, não de
	// correção: limita o fan-out do pior caso.
	MinHierarchyDepth = 1
	MaxHierarchyDepth = 5
)

// RelationshipService é o único ponto de entrada para mutar ou consultar o
// grafo de relacionamentos. Toda mutação executa a sequência
// check-then-commit como seção crítica única sob writeMu: duas inserções
// concorrentes, individualmente acíclicas mas que juntas formariam um ciclo,
// são serializadas aqui e a segunda é rejeitada.
type RelationshipService struct {
	accountStore      repositories.AccountStore
	relationshipStore repositories.RelationshipStore
	cachedRepository  *repositories.CachedRelationshipRepository
	cycleGuard        *CycleGuard

	writeMu sync.Mutex
}

func NewRelationshipService(
	accountStore repositories.AccountStore,
	relationshipStore repositories.RelationshipStore,
	cachedRepository *repositories.CachedRelationshipRepository,
) *RelationshipService {
	return &RelationshipService{
		accountStore:      accountStore,
		relationshipStore: relationshipStore,
		cachedRepository:  cachedRepository,
		cycleGuard:        NewCycleGuard(relationshipStore),
	}
}
