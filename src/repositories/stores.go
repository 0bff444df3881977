package repositories

import (
	"context"

	"accountgraph/src/domain/entities"
)

// AccountStore é o colaborador externo que resolve contas. O engine só
// depende dele para checagem de existência e projeção de contas.
type AccountStore interface {
	Exists(ctx context.Context, accountID int64) (bool, error)
	GetByID(ctx context.Context, accountID int64) (*entities.Account, error)
	GetByIDs(ctx context.Context, accountIDs []int64) ([]entities.Account, error)
}

// RelationshipStore é o dono exclusivo da coleção de arestas. Nenhum outro
// componente muta a coleção diretamente.
type RelationshipStore interface {
	// AddEdge persiste uma aresta nova com id e timestamps próprios.
	// Falha com domain.ErrDuplicateRelationship se o par (parent, child)
	// já existe. A validação de ciclo NÃO acontece aqui; é responsabilidade
	// do serviço antes do commit.
	AddEdge(ctx context.Context, parentID, childID int64, relType entities.RelationshipType, actorID string) (*entities.Relationship, error)

	GetEdge(ctx context.Context, relationshipID int64) (*entities.Relationship, error)

	// RemoveEdge falha com domain.ErrRelationshipNotFound se o id é desconhecido.
	RemoveEdge(ctx context.Context, relationshipID int64) error

	// EdgesWhereParent/EdgesWhereChild devolvem cópias pontuais das arestas;
	// resultado vazio não é erro.
	EdgesWhereParent(ctx context.Context, accountID int64) ([]entities.Relationship, error)
	EdgesWhereChild(ctx context.Context, accountID int64) ([]entities.Relationship, error)

	// RemoveAllEdgesTouching remove toda aresta onde a conta aparece como
	// parent ou child e devolve a contagem. Idempotente: zero removidas
	// não é erro.
	RemoveAllEdgesTouching(ctx context.Context, accountID int64) (int, error)
}

// Cache é o contrato mínimo que a camada de cache do engine consome.
// A implementação redis fica em infra; os testes usam um stub em memória.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithRegistry(ctx context.Context, key string, value string, registryKeys []string) error
	InvalidateKeys(ctx context.Context, keys []string) error
	InvalidateByRegistry(ctx context.Context, registryKeys []string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
