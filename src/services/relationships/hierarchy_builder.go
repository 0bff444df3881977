package relationships

import (
	"context"
	"errors"
	"fmt"
	"log"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
	"accountgraph/src/repositories"
)

// HierarchyBuilder renderiza a visão em árvore de profundidade limitada de
// uma conta. Tolera ciclos defensivamente mesmo que o store nunca deva conter
// um: import externo ou bug pode violar a invariante, e uma visualização não
// pode entrar em loop por causa disso.
type HierarchyBuilder struct {
	accountStore      repositories.AccountStore
	relationshipStore repositories.RelationshipStore
}

func NewHierarchyBuilder(accountStore repositories.AccountStore, relationshipStore repositories.RelationshipStore) *HierarchyBuilder {
	return &HierarchyBuilder{
		accountStore:      accountStore,
		relationshipStore: relationshipStore,
	}
}

// Build expande a árvore a partir da conta raiz. O visited set é por caminho
// e copiado a cada ramo, nunca compartilhado entre irmãos: dois ramos podem
// legitimamente alcançar o mesmo descendente sem que isso seja ciclo.
func (b *HierarchyBuilder) Build(ctx context.Context, rootAccountID int64, depth int) (*domain.HierarchyNode, error) {
	rootAccount, err := b.accountStore.GetByID(ctx, rootAccountID)
	if err != nil {
		return nil, fmt.Errorf("HierarchyBuilder.Build - failed to resolve root account %d: %w", rootAccountID, err)
	}

	root := &domain.HierarchyNode{
		Account:   rootAccount,
		AccountID: rootAccountID,
	}

	visited := map[int64]bool{rootAccountID: true}

	if err := b.expand(ctx, root, depth, visited); err != nil {
		return nil, err
	}

	return root, nil
}

func (b *HierarchyBuilder) expand(ctx context.Context, node *domain.HierarchyNode, depth int, visited map[int64]bool) error {
	parentEdges, err := b.relationshipStore.EdgesWhereChild(ctx, node.AccountID)
	if err != nil {
		return fmt.Errorf("HierarchyBuilder.expand - failed to load parent edges of %d: %w", node.AccountID, err)
	}

	childEdges, err := b.relationshipStore.EdgesWhereParent(ctx, node.AccountID)
	if err != nil {
		return fmt.Errorf("HierarchyBuilder.expand - failed to load child edges of %d: %w", node.AccountID, err)
	}

	node.Parents = make([]*domain.HierarchyNode, 0, len(parentEdges))
	for _, edge := range parentEdges {
		related, err := b.buildRelated(ctx, edge.ParentAccountID, edge.Type, depth-1, visited)
		if err != nil {
			return err
		}

		node.Parents = append(node.Parents, related)
	}

	node.Children = make([]*domain.HierarchyNode, 0, len(childEdges))
	for _, edge := range childEdges {
		related, err := b.buildRelated(ctx, edge.ChildAccountID, edge.Type, depth-1, visited)
		if err != nil {
			return err
		}

		node.Children = append(node.Children, related)
	}

	return nil
}

func (b *HierarchyBuilder) buildRelated(ctx context.Context, accountID int64, relType entities.RelationshipType, remainingDepth int, visited map[int64]bool) (*domain.HierarchyNode, error) {
	node := &domain.HierarchyNode{
		AccountID:        accountID,
		RelationshipType: relType,
	}

	account, err := b.accountStore.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// A conta foi deletada depois da aresta ser criada e antes do
			// cascade rodar. Nó placeholder em vez de falhar a travessia.
			log.Printf("HierarchyBuilder - account %d referenced by edge could not be resolved", accountID)
			node.Error = "related account could not be resolved"
			return node, nil
		}
		return nil, fmt.Errorf("HierarchyBuilder.buildRelated - failed to resolve account %d: %w", accountID, err)
	}

	node.Account = account

	// Revisita de um ancestral do caminho atual: marca e não expande.
	if visited[accountID] {
		node.IsCycle = true
		return node, nil
	}

	// Esgotou o budget de profundidade: folha sem marca de ciclo.
	if remainingDepth <= 0 {
		return node, nil
	}

	// Cópia por ramo do visited set.
	branchVisited := make(map[int64]bool, len(visited)+1)
	for id := range visited {
		branchVisited[id] = true
	}
	branchVisited[accountID] = true

	if err := b.expand(ctx, node, remainingDepth, branchVisited); err != nil {
		return nil, err
	}

	return node, nil
}

// MemberIDs coleta os ids de conta presentes na árvore renderizada, para o
// registro das entradas de cache.
func MemberIDs(root *domain.HierarchyNode) []int64 {
	seen := map[int64]bool{}
	var walk func(node *domain.HierarchyNode)

	walk = func(node *domain.HierarchyNode) {
		if node == nil {
			return
		}

		seen[node.AccountID] = true

		for _, parent := range node.Parents {
			walk(parent)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}

	walk(root)

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	return ids
}
