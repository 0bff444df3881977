package relationships

import (
	"context"
	"fmt"

	"accountgraph/src/repositories"
)

// CycleGuard responde "inserir a aresta (parent -> child) fecharia um ciclo?"
// sem mutar nada. Algoritmo único e canônico: BFS a partir do parent
// prospectivo, subindo pelos ancestrais existentes, procurando o child
// prospectivo. Se o child já é ancestral do parent, a aresta nova fecha o
// loop. O(V+E) no pior caso; o visited set garante terminação mesmo que o
// store já contenha um ciclo por inconsistência externa.
type CycleGuard struct {
	relationshipStore repositories.RelationshipStore
}

func NewCycleGuard(relationshipStore repositories.RelationshipStore) *CycleGuard {
	return &CycleGuard{relationshipStore: relationshipStore}
}

// WouldCreateCycle devolve também o caminho indicativo de ancestrais que
// fecharia o ciclo, do child prospectivo até o parent prospectivo.
func (g *CycleGuard) WouldCreateCycle(ctx context.Context, parentID, childID int64) (bool, []int64, error) {
	// Self-loop: ciclo imediato.
	if parentID == childID {
		return true, []int64{parentID, parentID}, nil
	}

	frontier := []int64{parentID}
	visited := map[int64]bool{}

	// prev rastreia por onde cada ancestral foi alcançado, para reconstruir
	// o caminho indicativo quando o ciclo é encontrado.
	prev := map[int64]int64{}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		parentEdges, err := g.relationshipStore.EdgesWhereChild(ctx, current)
		if err != nil {
			return false, nil, fmt.Errorf("CycleGuard.WouldCreateCycle - failed to load parents of %d: %w", current, err)
		}

		for _, edge := range parentEdges {
			ancestor := edge.ParentAccountID

			if ancestor == childID {
				// O child prospectivo já é ancestral do parent prospectivo.
				return true, g.buildPath(prev, parentID, current, childID), nil
			}

			if !visited[ancestor] {
				if _, seen := prev[ancestor]; !seen {
					prev[ancestor] = current
				}
				frontier = append(frontier, ancestor)
			}
		}
	}

	return false, nil, nil
}

// buildPath remonta o caminho descendente childID -> ... -> parentID que,
// somado à aresta nova (parentID -> childID), fecharia o ciclo.
func (g *CycleGuard) buildPath(prev map[int64]int64, parentID, reachedFrom, childID int64) []int64 {
	reversed := []int64{childID}

	for current := reachedFrom; ; {
		reversed = append(reversed, current)
		if current == parentID {
			break
		}

		next, ok := prev[current]
		if !ok {
			break
		}
		current = next
	}

	return reversed
}
