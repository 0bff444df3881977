package repositories

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"accountgraph/src/domain"
)

const (
	cacheKeyPrefix      = "relationships:"
	snapshotKeyPattern  = "relationships:account:%d"
	hierarchyKeyPattern = "relationships:hierarchy:%x"
	listKeyPattern      = "relationships:list:%x"
	registryKeyPattern  = "registry:account:%d"
)

// Discriminadores de chave para as listagens paginadas.
const (
	ListKindAncestors   = "ancestors"
	ListKindDescendants = "descendants"
)

// CachedRelationshipRepository é o read-through cache na frente das leituras
// do grafo. Política conservadora: na dúvida sobre quais pontas uma mutação
// afeta, invalida tudo com o prefixo, correção domina hit-rate.
//
// Preenchimentos acontecem em background e por isso podem chegar DEPOIS de
// uma invalidação disparada por uma mutação posterior à leitura que os
// agendou. fillEpoch conta invalidações: um preenchimento captura o valor
// antes de ler o store e só grava se nenhuma invalidação aconteceu no meio
// tempo. O mutex serializa a gravação do preenchimento contra a invalidação,
// então um snapshot pré-mutação nunca ressuscita por cima da invalidação.
type CachedRelationshipRepository struct {
	relationshipStore RelationshipStore
	cache             Cache

	mu        sync.Mutex
	fillEpoch int64
}

func NewCachedRelationshipRepository(relationshipStore RelationshipStore, cache Cache) *CachedRelationshipRepository {
	return &CachedRelationshipRepository{
		relationshipStore: relationshipStore,
		cache:             cache,
	}
}

// FillEpoch devolve o contador de invalidações corrente. Callers que montam
// um resultado fora do repositório (hierarquia, listagens) capturam o valor
// antes de ler o store e o apresentam na hora de gravar.
func (r *CachedRelationshipRepository) FillEpoch() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fillEpoch
}

// QuerySnapshot lê o snapshot de arestas diretas da conta, servindo do cache
// quando presente e dentro do TTL. Em cache miss, monta a partir do store e
// popula o cache em background: erro de cache nunca falha a leitura.
func (r *CachedRelationshipRepository) QuerySnapshot(ctx context.Context, accountID int64) (*domain.RelationshipSnapshot, error) {
	cacheKey := fmt.Sprintf(snapshotKeyPattern, accountID)

	if r.cache != nil {
		cachedJSON, found, err := r.cache.Get(ctx, cacheKey)
		if found && err == nil {
			var snapshot domain.RelationshipSnapshot
			if err := json.Unmarshal([]byte(cachedJSON), &snapshot); err == nil {
				log.Printf("Cache HIT for key: %s", cacheKey)
				return &snapshot, nil
			}
			log.Printf("Cache entry for key %s is corrupted, falling back to store", cacheKey)
		}

		if err != nil {
			// Loga o erro de cache mas continua no store
			log.Printf("Cache error for key %s: %v", cacheKey, err)
		}
	}

	// A época é capturada ANTES da leitura do store: se uma invalidação
	// correr entre a leitura e a gravação, o preenchimento desiste.
	epoch := r.FillEpoch()

	parentEdges, err := r.relationshipStore.EdgesWhereChild(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("CachedRelationshipRepository.QuerySnapshot - failed to load parent edges: %w", err)
	}

	childEdges, err := r.relationshipStore.EdgesWhereParent(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("CachedRelationshipRepository.QuerySnapshot - failed to load child edges: %w", err)
	}

	snapshot := &domain.RelationshipSnapshot{
		AccountID:           accountID,
		ParentRelationships: parentEdges,
		ChildRelationships:  childEdges,
	}

	if r.cache != nil {
		go func() {
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			registryKeys := []string{fmt.Sprintf(registryKeyPattern, accountID)}
			r.fillEntry(ctxWithTimeout, cacheKey, snapshot, registryKeys, epoch)
		}()
	}

	return snapshot, nil
}

// GetHierarchy procura uma árvore já renderizada para (conta, depth).
func (r *CachedRelationshipRepository) GetHierarchy(ctx context.Context, accountID int64, depth int) (*domain.HierarchyNode, bool) {
	if r.cache == nil {
		return nil, false
	}

	cacheKey := r.hierarchyCacheKey(accountID, depth)

	var node domain.HierarchyNode
	if !r.getEntry(ctx, cacheKey, &node) {
		return nil, false
	}

	return &node, true
}

// SetHierarchy registra a árvore sob cada conta que aparece nela: qualquer
// mutação tocando um membro derruba a entrada inteira via registry. epoch é
// o valor de FillEpoch capturado antes da árvore ser montada.
func (r *CachedRelationshipRepository) SetHierarchy(ctx context.Context, accountID int64, depth int, node *domain.HierarchyNode, memberIDs []int64, epoch int64) {
	if r.cache == nil {
		return
	}

	cacheKey := r.hierarchyCacheKey(accountID, depth)

	registryKeys := make([]string, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		registryKeys = append(registryKeys, fmt.Sprintf(registryKeyPattern, memberID))
	}

	r.fillEntry(ctx, cacheKey, node, registryKeys, epoch)
}

// GetAccountPage procura uma listagem paginada já resolvida de ancestors ou
// descendants diretos. A chave é o shape da consulta inteira, então páginas
// diferentes da mesma conta são entradas independentes.
func (r *CachedRelationshipRepository) GetAccountPage(ctx context.Context, listKind string, accountID int64, page, perPage int) (*domain.AccountPage, bool) {
	if r.cache == nil {
		return nil, false
	}

	cacheKey := r.listCacheKey(listKind, accountID, page, perPage)

	var result domain.AccountPage
	if !r.getEntry(ctx, cacheKey, &result) {
		return nil, false
	}

	return &result, true
}

// SetAccountPage grava a listagem registrada sob a conta dona: qualquer
// mutação tocando a conta derruba todas as páginas dela de uma vez.
func (r *CachedRelationshipRepository) SetAccountPage(ctx context.Context, listKind string, accountID int64, page, perPage int, result *domain.AccountPage, epoch int64) {
	if r.cache == nil {
		return
	}

	cacheKey := r.listCacheKey(listKind, accountID, page, perPage)
	registryKeys := []string{fmt.Sprintf(registryKeyPattern, accountID)}

	r.fillEntry(ctx, cacheKey, result, registryKeys, epoch)
}

// InvalidateAccounts derruba os snapshots das contas informadas e toda
// entrada registrada sob elas (hierarquias e listagens que as contêm).
func (r *CachedRelationshipRepository) InvalidateAccounts(ctx context.Context, accountIDs []int64) error {
	if r.cache == nil || len(accountIDs) == 0 {
		return nil
	}

	directKeys := make([]string, 0, len(accountIDs))
	registryKeys := make([]string, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		directKeys = append(directKeys, fmt.Sprintf(snapshotKeyPattern, accountID))
		registryKeys = append(registryKeys, fmt.Sprintf(registryKeyPattern, accountID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Avança a época antes de deletar: preenchimentos pendentes ficam
	// obsoletos mesmo que a deleção falhe no meio.
	r.fillEpoch++

	if err := r.cache.InvalidateKeys(ctx, directKeys); err != nil {
		return fmt.Errorf("CachedRelationshipRepository.InvalidateAccounts - failed to invalidate snapshot keys: %w", err)
	}

	if err := r.cache.InvalidateByRegistry(ctx, registryKeys); err != nil {
		return fmt.Errorf("CachedRelationshipRepository.InvalidateAccounts - failed to invalidate by registry: %w", err)
	}

	log.Printf("Invalidated cache for %d accounts", len(accountIDs))
	return nil
}

// InvalidateAll é o fallback conservador quando o conjunto de pontas afetadas
// não pode ser determinado antes da mutação.
func (r *CachedRelationshipRepository) InvalidateAll(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.fillEpoch++

	if err := r.cache.DeleteByPrefix(ctx, cacheKeyPrefix); err != nil {
		return fmt.Errorf("CachedRelationshipRepository.InvalidateAll - failed to delete by prefix: %w", err)
	}

	log.Printf("Invalidated all relationship cache entries")
	return nil
}

// fillEntry é a gravação comum dos preenchimentos. Segura o mutex durante a
// checagem de época E a gravação: ou a gravação acontece inteira antes da
// próxima invalidação (que então a deleta), ou vê a época avançada e desiste.
func (r *CachedRelationshipRepository) fillEntry(ctx context.Context, cacheKey string, value interface{}, registryKeys []string, epoch int64) {
	dataJSON, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to marshal cache entry for key %s: %v", cacheKey, err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fillEpoch != epoch {
		log.Printf("Skipping cache fill for key %s: invalidated while filling", cacheKey)
		return
	}

	if err := r.cache.SetWithRegistry(ctx, cacheKey, string(dataJSON), registryKeys); err != nil {
		log.Printf("Failed to set cache with registry for key %s: %v", cacheKey, err)
		return
	}

	log.Printf("Cache SET with registry for key: %s (%d registries)", cacheKey, len(registryKeys))
}

func (r *CachedRelationshipRepository) getEntry(ctx context.Context, cacheKey string, target interface{}) bool {
	cachedJSON, found, err := r.cache.Get(ctx, cacheKey)
	if err != nil {
		log.Printf("Cache error for key %s: %v", cacheKey, err)
		return false
	}

	if !found {
		return false
	}

	if err := json.Unmarshal([]byte(cachedJSON), target); err != nil {
		log.Printf("Failed to unmarshal cached entry for key %s: %v", cacheKey, err)
		return false
	}

	return true
}

func (r *CachedRelationshipRepository) hierarchyCacheKey(accountID int64, depth int) string {
	// Hash do shape da consulta para chave limpa e consistente
	keyData := fmt.Sprintf("hierarchy:%d:depth:%d", accountID, depth)
	hash := md5.Sum([]byte(keyData))
	return fmt.Sprintf(hierarchyKeyPattern, hash)
}

func (r *CachedRelationshipRepository) listCacheKey(listKind string, accountID int64, page, perPage int) string {
	keyData := fmt.Sprintf("%s:%d:page:%d:per_page:%d", listKind, accountID, page, perPage)
	hash := md5.Sum([]byte(keyData))
	return fmt.Sprintf(listKeyPattern, hash)
}
