package domain

import (
	"errors"
	"fmt"

	"accountgraph/src/domain/entities"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrRelationshipNotFound = errors.New("relationship not found")

	// A aresta (parent, child) já existe. Callers que fazem carga em lote
	// tratam como no-op; callers diretos devolvem conflito.
	ErrDuplicateRelationship = errors.New("relationship already exists")

	// O cycle guard rejeitou a mutação. Sempre propagado, nunca engolido.
	ErrCircularReference = errors.New("relationship would create a circular reference")

	// Uso estrutural indevido: aresta que não toca a conta dona, self-loop,
	// depth fora do intervalo permitido.
	ErrInvalidOperation = errors.New("invalid relationship operation")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// CircularReferenceError carrega o par rejeitado para diagnóstico,
// mantendo errors.Is(err, ErrCircularReference) para os callers.
type CircularReferenceError struct {
	ParentAccountID int64
	ChildAccountID  int64
	Path            []int64
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("relationship %d -> %d would create a circular reference", e.ParentAccountID, e.ChildAccountID)
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}

// ############################################################
// ############ PROCESSO DE LEITURA DO GRAFO ##################
// ############################################################

// RelationshipSnapshot é a visão pontual das arestas diretas de uma conta:
// arestas onde ela é child (parents) e arestas onde ela é parent (children).
type RelationshipSnapshot struct {
	AccountID           int64                   `json:"account_id"`
	ParentRelationships []entities.Relationship `json:"parent_relationships"`
	ChildRelationships  []entities.Relationship `json:"child_relationships"`
}

// HierarchyNode é um nó da expansão em árvore com profundidade limitada.
// IsCycle marca a revisita de um ancestral no caminho atual; Error marca uma
// conta referenciada por aresta que não pôde ser resolvida.
type HierarchyNode struct {
	Account          *entities.Account         `json:"account,omitempty"`
	AccountID        int64                     `json:"account_id"`
	RelationshipType entities.RelationshipType `json:"relationship_type,omitempty"`
	IsCycle          bool                      `json:"is_cycle,omitempty"`
	Error            string                    `json:"error,omitempty"`

	Parents  []*HierarchyNode `json:"parents,omitempty"`
	Children []*HierarchyNode `json:"children,omitempty"`
}

// CircularCheckResult é a resposta do probe de ciclo somente-leitura.
// Path é indicativo: o caminho de ancestrais que fecharia o ciclo.
type CircularCheckResult struct {
	WouldCreateCircular bool    `json:"would_create_circular"`
	Path                []int64 `json:"path,omitempty"`
}

// AccountPage é a projeção paginada de ancestors/descendants diretos.
type AccountPage struct {
	Accounts []entities.Account `json:"accounts"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PerPage  int                `json:"per_page"`
}

// ############################################################
// ########### PROCESSO DE ESCRITA DAS ARESTAS ################
// ############################################################

// AddRelationshipRequest descreve uma criação de aresta do ponto de vista da
// conta dona: se IsParentOfTarget for true, owner é o parent do target.
type AddRelationshipRequest struct {
	OwnerAccountID   int64
	TargetAccountID  int64
	Type             entities.RelationshipType
	IsParentOfTarget bool
	ActorID          string
}

// Resolve devolve o par (parent, child) orientado.
func (r AddRelationshipRequest) Resolve() (parentID int64, childID int64) {
	if r.IsParentOfTarget {
		return r.OwnerAccountID, r.TargetAccountID
	}
	return r.TargetAccountID, r.OwnerAccountID
}
