package http

import (
	"time"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
)

type RelationshipDTO struct {
	ID               int64                     `json:"id"`
	ParentAccountID  int64                     `json:"parent_account_id"`
	ChildAccountID   int64                     `json:"child_account_id"`
	RelationshipType entities.RelationshipType `json:"relationship_type"`
	CreatedBy        string                    `json:"created_by"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedBy        string                    `json:"updated_by"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

type RelationshipSnapshotDTO struct {
	AccountID           int64             `json:"account_id"`
	ParentRelationships []RelationshipDTO `json:"parent_relationships"`
	ChildRelationships  []RelationshipDTO `json:"child_relationships"`
}

type AddRelationshipRequestDTO struct {
	TargetAccountID  int64                     `json:"target_account_id"`
	RelationshipType entities.RelationshipType `json:"relationship_type"`
	IsParentOfTarget bool                      `json:"is_parent_of_target"`
	ActorID          string                    `json:"actor_id"`
}

type HierarchyNodeDTO struct {
	AccountID        int64                     `json:"account_id"`
	Name             string                    `json:"name,omitempty"`
	Type             string                    `json:"type,omitempty"`
	Reference        string                    `json:"reference,omitempty"`
	RelationshipType entities.RelationshipType `json:"relationship_type,omitempty"`
	IsCycle          bool                      `json:"is_cycle,omitempty"`
	Error            string                    `json:"error,omitempty"`

	Parents  []*HierarchyNodeDTO `json:"parents,omitempty"`
	Children []*HierarchyNodeDTO `json:"children,omitempty"`
}

type CircularCheckResultDTO struct {
	WouldCreateCircular bool    `json:"would_create_circular"`
	Path                []int64 `json:"path,omitempty"`
}

type AccountPageDTO struct {
	Accounts []AccountDTO `json:"accounts"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PerPage  int          `json:"per_page"`
}

type AccountDTO struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapRelationshipToDTO(edge entities.Relationship) RelationshipDTO {
	return RelationshipDTO{
		ID:               edge.ID,
		ParentAccountID:  edge.ParentAccountID,
		ChildAccountID:   edge.ChildAccountID,
		RelationshipType: edge.Type,
		CreatedBy:        edge.CreatedBy,
		CreatedAt:        edge.CreatedAt,
		UpdatedBy:        edge.UpdatedBy,
		UpdatedAt:        edge.UpdatedAt,
	}
}

func MapSnapshotToDTO(snapshot *domain.RelationshipSnapshot) *RelationshipSnapshotDTO {
	if snapshot == nil {
		return nil
	}

	dto := &RelationshipSnapshotDTO{
		AccountID:           snapshot.AccountID,
		ParentRelationships: make([]RelationshipDTO, 0, len(snapshot.ParentRelationships)),
		ChildRelationships:  make([]RelationshipDTO, 0, len(snapshot.ChildRelationships)),
	}

	for _, edge := range snapshot.ParentRelationships {
		dto.ParentRelationships = append(dto.ParentRelationships, MapRelationshipToDTO(edge))
	}

	for _, edge := range snapshot.ChildRelationships {
		dto.ChildRelationships = append(dto.ChildRelationships, MapRelationshipToDTO(edge))
	}

	return dto
}

func MapHierarchyToDTO(node *domain.HierarchyNode) *HierarchyNodeDTO {
	if node == nil {
		return nil
	}

	dto := &HierarchyNodeDTO{
		AccountID:        node.AccountID,
		RelationshipType: node.RelationshipType,
		IsCycle:          node.IsCycle,
		Error:            node.Error,
	}

	if node.Account != nil {
		dto.Name = node.Account.Name
		dto.Type = node.Account.Type
		dto.Reference = node.Account.Reference
	}

	for _, parent := range node.Parents {
		dto.Parents = append(dto.Parents, MapHierarchyToDTO(parent))
	}

	for _, child := range node.Children {
		dto.Children = append(dto.Children, MapHierarchyToDTO(child))
	}

	return dto
}

func MapAccountPageToDTO(page *domain.AccountPage) *AccountPageDTO {
	if page == nil {
		return nil
	}

	dto := &AccountPageDTO{
		Accounts: make([]AccountDTO, 0, len(page.Accounts)),
		Total:    page.Total,
		Page:     page.Page,
		PerPage:  page.PerPage,
	}

	for _, account := range page.Accounts {
		dto.Accounts = append(dto.Accounts, AccountDTO{
			ID:        account.ID,
			Type:      account.Type,
			Reference: account.Reference,
			Name:      account.Name,
			CreatedAt: account.CreatedAt,
			UpdatedAt: account.UpdatedAt,
		})
	}

	return dto
}
