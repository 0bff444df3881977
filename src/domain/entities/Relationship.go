package entities

import (
	"time"
)

// RelationshipType é uma enumeração fechada. A tag não altera a semântica
// do grafo, só descreve o vínculo de negócio.
type RelationshipType string

const (
	RelationshipTypeParentChild RelationshipType = "parent_child"
	RelationshipTypeAffiliate   RelationshipType = "affiliate"
	RelationshipTypePartner     RelationshipType = "partner"
	RelationshipTypeSubsidiary  RelationshipType = "subsidiary"
	RelationshipTypeOther       RelationshipType = "other"
)

func (rt RelationshipType) IsValid() bool {
	switch rt {
	case RelationshipTypeParentChild,
		RelationshipTypeAffiliate,
		RelationshipTypePartner,
		RelationshipTypeSubsidiary,
		RelationshipTypeOther:
		return true
	}
	return false
}

// É a "aresta" dirigida do grafo: parent -> child.
type Relationship struct {
	ID              int64            `json:"id"`
	ParentAccountID int64            `json:"parent_account_id"`
	ChildAccountID  int64            `json:"child_account_id"`
	Type            RelationshipType `json:"relationship_type"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedBy       string           `json:"updated_by"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Touches informa se a aresta envolve a conta, como parent ou como child.
func (r Relationship) Touches(accountID int64) bool {
	return r.ParentAccountID == accountID || r.ChildAccountID == accountID
}

// OtherEndpoint retorna a ponta oposta da aresta em relação à conta informada.
func (r Relationship) OtherEndpoint(accountID int64) int64 {
	if r.ParentAccountID == accountID {
		return r.ChildAccountID
	}
	return r.ParentAccountID
}
