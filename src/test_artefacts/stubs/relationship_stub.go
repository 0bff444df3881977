package stubs

import (
	"sync/atomic"
	"time"

	"accountgraph/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

var relationshipIDSequence int64

type RelationshipStub struct {
	relationship entities.Relationship
}

func NewRelationshipStub() RelationshipStub {
	now := time.Now().UTC()

	relationship := entities.Relationship{
		ID:              atomic.AddInt64(&relationshipIDSequence, 1),
		ParentAccountID: gofakeit.Int64(),
		ChildAccountID:  gofakeit.Int64(),
		Type:            entities.RelationshipTypeParentChild,
		CreatedBy:       gofakeit.UUID(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	relationship.UpdatedBy = relationship.CreatedBy

	return RelationshipStub{relationship: relationship}
}

func (rs RelationshipStub) WithParentAccountID(parentAccountID int64) RelationshipStub {
	rs.relationship.ParentAccountID = parentAccountID
	return rs
}

func (rs RelationshipStub) WithChildAccountID(childAccountID int64) RelationshipStub {
	rs.relationship.ChildAccountID = childAccountID
	return rs
}

func (rs RelationshipStub) WithType(relType entities.RelationshipType) RelationshipStub {
	rs.relationship.Type = relType
	return rs
}

func (rs RelationshipStub) Get() entities.Relationship {
	return rs.relationship
}
