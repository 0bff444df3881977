package relationships_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
	"accountgraph/src/repositories"
	"accountgraph/src/services/relationships"
	"accountgraph/src/test_artefacts/stubs"
)

var _ = Describe("RemoveRelationship", func() {
	var (
		accountStore        *stubs.AccountStoreStub
		relationshipStore   *repositories.MemoryRelationshipStore
		relationshipService *relationships.RelationshipService
		ctx                 context.Context

		accountA entities.Account
		accountB entities.Account
		accountC entities.Account
	)

	BeforeEach(func() {
		ctx = context.Background()

		accountStore = stubs.NewAccountStoreStub()
		relationshipStore = repositories.NewMemoryRelationshipStore()
		cachedRepository := repositories.NewCachedRelationshipRepository(relationshipStore, nil)
		relationshipService = relationships.NewRelationshipService(accountStore, relationshipStore, cachedRepository)

		accountA = stubs.NewAccountStub().Get()
		accountB = stubs.NewAccountStub().Get()
		accountC = stubs.NewAccountStub().Get()

		accountStore.Add(accountA)
		accountStore.Add(accountB)
		accountStore.Add(accountC)
	})

	When("the owner is one of the edge endpoints", func() {
		It("should remove the edge and return the refreshed snapshot", func() {
			// ARRANGE
			edge, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			snapshot, err := relationshipService.RemoveRelationship(ctx, accountA.ID, edge.ID, "tester")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.AccountID).To(Equal(accountA.ID))
			Expect(snapshot.ParentRelationships).To(BeEmpty())
			Expect(snapshot.ChildRelationships).To(BeEmpty())

			_, err = relationshipStore.GetEdge(ctx, edge.ID)
			Expect(err).To(MatchError(domain.ErrRelationshipNotFound))
		})

		It("should accept the child endpoint as owner as well", func() {
			// ARRANGE
			edge, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeAffiliate, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			snapshot, err := relationshipService.RemoveRelationship(ctx, accountB.ID, edge.ID, "tester")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.AccountID).To(Equal(accountB.ID))
			Expect(snapshot.ParentRelationships).To(BeEmpty())
		})
	})

	When("the relationship does not exist", func() {
		It("should fail with relationship not found error", func() {
			// ACT
			snapshot, err := relationshipService.RemoveRelationship(ctx, accountA.ID, 424242, "tester")

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(snapshot).To(BeNil())
			Expect(err).To(MatchError(domain.ErrRelationshipNotFound))
		})
	})

	When("the owner does not touch the edge", func() {
		It("should fail with invalid operation error and keep the edge", func() {
			// ARRANGE
			edge, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			snapshot, err := relationshipService.RemoveRelationship(ctx, accountC.ID, edge.ID, "tester")

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(snapshot).To(BeNil())
			Expect(err).To(MatchError(domain.ErrInvalidOperation))

			stillThere, err := relationshipStore.GetEdge(ctx, edge.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stillThere.ID).To(Equal(edge.ID))
		})
	})

	When("the removed edge blocked a reverse insertion", func() {
		It("should allow the reverse edge after removal", func() {
			// ARRANGE
			edge, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			_, err = relationshipService.RemoveRelationship(ctx, accountA.ID, edge.ID, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			snapshot, err := relationshipService.AddRelationship(ctx, domain.AddRelationshipRequest{
				OwnerAccountID:   accountB.ID,
				TargetAccountID:  accountA.ID,
				Type:             entities.RelationshipTypeParentChild,
				IsParentOfTarget: true,
			})

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.ChildRelationships).To(HaveLen(1))
			Expect(snapshot.ChildRelationships[0].ParentAccountID).To(Equal(accountB.ID))
			Expect(snapshot.ChildRelationships[0].ChildAccountID).To(Equal(accountA.ID))
		})
	})
})

var _ = Describe("RemoveAccountRelationships", func() {
	var (
		accountStore        *stubs.AccountStoreStub
		relationshipStore   *repositories.MemoryRelationshipStore
		relationshipService *relationships.RelationshipService
		ctx                 context.Context

		accountA entities.Account
		accountB entities.Account
		accountC entities.Account
	)

	BeforeEach(func() {
		ctx = context.Background()

		accountStore = stubs.NewAccountStoreStub()
		relationshipStore = repositories.NewMemoryRelationshipStore()
		cachedRepository := repositories.NewCachedRelationshipRepository(relationshipStore, nil)
		relationshipService = relationships.NewRelationshipService(accountStore, relationshipStore, cachedRepository)

		accountA = stubs.NewAccountStub().Get()
		accountB = stubs.NewAccountStub().Get()
		accountC = stubs.NewAccountStub().Get()

		accountStore.Add(accountA)
		accountStore.Add(accountB)
		accountStore.Add(accountC)
	})

	When("the account touches edges in both directions", func() {
		It("should remove all of them and report the count", func() {
			// ARRANGE - B é child de A e parent de C
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountC.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountA.ID, accountC.ID, entities.RelationshipTypeAffiliate, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			removed, err := relationshipService.RemoveAccountRelationships(ctx, accountB.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(2))

			// A aresta A -> C não toca B e sobrevive ao cascade
			edges, err := relationshipStore.EdgesWhereParent(ctx, accountA.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(1))
			Expect(edges[0].ChildAccountID).To(Equal(accountC.ID))
		})
	})

	When("the cascade runs twice", func() {
		It("should be idempotent and report zero on the second run", func() {
			// ARRANGE
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			first, err := relationshipService.RemoveAccountRelationships(ctx, accountB.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal(1))

			// ACT
			second, err := relationshipService.RemoveAccountRelationships(ctx, accountB.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(BeZero())
		})
	})

	When("the account has no edges at all", func() {
		It("should succeed with zero removed", func() {
			// ACT
			removed, err := relationshipService.RemoveAccountRelationships(ctx, accountA.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeZero())
		})
	})
})
