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

var _ = Describe("CheckCircular", func() {
	var (
		accountStore        *stubs.AccountStoreStub
		relationshipStore   *repositories.MemoryRelationshipStore
		relationshipService *relationships.RelationshipService
		ctx                 context.Context

		accountA entities.Account
		accountB entities.Account
		accountC entities.Account
		accountD entities.Account
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
		accountD = stubs.NewAccountStub().Get()

		accountStore.Add(accountA)
		accountStore.Add(accountB)
		accountStore.Add(accountC)
		accountStore.Add(accountD)
	})

	When("the prospective edge is safe", func() {
		It("should report no cycle and no path", func() {
			// ARRANGE
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			result, err := relationshipService.CheckCircular(ctx, accountB.ID, accountC.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WouldCreateCircular).To(BeFalse())
			Expect(result.Path).To(BeEmpty())
		})
	})

	When("the prospective edge is a self-loop", func() {
		It("should report a cycle immediately", func() {
			// ACT
			result, err := relationshipService.CheckCircular(ctx, accountA.ID, accountA.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WouldCreateCircular).To(BeTrue())
			Expect(result.Path).To(Equal([]int64{accountA.ID, accountA.ID}))
		})
	})

	When("the prospective child is already an ancestor", func() {
		It("should report the cycle with the indicative path", func() {
			// ARRANGE - cadeia A -> B -> C
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountC.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT - C -> A fecharia o loop
			result, err := relationshipService.CheckCircular(ctx, accountC.ID, accountA.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WouldCreateCircular).To(BeTrue())
			Expect(result.Path).To(Equal([]int64{accountA.ID, accountB.ID, accountC.ID}))
		})
	})

	When("the probe says an edge is safe", func() {
		It("should always agree with the mutation path", func() {
			// ARRANGE - diamante A -> B, A -> C, B -> D, C -> D
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountA.ID, accountC.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountD.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT - probe e commit da mesma aresta C -> D
			result, err := relationshipService.CheckCircular(ctx, accountC.ID, accountD.ID)
			Expect(err).NotTo(HaveOccurred())

			snapshot, addErr := relationshipService.AddRelationship(ctx, domain.AddRelationshipRequest{
				OwnerAccountID:   accountC.ID,
				TargetAccountID:  accountD.ID,
				Type:             entities.RelationshipTypeParentChild,
				IsParentOfTarget: true,
			})

			// ASSERT
			Expect(result.WouldCreateCircular).To(BeFalse())
			Expect(addErr).NotTo(HaveOccurred())
			Expect(snapshot.ChildRelationships).To(HaveLen(1))
		})

		It("should agree with the mutation path on rejection too", func() {
			// ARRANGE
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			result, err := relationshipService.CheckCircular(ctx, accountB.ID, accountA.ID)
			Expect(err).NotTo(HaveOccurred())

			_, addErr := relationshipService.AddRelationship(ctx, domain.AddRelationshipRequest{
				OwnerAccountID:   accountB.ID,
				TargetAccountID:  accountA.ID,
				Type:             entities.RelationshipTypeParentChild,
				IsParentOfTarget: true,
			})

			// ASSERT
			Expect(result.WouldCreateCircular).To(BeTrue())
			Expect(addErr).To(MatchError(domain.ErrCircularReference))
		})
	})

	When("a deep ancestor chain reaches the store", func() {
		It("should terminate and find the cycle across the whole chain", func() {
			// ARRANGE - cadeia de 50 contas
			chain := make([]entities.Account, 50)
			for i := range chain {
				chain[i] = stubs.NewAccountStub().Get()
				accountStore.Add(chain[i])
			}
			for i := 0; i < len(chain)-1; i++ {
				_, err := relationshipStore.AddEdge(ctx, chain[i].ID, chain[i+1].ID, entities.RelationshipTypeParentChild, "tester")
				Expect(err).NotTo(HaveOccurred())
			}

			// ACT - fechar do último de volta ao primeiro
			result, err := relationshipService.CheckCircular(ctx, chain[len(chain)-1].ID, chain[0].ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WouldCreateCircular).To(BeTrue())
			Expect(result.Path).To(HaveLen(len(chain)))
			Expect(result.Path[0]).To(Equal(chain[0].ID))
			Expect(result.Path[len(chain)-1]).To(Equal(chain[len(chain)-1].ID))
		})
	})
})
