package relationships_test

import (
	"context"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
	"accountgraph/src/repositories"
	"accountgraph/src/services/relationships"
	"accountgraph/src/test_artefacts/comparer"
	"accountgraph/src/test_artefacts/stubs"
)

var _ = Describe("GetRelationships", func() {
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
		It("should split them into parent and child relationships", func() {
			// ARRANGE - A é parent de B; C é parent de A
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountC.ID, accountA.ID, entities.RelationshipTypeAffiliate, "tester")
			Expect(err).NotTo(HaveOccurred())

			expectedChildEdge := stubs.NewRelationshipStub().
				WithParentAccountID(accountA.ID).
				WithChildAccountID(accountB.ID).
				WithType(entities.RelationshipTypeParentChild).
				Get()

			// ACT
			snapshot, err := relationshipService.GetRelationships(ctx, accountA.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.AccountID).To(Equal(accountA.ID))

			Expect(snapshot.ChildRelationships).To(HaveLen(1))
			diff := cmp.Diff(
				expectedChildEdge,
				snapshot.ChildRelationships[0],
				comparer.IgnoreFieldsFor[entities.Relationship]("ID", "CreatedBy", "UpdatedBy"),
				comparer.TimeWithinTolerance(5000),
			)
			Expect(diff).To(BeEmpty())

			Expect(snapshot.ParentRelationships).To(HaveLen(1))
			Expect(snapshot.ParentRelationships[0].ParentAccountID).To(Equal(accountC.ID))
			Expect(snapshot.ParentRelationships[0].Type).To(Equal(entities.RelationshipTypeAffiliate))
		})
	})

	When("the account has no edges", func() {
		It("should return an empty snapshot, not an error", func() {
			// ACT
			snapshot, err := relationshipService.GetRelationships(ctx, accountA.ID)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.AccountID).To(Equal(accountA.ID))
			Expect(snapshot.ParentRelationships).To(BeEmpty())
			Expect(snapshot.ChildRelationships).To(BeEmpty())
		})
	})

	When("the account does not exist", func() {
		It("should fail with account not found error", func() {
			// ACT
			snapshot, err := relationshipService.GetRelationships(ctx, 999999)

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(snapshot).To(BeNil())
			Expect(err).To(MatchError(domain.ErrAccountNotFound))
		})
	})
})

var _ = Describe("GetAncestors and GetDescendants", func() {
	var (
		accountStore        *stubs.AccountStoreStub
		relationshipStore   *repositories.MemoryRelationshipStore
		relationshipService *relationships.RelationshipService
		ctx                 context.Context

		center  entities.Account
		parents []entities.Account
	)

	BeforeEach(func() {
		ctx = context.Background()

		accountStore = stubs.NewAccountStoreStub()
		relationshipStore = repositories.NewMemoryRelationshipStore()
		cachedRepository := repositories.NewCachedRelationshipRepository(relationshipStore, nil)
		relationshipService = relationships.NewRelationshipService(accountStore, relationshipStore, cachedRepository)

		center = stubs.NewAccountStub().Get()
		accountStore.Add(center)

		parents = make([]entities.Account, 5)
		for i := range parents {
			parents[i] = stubs.NewAccountStub().Get()
			accountStore.Add(parents[i])

			_, err := relationshipStore.AddEdge(ctx, parents[i].ID, center.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
		}
	})

	When("listing direct parents", func() {
		It("should return them ordered by id with the total count", func() {
			// ACT
			page, err := relationshipService.GetAncestors(ctx, center.ID, 1, 10)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(5))
			Expect(page.Accounts).To(HaveLen(5))

			for i := 1; i < len(page.Accounts); i++ {
				Expect(page.Accounts[i].ID).To(BeNumerically(">", page.Accounts[i-1].ID))
			}
		})

		It("should slice pages deterministically", func() {
			// ACT
			firstPage, err := relationshipService.GetAncestors(ctx, center.ID, 1, 2)
			Expect(err).NotTo(HaveOccurred())
			secondPage, err := relationshipService.GetAncestors(ctx, center.ID, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			thirdPage, err := relationshipService.GetAncestors(ctx, center.ID, 3, 2)
			Expect(err).NotTo(HaveOccurred())

			// ASSERT
			Expect(firstPage.Accounts).To(HaveLen(2))
			Expect(secondPage.Accounts).To(HaveLen(2))
			Expect(thirdPage.Accounts).To(HaveLen(1))
			Expect(firstPage.Total).To(Equal(5))

			seen := map[int64]bool{}
			for _, pg := range []*domain.AccountPage{firstPage, secondPage, thirdPage} {
				for _, account := range pg.Accounts {
					Expect(seen[account.ID]).To(BeFalse())
					seen[account.ID] = true
				}
			}
			Expect(seen).To(HaveLen(5))
		})

		It("should return an empty page past the end", func() {
			// ACT
			page, err := relationshipService.GetAncestors(ctx, center.ID, 4, 2)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Accounts).To(BeEmpty())
			Expect(page.Total).To(Equal(5))
			Expect(page.Page).To(Equal(4))
		})

		It("should normalize out-of-range pagination arguments", func() {
			// ACT
			page, err := relationshipService.GetAncestors(ctx, center.ID, 0, -3)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Page).To(Equal(1))
			Expect(page.PerPage).To(Equal(20))
			Expect(page.Accounts).To(HaveLen(5))
		})
	})

	When("listing direct children", func() {
		It("should return only accounts the center is parent of", func() {
			// ARRANGE
			child := stubs.NewAccountStub().Get()
			accountStore.Add(child)

			_, err := relationshipStore.AddEdge(ctx, center.ID, child.ID, entities.RelationshipTypeSubsidiary, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			page, err := relationshipService.GetDescendants(ctx, center.ID, 1, 10)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(1))
			Expect(page.Accounts).To(HaveLen(1))
			Expect(page.Accounts[0].ID).To(Equal(child.ID))
		})
	})

	When("the account does not exist", func() {
		It("should fail with account not found error", func() {
			// ACT
			page, err := relationshipService.GetAncestors(ctx, 999999, 1, 10)

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(page).To(BeNil())
			Expect(err).To(MatchError(domain.ErrAccountNotFound))
		})
	})
})
