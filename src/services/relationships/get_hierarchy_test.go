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

var _ = Describe("GetHierarchy", func() {
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

	Context("Depth validation", func() {
		It("should reject depth below the minimum", func() {
			// ACT
			root, err := relationshipService.GetHierarchy(ctx, accountA.ID, 0)

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(root).To(BeNil())
			Expect(err).To(MatchError(domain.ErrInvalidOperation))
		})

		It("should reject depth above the maximum", func() {
			// ACT
			root, err := relationshipService.GetHierarchy(ctx, accountA.ID, relationships.MaxHierarchyDepth+1)

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(root).To(BeNil())
			Expect(err).To(MatchError(domain.ErrInvalidOperation))
		})

		It("should reject an unknown root account", func() {
			// ACT
			root, err := relationshipService.GetHierarchy(ctx, 999999, 3)

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(root).To(BeNil())
			Expect(err).To(MatchError(domain.ErrAccountNotFound))
		})
	})

	Context("Tree rendering", func() {
		It("should expand parents and children around the root", func() {
			// ARRANGE - A é parent de B; B é parent de C e de D
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountC.ID, entities.RelationshipTypeAffiliate, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountD.ID, entities.RelationshipTypeSubsidiary, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			root, err := relationshipService.GetHierarchy(ctx, accountB.ID, 2)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(root.AccountID).To(Equal(accountB.ID))
			Expect(root.Account).NotTo(BeNil())
			Expect(root.Account.Name).To(Equal(accountB.Name))

			Expect(root.Parents).To(HaveLen(1))
			Expect(root.Parents[0].AccountID).To(Equal(accountA.ID))
			Expect(root.Parents[0].RelationshipType).To(Equal(entities.RelationshipTypeParentChild))

			Expect(root.Children).To(HaveLen(2))
			childTypes := map[int64]entities.RelationshipType{}
			for _, child := range root.Children {
				childTypes[child.AccountID] = child.RelationshipType
			}
			Expect(childTypes).To(HaveKeyWithValue(accountC.ID, entities.RelationshipTypeAffiliate))
			Expect(childTypes).To(HaveKeyWithValue(accountD.ID, entities.RelationshipTypeSubsidiary))
		})

		It("should stop expanding when the depth budget runs out", func() {
			// ARRANGE - cadeia A -> B -> C -> D
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountC.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountC.ID, accountD.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT - depth 2 a partir de A alcança B e C, nunca D
			root, err := relationshipService.GetHierarchy(ctx, accountA.ID, 2)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(root.Children).To(HaveLen(1))

			nodeB := root.Children[0]
			Expect(nodeB.AccountID).To(Equal(accountB.ID))
			Expect(nodeB.Children).To(HaveLen(1))

			nodeC := nodeB.Children[0]
			Expect(nodeC.AccountID).To(Equal(accountC.ID))
			Expect(nodeC.IsCycle).To(BeFalse())
			Expect(nodeC.Children).To(BeEmpty())
		})

		It("should not flag a diamond as a cycle", func() {
			// ARRANGE - A -> B, A -> C, B -> D, C -> D: D é alcançável por
			// dois caminhos legítimos
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountA.ID, accountC.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountD.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountC.ID, accountD.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			root, err := relationshipService.GetHierarchy(ctx, accountA.ID, 3)

			// ASSERT - D aparece embaixo de B e de C, sem marca de ciclo em
			// nenhuma das duas ocorrências: o visited set é por ramo
			Expect(err).NotTo(HaveOccurred())
			Expect(root.Children).To(HaveLen(2))

			occurrences := 0
			for _, branch := range root.Children {
				for _, grandchild := range branch.Children {
					if grandchild.AccountID == accountD.ID {
						occurrences++
						Expect(grandchild.IsCycle).To(BeFalse())
					}
				}
			}
			Expect(occurrences).To(Equal(2))
		})
	})

	Context("Defensive cycle handling", func() {
		It("should mark the revisit and terminate when the store already contains a cycle", func() {
			// ARRANGE - ciclo A -> B -> C -> A injetado direto no store,
			// contornando o guard do serviço
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountB.ID, accountC.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())
			_, err = relationshipStore.AddEdge(ctx, accountC.ID, accountA.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			// ACT
			root, err := relationshipService.GetHierarchy(ctx, accountA.ID, relationships.MaxHierarchyDepth)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())

			var cycleNodes []int64
			var walk func(node *domain.HierarchyNode)
			walk = func(node *domain.HierarchyNode) {
				if node.IsCycle {
					cycleNodes = append(cycleNodes, node.AccountID)
					// Nó marcado como ciclo nunca é expandido
					Expect(node.Parents).To(BeEmpty())
					Expect(node.Children).To(BeEmpty())
				}
				for _, parent := range node.Parents {
					walk(parent)
				}
				for _, child := range node.Children {
					walk(child)
				}
			}
			walk(root)

			Expect(cycleNodes).To(ContainElement(accountA.ID))
		})
	})

	Context("Unresolvable accounts", func() {
		It("should render a placeholder node instead of failing the traversal", func() {
			// ARRANGE - a conta B é deletada depois da aresta existir
			_, err := relationshipStore.AddEdge(ctx, accountA.ID, accountB.ID, entities.RelationshipTypeParentChild, "tester")
			Expect(err).NotTo(HaveOccurred())

			accountStore.Remove(accountB.ID)

			// ACT
			root, err := relationshipService.GetHierarchy(ctx, accountA.ID, 2)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(root.Children).To(HaveLen(1))

			placeholder := root.Children[0]
			Expect(placeholder.AccountID).To(Equal(accountB.ID))
			Expect(placeholder.Account).To(BeNil())
			Expect(placeholder.Error).NotTo(BeEmpty())
			Expect(placeholder.Parents).To(BeEmpty())
			Expect(placeholder.Children).To(BeEmpty())
		})
	})
})
