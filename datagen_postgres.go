//go:build datagen_postgres
// +build datagen_postgres

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"accountgraph/src/domain/entities"
	"accountgraph/src/helper/env"
	"accountgraph/src/infra/postgres"

	"github.com/go-faker/faker/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedBundle é uma sub-árvore pronta para COPY: uma conta raiz, seus filhos
// e as arestas que os ligam. Gerar por sub-árvore garante aciclicidade por
// construção: toda aresta aponta de um id menor para um id maior.
type SeedBundle struct {
	Accounts      []entities.Account
	Relationships []entities.Relationship
}

var accountTypes = []string{"business", "individual", "holding", "franchise"}

var relationshipTypes = []entities.RelationshipType{
	entities.RelationshipTypeParentChild,
	entities.RelationshipTypeAffiliate,
	entities.RelationshipTypePartner,
	entities.RelationshipTypeSubsidiary,
	entities.RelationshipTypeOther,
}

func newSQLClient() (*pgxpool.Pool, error) {
	dbHost := env.MustGetString("DB_WRITE_HOST")
	dbPort := env.GetString("DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := 50
	return postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
}

func main() {
	rand.Seed(time.Now().UnixNano())

	numTrees := flag.Int("trees", -1, "Número de sub-árvores a criar. Use -1 para infinito.")
	childrenPerRoot := flag.Int("children", 5, "Máximo de filhos diretos por raiz")
	bulkSize := flag.Int("bulk-size", 500, "Sub-árvores por COPY")
	numWorkers := flag.Int("workers", 8, "Workers de escrita concorrentes")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := newSQLClient()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	dataChan := make(chan SeedBundle, (*bulkSize)*(*numWorkers))

	var wg sync.WaitGroup
	var totalAccounts, totalRelationships, totalErrors int64
	startTime := time.Now()

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				elapsed := time.Since(startTime).Seconds()
				accounts := atomic.LoadInt64(&totalAccounts)
				log.Printf("accounts=%d relationships=%d errors=%d rate=%.0f accounts/s",
					accounts,
					atomic.LoadInt64(&totalRelationships),
					atomic.LoadInt64(&totalErrors),
					float64(accounts)/elapsed,
				)
			}
		}
	}()

	// Gerador: ids alocados de uma sequência local crescente
	go func() {
		defer close(dataChan)

		var nextID int64 = time.Now().Unix() * 1000

		for i := 0; *numTrees < 0 || i < *numTrees; i++ {
			select {
			case <-ctx.Done():
				return
			case dataChan <- generateBundle(&nextID, *childrenPerRoot):
			}
		}
	}()

	for w := 0; w < *numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			batch := make([]SeedBundle, 0, *bulkSize)
			for bundle := range dataChan {
				batch = append(batch, bundle)
				if len(batch) >= *bulkSize {
					flushBatch(ctx, db, batch, &totalAccounts, &totalRelationships, &totalErrors)
					batch = batch[:0]
				}
			}
			if len(batch) > 0 {
				flushBatch(ctx, db, batch, &totalAccounts, &totalRelationships, &totalErrors)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-sigChan:
		log.Println("Shutdown signal received, draining...")
		cancel()
		<-done
	case <-done:
	}

	log.Printf("Seeding finished: %d accounts, %d relationships, %d errors in %v",
		atomic.LoadInt64(&totalAccounts),
		atomic.LoadInt64(&totalRelationships),
		atomic.LoadInt64(&totalErrors),
		time.Since(startTime),
	)
}

func generateBundle(nextID *int64, maxChildren int) SeedBundle {
	now := time.Now().UTC()

	root := generateAccount(nextID, now)
	accounts := []entities.Account{root}
	relationships := []entities.Relationship{}

	numChildren := rand.Intn(maxChildren + 1)
	for i := 0; i < numChildren; i++ {
		child := generateAccount(nextID, now)
		accounts = append(accounts, child)

		relationships = append(relationships, entities.Relationship{
			ParentAccountID: root.ID,
			ChildAccountID:  child.ID,
			Type:            relationshipTypes[rand.Intn(len(relationshipTypes))],
			CreatedBy:       "datagen",
			CreatedAt:       now,
			UpdatedBy:       "datagen",
			UpdatedAt:       now,
		})

		// Ocasionalmente um neto, para árvores com profundidade > 1
		if rand.Float64() < 0.3 {
			grandchild := generateAccount(nextID, now)
			accounts = append(accounts, grandchild)

			relationships = append(relationships, entities.Relationship{
				ParentAccountID: child.ID,
				ChildAccountID:  grandchild.ID,
				Type:            entities.RelationshipTypeParentChild,
				CreatedBy:       "datagen",
				CreatedAt:       now,
				UpdatedBy:       "datagen",
				UpdatedAt:       now,
			})
		}
	}

	return SeedBundle{Accounts: accounts, Relationships: relationships}
}

func generateAccount(nextID *int64, now time.Time) entities.Account {
	id := *nextID
	*nextID++

	accountType := accountTypes[rand.Intn(len(accountTypes))]

	return entities.Account{
		ID:        id,
		Type:      accountType,
		Reference: fmt.Sprintf("%s_%s_%d", accountType, faker.Username(), rand.Intn(1000000)),
		Name:      faker.Name(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func flushBatch(ctx context.Context, db *pgxpool.Pool, batch []SeedBundle, totalAccounts, totalRelationships, totalErrors *int64) {
	accountRows := [][]interface{}{}
	relationshipRows := [][]interface{}{}

	for _, bundle := range batch {
		for _, account := range bundle.Accounts {
			accountRows = append(accountRows, []interface{}{
				account.ID, account.Type, account.Reference, account.Name, account.CreatedAt, account.UpdatedAt,
			})
		}
		for _, relationship := range bundle.Relationships {
			relationshipRows = append(relationshipRows, []interface{}{
				relationship.ParentAccountID, relationship.ChildAccountID, string(relationship.Type),
				relationship.CreatedBy, relationship.CreatedAt, relationship.UpdatedBy, relationship.UpdatedAt,
			})
		}
	}

	_, err := db.CopyFrom(
		ctx,
		pgx.Identifier{"accounts"},
		[]string{"id", "type", "reference", "name", "created_at", "updated_at"},
		pgx.CopyFromRows(accountRows),
	)
	if err != nil {
		log.Printf("CopyFrom accounts failed: %v", err)
		atomic.AddInt64(totalErrors, 1)
		return
	}
	atomic.AddInt64(totalAccounts, int64(len(accountRows)))

	_, err = db.CopyFrom(
		ctx,
		pgx.Identifier{"account_relationships"},
		[]string{"parent_id", "child_id", "relationship_type", "created_by", "created_at", "updated_by", "updated_at"},
		pgx.CopyFromRows(relationshipRows),
	)
	if err != nil {
		log.Printf("CopyFrom account_relationships failed: %v", err)
		atomic.AddInt64(totalErrors, 1)
		return
	}
	atomic.AddInt64(totalRelationships, int64(len(relationshipRows)))
}
