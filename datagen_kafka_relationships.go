//go:build datagen_kafka_relationships
// +build datagen_kafka_relationships

package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"accountgraph/src/helper/env"
	"accountgraph/src/infra/kafka"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

// KafkaRelationshipMessage espelha o schema consumido pelo
// relationships-consumer.
type KafkaRelationshipMessage struct {
	OwnerAccountID   int64  `json:"owner_account_id"`
	TargetAccountID  int64  `json:"target_account_id"`
	RelationshipType string `json:"relationship_type"`
	IsParentOfTarget bool   `json:"is_parent_of_target"`
	ActorID          string `json:"actor_id"`
}

var relationshipTypes = []string{"parent_child", "affiliate", "partner", "subsidiary", "other"}

// generateMessage produz arestas sempre do id menor para o id maior, então a
// carga é acíclica por construção e o guard do serviço só rejeita duplicatas.
func generateMessage(maxAccountID int64) KafkaRelationshipMessage {
	owner := rand.Int63n(maxAccountID-1) + 1
	target := owner + rand.Int63n(maxAccountID-owner) + 1
	if target > maxAccountID {
		target = maxAccountID
	}

	return KafkaRelationshipMessage{
		OwnerAccountID:   owner,
		TargetAccountID:  target,
		RelationshipType: relationshipTypes[rand.Intn(len(relationshipTypes))],
		IsParentOfTarget: true,
		ActorID:          faker.Username(),
	}
}

func generateBatch(size int, maxAccountID int64) []kafka.Message {
	messages := make([]kafka.Message, 0, size)

	for i := 0; i < size; i++ {
		payload, err := json.Marshal(generateMessage(maxAccountID))
		if err != nil {
			log.Printf("Failed to marshal message: %v", err)
			continue
		}

		messages = append(messages, kafka.Message{
			Key:   uuid.NewString(),
			Value: payload,
		})
	}

	return messages
}

func main() {
	rand.Seed(time.Now().UnixNano())

	numMessages := flag.Int("messages", -1, "Número de mensagens a produzir. Use -1 para infinito.")
	batchSize := flag.Int("batch-size", 200, "Mensagens por envio")
	maxAccountID := flag.Int64("max-account-id", 100000, "Maior id de conta presente no banco")
	intervalMs := flag.Int("interval-ms", 100, "Pausa entre lotes")
	flag.Parse()

	brokers := env.MustGetString("KAFKA_BROKERS")
	topic := env.GetString("KAFKA_RELATIONSHIPS_TOPIC", "account.relationships")

	client, err := kafka.NewKafkaClient(brokers, "datagen-relationships", *batchSize)
	if err != nil {
		log.Fatalf("Failed to create kafka client: %v", err)
	}
	defer client.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var totalSent int64
	startTime := time.Now()

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			sent := atomic.LoadInt64(&totalSent)
			elapsed := time.Since(startTime).Seconds()
			log.Printf("sent=%d rate=%.0f msgs/s", sent, float64(sent)/elapsed)
		}
	}()

	log.Printf("Producing to topic %s (batch=%d, max-account-id=%d)", topic, *batchSize, *maxAccountID)

	for sent := 0; *numMessages < 0 || sent < *numMessages; {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received after %d messages", atomic.LoadInt64(&totalSent))
			return
		default:
		}

		size := *batchSize
		if *numMessages >= 0 && *numMessages-sent < size {
			size = *numMessages - sent
		}

		batch := generateBatch(size, *maxAccountID)
		if err := client.Producer(batch, topic); err != nil {
			log.Printf("Batch send failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		sent += len(batch)
		atomic.AddInt64(&totalSent, int64(len(batch)))

		time.Sleep(time.Duration(*intervalMs) * time.Millisecond)
	}

	log.Printf("Done: %d messages in %v", atomic.LoadInt64(&totalSent), time.Since(startTime))
}
