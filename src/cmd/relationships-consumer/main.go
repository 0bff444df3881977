package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accountgraph/src/adapters/kafka/consumers"
	"accountgraph/src/helper/env"
	"accountgraph/src/infra/kafka"
	"accountgraph/src/infra/postgres"
	"accountgraph/src/infra/redis"
	"accountgraph/src/repositories"
	"accountgraph/src/services/relationships"

	"go.uber.org/fx"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting Relationships Consumer with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newRedisClient,
			newKafkaClient,
			newAccountStore,
			newRelationshipStore,
			newCachedRelationshipRepository,
			newRelationshipService,
			newRelationshipsConsumer,
		),

		// Invocations
		fx.Invoke(startConsumer),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start consumer application: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down relationships consumer...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Error stopping consumer application: %v", err)
	}
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func newReadWriteClient() (*postgres.ReadWriteClient, error) {
	dbReadHost := env.MustGetString("DB_READ_HOST")
	dbWriteHost := env.MustGetString("DB_WRITE_HOST")
	dbReadPort := env.GetString("DB_READ_PORT", "5432")
	dbWritePort := env.GetString("DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 25)

	return postgres.NewReadWriteClient(dbReadHost, dbWriteHost, dbReadPort, dbWritePort, dbname, dbUser, dbPassword, maxConnections)
}

func newRedisClient() *redis.RedisClient {
	redisAddrs := env.MustGetString("REDIS_ADDRS")
	poolSize := env.GetInt("REDIS_POOL_SIZE", 100)
	ttlSeconds := env.GetInt("CACHE_TTL_SECONDS", 300)

	return redis.NewRedisClient(redisAddrs, poolSize, time.Duration(ttlSeconds)*time.Second)
}

func newKafkaClient() (*kafka.KafkaClient, error) {
	brokers := env.MustGetString("KAFKA_BROKERS")
	groupID := env.GetString("KAFKA_GROUP_ID", "relationships-consumer")
	batchSize := env.GetInt("KAFKA_BATCH_SIZE", 200)

	return kafka.NewKafkaClient(brokers, groupID, batchSize)
}

func newAccountStore(readWriteClient *postgres.ReadWriteClient) repositories.AccountStore {
	return repositories.NewPostgresAccountStore(readWriteClient.GetReadPool())
}

func newRelationshipStore(readWriteClient *postgres.ReadWriteClient) repositories.RelationshipStore {
	return repositories.NewPostgresRelationshipStore(readWriteClient.GetWritePool())
}

func newCachedRelationshipRepository(relationshipStore repositories.RelationshipStore, redisClient *redis.RedisClient) *repositories.CachedRelationshipRepository {
	return repositories.NewCachedRelationshipRepository(relationshipStore, redisClient)
}

func newRelationshipService(
	accountStore repositories.AccountStore,
	relationshipStore repositories.RelationshipStore,
	cachedRepository *repositories.CachedRelationshipRepository,
) *relationships.RelationshipService {
	return relationships.NewRelationshipService(accountStore, relationshipStore, cachedRepository)
}

func newRelationshipsConsumer(
	logger *slog.Logger,
	relationshipService *relationships.RelationshipService,
) *consumers.RelationshipsConsumer {
	return consumers.NewRelationshipsConsumer(logger, relationshipService)
}

func startConsumer(
	lc fx.Lifecycle,
	consumer *consumers.RelationshipsConsumer,
	kafkaClient *kafka.KafkaClient,
	readWriteClient *postgres.ReadWriteClient,
) {
	topic := env.MustGetString("KAFKA_RELATIONSHIPS_TOPIC")

	consumerCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := consumer.Start(consumerCtx, kafkaClient, topic); err != nil {
					log.Printf("Consumer stopped with error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			if err := kafkaClient.Close(); err != nil {
				log.Printf("Error closing kafka client: %v", err)
			}

			readWriteClient.Close()
			return nil
		},
	})
}
