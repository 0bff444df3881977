package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	httpserver "accountgraph/src/adapters/http"
	"accountgraph/src/helper/env"
	"accountgraph/src/infra/postgres"
	"accountgraph/src/infra/redis"
	"accountgraph/src/repositories"
	"accountgraph/src/services/relationships"

	"go.uber.org/fx"
)

func main() {
	// Configurar logger
	log.SetOutput(os.Stdout)
	log.Println("Starting API server with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newRedisClient,
			newAccountStore,
			newRelationshipStore,
			newCachedRelationshipRepository,
			newRelationshipService,
			newServer,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for app to exit gracefully
	<-app.Done()
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

func newAccountStore(readWriteClient *postgres.ReadWriteClient) repositories.AccountStore {
	return repositories.NewPostgresAccountStore(readWriteClient.GetReadPool())
}

// As mutações do grafo validam e escrevem no primário: o cycle check não
// pode rodar contra uma réplica atrasada.
func newRelationshipStore(readWriteClient *postgres.ReadWriteClient) repositories.RelationshipStore {
	return repositories.NewPostgresRelationshipStore(readWriteClient.GetWritePool())
}

func newCachedRelationshipRepository(relationshipStore repositories.RelationshipStore, redisClient *redis.RedisClient) *repositories.CachedRelationshipRepository {
	if !env.GetBool("CACHE_ENABLED", true) {
		return repositories.NewCachedRelationshipRepository(relationshipStore, nil)
	}

	return repositories.NewCachedRelationshipRepository(relationshipStore, redisClient)
}

func newRelationshipService(
	accountStore repositories.AccountStore,
	relationshipStore repositories.RelationshipStore,
	cachedRepository *repositories.CachedRelationshipRepository,
) *relationships.RelationshipService {
	return relationships.NewRelationshipService(accountStore, relationshipStore, cachedRepository)
}

func newServer(
	logger *slog.Logger,
	relationshipService *relationships.RelationshipService,
) *httpserver.Server {
	port := env.GetInt("SERVER_PORT", 8888)

	return httpserver.NewServer(logger, port, relationshipService)
}

// registerServerHooks registers lifecycle hooks for the HTTP server
func registerServerHooks(lc fx.Lifecycle, srv *httpserver.Server, readWriteClient *postgres.ReadWriteClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Start server in a separate goroutine
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Create timeout context for graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			log.Println("Shutting down server...")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
				return err
			}

			readWriteClient.Close()

			log.Println("Server exited gracefully")
			return nil
		},
	})
}
