package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
	"accountgraph/src/infra/kafka"
	"accountgraph/src/services/relationships"
)

// KafkaRelationshipMessage representa o schema da mensagem Kafka
type KafkaRelationshipMessage struct {
	OwnerAccountID   int64  `json:"owner_account_id"`
	TargetAccountID  int64  `json:"target_account_id"`
	RelationshipType string `json:"relationship_type"`
	IsParentOfTarget bool   `json:"is_parent_of_target"`
	ActorID          string `json:"actor_id"`
}

// RelationshipsConsumer faz a carga em lote de relacionamentos. Semântica de
// batch-add: aresta duplicada é no-op, referência circular é registrada e
// pulada - uma mensagem ruim não derruba o lote.
type RelationshipsConsumer struct {
	logger              *slog.Logger
	relationshipService *relationships.RelationshipService
}

func NewRelationshipsConsumer(
	logger *slog.Logger,
	relationshipService *relationships.RelationshipService,
) *RelationshipsConsumer {
	return &RelationshipsConsumer{
		logger:              logger,
		relationshipService: relationshipService,
	}
}

func (c *RelationshipsConsumer) Start(ctx context.Context, kafkaClient *kafka.KafkaClient, topic string) error {
	c.logger.Info("Starting relationships consumer", "topic", topic)

	handler := func(messages []kafka.Message) error {
		return c.handleMessages(ctx, messages)
	}

	return kafkaClient.Consumer(ctx, handler, topic)
}

func (c *RelationshipsConsumer) handleMessages(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	c.logger.Info("Processing messages batch", "count", len(messages))

	for _, msg := range messages {
		var kafkaMessage KafkaRelationshipMessage
		if err := json.Unmarshal(msg.Value, &kafkaMessage); err != nil {
			c.logger.Error("Failed to unmarshal message",
				"error", err,
				"key", msg.Key,
				"value", string(msg.Value))
			return fmt.Errorf("failed to unmarshal message with key %s: %w", msg.Key, err)
		}

		if kafkaMessage.OwnerAccountID == 0 || kafkaMessage.TargetAccountID == 0 {
			c.logger.Warn("Skipping message with missing account ids",
				"key", msg.Key,
				"ownerAccountId", kafkaMessage.OwnerAccountID,
				"targetAccountId", kafkaMessage.TargetAccountID)
			continue
		}

		request := domain.AddRelationshipRequest{
			OwnerAccountID:   kafkaMessage.OwnerAccountID,
			TargetAccountID:  kafkaMessage.TargetAccountID,
			Type:             entities.RelationshipType(kafkaMessage.RelationshipType),
			IsParentOfTarget: kafkaMessage.IsParentOfTarget,
			ActorID:          kafkaMessage.ActorID,
		}

		if _, err := c.relationshipService.AddRelationship(ctx, request); err != nil {
			switch {
			case errors.Is(err, domain.ErrDuplicateRelationship):
				// Par já existe: no-op para carga em lote.
				c.logger.Debug("Relationship already exists, skipping",
					"ownerAccountId", kafkaMessage.OwnerAccountID,
					"targetAccountId", kafkaMessage.TargetAccountID)

			case errors.Is(err, domain.ErrCircularReference):
				c.logger.Warn("Relationship rejected: would create circular reference",
					"ownerAccountId", kafkaMessage.OwnerAccountID,
					"targetAccountId", kafkaMessage.TargetAccountID,
					"error", err)

			case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrInvalidOperation):
				c.logger.Warn("Relationship rejected",
					"ownerAccountId", kafkaMessage.OwnerAccountID,
					"targetAccountId", kafkaMessage.TargetAccountID,
					"error", err)

			default:
				// Falha de infra: devolve o erro para o lote ser reprocessado.
				return fmt.Errorf("failed to add relationship from message with key %s: %w", msg.Key, err)
			}
		}
	}

	return nil
}
