package kafka

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

type KafkaClient struct {
	consumer  sarama.ConsumerGroup
	producer  sarama.SyncProducer
	brokers   []string
	batchSize int
}

type Message struct {
	Key      string
	Value    []byte
	internal *sarama.ConsumerMessage
}

type Handler func(messages []Message) error

func NewKafkaClient(brokers string, groupID string, batchSize int) (*KafkaClient, error) {
	brokerList := strings.Split(brokers, ",")

	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0

	// Consumer config - lotes grandes, as mutações do grafo são serializadas
	// de qualquer forma pelo lock de escrita do serviço
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Group.Session.Timeout = 30 * time.Second
	config.Consumer.Group.Heartbeat.Interval = 10 * time.Second
	config.Consumer.MaxProcessingTime = 60 * time.Second
	config.Consumer.Fetch.Default = 10 * 1024 * 1024
	config.Consumer.MaxWaitTime = 100 * time.Millisecond
	config.ChannelBufferSize = batchSize * 2

	// Producer config
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 50 * time.Millisecond
	config.Producer.MaxMessageBytes = 1024 * 1024

	consumer, err := sarama.NewConsumerGroup(brokerList, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokerList, config)
	if err != nil {
		consumer.Close()
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	log.Printf("Kafka client initialized with batch size: %d", batchSize)

	return &KafkaClient{
		consumer:  consumer,
		producer:  producer,
		brokers:   brokerList,
		batchSize: batchSize,
	}, nil
}

func (k *KafkaClient) Consumer(ctx context.Context, handler Handler, topic string) error {
	consumerHandler := &consumerGroupHandler{
		handler:   handler,
		batchSize: k.batchSize,
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer context cancelled")
			return nil
		default:
			if err := k.consumer.Consume(ctx, []string{topic}, consumerHandler); err != nil {
				log.Printf("Error consuming from topic %s: %v", topic, err)
				time.Sleep(5 * time.Second) // Retry delay
				continue
			}
		}
	}
}

func (k *KafkaClient) Producer(messages []Message, topic string) error {
	if len(messages) == 0 {
		return nil
	}

	kafkaMessages := make([]*sarama.ProducerMessage, 0, len(messages))
	for _, msg := range messages {
		kafkaMessages = append(kafkaMessages, &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(msg.Key),
			Value: sarama.ByteEncoder(msg.Value),
		})
	}

	if err := k.producer.SendMessages(kafkaMessages); err != nil {
		return fmt.Errorf("batch send to topic %s failed: %w", topic, err)
	}

	log.Printf("Batch sent successfully: %d messages to topic %s", len(messages), topic)
	return nil
}

func (k *KafkaClient) Close() error {
	var errs []error

	if err := k.consumer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close consumer: %w", err))
	}

	if err := k.producer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close producer: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing kafka client: %v", errs)
	}

	return nil
}

// consumerGroupHandler implementa sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	handler   Handler
	batchSize int
}

func (h *consumerGroupHandler) Setup(session sarama.ConsumerGroupSession) error {
	log.Printf("Kafka consumer group session setup - batch size: %d", h.batchSize)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Println("Kafka consumer group session cleanup")
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	batchTimeout := 2 * time.Second

	log.Printf("Starting consumer for partition %d (batch: %d, timeout: %v)",
		claim.Partition(), h.batchSize, batchTimeout)

	messages := make([]Message, 0, h.batchSize)
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				// Canal fechado, processa o restante
				if len(messages) > 0 {
					h.processBatch(session, messages)
				}
				return nil
			}

			messages = append(messages, Message{
				Key:      string(message.Key),
				Value:    message.Value,
				internal: message,
			})

			if len(messages) >= h.batchSize {
				h.processBatch(session, messages)
				messages = messages[:0]
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			if len(messages) > 0 {
				h.processBatch(session, messages)
				messages = messages[:0]
			}
			timer.Reset(batchTimeout)

		case <-session.Context().Done():
			if len(messages) > 0 {
				h.processBatch(session, messages)
			}
			return nil
		}
	}
}

func (h *consumerGroupHandler) processBatch(session sarama.ConsumerGroupSession, messages []Message) {
	if len(messages) == 0 {
		return
	}

	log.Printf("Processing batch of %d messages", len(messages))

	if err := h.handler(messages); err != nil {
		log.Printf("Handler error for batch: %v", err)
		// Não marca as mensagens - serão reprocessadas
		return
	}

	for _, msg := range messages {
		if msg.internal != nil {
			session.MarkMessage(msg.internal, "")
		}
	}
}
