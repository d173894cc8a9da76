package emitters

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// KafkaEmitter publishes notification events for the external
// notification system. The engine never formats or delivers user-facing
// messages itself.
type KafkaEmitter struct {
	writer *kafka.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewKafkaEmitter creates an emitter writing to a single topic
func NewKafkaEmitter(broker, topic string, logger *zap.Logger) *KafkaEmitter {
	return &KafkaEmitter{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// DepositCredited publishes a deposit.credited event
func (k *KafkaEmitter) DepositCredited(ctx context.Context, account *entities.Account, amount decimal.Decimal, currency entities.Currency) error {
	return k.emit(ctx, entities.EventDepositCredited, account, amount, currency)
}

// WithdrawalRequested publishes a withdrawal.requested event
func (k *KafkaEmitter) WithdrawalRequested(ctx context.Context, account *entities.Account, amount decimal.Decimal, currency entities.Currency) error {
	return k.emit(ctx, entities.EventWithdrawalRequested, account, amount, currency)
}

func (k *KafkaEmitter) emit(ctx context.Context, eventType entities.EventType, account *entities.Account, amount decimal.Decimal, currency entities.Currency) error {
	event := entities.NotificationEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		AccountID:  account.ID,
		TelegramID: account.TelegramID,
		Amount:     amount,
		Currency:   currency,
		OccurredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	err = k.writer.WriteMessages(ctx, kafka.Message{
		// Keyed by account so per-account events stay ordered
		Key:   []byte(fmt.Sprintf("account-%d", account.ID)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}

	k.logger.Debug("Notification event emitted",
		zap.String("event_id", event.ID),
		zap.String("type", string(eventType)),
		zap.Int64("account_id", account.ID))
	return nil
}

// Close flushes and closes the underlying writer
func (k *KafkaEmitter) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.writer != nil {
		err := k.writer.Close()
		k.writer = nil
		return err
	}
	return nil
}
