package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const eventType = "appointment.status_changed.v1"

// MessageWriter часть kafka.Writer, нужная публикатору
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig параметры публикации событий в Kafka
type KafkaConfig struct {
	Brokers  string // через запятую
	Topic    string
	ClientID string
}

// KafkaPublisher публикует события смены статуса в Kafka.
// Ключ сообщения - ID ресурса, поэтому события одного ресурса попадают в одну партицию по порядку.
type KafkaPublisher struct {
	writer MessageWriter
	logger Logger
}

// statusChangedMessage формат сообщения в топике
type statusChangedMessage struct {
	EventType     string    `json:"event_type"`
	ResourceID    string    `json:"resource_id"`
	AppointmentID string    `json:"appointment_id"`
	OldStatus     *string   `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewKafkaPublisher создает публикатор с асинхронным kafka.Writer
func NewKafkaPublisher(cfg KafkaConfig, logger Logger) (*KafkaPublisher, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka publisher: topic is required")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Transport:              &kafka.Transport{ClientID: cfg.ClientID},
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Kafka delivery failed: messages=%d, error=%v", len(messages), err)
			}
		},
	}

	return NewKafkaPublisherWithWriter(writer, logger), nil
}

// NewKafkaPublisherWithWriter создает публикатор поверх готового writer
func NewKafkaPublisherWithWriter(writer MessageWriter, logger Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Handle подписчик шины событий
func (p *KafkaPublisher) Handle(ctx context.Context, event domain.StatusChangedEvent) error {
	msg := statusChangedMessage{
		EventType:     eventType,
		ResourceID:    event.ResourceID.String(),
		AppointmentID: event.AppointmentID.String(),
		NewStatus:     string(event.NewStatus),
		OccurredAt:    event.OccurredAt,
	}
	if event.OldStatus != "" {
		old := string(event.OldStatus)
		msg.OldStatus = &old
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ResourceID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close сбрасывает буфер и закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
