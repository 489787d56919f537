package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/segmentio/kafka-go"
)

const (
	EventTicketCreated  = "ticket.created"
	EventTicketAssigned = "ticket.assigned"
	EventTicketClosed   = "ticket.closed"
)

// TicketEventProducer — интерфейс для отправки событий тикета в Kafka (для подмены моком в тестах).
type TicketEventProducer interface {
	ProduceTicketEvent(ctx context.Context, event string, t *model.Ticket)
}

// TicketEvent — тело сообщения в топике тикетов.
type TicketEvent struct {
	EventID    string             `json:"event_id"`
	Event      string             `json:"event"`
	OccurredAt time.Time          `json:"occurred_at"`
	TicketID   uint64             `json:"ticket_id"`
	TenantID   int64              `json:"tenant_id"`
	CustomerID string             `json:"customer_id"`
	OperatorID string             `json:"operator_id,omitempty"`
	Status     model.TicketStatus `json:"status"`
	Question   string             `json:"question_text"`
}

func NewTicketEvent(event string, t *model.Ticket) TicketEvent {
	return TicketEvent{
		EventID:    uuid.NewString(),
		Event:      event,
		OccurredAt: time.Now().UTC(),
		TicketID:   t.ID,
		TenantID:   t.TenantID,
		CustomerID: t.CustomerID,
		OperatorID: t.OperatorID,
		Status:     t.Status,
		Question:   t.QuestionText,
	}
}

// Producer пишет события тикетов в топик Kafka (best-effort, не блокирует маршрутизацию).
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *slog.Logger
}

// NewProducer создаёт продюсер. Если brokers или topic пустые, методы ничего не делают.
func NewProducer(brokers []string, topic string, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(brokers) == 0 || topic == "" {
		return &Producer{logger: logger}
	}
	return &Producer{
		topic:  topic,
		logger: logger,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Enabled reports whether events are actually written anywhere.
func (p *Producer) Enabled() bool {
	return p.writer != nil
}

// ProduceTicketEvent отправляет событие тикета в топик. Ключом сообщения служит id тикета,
// поэтому события одного тикета попадают в одну партицию по порядку.
func (p *Producer) ProduceTicketEvent(ctx context.Context, event string, t *model.Ticket) {
	if p.writer == nil {
		return
	}
	if err := p.Publish(ctx, NewTicketEvent(event, t)); err != nil {
		p.logger.Error("kafka: write ticket event", "event", event, "ticket_id", t.ID, "err", err)
	}
}

// Publish writes ev and returns the writer error, for callers that need it.
func (p *Producer) Publish(ctx context.Context, ev TicketEvent) error {
	if p.writer == nil {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(ev.TicketID, 10)),
		Value: body,
	})
}

// Close закрывает writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
