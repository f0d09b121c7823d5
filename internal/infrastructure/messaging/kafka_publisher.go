// Package messaging publica los movimientos del carro en Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
)

// EventTypeMovement valor del header event-type.
const EventTypeMovement = "movement.registered"

const publishTimeout = 5 * time.Second

var _ inventory.MovementPublisher = (*KafkaPublisher)(nil)

// messageWriter subconjunto de *kafka.Writer usado por el publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe un mensaje por movimiento, con clave = ID del medicamento
// para conservar el orden por medicamento dentro de la partición.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher crea el writer hacia brokers/topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}}
}

// PublishMovement serializa el evento en JSON y lo escribe con un timeout de 5s.
func (p *KafkaPublisher) PublishMovement(ctx context.Context, event inventory.MovementEvent) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar movimiento %s: %w", event.MovementID, err)
	}
	return nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(event inventory.MovementEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: serializar movimiento: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.MedicationID),
		Value: value,
		Time:  event.RecordedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventTypeMovement)},
			{Key: "movement-type", Value: []byte(event.Type)},
		},
	}, nil
}
